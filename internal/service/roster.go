package service

import (
	"context"
	"fmt"
	"time"

	"boxscore-tracker/internal/config"
	"boxscore-tracker/internal/domain"
	"boxscore-tracker/internal/ledger"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// RosterService loads the roster at startup and owns the two-team split.
type RosterService struct {
	ledger *ledger.Ledger
	cfg    *config.Config
	logger zerolog.Logger
}

func NewRosterService(l *ledger.Ledger, cfg *config.Config, logger zerolog.Logger) *RosterService {
	return &RosterService{ledger: l, cfg: cfg, logger: logger}
}

// Init loads the stored roster and seeds a default one when the store is
// empty. Seeding only ever runs against an empty store, and the check is
// against the store itself, not the in-memory mapping.
func (s *RosterService) Init(ctx context.Context) error {
	if err := s.ledger.Load(ctx); err != nil {
		return err
	}

	count, err := s.ledger.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	total := 2 * s.cfg.TeamSize
	s.logger.Info().Int("count", total).Msg("empty store, seeding default roster")

	players := make([]domain.PlayerStat, 0, total)
	now := time.Now()
	for i := 0; i < total; i++ {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate player id: %w", err)
		}
		players = append(players, domain.PlayerStat{
			ID:        id,
			Name:      fmt.Sprintf("Player %d", i+1),
			Position:  i,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return s.ledger.AddAll(ctx, players)
}

// Roster returns the positional two-team split of the full roster.
func (s *RosterService) Roster() domain.TeamSplit {
	return domain.Split(s.ledger.Roster())
}

func (s *RosterService) Player(ctx context.Context, id string) (domain.PlayerStat, error) {
	return s.ledger.Get(ctx, id)
}

// AddPlayer appends a late addition at the end of the roster. It takes
// the next open position, so the positional split absorbs it last.
func (s *RosterService) AddPlayer(ctx context.Context, name string) (domain.PlayerStat, error) {
	if name == "" {
		return domain.PlayerStat{}, fmt.Errorf("player name must not be empty")
	}

	id, err := gonanoid.New()
	if err != nil {
		return domain.PlayerStat{}, fmt.Errorf("failed to generate player id: %w", err)
	}

	now := time.Now()
	player := domain.PlayerStat{
		ID:        id,
		Name:      name,
		Position:  len(s.ledger.Roster()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.ledger.Add(ctx, player); err != nil {
		return domain.PlayerStat{}, err
	}

	s.logger.Info().Str("player_id", id).Str("name", name).Int("position", player.Position).Msg("player added to roster")
	return player, nil
}

func (s *RosterService) Rename(ctx context.Context, id, name string) (domain.PlayerStat, error) {
	if name == "" {
		return domain.PlayerStat{}, fmt.Errorf("player name must not be empty")
	}
	return s.ledger.Rename(ctx, id, name)
}
