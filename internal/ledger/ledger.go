// Package ledger owns the per-player counters. All mutation of a
// PlayerStat goes through Apply or Rename; callers only ever see copies.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"boxscore-tracker/internal/constants"
	"boxscore-tracker/internal/domain"
	"boxscore-tracker/internal/repository"

	"github.com/rs/zerolog"
)

var (
	ErrPlayerNotFound = errors.New("player not found in ledger")
	ErrUnknownEvent   = errors.New("unknown stat event")
)

type Ledger struct {
	repo   *repository.PlayerRepository
	logger zerolog.Logger

	mu      sync.RWMutex // guards players and order
	players map[string]domain.PlayerStat
	order   []string
}

func NewLedger(repo *repository.PlayerRepository, logger zerolog.Logger) *Ledger {
	return &Ledger{
		repo:    repo,
		logger:  logger,
		players: make(map[string]domain.PlayerStat),
	}
}

// Load replaces the in-memory mapping with the stored roster.
func (l *Ledger) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	players, err := l.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.players = make(map[string]domain.PlayerStat, len(players))
	l.order = make([]string, 0, len(players))
	for _, p := range players {
		l.players[p.ID] = p
		l.order = append(l.order, p.ID)
	}

	l.logger.Info().Int("count", len(players)).Msg("roster loaded into ledger")
	return nil
}

// Count reports how many players the store holds. Seeding decides off
// the store, not the in-memory mapping.
func (l *Ledger) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	count, err := l.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

// Add inserts one new player into the store and at the tail of the
// order.
func (l *Ledger) Add(ctx context.Context, player domain.PlayerStat) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := l.repo.Insert(ctx, &player); err != nil {
		return fmt.Errorf("failed to add player: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.players[player.ID] = player
	l.order = append(l.order, player.ID)
	return nil
}

// AddAll inserts new players into the store and the mapping, in order.
// Used once, at roster seed time.
func (l *Ledger) AddAll(ctx context.Context, players []domain.PlayerStat) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := l.repo.InsertBatch(ctx, players); err != nil {
		return fmt.Errorf("failed to seed roster: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range players {
		l.players[p.ID] = p
		l.order = append(l.order, p.ID)
	}
	return nil
}

// Roster returns an ordered snapshot of every player.
func (l *Ledger) Roster() []domain.PlayerStat {
	l.mu.RLock()
	defer l.mu.RUnlock()

	players := make([]domain.PlayerStat, 0, len(l.order))
	for _, id := range l.order {
		players = append(players, l.players[id])
	}
	return players
}

// Get returns the player's current record. An id the mapping has not
// seen falls back to the store; a row found there joins the order at
// the tail until the next Load.
func (l *Ledger) Get(ctx context.Context, id string) (domain.PlayerStat, error) {
	l.mu.RLock()
	p, ok := l.players[id]
	l.mu.RUnlock()
	if ok {
		return p, nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	stored, err := l.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return domain.PlayerStat{}, ErrPlayerNotFound
	}
	if err != nil {
		return domain.PlayerStat{}, fmt.Errorf("failed to look up player: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.players[stored.ID]; !ok {
		l.players[stored.ID] = *stored
		l.order = append(l.order, stored.ID)
	}
	return l.players[stored.ID], nil
}

// Apply increments the counters the event names on the player the id
// names, persists the record, and returns the updated copy. Exactly one
// counter (or the made+points pair) moves, and only upward.
func (l *Ledger) Apply(ctx context.Context, id string, event domain.StatEvent) (domain.PlayerStat, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	l.mu.Lock()
	defer l.mu.Unlock()

	player, ok := l.players[id]
	if !ok {
		return domain.PlayerStat{}, ErrPlayerNotFound
	}

	if err := increment(&player, event); err != nil {
		return domain.PlayerStat{}, err
	}
	player.UpdatedAt = time.Now()

	if err := l.repo.UpdateStats(ctx, &player); err != nil {
		l.logger.Error().Err(err).Str("player_id", id).Str("event", string(event)).Msg("failed to persist stat update")
		return domain.PlayerStat{}, fmt.Errorf("failed to persist stat update: %w", err)
	}

	l.players[id] = player

	l.logger.Info().
		Str("player_id", id).
		Str("event", string(event)).
		Int("points", player.Points).
		Msg("stat event applied")

	return player, nil
}

// Rename changes the display name; counters are untouched.
func (l *Ledger) Rename(ctx context.Context, id, name string) (domain.PlayerStat, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	l.mu.Lock()
	defer l.mu.Unlock()

	player, ok := l.players[id]
	if !ok {
		return domain.PlayerStat{}, ErrPlayerNotFound
	}

	if err := l.repo.UpdateName(ctx, id, name); err != nil {
		return domain.PlayerStat{}, fmt.Errorf("failed to rename player: %w", err)
	}

	player.Name = name
	player.UpdatedAt = time.Now()
	l.players[id] = player
	return player, nil
}

func increment(p *domain.PlayerStat, event domain.StatEvent) error {
	switch event {
	case domain.EventRebound:
		p.Rebounds++
	case domain.EventShotAttempt:
		p.ShotsAttempted++
	case domain.EventShotMade:
		p.ShotsMade++
		p.Points += domain.PointsPerMade
	case domain.EventSteal:
		p.Steals++
	case domain.EventTurnover:
		p.Turnovers++
	case domain.EventAssist:
		p.Assists++
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	return nil
}
