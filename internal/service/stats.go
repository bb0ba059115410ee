package service

import (
	"context"
	"time"

	"boxscore-tracker/internal/config"
	"boxscore-tracker/internal/constants"
	"boxscore-tracker/internal/domain"
	"boxscore-tracker/internal/gesture"
	"boxscore-tracker/internal/hub"
	"boxscore-tracker/internal/ledger"
	"boxscore-tracker/internal/session"

	"github.com/rs/zerolog"
)

// GestureResult is what a drag or tap produces: the (possibly absent)
// classified event, the player's post-apply record, and the live
// confirmation text if an event landed.
type GestureResult struct {
	Event        *domain.StatEvent
	Player       domain.PlayerStat
	Confirmation string
}

// StatService runs the gesture pipeline: selection session handling,
// classification, ledger apply, confirmation, broadcast.
type StatService struct {
	ledger   *ledger.Ledger
	sessions *session.Manager
	hub      *hub.Hub
	cfg      *config.Config
	logger   zerolog.Logger
}

func NewStatService(l *ledger.Ledger, sessions *session.Manager, h *hub.Hub, cfg *config.Config, logger zerolog.Logger) *StatService {
	return &StatService{ledger: l, sessions: sessions, hub: h, cfg: cfg, logger: logger}
}

// Select starts a fresh gesture session for the player.
func (s *StatService) Select(ctx context.Context, id string) error {
	if _, err := s.ledger.Get(ctx, id); err != nil {
		return err
	}
	s.sessions.Select(id)
	return nil
}

// Deselect closes the active gesture session.
func (s *StatService) Deselect() {
	s.sessions.Deselect()
}

// Selected reports the active selection and any live confirmations.
func (s *StatService) Selected() (string, bool) {
	return s.sessions.Selected()
}

func (s *StatService) Confirmations() map[string]string {
	return s.sessions.Confirmations()
}

// RecordDrag classifies a completed drag for the player and applies the
// resulting event, if any. Gesturing on a non-selected player is an
// implicit selection change.
func (s *StatService) RecordDrag(ctx context.Context, id string, sample domain.DragSample) (GestureResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	player, err := s.ledger.Get(ctx, id)
	if err != nil {
		return GestureResult{}, err
	}
	s.sessions.EnsureSelected(id)

	event, classified := gesture.ClassifyDrag(sample.DX, sample.DY, s.cfg.SwipeThreshold)
	if !classified {
		s.logger.Debug().
			Str("player_id", id).
			Float64("dx", sample.DX).
			Float64("dy", sample.DY).
			Msg("drag below threshold, no event")
		return GestureResult{Player: player}, nil
	}

	return s.applyEvent(ctx, id, event)
}

// RecordTap classifies single and double taps against the session's
// one-step memory and applies the resulting event, if any.
func (s *StatService) RecordTap(ctx context.Context, id string, tapCount int) (GestureResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	player, err := s.ledger.Get(ctx, id)
	if err != nil {
		return GestureResult{}, err
	}
	s.sessions.EnsureSelected(id)

	lastEvent, hasLast := s.sessions.LastEvent(id)
	event, classified := gesture.ClassifyTap(tapCount, lastEvent, hasLast)
	if !classified {
		s.logger.Debug().
			Str("player_id", id).
			Int("tap_count", tapCount).
			Bool("has_last", hasLast).
			Msg("tap yields no event")
		return GestureResult{Player: player}, nil
	}

	return s.applyEvent(ctx, id, event)
}

func (s *StatService) applyEvent(ctx context.Context, id string, event domain.StatEvent) (GestureResult, error) {
	updated, err := s.ledger.Apply(ctx, id, event)
	if err != nil {
		return GestureResult{}, err
	}

	s.sessions.RememberEvent(id, event)
	confirmation := s.sessions.Confirm(id, event)

	s.hub.Broadcast(domain.StatUpdate{
		PlayerID: id,
		Event:    event,
		Player:   updated,
		At:       time.Now(),
	})

	return GestureResult{
		Event:        &event,
		Player:       updated,
		Confirmation: confirmation,
	}, nil
}
