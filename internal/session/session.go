// Package session scopes the transient gesture-input state to one
// selected player at a time. The one-step event memory used by the
// tap-after-attempt rule lives on the session and dies with it, so it
// can never leak across a player switch.
package session

import (
	"fmt"
	"sync"
	"time"

	"boxscore-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// Session is one player-selection's gesture input state.
type Session struct {
	PlayerID  string
	lastEvent domain.StatEvent
	hasLast   bool
	StartedAt time.Time
}

// Manager tracks the single active session plus the short-lived
// confirmation messages. Confirmation clears are keyed by the player id
// captured at scheduling time, so a later selection change cannot
// redirect a pending clear.
type Manager struct {
	ttl    time.Duration
	logger zerolog.Logger

	mu            sync.Mutex
	current       *Session
	confirmations map[string]string
	timers        map[string]*time.Timer
}

func NewManager(ttl time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		ttl:           ttl,
		logger:        logger,
		confirmations: make(map[string]string),
		timers:        make(map[string]*time.Timer),
	}
}

// Select starts a fresh session for the player, discarding any previous
// session and its event memory.
func (m *Manager) Select(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectLocked(playerID)
}

func (m *Manager) selectLocked(playerID string) {
	m.current = &Session{PlayerID: playerID, StartedAt: time.Now()}
	m.logger.Debug().Str("player_id", playerID).Msg("player selected, session reset")
}

// EnsureSelected makes the player the active selection, starting a fresh
// session if the selection changed or nothing was selected. A gesture on
// a different row is an implicit selection change.
func (m *Manager) EnsureSelected(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.PlayerID != playerID {
		m.selectLocked(playerID)
	}
}

// Deselect ends the active session.
func (m *Manager) Deselect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}

// Selected reports the active selection.
func (m *Manager) Selected() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return "", false
	}
	return m.current.PlayerID, true
}

// LastEvent returns the one-step memory, valid only while the player is
// still the active selection.
func (m *Manager) LastEvent(playerID string) (domain.StatEvent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.PlayerID != playerID || !m.current.hasLast {
		return "", false
	}
	return m.current.lastEvent, true
}

// RememberEvent records the event just classified for the player as the
// session's one-step memory. A no-op if the selection has moved on.
func (m *Manager) RememberEvent(playerID string, event domain.StatEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil || m.current.PlayerID != playerID {
		return
	}
	m.current.lastEvent = event
	m.current.hasLast = true
}

// Confirm posts the confirmation message for an applied event and
// schedules its clear. The timer closes over the player id by value;
// re-confirming the same player resets the pending timer.
func (m *Manager) Confirm(playerID string, event domain.StatEvent) string {
	message := fmt.Sprintf("+1 %s", event.Label())

	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.timers[playerID]; ok {
		t.Stop()
	}
	m.confirmations[playerID] = message

	id := playerID
	m.timers[id] = time.AfterFunc(m.ttl, func() {
		m.clearConfirmation(id)
	})

	return message
}

func (m *Manager) clearConfirmation(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.confirmations, playerID)
	delete(m.timers, playerID)
	m.logger.Debug().Str("player_id", playerID).Msg("confirmation cleared")
}

// Confirmation returns the live confirmation for a player, if any.
func (m *Manager) Confirmation(playerID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	message, ok := m.confirmations[playerID]
	return message, ok
}

// Confirmations snapshots every live confirmation keyed by player id.
func (m *Manager) Confirmations() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.confirmations))
	for id, message := range m.confirmations {
		out[id] = message
	}
	return out
}

// Stop cancels every pending clear timer.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
}
