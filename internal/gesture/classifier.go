// Package gesture maps completed touch gestures to stat events. The
// classifiers are pure: they never touch the ledger, and input that
// falls below threshold yields no event rather than an error.
package gesture

import (
	"math"

	"boxscore-tracker/internal/domain"
)

// ClassifyDrag resolves a completed drag into a stat event. Horizontal
// is checked before vertical so that a diagonal swipe with |dx| >= |dy|
// deterministically resolves to the horizontal event; this ordering must
// not be reshuffled.
//
// Right swipe is a shot attempt, left a rebound, up a steal, down a
// turnover (positive dy points down in surface coordinates).
func ClassifyDrag(dx, dy, threshold float64) (domain.StatEvent, bool) {
	switch {
	case dx > threshold && math.Abs(dx) >= math.Abs(dy):
		return domain.EventShotAttempt, true
	case dx < -threshold && math.Abs(dx) >= math.Abs(dy):
		return domain.EventRebound, true
	case dy < -threshold:
		return domain.EventSteal, true
	case dy > threshold:
		return domain.EventTurnover, true
	}
	return "", false
}

// ClassifyTap resolves taps against the one-step memory of the
// immediately preceding classified event. A single tap records a made
// shot only right after an attempt; a bare single tap is silently no
// event. A double tap is an assist regardless of preceding state.
func ClassifyTap(tapCount int, lastEvent domain.StatEvent, hasLast bool) (domain.StatEvent, bool) {
	switch {
	case tapCount == 2:
		return domain.EventAssist, true
	case tapCount == 1 && hasLast && lastEvent == domain.EventShotAttempt:
		return domain.EventShotMade, true
	}
	return "", false
}
