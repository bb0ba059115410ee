package constants

import "time"

const (
	// DefaultSwipeThreshold is the minimum drag distance, in surface
	// points, before a swipe classifies as an event.
	DefaultSwipeThreshold = 30.0

	// DefaultTeamSize players per side; an empty store seeds two teams.
	DefaultTeamSize = 5

	// ConfirmationTTL is how long a "+1 Rebound" confirmation stays
	// visible before its clear timer fires.
	ConfirmationTTL = 1 * time.Second
)

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// Hub buffer sizes, drops beyond these rather than blocking the writer.
	HubBroadcastBuffer  = 256
	ClientSendBuffer    = 32
	ClientWriteDeadline = 10 * time.Second
)
