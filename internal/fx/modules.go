package fx

import (
	"boxscore-tracker/internal/config"
	"boxscore-tracker/internal/database"
	"boxscore-tracker/internal/hub"
	"boxscore-tracker/internal/ledger"
	"boxscore-tracker/internal/logger"
	"boxscore-tracker/internal/repository"
	"boxscore-tracker/internal/server"
	"boxscore-tracker/internal/service"
	"boxscore-tracker/internal/session"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideSessionManager(cfg *config.Config, log zerolog.Logger) *session.Manager {
	return session.NewManager(cfg.ConfirmationTTL, log)
}

var Module = fx.Options(
	fx.Provide(config.Load),
	// leveled off cfg.LogLevel
	fx.Provide(logger.New),
	fx.Provide(database.New),
	// storage
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(ledger.NewLedger),
	// gesture session state
	fx.Provide(ProvideSessionManager),
	// live updates
	fx.Provide(hub.NewHub),
	// svc
	fx.Provide(service.NewRosterService),
	fx.Provide(service.NewStatService),
	// server
	fx.Provide(server.NewTrackerServer),
)
