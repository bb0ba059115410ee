package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"boxscore-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// ErrPlayerNotFound is returned for lookups and updates addressing an id
// that is not in the store.
var ErrPlayerNotFound = sql.ErrNoRows

const playerColumns = `id, name, position, points, rebounds, assists, steals, turnovers, shots_made, shots_attempted, created_at, updated_at`

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *PlayerRepository) GetByID(ctx context.Context, id string) (*domain.PlayerStat, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ?`, id)

	player, err := scanPlayer(row)
	if err != nil {
		return nil, err
	}
	return player, nil
}

// List returns the full roster in seed order. The two-team split is
// positional, so the ordering here is load-bearing.
func (r *PlayerRepository) List(ctx context.Context) ([]domain.PlayerStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []domain.PlayerStat
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *player)
	}
	return players, rows.Err()
}

func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

func (r *PlayerRepository) Insert(ctx context.Context, player *domain.PlayerStat) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO players (`+playerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		player.ID,
		player.Name,
		player.Position,
		player.Points,
		player.Rebounds,
		player.Assists,
		player.Steals,
		player.Turnovers,
		player.ShotsMade,
		player.ShotsAttempted,
		player.CreatedAt,
		player.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("player_id", player.ID).Msg("failed to insert player")
		return fmt.Errorf("failed to insert player %s: %w", player.ID, err)
	}
	return nil
}

// InsertBatch seeds the default roster in one transaction.
func (r *PlayerRepository) InsertBatch(ctx context.Context, players []domain.PlayerStat) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO players (`+playerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, player := range players {
		if _, err := stmt.ExecContext(ctx,
			player.ID,
			player.Name,
			player.Position,
			player.Points,
			player.Rebounds,
			player.Assists,
			player.Steals,
			player.Turnovers,
			player.ShotsMade,
			player.ShotsAttempted,
			player.CreatedAt,
			player.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert player %s: %w", player.ID, err)
		}
	}

	return tx.Commit()
}

// UpdateStats writes a player's counters back by id. The WHERE clause
// is always identity, never position.
func (r *PlayerRepository) UpdateStats(ctx context.Context, player *domain.PlayerStat) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE players SET
			points = ?, rebounds = ?, assists = ?, steals = ?, turnovers = ?,
			shots_made = ?, shots_attempted = ?, updated_at = ?
		WHERE id = ?`,
		player.Points,
		player.Rebounds,
		player.Assists,
		player.Steals,
		player.Turnovers,
		player.ShotsMade,
		player.ShotsAttempted,
		player.UpdatedAt,
		player.ID,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("player_id", player.ID).Msg("failed to update player stats")
		return fmt.Errorf("failed to update player %s: %w", player.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (r *PlayerRepository) UpdateName(ctx context.Context, id, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE players SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now(), id)
	if err != nil {
		r.logger.Error().Err(err).Str("player_id", id).Msg("failed to rename player")
		return fmt.Errorf("failed to rename player %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*domain.PlayerStat, error) {
	var p domain.PlayerStat
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Position,
		&p.Points,
		&p.Rebounds,
		&p.Assists,
		&p.Steals,
		&p.Turnovers,
		&p.ShotsMade,
		&p.ShotsAttempted,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
