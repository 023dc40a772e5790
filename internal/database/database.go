package database

import (
	"database/sql"
	"embed"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"sc2-rankings/internal/config"
	"sc2-rankings/internal/constants"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// New opens the seed-rating database. Seeds survive between runs so a
// Pass-3 recalculation can reuse a previously computed seed map.
func New(cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	logger.Info().Str("path", cfg.SeedDBPath).Msg("opening seed database")

	db, err := sql.Open("sqlite3", cfg.SeedDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed database: %w", err)
	}

	pragmas := []struct {
		name  string
		value string
	}{
		{"journal_mode", "WAL"},
		{"synchronous", "NORMAL"},
		{"busy_timeout", strconv.Itoa(constants.DBBusyTimeout)},
		{"foreign_keys", "ON"},
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", pragma.name, pragma.value)); err != nil {
			logger.Warn().Err(err).Str("pragma", pragma.name).Msg("failed to set pragma")
			return nil, fmt.Errorf("failed to set PRAGMA %s: %w", pragma.name, err)
		}
	}

	if err := runMigrations(db, logger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB, logger zerolog.Logger) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	logger.Debug().Msg("seed database migrations completed")
	return nil
}
