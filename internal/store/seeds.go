// Package store persists seed-rating maps between ranking runs. The engine
// treats the seed map as opaque; this is the only derived state that
// survives a full recalculation.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sc2-rankings/internal/constants"
)

type SeedStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSeedStore(db *sql.DB, logger zerolog.Logger) *SeedStore {
	return &SeedStore{db: db, logger: logger}
}

// Save replaces the stored seed map for one driver kind.
func (s *SeedStore) Save(ctx context.Context, driver string, seeds map[string]float64) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM seed_ratings WHERE driver = ?`, driver); err != nil {
		return fmt.Errorf("failed to clear old seeds: %w", err)
	}

	now := time.Now()
	for key, points := range seeds {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO seed_ratings (driver, entity_key, points, created_at) VALUES (?, ?, ?, ?)`,
			driver, key, points, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert seed for %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seeds: %w", err)
	}

	s.logger.Info().Str("driver", driver).Int("entities", len(seeds)).Msg("seed ratings saved")
	return nil
}

// Load returns the stored seed map for one driver kind. An empty map means
// no seeds have been computed yet.
func (s *SeedStore) Load(ctx context.Context, driver string) (map[string]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT entity_key, points FROM seed_ratings WHERE driver = ?`, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to query seeds: %w", err)
	}
	defer rows.Close()

	seeds := make(map[string]float64)
	for rows.Next() {
		var key string
		var points float64
		if err := rows.Scan(&key, &points); err != nil {
			return nil, fmt.Errorf("failed to scan seed row: %w", err)
		}
		seeds[key] = points
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seeds: %w", err)
	}
	return seeds, nil
}
