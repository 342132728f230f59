package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maourynd/radio-summary/application/ports/outbound"
)

type postgresStateStore struct {
	logger outbound.LoggerPort
	db     *sql.DB
}

// NewPostgresStateStore returns the watermark/counter store. Every
// operation is one SQL statement, so each mutation commits or fails as
// a unit.
func NewPostgresStateStore(logger outbound.LoggerPort, pg *PostgresDB) outbound.StateStorePort {
	return &postgresStateStore{
		logger: logger,
		db:     pg.DB(),
	}
}

func (s *postgresStateStore) Get(ctx context.Context, key string) (int64, bool, error) {
	var value int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM pipeline_state WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get state %s: %w", key, err)
	}
	return value, true, nil
}

func (s *postgresStateStore) Set(ctx context.Context, key string, value int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pipeline_state (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("set state %s: %w", key, err)
	}
	return nil
}

func (s *postgresStateStore) Raise(ctx context.Context, key string, value int64) (int64, error) {
	var held int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO pipeline_state (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE
		 SET value = GREATEST(pipeline_state.value, EXCLUDED.value)
		 RETURNING value`,
		key, value).Scan(&held)
	if err != nil {
		return 0, fmt.Errorf("raise state %s: %w", key, err)
	}
	return held, nil
}

func (s *postgresStateStore) Increment(ctx context.Context, key string) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO pipeline_state (key, value) VALUES ($1, 1)
		 ON CONFLICT (key) DO UPDATE SET value = pipeline_state.value + 1
		 RETURNING value`,
		key).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("increment state %s: %w", key, err)
	}
	return value, nil
}
