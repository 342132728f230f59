package adapters

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/maourynd/radio-summary/config"
)

// PostgresDB wraps the shared sql.DB handle used by the pipeline's
// record stores.
type PostgresDB struct {
	db  *sql.DB
	cfg *config.DbConfig
}

func NewPostgresDB(cfg *config.DbConfig) *PostgresDB {
	return &PostgresDB{cfg: cfg}
}

func (p *PostgresDB) Connect(ctx context.Context) error {
	db, err := sql.Open("pgx", p.cfg.DSN)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(p.cfg.MaxOpenConns)
	db.SetMaxIdleConns(p.cfg.MaxIdleConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}

	p.db = db
	return nil
}

func (p *PostgresDB) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

func (p *PostgresDB) DB() *sql.DB {
	return p.db
}

// EnsureSchema creates the pipeline tables when they do not exist, so
// a fresh database is safe to run against.
func (p *PostgresDB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pipeline_state (
			key   TEXT PRIMARY KEY,
			value BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS aggregation_result (
			id                BIGSERIAL PRIMARY KEY,
			text              TEXT NOT NULL,
			transcription_ids TEXT NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transcription (
			file_id        BIGINT PRIMARY KEY,
			data           JSONB NOT NULL,
			transcript     TEXT NOT NULL,
			aggregated     BOOLEAN NOT NULL,
			audio_ref      TEXT NOT NULL,
			job_ref        TEXT NOT NULL,
			aggregation_id BIGINT REFERENCES aggregation_result (id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transcription_aggregation
			ON transcription (aggregation_id)`,
	}

	for _, statement := range statements {
		if _, err := p.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
