package adapters

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/maourynd/radio-summary/application/ports/outbound"
	"github.com/maourynd/radio-summary/domain"
)

type postgresSummaryStore struct {
	logger outbound.LoggerPort
	db     *sql.DB
}

func NewPostgresSummaryStore(logger outbound.LoggerPort, pg *PostgresDB) outbound.SummaryStorePort {
	return &postgresSummaryStore{
		logger: logger,
		db:     pg.DB(),
	}
}

func (s *postgresSummaryStore) Insert(ctx context.Context, summary domain.Summary) (int64, error) {
	ids, err := json.Marshal(summary.TranscriptionIDs)
	if err != nil {
		return 0, fmt.Errorf("encode transcription ids: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO aggregation_result (text, transcription_ids, created_at)
		 VALUES ($1, $2, $3) RETURNING id`,
		summary.Text, string(ids), summary.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert aggregation result: %w", err)
	}

	s.logger.InfoWithFields("Inserted aggregation result", map[string]interface{}{
		"summaryID": id,
	})
	return id, nil
}
