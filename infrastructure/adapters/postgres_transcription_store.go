package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maourynd/radio-summary/application/ports/outbound"
	"github.com/maourynd/radio-summary/domain"
)

type postgresTranscriptionStore struct {
	logger outbound.LoggerPort
	db     *sql.DB
}

func NewPostgresTranscriptionStore(logger outbound.LoggerPort, pg *PostgresDB) outbound.TranscriptionStorePort {
	return &postgresTranscriptionStore{
		logger: logger,
		db:     pg.DB(),
	}
}

func (s *postgresTranscriptionStore) GetByFileID(ctx context.Context, fileID int64) (domain.Transcription, bool, error) {
	var record domain.Transcription
	var aggregationID sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		`SELECT file_id, data, transcript, aggregated, audio_ref, job_ref, aggregation_id
		 FROM transcription WHERE file_id = $1`, fileID).
		Scan(&record.FileID, &record.Data, &record.Transcript, &record.Aggregated,
			&record.AudioRef, &record.JobRef, &aggregationID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Transcription{}, false, nil
	}
	if err != nil {
		return domain.Transcription{}, false, fmt.Errorf("get transcription %d: %w", fileID, err)
	}

	if aggregationID.Valid {
		record.AggregationID = &aggregationID.Int64
	}
	return record, true, nil
}

func (s *postgresTranscriptionStore) Upsert(ctx context.Context, record domain.Transcription) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transcription (file_id, data, transcript, aggregated, audio_ref, job_ref)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (file_id) DO UPDATE SET
			data = EXCLUDED.data,
			transcript = EXCLUDED.transcript,
			aggregated = EXCLUDED.aggregated,
			audio_ref = EXCLUDED.audio_ref,
			job_ref = EXCLUDED.job_ref`,
		record.FileID, record.Data, record.Transcript, record.Aggregated,
		record.AudioRef, record.JobRef)
	if err != nil {
		return fmt.Errorf("upsert transcription %d: %w", record.FileID, err)
	}
	return nil
}

// ListUnaggregated orders by file id ascending, which is chronological
// order since file ids are timestamp-derived.
func (s *postgresTranscriptionStore) ListUnaggregated(ctx context.Context) ([]domain.Transcription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file_id, data, transcript, aggregated, audio_ref, job_ref
		 FROM transcription WHERE aggregation_id IS NULL
		 ORDER BY file_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list unaggregated transcriptions: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error(err, "Failed to close transcription rows")
		}
	}()

	var records []domain.Transcription
	for rows.Next() {
		var record domain.Transcription
		if err := rows.Scan(&record.FileID, &record.Data, &record.Transcript,
			&record.Aggregated, &record.AudioRef, &record.JobRef); err != nil {
			return nil, fmt.Errorf("scan transcription row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcription rows: %w", err)
	}
	return records, nil
}

func (s *postgresTranscriptionStore) LinkToSummary(ctx context.Context, fileID int64, summaryID int64) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE transcription SET aggregation_id = $2 WHERE file_id = $1`,
		fileID, summaryID)
	if err != nil {
		return fmt.Errorf("link transcription %d to summary %d: %w", fileID, summaryID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("transcription %d not found", fileID)
	}
	return nil
}
