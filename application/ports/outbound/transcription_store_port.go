package outbound

import (
	"context"

	"github.com/maourynd/radio-summary/domain"
)

type TranscriptionStorePort interface {
	GetByFileID(ctx context.Context, fileID int64) (domain.Transcription, bool, error)
	// Upsert writes the record keyed by file id; at most one record
	// per file id ever exists.
	Upsert(ctx context.Context, record domain.Transcription) error
	// ListUnaggregated returns every record not yet linked to an
	// aggregation result, ordered by file id ascending.
	ListUnaggregated(ctx context.Context) ([]domain.Transcription, error)
	LinkToSummary(ctx context.Context, fileID int64, summaryID int64) error
}
