package inbound

import (
	"context"

	"github.com/maourynd/radio-summary/domain"
)

// SummaryAggregatorPort folds every unaggregated transcription into
// one digest. Returns domain.ErrNothingToSummarize when there is no
// transcript text to work with.
type SummaryAggregatorPort interface {
	Aggregate(ctx context.Context) (*domain.Summary, error)
}
