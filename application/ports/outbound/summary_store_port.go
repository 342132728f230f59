package outbound

import (
	"context"

	"github.com/maourynd/radio-summary/domain"
)

type SummaryStorePort interface {
	// Insert persists a new aggregation result and returns its
	// assigned id.
	Insert(ctx context.Context, summary domain.Summary) (int64, error)
}
