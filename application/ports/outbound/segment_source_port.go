package outbound

import (
	"context"

	"github.com/maourynd/radio-summary/domain"
)

// SegmentSourcePort is the boundary to the live feed. Discover returns
// refs in discovery order, which is not guaranteed to be
// chronological; ordering keys are parsed before refs cross this
// boundary.
type SegmentSourcePort interface {
	Discover(ctx context.Context) ([]domain.SegmentRef, error)
	Fetch(ctx context.Context, ref domain.SegmentRef) ([]byte, error)
}
