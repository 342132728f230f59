package inbound

import (
	"context"

	"github.com/maourynd/radio-summary/domain"
)

// SegmentAdmitterPort decides which discovered segments are new,
// stages each one exactly once, and advances the capture watermark.
type SegmentAdmitterPort interface {
	Admit(ctx context.Context, refs []domain.SegmentRef) (domain.AdmissionStats, error)
}
