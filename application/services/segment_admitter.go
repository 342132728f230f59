package services

import (
	"context"

	"github.com/maourynd/radio-summary/application/ports/inbound"
	"github.com/maourynd/radio-summary/application/ports/outbound"
	"github.com/maourynd/radio-summary/domain"
)

type segmentAdmitter struct {
	logger outbound.LoggerPort
	source outbound.SegmentSourcePort
	store  outbound.ObjectStorePort
	state  outbound.StateStorePort
}

func NewSegmentAdmitter(
	logger outbound.LoggerPort,
	source outbound.SegmentSourcePort,
	store outbound.ObjectStorePort,
	state outbound.StateStorePort,
) inbound.SegmentAdmitterPort {
	return &segmentAdmitter{
		logger: logger,
		source: source,
		store:  store,
		state:  state,
	}
}

// Admit walks the discovered refs in order, skipping anything at or
// below the capture watermark read once at the start of the pass.
// Discovery order is not chronological, so a ref below the running
// maximum can still be new; the watermark only ever moves up, via
// Raise, after the segment's upload is confirmed.
func (a *segmentAdmitter) Admit(ctx context.Context, refs []domain.SegmentRef) (domain.AdmissionStats, error) {
	var stats domain.AdmissionStats

	lastCaptured, _, err := a.state.Get(ctx, domain.StateKeyLastCaptured)
	if err != nil {
		return stats, err
	}

	for _, ref := range refs {
		if ref.Key <= lastCaptured {
			stats.Skipped++
			a.logger.DebugWithFields("Segment already captured, skipping", map[string]interface{}{
				"key": ref.Key,
				"url": ref.URL,
			})
			continue
		}

		payload, err := a.source.Fetch(ctx, ref)
		if err != nil {
			stats.Failed++
			a.logger.ErrorWithFields(err, "Failed to fetch segment audio", map[string]interface{}{
				"key": ref.Key,
				"url": ref.URL,
			})
			continue
		}

		stagedKey := domain.StagedSegmentKey(ref.Key, ref.FeedID)
		if err := a.store.Upload(ctx, stagedKey, payload); err != nil {
			stats.Failed++
			a.logger.ErrorWithFields(err, "Failed to stage segment", map[string]interface{}{
				"key":       ref.Key,
				"stagedKey": stagedKey,
			})
			continue
		}

		pending, err := a.state.Increment(ctx, domain.StateKeyPendingSegments)
		if err != nil {
			return stats, err
		}
		if _, err := a.state.Raise(ctx, domain.StateKeyLastCaptured, ref.Key); err != nil {
			return stats, err
		}

		stats.Admitted++
		a.logger.InfoWithFields("Admitted segment", map[string]interface{}{
			"key":     ref.Key,
			"pending": pending,
		})
	}

	return stats, nil
}
