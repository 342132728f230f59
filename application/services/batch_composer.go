package services

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/maourynd/radio-summary/application/ports/inbound"
	"github.com/maourynd/radio-summary/application/ports/outbound"
	"github.com/maourynd/radio-summary/domain"
)

type batchComposer struct {
	logger outbound.LoggerPort
	store  outbound.ObjectStorePort
	state  outbound.StateStorePort
	now    func() time.Time
}

func NewBatchComposer(
	logger outbound.LoggerPort,
	store outbound.ObjectStorePort,
	state outbound.StateStorePort,
) inbound.BatchComposerPort {
	return &batchComposer{
		logger: logger,
		store:  store,
		state:  state,
		now:    time.Now,
	}
}

// Compose glues every staged segment into one clip, ordered ascending
// by the key embedded in each object name. The pending counter is
// reset only after the clip is published; staged objects are deleted
// on the success path, and a failed delete is logged rather than
// failing the batch, since the published clip already carries the
// audio forward.
func (b *batchComposer) Compose(ctx context.Context) (bool, error) {
	keys, err := b.store.List(ctx, domain.StagingPrefix)
	if err != nil {
		return false, err
	}

	staged := keys[:0]
	for _, key := range keys {
		if strings.HasSuffix(key, ".mp3") {
			staged = append(staged, key)
		}
	}
	if len(staged) == 0 {
		b.logger.Warn("No staged segments to glue")
		return false, nil
	}

	domain.SortByOrderingKey(staged)

	var glued bytes.Buffer
	for _, key := range staged {
		payload, err := b.store.Get(ctx, key)
		if err != nil {
			return false, err
		}
		glued.Write(payload)
	}

	clipKey := domain.GluedClipKey(b.now().Unix())
	if err := b.store.Upload(ctx, clipKey, glued.Bytes()); err != nil {
		return false, err
	}
	b.logger.InfoWithFields("Published glued clip", map[string]interface{}{
		"clipKey":  clipKey,
		"segments": len(staged),
	})

	if err := b.state.Set(ctx, domain.StateKeyPendingSegments, 0); err != nil {
		return true, err
	}

	if err := b.store.DeletePrefix(ctx, domain.StagingPrefix); err != nil {
		b.logger.Error(err, "Failed to clear staged segments after publish")
	}

	return true, nil
}
