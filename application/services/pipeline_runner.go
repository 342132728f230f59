package services

import (
	"context"
	"sync"

	"github.com/maourynd/radio-summary/application/ports/inbound"
	"github.com/maourynd/radio-summary/application/ports/outbound"
	"github.com/maourynd/radio-summary/config"
	"github.com/maourynd/radio-summary/domain"
)

type pipelineRunner struct {
	logger      outbound.LoggerPort
	source      outbound.SegmentSourcePort
	state       outbound.StateStorePort
	admitter    inbound.SegmentAdmitterPort
	composer    inbound.BatchComposerPort
	transcriber inbound.TranscriptionPipelinePort
	threshold   int64

	// Passes never overlap: the scheduler and the manual trigger share
	// this lock.
	mu sync.Mutex
}

func NewPipelineRunner(
	logger outbound.LoggerPort,
	source outbound.SegmentSourcePort,
	state outbound.StateStorePort,
	admitter inbound.SegmentAdmitterPort,
	composer inbound.BatchComposerPort,
	transcriber inbound.TranscriptionPipelinePort,
	pipelineConfig *config.PipelineConfig,
) inbound.PipelineRunnerPort {
	return &pipelineRunner{
		logger:      logger,
		source:      source,
		state:       state,
		admitter:    admitter,
		composer:    composer,
		transcriber: transcriber,
		threshold:   pipelineConfig.BatchThreshold,
	}
}

// RunPass executes one pipeline pass: discover and admit new segments,
// glue a batch once the pending counter crosses the threshold, then
// sweep clips through transcription. A discovery failure degrades the
// pass to glue-and-transcribe only; the next pass rediscovers.
func (r *pipelineRunner) RunPass(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	refs, err := r.source.Discover(ctx)
	if err != nil {
		r.logger.Error(err, "Segment discovery failed, continuing pass without new segments")
		refs = nil
	}

	stats, err := r.admitter.Admit(ctx, refs)
	if err != nil {
		return err
	}
	r.logger.InfoWithFields("Admission finished", map[string]interface{}{
		"admitted": stats.Admitted,
		"skipped":  stats.Skipped,
		"failed":   stats.Failed,
	})

	pending, _, err := r.state.Get(ctx, domain.StateKeyPendingSegments)
	if err != nil {
		return err
	}
	if pending >= r.threshold {
		if _, err := r.composer.Compose(ctx); err != nil {
			return err
		}
	}

	return r.transcriber.Run(ctx)
}
