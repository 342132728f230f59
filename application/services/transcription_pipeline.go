package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maourynd/radio-summary/application/ports/inbound"
	"github.com/maourynd/radio-summary/application/ports/outbound"
	"github.com/maourynd/radio-summary/config"
	"github.com/maourynd/radio-summary/domain"
)

const maxPollWait = time.Minute

type transcriptionPipeline struct {
	logger       outbound.LoggerPort
	store        outbound.ObjectStorePort
	jobs         outbound.TranscriptionJobPort
	records      outbound.TranscriptionStorePort
	pollInterval time.Duration
	pollTimeout  time.Duration
	now          func() time.Time
}

func NewTranscriptionPipeline(
	logger outbound.LoggerPort,
	store outbound.ObjectStorePort,
	jobs outbound.TranscriptionJobPort,
	records outbound.TranscriptionStorePort,
	transcribeConfig *config.TranscribeConfig,
) inbound.TranscriptionPipelinePort {
	return &transcriptionPipeline{
		logger:       logger,
		store:        store,
		jobs:         jobs,
		records:      records,
		pollInterval: transcribeConfig.PollInterval,
		pollTimeout:  transcribeConfig.PollTimeout,
		now:          time.Now,
	}
}

// Run sweeps every published clip through the job lifecycle. A clip
// that fails at any stage is logged and left in place for the next
// pass; it never aborts the sweep for the clips behind it.
func (p *transcriptionPipeline) Run(ctx context.Context) error {
	keys, err := p.store.List(ctx, domain.GluedPrefix)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if !strings.HasSuffix(key, ".mp3") {
			continue
		}
		fileID, ok := domain.ClipFileID(key)
		if !ok {
			p.logger.DebugWithFields("Object is not a batched clip, skipping", map[string]interface{}{
				"key": key,
			})
			continue
		}

		if err := p.processClip(ctx, key, fileID); err != nil {
			if ctx.Err() != nil {
				return err
			}
			p.logger.ErrorWithFields(err, "Failed to process clip", map[string]interface{}{
				"clipKey": key,
				"fileID":  fileID,
			})
		}
	}

	return nil
}

func (p *transcriptionPipeline) processClip(ctx context.Context, clipKey string, fileID int64) error {
	// Re-entrancy guard: a durable record means the clip was fully
	// processed on an earlier pass, whatever the job system says now.
	if _, found, err := p.records.GetByFileID(ctx, fileID); err != nil {
		return err
	} else if found {
		p.logger.DebugWithFields("Transcription already recorded, skipping clip", map[string]interface{}{
			"fileID": fileID,
		})
		return nil
	}

	jobName := domain.TranscriptionJobName(fileID)
	outputKey := domain.TranscriptOutputKey(fileID)

	status, found, err := p.jobs.Lookup(ctx, jobName)
	if err != nil {
		return fmt.Errorf("look up job %s: %w", jobName, err)
	}
	if !found {
		p.logger.InfoWithFields("Submitting transcription job", map[string]interface{}{
			"jobName": jobName,
		})
		if err := p.jobs.Submit(ctx, outbound.SubmitJobParams{
			JobName:   jobName,
			MediaKey:  clipKey,
			OutputKey: outputKey,
		}); err != nil {
			return fmt.Errorf("submit job %s: %w", jobName, err)
		}
		status = domain.JobInProgress
	} else {
		p.logger.InfoWithFields("Found existing transcription job", map[string]interface{}{
			"jobName": jobName,
			"status":  string(status),
		})
	}

	status, err = p.awaitTerminal(ctx, jobName, status)
	if err != nil {
		return err
	}
	if status == domain.JobFailed {
		return fmt.Errorf("transcription job %s failed", jobName)
	}

	raw, err := p.store.Get(ctx, outputKey)
	if err != nil {
		return fmt.Errorf("fetch job output %s: %w", outputKey, err)
	}
	transcript, err := domain.ExtractTranscript(raw)
	if err != nil {
		return err
	}

	archiveKey := domain.ArchivedClipKey(clipKey)
	if err := p.store.Copy(ctx, clipKey, archiveKey); err != nil {
		return fmt.Errorf("archive clip %s: %w", clipKey, err)
	}
	if err := p.store.Delete(ctx, clipKey); err != nil {
		return fmt.Errorf("delete clip %s after archive: %w", clipKey, err)
	}

	record := domain.Transcription{
		FileID:     fileID,
		Data:       raw,
		Transcript: transcript,
		Aggregated: false,
		AudioRef:   p.store.URI(archiveKey),
		JobRef:     p.store.URI(outputKey),
	}
	if err := p.records.Upsert(ctx, record); err != nil {
		return err
	}

	p.logger.InfoWithFields("Saved transcription record", map[string]interface{}{
		"fileID":   fileID,
		"audioRef": record.AudioRef,
	})
	return nil
}

// awaitTerminal polls the job until it reaches a terminal status,
// doubling the wait up to a cap and giving up once the poll budget is
// spent. A clip whose job outlives the budget is retried on the next
// pass; the job lookup picks up right where this one stopped.
func (p *transcriptionPipeline) awaitTerminal(ctx context.Context, jobName string, status domain.JobStatus) (domain.JobStatus, error) {
	deadline := p.now().Add(p.pollTimeout)
	wait := p.pollInterval

	for !status.Terminal() {
		if p.now().After(deadline) {
			return status, fmt.Errorf("job %s still %s after %s", jobName, status, p.pollTimeout)
		}

		select {
		case <-ctx.Done():
			return status, ctx.Err()
		case <-time.After(wait):
		}
		if wait *= 2; wait > maxPollWait {
			wait = maxPollWait
		}

		next, found, err := p.jobs.Lookup(ctx, jobName)
		if err != nil {
			return status, fmt.Errorf("poll job %s: %w", jobName, err)
		}
		if !found {
			return status, fmt.Errorf("job %s disappeared while polling", jobName)
		}
		status = next
	}

	return status, nil
}
