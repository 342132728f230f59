package inbound

import "context"

// TranscriptionPipelinePort sweeps published clips through the
// external transcription job lifecycle and persists one record per
// clip. Failures are isolated per clip.
type TranscriptionPipelinePort interface {
	Run(ctx context.Context) error
}
