package inbound

import "context"

// PipelineRunnerPort executes one full pipeline pass:
// discovery, admission, batch composition at the threshold, then the
// transcription sweep.
type PipelineRunnerPort interface {
	RunPass(ctx context.Context) error
}
