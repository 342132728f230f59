package outbound

import (
	"context"

	"github.com/maourynd/radio-summary/domain"
)

type SubmitJobParams struct {
	JobName   string
	MediaKey  string
	OutputKey string
}

// TranscriptionJobPort drives the external speech-to-text job system.
// Lookup reports a missing job as found=false; err is reserved for
// transport failures so callers can branch on intent.
type TranscriptionJobPort interface {
	Submit(ctx context.Context, params SubmitJobParams) error
	Lookup(ctx context.Context, jobName string) (status domain.JobStatus, found bool, err error)
}
