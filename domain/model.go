package domain

import (
	"errors"
	"time"
)

// State store keys for the singleton pipeline watermarks.
const (
	StateKeyLastCaptured    = "last_captured_segment"
	StateKeyPendingSegments = "pending_segments"
)

// ErrNothingToSummarize is returned by an aggregation run that found no
// transcript text worth sending to the summarizer.
var ErrNothingToSummarize = errors.New("no transcript text to summarize")

type JobStatus string

const (
	JobInProgress JobStatus = "IN_PROGRESS"
	JobCompleted  JobStatus = "COMPLETED"
	JobFailed     JobStatus = "FAILED"
)

func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// SegmentRef points at one scraped audio segment. Key is the ordering
// key embedded in the source filename, parsed once at the source
// boundary. Refs are ephemeral; their durable trace is the watermark
// advance plus the staged object.
type SegmentRef struct {
	URL    string
	Key    int64
	FeedID string
}

type AdmissionStats struct {
	Admitted int
	Skipped  int
	Failed   int
}

// Transcription is the durable record of one completed clip, keyed by
// the clip's file id. AggregationID is nil until an aggregation run
// consumes the record.
type Transcription struct {
	FileID        int64
	Data          []byte
	Transcript    string
	Aggregated    bool
	AudioRef      string
	JobRef        string
	AggregationID *int64
}

// Summary is one aggregation result: the generated digest plus the
// file ids of the transcriptions it consumed.
type Summary struct {
	ID               int64
	Text             string
	TranscriptionIDs []int64
	CreatedAt        time.Time
}
