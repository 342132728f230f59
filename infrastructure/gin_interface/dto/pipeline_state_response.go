package dto

type PipelineStateResponse struct {
	LastCapturedSegment int64 `json:"last_captured_segment"`
	PendingSegments     int64 `json:"pending_segments"`
}

type TriggerResponse struct {
	RunID string `json:"run_id"`
}
