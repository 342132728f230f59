package domain

import (
	"encoding/json"
	"fmt"
)

type transcribeResult struct {
	Results struct {
		Transcripts []struct {
			Transcript string `json:"transcript"`
		} `json:"transcripts"`
	} `json:"results"`
}

// ExtractTranscript pulls the primary transcript text out of a raw
// transcription job payload. A payload with no transcript entries
// yields an empty string, not an error.
func ExtractTranscript(raw []byte) (string, error) {
	var result transcribeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode transcription payload: %w", err)
	}
	if len(result.Results.Transcripts) == 0 {
		return "", nil
	}
	return result.Results.Transcripts[0].Transcript, nil
}
