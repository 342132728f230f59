package config

import (
	"fmt"
	"os"
	"time"
)

type TranscribeConfig struct {
	LanguageCode string
	MediaFormat  string
	PollInterval time.Duration
	PollTimeout  time.Duration
}

func GetTranscribeConfig() (*TranscribeConfig, error) {
	languageCode := os.Getenv("TRANSCRIBE_LANGUAGE_CODE")
	if languageCode == "" {
		languageCode = "en-US"
	}

	pollInterval, err := durationFromEnv("TRANSCRIBE_POLL_INTERVAL", 10*time.Second)
	if err != nil {
		return nil, err
	}
	pollTimeout, err := durationFromEnv("TRANSCRIBE_POLL_TIMEOUT", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	return &TranscribeConfig{
		LanguageCode: languageCode,
		MediaFormat:  "mp3",
		PollInterval: pollInterval,
		PollTimeout:  pollTimeout,
	}, nil
}

func durationFromEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", name, err)
	}
	return value, nil
}
