package config

import (
	"time"
)

type PipelineConfig struct {
	BatchThreshold    int64
	PassInterval      time.Duration
	AggregateInterval time.Duration
}

func GetPipelineConfig() (*PipelineConfig, error) {
	threshold, err := intFromEnv("BATCH_THRESHOLD", 25)
	if err != nil {
		return nil, err
	}

	passInterval, err := durationFromEnv("PASS_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	aggregateInterval, err := durationFromEnv("AGGREGATE_INTERVAL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	return &PipelineConfig{
		BatchThreshold:    int64(threshold),
		PassInterval:      passInterval,
		AggregateInterval: aggregateInterval,
	}, nil
}
