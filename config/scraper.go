package config

import (
	"fmt"
	"os"
)

type ScraperConfig struct {
	CallsURL      string
	FeedID        string
	SessionCookie string
}

func GetScraperConfig() (*ScraperConfig, error) {
	callsURL := os.Getenv("CALLS_URL")
	if callsURL == "" {
		return nil, fmt.Errorf("CALLS_URL must be set")
	}

	feedID := os.Getenv("FEED_ID")
	if feedID == "" {
		return nil, fmt.Errorf("FEED_ID must be set")
	}

	// Session cookie is optional; public feeds serve the calls table
	// without one.
	return &ScraperConfig{
		CallsURL:      callsURL,
		FeedID:        feedID,
		SessionCookie: os.Getenv("FEED_SESSION_COOKIE"),
	}, nil
}
