package config

import (
	"fmt"
	"os"
)

const defaultSummaryPrompt = "Summarize the following day of police scanner chatter into a " +
	"clear narrative digest for local residents. Group related incidents, keep times when " +
	"mentioned, and leave out routine radio checks."

type GptConfig struct {
	ApiUrl string
	ApiKey string
	Model  string
	Prompt string
}

func GetGptConfig() (*GptConfig, error) {
	model := os.Getenv("GPT_MODEL")
	if model == "" {
		return nil, fmt.Errorf("GPT_MODEL must be set")
	}
	apiUrl := os.Getenv("GPT_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("GPT_API_URL must be set")
	}
	apiKey := os.Getenv("GPT_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GPT_API_KEY must be set")
	}
	prompt := os.Getenv("SUMMARY_PROMPT")
	if prompt == "" {
		prompt = defaultSummaryPrompt
	}
	return &GptConfig{
		ApiUrl: apiUrl,
		ApiKey: apiKey,
		Model:  model,
		Prompt: prompt,
	}, nil
}
