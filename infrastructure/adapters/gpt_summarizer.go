package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/maourynd/radio-summary/application/ports/outbound"
	"github.com/maourynd/radio-summary/config"
)

// Some GPT gateway deployments report failures as a 200 response whose
// content starts with this marker. Treat that as an error, never as
// digest content.
const gptErrorSentinel = "Error:"

type gptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type gptRequest struct {
	Model    string       `json:"model"`
	Messages []gptMessage `json:"messages"`
}

type gptResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type gptSummarizer struct {
	logger    outbound.LoggerPort
	fetcher   ContentFetcher
	gptConfig *config.GptConfig
}

func NewGptSummarizer(logger outbound.LoggerPort, fetcher ContentFetcher, gptConfig *config.GptConfig) outbound.SummarizerPort {
	return &gptSummarizer{
		logger:    logger,
		fetcher:   fetcher,
		gptConfig: gptConfig,
	}
}

func (g *gptSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(gptRequest{
		Model: g.gptConfig.Model,
		Messages: []gptMessage{
			{Role: "system", Content: text},
			{Role: "user", Content: g.gptConfig.Prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode summarize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.gptConfig.ApiUrl, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.gptConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	body, err := g.fetcher.FetchContent(req)
	if err != nil {
		return "", err
	}

	var response gptResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("decode summarize response: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("summarize response contained no choices")
	}

	digest := response.Choices[0].Message.Content
	if strings.HasPrefix(digest, gptErrorSentinel) {
		return "", fmt.Errorf("summarizer reported failure: %s", digest)
	}

	g.logger.InfoWithFields("Received digest from GPT", map[string]interface{}{
		"chars": len(digest),
	})
	return digest, nil
}
