package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/maourynd/radio-summary/application/ports/outbound"
	"github.com/maourynd/radio-summary/config"
)

type mailchimpSender struct {
	logger outbound.LoggerPort
	cfg    *config.MailchimpConfig
	client *http.Client
	now    func() time.Time
}

// NewMailchimpSender sends the rendered digest as a Mailchimp campaign:
// create, set content, send.
func NewMailchimpSender(logger outbound.LoggerPort, cfg *config.MailchimpConfig) outbound.DigestMailerPort {
	return &mailchimpSender{
		logger: logger,
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		now:    time.Now,
	}
}

func (m *mailchimpSender) Send(ctx context.Context, html string) error {
	// The digest covers the previous day's chatter.
	reportDate := m.now().AddDate(0, 0, -1).Format("01/02/2006")

	campaignID, err := m.createCampaign(ctx, reportDate)
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}

	if err := m.setContent(ctx, campaignID, html); err != nil {
		return fmt.Errorf("set campaign content: %w", err)
	}

	if err := m.send(ctx, campaignID); err != nil {
		return fmt.Errorf("send campaign: %w", err)
	}

	m.logger.InfoWithFields("Sent digest campaign", map[string]interface{}{
		"campaignID": campaignID,
		"reportDate": reportDate,
	})
	return nil
}

func (m *mailchimpSender) createCampaign(ctx context.Context, reportDate string) (string, error) {
	payload := map[string]interface{}{
		"type": "regular",
		"recipients": map[string]string{
			"list_id": m.cfg.RecipientListID,
		},
		"settings": map[string]string{
			"subject_line": fmt.Sprintf("%s: %s Summary Report", m.cfg.FromName, reportDate),
			"preview_text": "Catch up on the daily scanner activity.",
			"title":        fmt.Sprintf("%s: %s", m.cfg.FromName, reportDate),
			"from_name":    m.cfg.FromName,
			"reply_to":     m.cfg.ReplyTo,
			"from_email":   m.cfg.FromEmail,
		},
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := m.call(ctx, http.MethodPost, "/campaigns", payload, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("campaign created without an id")
	}
	return created.ID, nil
}

func (m *mailchimpSender) setContent(ctx context.Context, campaignID, html string) error {
	return m.call(ctx, http.MethodPut, "/campaigns/"+campaignID+"/content", map[string]string{
		"html": html,
	}, nil)
}

func (m *mailchimpSender) send(ctx context.Context, campaignID string) error {
	return m.call(ctx, http.MethodPost, "/campaigns/"+campaignID+"/actions/send", nil, nil)
}

func (m *mailchimpSender) call(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	url := fmt.Sprintf("https://%s.api.mailchimp.com/3.0%s", m.cfg.Server, path)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	// Mailchimp accepts any username with the API key as password.
	req.SetBasicAuth("radio-summary", m.cfg.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			m.logger.Error(err, "Failed to close Mailchimp response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("mailchimp %s %s: status %d: %s %s", method, path, resp.StatusCode, apiErr.Title, apiErr.Detail)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode mailchimp response: %w", err)
		}
	}
	return nil
}
