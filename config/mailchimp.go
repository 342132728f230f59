package config

import (
	"fmt"
	"os"
)

type MailchimpConfig struct {
	ApiKey          string
	Server          string
	RecipientListID string
	FromName        string
	FromEmail       string
	ReplyTo         string
}

func GetMailchimpConfig() (*MailchimpConfig, error) {
	apiKey := os.Getenv("MAILCHIMP_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("MAILCHIMP_API_KEY must be set")
	}

	server := os.Getenv("MAILCHIMP_SERVER")
	if server == "" {
		return nil, fmt.Errorf("MAILCHIMP_SERVER must be set")
	}

	listID := os.Getenv("MAILCHIMP_RECIPIENT_LIST_ID")
	if listID == "" {
		return nil, fmt.Errorf("MAILCHIMP_RECIPIENT_LIST_ID must be set")
	}

	fromEmail := os.Getenv("MAILCHIMP_FROM_EMAIL")
	if fromEmail == "" {
		return nil, fmt.Errorf("MAILCHIMP_FROM_EMAIL must be set")
	}

	fromName := os.Getenv("MAILCHIMP_FROM_NAME")
	if fromName == "" {
		fromName = "Radio Chatter"
	}

	replyTo := os.Getenv("MAILCHIMP_REPLY_TO")
	if replyTo == "" {
		replyTo = fromEmail
	}

	return &MailchimpConfig{
		ApiKey:          apiKey,
		Server:          server,
		RecipientListID: listID,
		FromName:        fromName,
		FromEmail:       fromEmail,
		ReplyTo:         replyTo,
	}, nil
}
