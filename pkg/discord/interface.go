package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ndr-srv/pkg/log"
)

var errWebhookRequired = errors.New("discord: webhook url is required")

// IDiscord posts messages to a Discord webhook.
type IDiscord interface {
	SendMessage(ctx context.Context, content string) error
	SendEmbed(ctx context.Context, options MessageOptions) error
	SendError(ctx context.Context, title, description string, err error) error
	SendWarning(ctx context.Context, title, description string) error
	ReportBug(ctx context.Context, message string) error
	Close() error
}

func parseWebhookURL(webhookURL string) (id, token string, err error) {
	webhookURL = strings.TrimSpace(webhookURL)
	if !strings.HasPrefix(webhookURL, webhookURLPrefix) {
		return "", "", fmt.Errorf("discord: invalid webhook URL format")
	}
	parts := strings.SplitN(strings.TrimPrefix(webhookURL, webhookURLPrefix), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("discord: webhook URL must be .../webhooks/{id}/{token}")
	}
	return parts[0], parts[1], nil
}

// New builds a webhook client from a full webhook URL.
func New(l log.Logger, webhookURL string) (IDiscord, error) {
	if webhookURL == "" {
		return nil, errWebhookRequired
	}
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	return &discordImpl{
		l:      l,
		id:     id,
		token:  token,
		config: cfg,
		client: newHTTPClient(cfg.Timeout),
	}, nil
}
