package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 64 << 10
)

var ErrBaseURLRequired = errors.New("gateway: base url is required")

// Request is the payload accepted by the messaging gateway.
type Request struct {
	Channel   string `json:"channel"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
	Reference string `json:"reference,omitempty"`
}

// Response is the gateway's answer. Raw keeps the untouched body for auditing.
type Response struct {
	Accepted   bool   `json:"accepted"`
	MessageID  string `json:"message_id"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"-"`
	Raw        string `json:"-"`
}

// Client posts messages to an SMS / WhatsApp / voice gateway.
type Client interface {
	Send(ctx context.Context, req Request) (Response, error)
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type implClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrBaseURLRequired
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &implClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *implClient) Send(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Response{}, err
	}

	out := Response{StatusCode: resp.StatusCode, Raw: string(raw)}
	if len(raw) > 0 {
		// non-JSON bodies are kept in Raw only
		_ = json.Unmarshal(raw, &out)
	}

	if resp.StatusCode >= 300 {
		return out, fmt.Errorf("gateway: unexpected status %d", resp.StatusCode)
	}
	return out, nil
}
