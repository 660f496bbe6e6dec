// Package smsclient is a thin anti-corruption layer over the SMS provider's
// REST API. It owns retries, timeouts, and payload shapes so the rest of the
// codebase only sees Send.
package smsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://api.telnyx.com/v2"
	defaultUserAgent = "salonops-messaging-acl/0.1"
)

// Config controls how the client behaves.
type Config struct {
	BaseURL    string
	APIKey     string
	ProfileID  string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	UserAgent  string
}

// Client wraps the provider's messaging endpoint.
type Client struct {
	apiKey     string
	profileID  string
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
	userAgent  string
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("smsclient: API key is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		apiKey:     cfg.APIKey,
		profileID:  cfg.ProfileID,
		baseURL:    baseURL,
		httpClient: httpClient,
		maxRetries: maxRetries,
		backoff:    backoff,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

// SendResult carries the provider's acknowledgement of an accepted message.
type SendResult struct {
	MessageID string
	Status    string
}

type sendPayload struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Text      string `json:"text"`
	ProfileID string `json:"messaging_profile_id,omitempty"`
}

type sendResponse struct {
	Data struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"data"`
}

// Send posts one message, retrying transport errors and 429/5xx responses
// with linear backoff. 4xx responses other than 429 fail immediately.
func (c *Client) Send(ctx context.Context, from, to, text string) (*SendResult, error) {
	if to == "" {
		return nil, errors.New("smsclient: to required")
	}
	if from == "" {
		return nil, errors.New("smsclient: from required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("smsclient: text required")
	}

	body, err := json.Marshal(sendPayload{From: from, To: to, Text: text, ProfileID: c.profileID})
	if err != nil {
		return nil, fmt.Errorf("smsclient: marshal payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		result, retryable, err := c.doSend(ctx, body)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		c.logger.Warn("sms send attempt failed", "attempt", attempt+1, "error", err)
	}
	return nil, lastErr
}

func (c *Client) doSend(ctx context.Context, body []byte) (*SendResult, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("smsclient: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("smsclient: send: %w", err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var parsed sendResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			// accepted but unparseable ack; the message went out
			return &SendResult{}, false, nil
		}
		return &SendResult{MessageID: parsed.Data.ID, Status: parsed.Data.Status}, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("smsclient: provider status %d: %s", resp.StatusCode, truncate(respBody, 256))
	default:
		return nil, false, fmt.Errorf("smsclient: provider status %d: %s", resp.StatusCode, truncate(respBody, 256))
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
