package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

const (
	DefaultAPIBaseURL = "https://api.telegram.org/bot"
	timeout           = 10 * time.Second

	// maxMessageLength is the Bot API limit for one message.
	maxMessageLength = 4096
)

// Client represents a Telegram Bot API client
type Client struct {
	botToken   string
	chatID     string
	apiBaseURL string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithAPIBaseURL points the client at another Bot API endpoint.
func WithAPIBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.apiBaseURL = u
		}
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, opts ...Option) (*Client, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat ID is required")
	}

	c := &Client{
		botToken:   botToken,
		chatID:     chatID,
		apiBaseURL: DefaultAPIBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SendMessage sends a text message to the configured chat. Text longer than
// the API limit is truncated.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("message text is required")
	}
	if len(text) > maxMessageLength {
		text = truncate(text, maxMessageLength)
	}

	url := fmt.Sprintf("%s%s/sendMessage", c.apiBaseURL, c.botToken)

	payload := map[string]interface{}{
		"chat_id":                  c.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}

	jsonData, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
	}

	// Parse response to check for errors
	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}

	if err := sonic.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}

	return nil
}

// truncate cuts s to at most n bytes on a line boundary when possible.
func truncate(s string, n int) string {
	const ellipsis = "\n…"
	cut := s[:n-len(ellipsis)]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i]
	}
	return strings.ToValidUTF8(cut, "") + ellipsis
}
