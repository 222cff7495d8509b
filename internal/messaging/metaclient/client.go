// Package metaclient wraps the Meta WhatsApp Cloud API endpoints the bot
// needs: sending text, button, and list messages, and validating webhook
// signatures.
package metaclient

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"
)

const (
	defaultBaseURL    = "https://graph.facebook.com"
	defaultAPIVersion = "v22.0"
	defaultUserAgent  = "agendabot-whatsapp/0.1"
)

// Config controls how the Meta client behaves.
type Config struct {
	BaseURL    string
	APIVersion string
	Token      string
	NumberID   string
	AppSecret  string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	UserAgent  string
}

// Client talks to the WhatsApp Cloud API for a single phone number.
type Client struct {
	token      string
	numberID   string
	baseURL    string
	apiVersion string
	appSecret  string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
	userAgent  string
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("metaclient: access token is required")
	}
	if strings.TrimSpace(cfg.NumberID) == "" {
		return nil, errors.New("metaclient: phone number id is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	apiVersion := strings.TrimSpace(cfg.APIVersion)
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
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
		token:      cfg.Token,
		numberID:   cfg.NumberID,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		appSecret:  cfg.AppSecret,
		httpClient: httpClient,
		maxRetries: maxRetries,
		backoff:    backoff,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

// SendText delivers a plain text message.
func (c *Client) SendText(ctx context.Context, to, body string) (*MessageResponse, error) {
	if strings.TrimSpace(to) == "" {
		return nil, errors.New("metaclient: recipient required")
	}
	if strings.TrimSpace(body) == "" {
		return nil, errors.New("metaclient: message body required")
	}
	payload := outboundMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             &textPayload{Body: body},
	}
	return c.sendMessage(ctx, payload)
}

// SendButtons delivers an interactive reply-button message. Meta caps
// interactive messages at three buttons.
func (c *Client) SendButtons(ctx context.Context, to, body string, buttons []Button) (*MessageResponse, error) {
	if len(buttons) == 0 || len(buttons) > 3 {
		return nil, fmt.Errorf("metaclient: button count %d out of range 1-3", len(buttons))
	}
	interactive := &interactivePayload{
		Type:   "button",
		Body:   &textPayload{Text: body},
		Action: &actionPayload{},
	}
	for i, b := range buttons {
		id := b.ID
		if id == "" {
			id = fmt.Sprintf("btn-%d", i)
		}
		interactive.Action.Buttons = append(interactive.Action.Buttons, buttonPayload{
			Type:  "reply",
			Reply: buttonReply{ID: id, Title: b.Title},
		})
	}
	payload := outboundMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive:      interactive,
	}
	return c.sendMessage(ctx, payload)
}

// SendList delivers an interactive list message. The payload is sent as
// given; row counts beyond Meta's documented limits are left for the API
// to reject so callers see the real error.
func (c *Client) SendList(ctx context.Context, to string, list List) (*MessageResponse, error) {
	if len(list.Sections) == 0 {
		return nil, errors.New("metaclient: list needs at least one section")
	}
	interactive := &interactivePayload{
		Type:   "list",
		Body:   &textPayload{Text: list.Body},
		Action: &actionPayload{Button: list.ButtonText},
	}
	if list.Header != "" {
		interactive.Header = &headerPayload{Type: "text", Text: list.Header}
	}
	if list.Footer != "" {
		interactive.Footer = &textPayload{Text: list.Footer}
	}
	for _, section := range list.Sections {
		sp := sectionPayload{Title: section.Title}
		for _, row := range section.Rows {
			sp.Rows = append(sp.Rows, rowPayload{
				ID:          row.ID,
				Title:       row.Title,
				Description: row.Description,
			})
		}
		interactive.Action.Sections = append(interactive.Action.Sections, sp)
	}
	payload := outboundMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive:      interactive,
	}
	return c.sendMessage(ctx, payload)
}

func (c *Client) sendMessage(ctx context.Context, payload outboundMessage) (*MessageResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("metaclient: marshal message payload: %w", err)
	}
	data, err := c.invoke(ctx, http.MethodPost, fmt.Sprintf("/%s/%s/messages", c.apiVersion, c.numberID), body)
	if err != nil {
		return nil, err
	}
	var resp MessageResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("metaclient: decode message response: %w", err)
	}
	return &resp, nil
}

// VerifyWebhookSignature validates the X-Hub-Signature-256 header Meta
// attaches to webhook deliveries.
func (c *Client) VerifyWebhookSignature(signature string, payload []byte) error {
	if c.appSecret == "" {
		return errors.New("metaclient: app secret not configured")
	}
	actual := strings.TrimSpace(signature)
	if actual == "" {
		return errors.New("metaclient: missing signature header")
	}
	actual = strings.TrimPrefix(actual, "sha256=")
	mac := hmac.New(sha256.New, []byte(c.appSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(actual))) {
		return errors.New("metaclient: signature mismatch")
	}
	return nil
}

func (c *Client) invoke(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("metaclient: build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("User-Agent", c.userAgent)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !shouldRetry(0, err) || attempt == c.maxRetries {
				return nil, fmt.Errorf("metaclient: http error: %w", err)
			}
			lastErr = err
			c.logRetry(path, attempt, 0, err)
			if sleepErr := c.sleep(ctx, attempt); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}
		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("metaclient: read response: %w", readErr)
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return data, nil
		}
		apiErr := decodeAPIError(resp.StatusCode, data)
		if attempt < c.maxRetries && shouldRetry(resp.StatusCode, nil) {
			lastErr = apiErr
			c.logRetry(path, attempt, resp.StatusCode, apiErr)
			if sleepErr := c.sleep(ctx, attempt); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}
		return nil, apiErr
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("metaclient: request failed without response")
}

func (c *Client) sleep(ctx context.Context, attempt int) error {
	delay := c.backoff * time.Duration(1<<attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) logRetry(path string, attempt int, status int, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn("meta api retry",
		"path", path,
		"attempt", attempt+1,
		"status", status,
		"error", err,
	)
}

func shouldRetry(status int, err error) bool {
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return true
		}
		return !errors.Is(err, context.Canceled)
	}
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500 && status <= 599
}

type apiError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message,omitempty"`
	Type       string `json:"type,omitempty"`
	Code       int    `json:"code,omitempty"`
	Subcode    int    `json:"error_subcode,omitempty"`
	TraceID    string `json:"fbtrace_id,omitempty"`
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("metaclient: %s (status=%d code=%d)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("metaclient: http status %d", e.StatusCode)
}

func decodeAPIError(status int, body []byte) error {
	var wrapper struct {
		Error apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil || wrapper.Error.Message == "" {
		return &apiError{StatusCode: status, Message: strings.TrimSpace(string(body))}
	}
	wrapper.Error.StatusCode = status
	return &wrapper.Error
}
