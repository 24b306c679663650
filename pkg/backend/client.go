package backend

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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultChatBaseURL and DefaultDemoBaseURL point at the local development hosts.
	DefaultChatBaseURL = "http://localhost:5000"
	DefaultDemoBaseURL = "http://localhost:5000"

	ChatPath = "/api/openai-chat"
	DemoPath = "/api/run-prueba"

	DefaultTimeout = 60 * time.Second

	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"
)

// ErrRequestFailed is the only failure kind the backend client reports:
// non-2xx statuses, transport errors and undecodable bodies all wrap it.
var ErrRequestFailed = errors.New("request failed")

// StatusError is returned when an endpoint answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d", ErrRequestFailed, e.Endpoint, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrRequestFailed
}

// ChatService forwards user text to the remote assistant.
type ChatService interface {
	Chat(ctx context.Context, message string) (string, error)
}

// DemoService triggers the remote voice demo.
type DemoService interface {
	RunDemo(ctx context.Context) error
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response *string `json:"response"`
}

// Client talks to the chat and demo endpoints over HTTP.
type Client struct {
	chatBaseURL string
	demoBaseURL string
	httpClient  *http.Client
	logger      *logrus.Entry
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. A client passed to
// WithHTTPClient is copied, not modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *logrus.Entry) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client. Empty base URLs fall back to the defaults.
func NewClient(chatBaseURL, demoBaseURL string, opts ...Option) *Client {
	if chatBaseURL == "" {
		chatBaseURL = DefaultChatBaseURL
	}
	if demoBaseURL == "" {
		demoBaseURL = DefaultDemoBaseURL
	}
	c := &Client{
		chatBaseURL: strings.TrimRight(chatBaseURL, "/"),
		demoBaseURL: strings.TrimRight(demoBaseURL, "/"),
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		logger:      logrus.WithField("component", "backend"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chat posts message as-is and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	payload, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("%w: encode chat request: %v", ErrRequestFailed, err)
	}

	body, err := c.post(ctx, c.chatBaseURL+ChatPath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decode chat response: %v", ErrRequestFailed, err)
	}
	if resp.Response == nil {
		return "", fmt.Errorf("%w: chat response has no 'response' field", ErrRequestFailed)
	}
	return *resp.Response, nil
}

// RunDemo posts an empty request to the demo trigger. Only the status code
// decides success.
func (c *Client) RunDemo(ctx context.Context) error {
	body, err := c.post(ctx, c.demoBaseURL+DemoPath, nil)
	if err != nil {
		return err
	}

	var data map[string]interface{}
	if len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, &data) == nil {
		c.logger.WithFields(logrus.Fields(data)).Debug("voice demo response")
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrRequestFailed, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	logger := c.logger.WithFields(logrus.Fields{
		"url":        url,
		"request_id": requestID,
	})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Warn("request failed")
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrRequestFailed, err)
	}

	logger.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: url, StatusCode: resp.StatusCode}
	}
	return data, nil
}

var (
	_ ChatService = (*Client)(nil)
	_ DemoService = (*Client)(nil)
)
