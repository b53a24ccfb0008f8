// Package gateway implements the chatgateway.Streamer interface against
// the journaling backend's hosted chat gateway: an authenticated HTTP
// endpoint that answers with a Server-Sent-Events stream of cumulative
// content and reasoning totals.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	chatgateway "github.com/daybook-ai/chatgateway-go"
)

// Client is the streaming chat gateway client. The client itself is
// stateless and safe for concurrent use; all per-call state lives in a
// session owned by one logical call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      chatgateway.TokenProvider
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (120s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a gateway client for the given base URL and
// credential source.
func NewClient(baseURL string, creds chatgateway.TokenProvider, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, &chatgateway.ValidationError{
			Field:  "baseURL",
			Reason: "base URL must not be empty",
			Err:    chatgateway.ErrInvalidRequest,
		}
	}
	if creds == nil {
		return nil, &chatgateway.ValidationError{
			Field:  "creds",
			Reason: "a token provider is required",
			Err:    chatgateway.ErrInvalidRequest,
		}
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
		creds:      creds,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the backend identifier.
func (c *Client) Name() chatgateway.BackendID {
	return chatgateway.BackendGateway
}

// StreamChat starts one logical streaming chat call.
//
// Parameter validation and the credential check happen before any
// network attempt; failures there return an error directly and no
// channel is created. Once the channel exists, every outcome - success,
// failure, or cancellation - arrives as its final update.
func (c *Client) StreamChat(ctx context.Context, params *chatgateway.StreamRequestParams) (<-chan chatgateway.StreamUpdate, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	token, ok := c.creds.CurrentToken()
	if !ok {
		return nil, fmt.Errorf("no credential available: %w", chatgateway.ErrAuthentication)
	}

	updates := make(chan chatgateway.StreamUpdate, 10) // Buffered to prevent blocking

	s := &session{
		client:  c,
		params:  params,
		updates: updates,
	}
	go s.run(ctx, token)

	return updates, nil
}

// handleErrorResponse maps a non-2xx gateway response to a library
// error. Consumes and closes the response body.
func (c *Client) handleErrorResponse(resp *http.Response) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))

	// Try to parse structured error, fall back to plain body text
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	message := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("gateway rejected token: %w", chatgateway.ErrAuthentication)
	case http.StatusTooManyRequests:
		if message != "" {
			return fmt.Errorf("%s: %w", message, chatgateway.ErrQuotaExceeded)
		}
		return chatgateway.ErrQuotaExceeded
	default:
		return &chatgateway.ServerError{StatusCode: resp.StatusCode, Message: message}
	}
}
