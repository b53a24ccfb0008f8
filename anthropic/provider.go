// Package anthropic implements the chatgateway.Streamer interface
// directly against the Anthropic API with a user-supplied key,
// bypassing the hosted gateway. Intended for development builds of the
// journaling app.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	chatgateway "github.com/daybook-ai/chatgateway-go"
)

// Provider streams chat responses straight from the Anthropic API.
type Provider struct {
	client *anthropic.Client
}

// NewProvider creates a direct Anthropic backend with the given API key.
func NewProvider(apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key: %w", chatgateway.ErrAuthentication)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Provider{client: &client}, nil
}

// Name returns the backend identifier.
func (p *Provider) Name() chatgateway.BackendID {
	return chatgateway.BackendAnthropic
}

// StreamChat starts one logical streaming chat call against Anthropic.
//
// The SDK delivers incremental deltas; this backend accumulates them and
// re-emits cumulative totals so consumers see the same replace-not-append
// convention as the gateway backend.
func (p *Provider) StreamChat(ctx context.Context, params *chatgateway.StreamRequestParams) (<-chan chatgateway.StreamUpdate, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	apiParams, err := buildMessageParams(params)
	if err != nil {
		return nil, err
	}

	updates := make(chan chatgateway.StreamUpdate, 10) // Buffered to prevent blocking

	go func() {
		defer close(updates)

		outcome := p.stream(ctx, apiParams, updates)
		updates <- chatgateway.StreamUpdate{Outcome: &outcome}
	}()

	return updates, nil
}

func (p *Provider) stream(ctx context.Context, apiParams anthropic.MessageNewParams, updates chan<- chatgateway.StreamUpdate) chatgateway.SessionOutcome {
	stream := p.client.Messages.NewStreaming(ctx, apiParams)

	// Accumulator for final message metadata
	message := anthropic.Message{}

	var content strings.Builder
	var reasoning strings.Builder

	for stream.Next() {
		event := stream.Current()

		if err := message.Accumulate(event); err != nil {
			return chatgateway.FailureOutcome(
				&chatgateway.UpstreamError{Message: fmt.Sprintf("failed to accumulate message: %v", err)})
		}

		deltaEvent, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}

		switch deltaEvent.Delta.Type {
		case "text_delta":
			content.WriteString(deltaEvent.Delta.Text)
			total := content.String()
			select {
			case updates <- chatgateway.StreamUpdate{Content: &total}:
			case <-ctx.Done():
				return chatgateway.CancelledOutcome()
			}

		case "thinking_delta":
			reasoning.WriteString(deltaEvent.Delta.Thinking)
			total := reasoning.String()
			select {
			case updates <- chatgateway.StreamUpdate{Reasoning: &total}:
			case <-ctx.Done():
				return chatgateway.CancelledOutcome()
			}
		}
	}

	if err := stream.Err(); err != nil {
		if ctx.Err() != nil {
			return chatgateway.CancelledOutcome()
		}
		return chatgateway.FailureOutcome(mapAPIError(err))
	}

	usage := &chatgateway.Usage{
		InputTokens:  int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
		TotalTokens:  int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}

	return chatgateway.SuccessOutcome(content.String(), reasoning.String(), usage)
}

// mapAPIError translates Anthropic SDK errors into the library taxonomy.
func mapAPIError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return fmt.Errorf("anthropic rejected API key: %w", chatgateway.ErrAuthentication)
		case 429:
			return fmt.Errorf("anthropic rate limit: %w", chatgateway.ErrQuotaExceeded)
		default:
			return &chatgateway.ServerError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()}
		}
	}
	return &chatgateway.NetworkError{Op: "read stream", Err: err}
}
