package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	chatgateway "github.com/daybook-ai/chatgateway-go"
)

// streamPath is the gateway's streaming chat endpoint.
const streamPath = "/v1/chat/stream"

// chatRequest is the gateway wire format for the outbound request body.
type chatRequest struct {
	Messages  []wireMessage `json:"messages"`
	ModelTier string        `json:"modelTier"`
	Thinking  bool          `json:"thinking"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// buildChatRequest maps the caller's params onto the wire format.
// Pure construction: no state, no side effects.
func buildChatRequest(params *chatgateway.StreamRequestParams) *chatRequest {
	messages := make([]wireMessage, 0, len(params.Messages))
	for _, m := range params.Messages {
		messages = append(messages, wireMessage{Role: m.Role, Content: m.Content})
	}

	return &chatRequest{
		Messages:  messages,
		ModelTier: params.Tier.String(),
		Thinking:  params.Thinking,
	}
}

// buildHTTPRequest assembles the outbound HTTP request for one physical
// attempt. Failures are reported as *chatgateway.BuildError without any
// network attempt.
func (c *Client) buildHTTPRequest(ctx context.Context, params *chatgateway.StreamRequestParams, token string) (*http.Request, error) {
	body, err := json.Marshal(buildChatRequest(params))
	if err != nil {
		return nil, &chatgateway.BuildError{Reason: "encode request body", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+streamPath, bytes.NewReader(body))
	if err != nil {
		return nil, &chatgateway.BuildError{Reason: "construct HTTP request", Err: err}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	return httpReq, nil
}
