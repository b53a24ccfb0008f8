package gateway

import (
	"encoding/json"
	"log"

	chatgateway "github.com/daybook-ai/chatgateway-go"
)

// doneSentinel is the legacy end-of-stream marker. It is a no-op frame:
// the session resolves only on the transport's own completion signal.
const doneSentinel = "[DONE]"

type deltaKind int

const (
	deltaContent deltaKind = iota
	deltaReasoning
	deltaCompletion
	deltaError
)

// streamDelta is one classified signal extracted from a frame payload.
type streamDelta struct {
	kind    deltaKind
	text    string             // cumulative total (content/reasoning)
	usage   *chatgateway.Usage // completion only, may be nil
	message string             // error only
	code    string             // error only
}

// streamPayload mirrors the gateway's frame JSON. Every field is
// optional; absence means "not present this frame".
type streamPayload struct {
	Content   *string       `json:"content"`
	Thinking  *string       `json:"thinking"`
	Done      bool          `json:"done"`
	Usage     *usagePayload `json:"usage"`
	Error     *string       `json:"error"`
	ErrorCode string        `json:"errorCode"`
}

type usagePayload struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
	TotalTokens  int `json:"totalTokens"`
}

// interpretFrame parses a frame's data as JSON and classifies it into
// zero or more deltas, in a fixed order: error short-circuits, then
// content, thinking, completion.
//
// The gateway restates content/thinking as the cumulative total-so-far,
// not an increment, so the returned text replaces the session
// accumulator. If a future protocol version switches to incremental
// deltas, this is the one place the replace policy changes.
//
// Malformed JSON is logged and dropped: one corrupt frame must not
// abort an otherwise-healthy stream.
func interpretFrame(frame rawFrame, logger *log.Logger) []streamDelta {
	if frame.Data == doneSentinel {
		return nil
	}

	var p streamPayload
	if err := json.Unmarshal([]byte(frame.Data), &p); err != nil {
		logger.Printf("gateway: discarding malformed frame: %v", err)
		return nil
	}

	// An error field takes priority over anything else in the same frame
	if p.Error != nil {
		return []streamDelta{{kind: deltaError, message: *p.Error, code: p.ErrorCode}}
	}

	var deltas []streamDelta

	if p.Content != nil && *p.Content != "" {
		deltas = append(deltas, streamDelta{kind: deltaContent, text: *p.Content})
	}

	// Thinking is only meaningful when the request asked for it; the
	// session forwards it either way and the caller decides
	if p.Thinking != nil && *p.Thinking != "" {
		deltas = append(deltas, streamDelta{kind: deltaReasoning, text: *p.Thinking})
	}

	if p.Done {
		var usage *chatgateway.Usage
		if p.Usage != nil {
			usage = &chatgateway.Usage{
				InputTokens:  p.Usage.InputTokens,
				OutputTokens: p.Usage.OutputTokens,
				TotalTokens:  p.Usage.TotalTokens,
			}
		}
		// Usage may legitimately be absent even when done is true
		deltas = append(deltas, streamDelta{kind: deltaCompletion, usage: usage})
	}

	return deltas
}
