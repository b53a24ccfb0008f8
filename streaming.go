package chatgateway

import "context"

// StreamUpdate represents a single event in a streaming chat response.
// Each update carries either a content total, a reasoning total, or the
// terminal outcome.
//
// Content and Reasoning carry the cumulative total-so-far string, not a
// diff: the gateway protocol restates the full accumulated text on every
// frame, so consumers replace rather than append.
type StreamUpdate struct {
	// Content is the cumulative assistant text so far (nil if reasoning/outcome)
	Content *string

	// Reasoning is the cumulative thinking text so far (nil if content/outcome)
	Reasoning *string

	// Outcome is the terminal result (nil until the session resolves).
	// Exactly one update per logical call carries an Outcome; it is the
	// last update sent before the channel closes, and no content or
	// reasoning update follows it.
	Outcome *SessionOutcome
}

// Streamer defines the interface that all chat backends implement.
// The gateway backend is the production path; the anthropic and lorem
// backends exist for direct-API development and offline UI work.
type Streamer interface {
	// StreamChat starts one logical streaming chat call.
	// Returns a channel that emits StreamUpdate as deltas arrive.
	// The channel delivers updates in arrival order, emits exactly one
	// terminal Outcome update, and is then closed. Callers must drain
	// the channel until it closes.
	//
	// An error return means the call never started (invalid params,
	// unbuildable request, no credential); no channel is created and no
	// network attempt was made.
	//
	// Usage:
	//   updates, err := backend.StreamChat(ctx, params)
	//   if err != nil { return err }
	//   for u := range updates {
	//     if u.Content != nil { render(*u.Content) }
	//     if u.Outcome != nil { finish(*u.Outcome) }
	//   }
	StreamChat(ctx context.Context, params *StreamRequestParams) (<-chan StreamUpdate, error)

	// Name returns the backend identifier (e.g., "gateway", "lorem")
	Name() BackendID
}
