package chatgateway

import (
	"context"
	"io"
	"sync"
)

// Callbacks receives streaming updates for one logical call.
// Content and reasoning callbacks get the cumulative total string so the
// UI can re-render progress directly. OnOutcome fires exactly once,
// strictly after all content/reasoning callbacks.
// Nil callbacks are skipped.
type Callbacks struct {
	OnContent   func(string)
	OnReasoning func(string)
	OnOutcome   func(SessionOutcome)
}

// CancelHandle cancels one in-flight logical call.
type CancelHandle struct {
	cancel context.CancelFunc

	mu        sync.Mutex
	cancelled bool
}

// Cancel aborts the underlying transport and forces the eventual outcome
// to Cancelled. Safe to call multiple times and at any point before
// resolution. Once Cancel returns, no further content or reasoning
// callbacks fire; the outcome callback still fires (with Cancelled,
// unless the call had already resolved).
func (h *CancelHandle) Cancel() {
	h.mu.Lock()
	h.cancelled = true
	h.mu.Unlock()
	h.cancel()
}

// deliverSink runs a sink callback unless the handle was cancelled.
// Holding the mutex across the callback makes Cancel() block until any
// in-flight sink call finishes, so "no sink calls after Cancel returns"
// holds without races.
func (h *CancelHandle) deliverSink(f func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled {
		return
	}
	f()
}

func (h *CancelHandle) wasCancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

// StreamChat bridges a Streamer's channel API to the callback surface
// the app's UI layer consumes. It starts one logical call on backend and
// returns immediately with a CancelHandle.
//
// All failures surface through cb.OnOutcome as a Failed outcome; nothing
// is returned or panicked across the async boundary. An error starting
// the call (invalid params, no credential) produces the outcome
// synchronously, before StreamChat returns.
func StreamChat(ctx context.Context, backend Streamer, params *StreamRequestParams, cb Callbacks) *CancelHandle {
	ctx, cancel := context.WithCancel(ctx)
	handle := &CancelHandle{cancel: cancel}

	var outcomeOnce sync.Once
	resolve := func(o SessionOutcome) {
		outcomeOnce.Do(func() {
			// A cancel that raced a transport failure still resolves
			// Cancelled; a success that resolved first stands.
			if handle.wasCancelled() && o.Status == StatusFailed {
				o = CancelledOutcome()
			}
			if cb.OnOutcome != nil {
				cb.OnOutcome(o)
			}
		})
	}

	updates, err := backend.StreamChat(ctx, params)
	if err != nil {
		cancel()
		resolve(FailureOutcome(err))
		return handle
	}

	go func() {
		defer cancel()

		for u := range updates {
			switch {
			case u.Outcome != nil:
				resolve(*u.Outcome)
			case u.Content != nil:
				if cb.OnContent != nil {
					text := *u.Content
					handle.deliverSink(func() { cb.OnContent(text) })
				}
			case u.Reasoning != nil:
				if cb.OnReasoning != nil {
					text := *u.Reasoning
					handle.deliverSink(func() { cb.OnReasoning(text) })
				}
			}
		}

		// A well-behaved backend always sends an outcome before closing;
		// resolve defensively if one never arrived.
		resolve(FailureOutcome(&NetworkError{Op: "read stream", Err: io.ErrUnexpectedEOF}))
	}()

	return handle
}
