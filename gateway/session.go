package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"

	chatgateway "github.com/daybook-ai/chatgateway-go"
)

// session drives one logical streaming call: at most two physical HTTP
// attempts (the second only after a 401 and a successful token refresh),
// a fresh accumulator per attempt, and exactly one terminal outcome as
// the final channel update.
//
// A session is owned by a single goroutine; nothing here is shared
// across logical calls except the client's TokenProvider.
type session struct {
	client  *Client
	params  *chatgateway.StreamRequestParams
	updates chan<- chatgateway.StreamUpdate

	// accumulators for the current physical attempt
	content   string
	reasoning string
	usage     *chatgateway.Usage

	// retried caps the logical call at two physical attempts
	retried bool
}

// run resolves the outcome and closes the channel. The outcome is
// always the last update sent: once it is written, no content or
// reasoning update can follow.
func (s *session) run(ctx context.Context, token string) {
	defer close(s.updates)

	outcome := s.stream(ctx, token)
	u := chatgateway.StreamUpdate{Outcome: &outcome}

	select {
	case s.updates <- u:
	default:
		// Buffer full: the consumer stopped draining. Still deliver
		// unless the call is also cancelled, in which case no one is
		// listening and blocking here would leak the session goroutine.
		select {
		case s.updates <- u:
		case <-ctx.Done():
		}
	}
}

// stream performs the attempt loop. Only the 401-refresh-retry path
// loops; every other branch resolves immediately.
func (s *session) stream(ctx context.Context, token string) chatgateway.SessionOutcome {
	for {
		// The gateway restarts generation from scratch on retry, so each
		// physical attempt starts with empty accumulators
		s.content, s.reasoning, s.usage = "", "", nil

		httpReq, err := s.client.buildHTTPRequest(ctx, s.params, token)
		if err != nil {
			return chatgateway.FailureOutcome(err)
		}

		resp, err := s.client.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return chatgateway.CancelledOutcome()
			}
			return chatgateway.FailureOutcome(&chatgateway.NetworkError{Op: "send request", Err: err})
		}

		// Status is inspected before any body byte is processed
		if resp.StatusCode == http.StatusUnauthorized && !s.retried {
			resp.Body.Close()

			refreshed, err := s.client.creds.Refresh(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return chatgateway.CancelledOutcome()
				}
				return chatgateway.FailureOutcome(
					fmt.Errorf("token refresh failed: %v: %w", err, chatgateway.ErrAuthentication))
			}

			// Exactly one retry per logical call, on a brand-new
			// connection with the refreshed token
			s.retried = true
			token = refreshed
			continue
		}

		if resp.StatusCode >= 400 {
			return chatgateway.FailureOutcome(s.client.handleErrorResponse(resp))
		}

		return s.consume(ctx, resp.Body)
	}
}

// consume reads the SSE body chunk by chunk, feeding the decoder and
// applying interpreted deltas to the accumulators in arrival order.
func (s *session) consume(ctx context.Context, body io.ReadCloser) chatgateway.SessionOutcome {
	defer body.Close()

	var dec frameDecoder
	buf := make([]byte, 4096)

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			for _, frame := range dec.feed(string(buf[:n])) {
				for _, d := range interpretFrame(frame, s.client.logger) {
					switch d.kind {
					case deltaContent:
						// cumulative total: replace, not append
						s.content = d.text
						text := d.text
						if !s.emit(ctx, chatgateway.StreamUpdate{Content: &text}) {
							return chatgateway.CancelledOutcome()
						}

					case deltaReasoning:
						s.reasoning = d.text
						text := d.text
						if !s.emit(ctx, chatgateway.StreamUpdate{Reasoning: &text}) {
							return chatgateway.CancelledOutcome()
						}

					case deltaCompletion:
						// Record usage but keep reading: resolution waits
						// for the transport's own end-of-stream signal
						if d.usage != nil {
							s.usage = d.usage
						}

					case deltaError:
						// Outstanding bytes are discarded
						return chatgateway.FailureOutcome(
							&chatgateway.UpstreamError{Message: d.message, Code: d.code})
					}
				}
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				// Ending without an explicit done frame is still success
				return chatgateway.SuccessOutcome(s.content, s.reasoning, s.usage)
			}
			if ctx.Err() != nil {
				// Cancellation wins over the transport error it caused
				return chatgateway.CancelledOutcome()
			}
			return chatgateway.FailureOutcome(&chatgateway.NetworkError{Op: "read stream", Err: readErr})
		}
	}
}

// emit sends one update, giving up if the call was cancelled while the
// consumer stopped draining.
func (s *session) emit(ctx context.Context, u chatgateway.StreamUpdate) bool {
	select {
	case s.updates <- u:
		return true
	case <-ctx.Done():
		return false
	}
}
