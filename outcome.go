package chatgateway

// OutcomeStatus classifies how a logical streaming call ended.
type OutcomeStatus string

const (
	// StatusSucceeded means the stream completed and FinalMessage holds
	// the accumulated content.
	StatusSucceeded OutcomeStatus = "succeeded"

	// StatusFailed means the call ended with an error; Err holds the
	// failure (auth, quota, server, upstream, network, or build).
	StatusFailed OutcomeStatus = "failed"

	// StatusCancelled means the caller cancelled the call. Cancellation
	// is a distinct outcome, not a failure.
	StatusCancelled OutcomeStatus = "cancelled"
)

// Usage reports token consumption for a completed call.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
	TotalTokens  int `json:"totalTokens"`
}

// SessionOutcome is the terminal result of one logical streaming call.
// Exactly one outcome is produced per call, across at most two physical
// HTTP attempts.
type SessionOutcome struct {
	// Status is succeeded, failed, or cancelled
	Status OutcomeStatus

	// FinalMessage is the accumulated assistant content (succeeded only)
	FinalMessage string

	// Reasoning is the accumulated thinking text, if any (succeeded only)
	Reasoning string

	// Usage holds token counts when the gateway reported them.
	// May be nil even on success: the gateway is not required to send a
	// completion frame, and a completion frame may omit usage.
	Usage *Usage

	// Err holds the failure when Status is StatusFailed
	Err error
}

// SuccessOutcome builds a succeeded outcome.
func SuccessOutcome(finalMessage, reasoning string, usage *Usage) SessionOutcome {
	return SessionOutcome{
		Status:       StatusSucceeded,
		FinalMessage: finalMessage,
		Reasoning:    reasoning,
		Usage:        usage,
	}
}

// FailureOutcome builds a failed outcome wrapping err.
func FailureOutcome(err error) SessionOutcome {
	return SessionOutcome{Status: StatusFailed, Err: err}
}

// CancelledOutcome builds a cancelled outcome.
func CancelledOutcome() SessionOutcome {
	return SessionOutcome{Status: StatusCancelled}
}

// Succeeded returns true if the call completed normally.
func (o *SessionOutcome) Succeeded() bool {
	return o.Status == StatusSucceeded
}

// Cancelled returns true if the caller cancelled the call.
func (o *SessionOutcome) Cancelled() bool {
	return o.Status == StatusCancelled
}
