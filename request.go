package chatgateway

// Message role constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ValidRole returns true if role is one of the known message roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// ChatMessage is a single message in the conversation history.
// Messages are immutable values supplied by the caller; the library
// never mutates them.
type ChatMessage struct {
	// Role is "user", "assistant", or "system"
	Role string `json:"role"`

	// Content is the message text
	Content string `json:"content"`
}

// StreamRequestParams contains everything needed for one logical
// streaming chat call. Constructed once per call and immutable for the
// lifetime of the session, including the auth-retry attempt.
type StreamRequestParams struct {
	// Messages is the ordered conversation history
	Messages []ChatMessage

	// Tier selects the backend model class
	Tier ModelTier

	// Thinking requests reasoning/"thinking" output alongside content
	Thinking bool
}

// Validate checks the request parameters before any network attempt.
// Returns a *ValidationError describing the first problem found.
func (p *StreamRequestParams) Validate() error {
	if p == nil {
		return &ValidationError{
			Field:  "params",
			Reason: "params must not be nil",
			Err:    ErrInvalidRequest,
		}
	}

	if len(p.Messages) == 0 {
		return &ValidationError{
			Field:  "messages",
			Reason: "at least one message is required",
			Err:    ErrInvalidRequest,
		}
	}

	for i, msg := range p.Messages {
		if !ValidRole(msg.Role) {
			return &ValidationError{
				Field:  "messages",
				Value:  msg.Role,
				Reason: "role must be 'user', 'assistant', or 'system'",
				Err:    ErrInvalidRequest,
			}
		}
		if msg.Content == "" {
			return &ValidationError{
				Field:  "messages",
				Value:  i,
				Reason: "message content must not be empty",
				Err:    ErrInvalidRequest,
			}
		}
	}

	if !p.Tier.IsValid() {
		return &ValidationError{
			Field:  "tier",
			Value:  p.Tier.String(),
			Reason: "tier must be 'fast', 'balanced', or 'powerful'",
			Err:    ErrInvalidRequest,
		}
	}

	return nil
}
