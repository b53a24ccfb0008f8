// Package lorem implements a mock chatgateway.Streamer that generates
// lorem ipsum text. Used for offline UI work and tests without real
// credentials or network access.
package lorem

import (
	"context"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	chatgateway "github.com/daybook-ai/chatgateway-go"
)

// Provider is a mock backend that streams lorem ipsum text as
// cumulative updates, matching the gateway's replace-not-append
// convention.
type Provider struct {
	generator *loremgen.Lorem
	delay     time.Duration // per-word delay override; negative means per-tier default
}

// Option configures a Provider.
type Option func(*Provider)

// WithDelay overrides the per-word streaming delay. Zero streams
// without pacing, which is what tests want.
func WithDelay(d time.Duration) Option {
	return func(p *Provider) { p.delay = d }
}

// NewProvider creates a new lorem ipsum backend.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		generator: loremgen.New(),
		delay:     -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the backend identifier.
func (p *Provider) Name() chatgateway.BackendID {
	return chatgateway.BackendLorem
}

// streamDelay returns the delay between words for a tier.
// The powerful tier streams slowest, mimicking larger models.
func (p *Provider) streamDelay(tier chatgateway.ModelTier) time.Duration {
	if p.delay >= 0 {
		return p.delay
	}
	switch tier {
	case chatgateway.TierFast:
		return 33 * time.Millisecond // 30 words/second
	case chatgateway.TierPowerful:
		return 200 * time.Millisecond // 5 words/second
	default:
		return 100 * time.Millisecond // 10 words/second
	}
}

// wordBudget returns how many content words a tier generates.
func wordBudget(tier chatgateway.ModelTier) int {
	switch tier {
	case chatgateway.TierFast:
		return 30
	case chatgateway.TierPowerful:
		return 120
	default:
		return 60
	}
}

// StreamChat streams a lorem ipsum response.
// When Thinking is set, a reasoning passage streams before the content,
// mirroring how the real backends order their output.
func (p *Provider) StreamChat(ctx context.Context, params *chatgateway.StreamRequestParams) (<-chan chatgateway.StreamUpdate, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	updates := make(chan chatgateway.StreamUpdate, 10)

	go func() {
		defer close(updates)

		outcome := p.stream(ctx, params, updates)
		updates <- chatgateway.StreamUpdate{Outcome: &outcome}
	}()

	return updates, nil
}

func (p *Provider) stream(ctx context.Context, params *chatgateway.StreamRequestParams, updates chan<- chatgateway.StreamUpdate) chatgateway.SessionOutcome {
	delay := p.streamDelay(params.Tier)
	budget := wordBudget(params.Tier)

	var reasoning string
	if params.Thinking {
		text, cancelled := p.streamPassage(ctx, updates, budget/2, delay, func(total string) chatgateway.StreamUpdate {
			return chatgateway.StreamUpdate{Reasoning: &total}
		})
		if cancelled {
			return chatgateway.CancelledOutcome()
		}
		reasoning = text
	}

	content, cancelled := p.streamPassage(ctx, updates, budget, delay, func(total string) chatgateway.StreamUpdate {
		return chatgateway.StreamUpdate{Content: &total}
	})
	if cancelled {
		return chatgateway.CancelledOutcome()
	}

	inputTokens := estimateTokens(params.Messages)
	outputTokens := len(strings.Fields(content)) + len(strings.Fields(reasoning))
	usage := &chatgateway.Usage{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		TotalTokens:  inputTokens + outputTokens,
	}

	return chatgateway.SuccessOutcome(content, reasoning, usage)
}

// streamPassage generates targetWords of lorem text and emits the
// growing cumulative total word by word. Returns the final text and
// whether the stream was cancelled.
func (p *Provider) streamPassage(ctx context.Context, updates chan<- chatgateway.StreamUpdate, targetWords int, delay time.Duration, wrap func(string) chatgateway.StreamUpdate) (string, bool) {
	words := strings.Fields(p.generateTextWords(targetWords))

	var total strings.Builder
	for i, word := range words {
		if i > 0 {
			total.WriteString(" ")
		}
		total.WriteString(word)

		select {
		case updates <- wrap(total.String()):
		case <-ctx.Done():
			return total.String(), true
		}

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return total.String(), true
			}
		}
	}

	return total.String(), false
}

// generateTextWords generates lorem ipsum text with approximately
// targetWords words.
func (p *Provider) generateTextWords(targetWords int) string {
	var sb strings.Builder
	wordCount := 0

	for wordCount < targetWords {
		sentence := p.generator.Sentence(5, 15)
		sb.WriteString(sentence)
		sb.WriteString(" ")

		wordCount += len(strings.Fields(sentence))
	}

	return strings.TrimSpace(sb.String())
}

// estimateTokens estimates the token count for the conversation.
// Word count as a rough proxy.
func estimateTokens(messages []chatgateway.ChatMessage) int {
	totalWords := 0
	for _, msg := range messages {
		totalWords += len(strings.Fields(msg.Content))
	}
	return totalWords
}
