package anthropic

import (
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	chatgateway "github.com/daybook-ai/chatgateway-go"
)

// buildMessageParams constructs Anthropic API parameters from the
// library's chat params. The tier resolves to a concrete model, output
// limit, and thinking budget through the tier registry.
func buildMessageParams(params *chatgateway.StreamRequestParams) (anthropic.MessageNewParams, error) {
	profile, err := chatgateway.GetTierRegistry().Resolve("anthropic", params.Tier)
	if err != nil {
		return anthropic.MessageNewParams{}, fmt.Errorf("failed to resolve tier: %w", err)
	}

	messages, system, err := convertMessages(params.Messages)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}

	apiParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(profile.Model),
		Messages:  messages,
		MaxTokens: int64(profile.MaxOutputTokens),
	}

	if system != "" {
		apiParams.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: system,
			},
		}
	}

	if params.Thinking && profile.ThinkingBudget > 0 {
		apiParams.Thinking = anthropic.ThinkingConfigParamOfEnabled(int64(profile.ThinkingBudget))
	}

	return apiParams, nil
}

// convertMessages maps chat messages to Anthropic message params.
// System messages are lifted out into the system prompt (Anthropic has
// no system role in the messages array); multiple system messages are
// joined in order.
func convertMessages(messages []chatgateway.ChatMessage) ([]anthropic.MessageParam, string, error) {
	result := make([]anthropic.MessageParam, 0, len(messages))
	var system []string

	for i, msg := range messages {
		switch msg.Role {
		case chatgateway.RoleSystem:
			system = append(system, msg.Content)
		case chatgateway.RoleUser:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case chatgateway.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			return nil, "", fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
	}

	return result, strings.Join(system, "\n\n"), nil
}
