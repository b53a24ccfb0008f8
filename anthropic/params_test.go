package anthropic

import (
	"strings"
	"testing"

	chatgateway "github.com/daybook-ai/chatgateway-go"
)

// TestConvertMessages_SystemLifting tests that system messages are
// lifted into the system prompt and the rest keep their order
func TestConvertMessages_SystemLifting(t *testing.T) {
	messages := []chatgateway.ChatMessage{
		{Role: chatgateway.RoleSystem, Content: "You are a journaling companion."},
		{Role: chatgateway.RoleUser, Content: "How was my week?"},
		{Role: chatgateway.RoleAssistant, Content: "Busy but steady."},
		{Role: chatgateway.RoleSystem, Content: "Keep answers short."},
	}

	converted, system, err := convertMessages(messages)
	if err != nil {
		t.Fatalf("convertMessages error = %v", err)
	}

	if len(converted) != 2 {
		t.Fatalf("expected 2 API messages, got %d", len(converted))
	}
	if converted[0].Role != "user" || converted[1].Role != "assistant" {
		t.Errorf("unexpected roles: %s, %s", converted[0].Role, converted[1].Role)
	}

	if !strings.Contains(system, "journaling companion") || !strings.Contains(system, "Keep answers short") {
		t.Errorf("system prompt missing lifted messages: %q", system)
	}
	if strings.Index(system, "journaling companion") > strings.Index(system, "Keep answers short") {
		t.Error("system messages joined out of order")
	}
}

// TestConvertMessages_UnsupportedRole tests role rejection
func TestConvertMessages_UnsupportedRole(t *testing.T) {
	_, _, err := convertMessages([]chatgateway.ChatMessage{
		{Role: "narrator", Content: "hello"},
	})
	if err == nil {
		t.Fatal("expected error for unsupported role")
	}
}

// TestBuildMessageParams tests tier resolution into model and limits
func TestBuildMessageParams(t *testing.T) {
	params := &chatgateway.StreamRequestParams{
		Messages: []chatgateway.ChatMessage{
			{Role: chatgateway.RoleUser, Content: "Summarize my week."},
		},
		Tier: chatgateway.TierBalanced,
	}

	apiParams, err := buildMessageParams(params)
	if err != nil {
		t.Fatalf("buildMessageParams error = %v", err)
	}

	if apiParams.Model == "" {
		t.Error("expected a concrete model from the tier registry")
	}
	if apiParams.MaxTokens <= 0 {
		t.Errorf("MaxTokens = %d", apiParams.MaxTokens)
	}
	if len(apiParams.Messages) != 1 {
		t.Errorf("expected 1 API message, got %d", len(apiParams.Messages))
	}
	if len(apiParams.System) != 0 {
		t.Errorf("unexpected system prompt: %+v", apiParams.System)
	}
	if apiParams.Thinking.OfEnabled != nil {
		t.Error("thinking must stay off unless requested")
	}
}

// TestBuildMessageParams_Thinking tests the thinking budget wiring
func TestBuildMessageParams_Thinking(t *testing.T) {
	params := &chatgateway.StreamRequestParams{
		Messages: []chatgateway.ChatMessage{
			{Role: chatgateway.RoleUser, Content: "Summarize my week."},
		},
		Tier:     chatgateway.TierPowerful,
		Thinking: true,
	}

	apiParams, err := buildMessageParams(params)
	if err != nil {
		t.Fatalf("buildMessageParams error = %v", err)
	}

	if apiParams.Thinking.OfEnabled == nil {
		t.Fatal("expected thinking to be enabled")
	}
	if apiParams.Thinking.OfEnabled.BudgetTokens <= 0 {
		t.Errorf("BudgetTokens = %d", apiParams.Thinking.OfEnabled.BudgetTokens)
	}
}

// TestBuildMessageParams_UnknownTier tests the tier resolution error path
func TestBuildMessageParams_UnknownTier(t *testing.T) {
	params := &chatgateway.StreamRequestParams{
		Messages: []chatgateway.ChatMessage{
			{Role: chatgateway.RoleUser, Content: "hello"},
		},
		Tier: "turbo",
	}

	if _, err := buildMessageParams(params); err == nil {
		t.Fatal("expected error for unknown tier")
	}
}
