package chatgateway

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/tiers/anthropic.yaml
var anthropicTiersYAML []byte

// ModelTier selects the backend model class for a chat call.
// The gateway resolves tiers to concrete models server-side; the direct
// Anthropic backend resolves them locally through the tier registry.
type ModelTier string

// Known model tiers
const (
	TierFast     ModelTier = "fast"
	TierBalanced ModelTier = "balanced"
	TierPowerful ModelTier = "powerful"
)

// String returns the string representation of the tier
func (t ModelTier) String() string {
	return string(t)
}

// IsValid returns true if the tier is a known model tier
func (t ModelTier) IsValid() bool {
	switch t {
	case TierFast, TierBalanced, TierPowerful:
		return true
	default:
		return false
	}
}

// BackendTiers represents the tier configuration for one backend.
type BackendTiers struct {
	Version     string                 `yaml:"version"`      // Semantic version (e.g., "1.0.0")
	LastUpdated string                 `yaml:"last_updated"` // ISO 8601 date
	Backend     string                 `yaml:"backend"`
	Tiers       map[string]TierProfile `yaml:"tiers"`
}

// TierProfile maps one tier to a concrete model and its limits.
type TierProfile struct {
	Model           string `yaml:"model"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
	ThinkingBudget  int    `yaml:"thinking_budget"`
}

// TierRegistry manages per-backend tier configuration.
//
// Tier mappings may go stale as providers release new models. Library
// users can override the embedded defaults by calling
// LoadTiersFromFile() with custom YAML or RegisterBackendTiers()
// programmatically.
type TierRegistry struct {
	tiers map[string]*BackendTiers
	mu    sync.RWMutex
}

var (
	globalTierRegistry     *TierRegistry
	globalTierRegistryOnce sync.Once
)

// GetTierRegistry returns the global tier registry (singleton).
func GetTierRegistry() *TierRegistry {
	globalTierRegistryOnce.Do(func() {
		globalTierRegistry = &TierRegistry{
			tiers: make(map[string]*BackendTiers),
		}
		// Load embedded Anthropic tier mapping
		if err := globalTierRegistry.loadAnthropicTiers(); err != nil {
			// Log error but don't panic - Resolve will report missing tiers
			fmt.Printf("Warning: failed to load Anthropic tiers: %v\n", err)
		}
	})
	return globalTierRegistry
}

// loadAnthropicTiers loads the embedded Anthropic YAML
func (r *TierRegistry) loadAnthropicTiers() error {
	var bt BackendTiers
	if err := yaml.Unmarshal(anthropicTiersYAML, &bt); err != nil {
		return fmt.Errorf("failed to unmarshal Anthropic tiers: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers["anthropic"] = &bt

	return nil
}

// Resolve returns the tier profile for a backend and tier.
func (r *TierRegistry) Resolve(backend string, tier ModelTier) (*TierProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bt, ok := r.tiers[backend]
	if !ok {
		return nil, fmt.Errorf("no tier configuration found for backend: %s", backend)
	}

	profile, ok := bt.Tiers[tier.String()]
	if !ok {
		return nil, fmt.Errorf("tier %s not configured for backend %s", tier, backend)
	}
	return &profile, nil
}

// LoadTiersFromFile loads backend tier configuration from a YAML file.
// This allows library users to override embedded defaults with custom
// model mappings. The file format matches the embedded YAML structure.
func (r *TierRegistry) LoadTiersFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read tiers file: %w", err)
	}

	var bt BackendTiers
	if err := yaml.Unmarshal(data, &bt); err != nil {
		return fmt.Errorf("failed to unmarshal tiers: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers[bt.Backend] = &bt

	return nil
}

// RegisterBackendTiers programmatically registers tier configuration.
func (r *TierRegistry) RegisterBackendTiers(backend string, bt *BackendTiers) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers[backend] = bt
}

// LoadTiersFromFile is a convenience function that calls the global registry's LoadTiersFromFile.
func LoadTiersFromFile(path string) error {
	return GetTierRegistry().LoadTiersFromFile(path)
}

// RegisterBackendTiers is a convenience function that calls the global registry's RegisterBackendTiers.
func RegisterBackendTiers(backend string, bt *BackendTiers) {
	GetTierRegistry().RegisterBackendTiers(backend, bt)
}
