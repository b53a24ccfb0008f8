package chatgateway

import (
	"fmt"
	"sync"
)

// BackendID represents a unique chat backend identifier.
// Using a typed constant prevents typos and provides compile-time safety.
type BackendID string

// Known backend identifiers
const (
	// BackendGateway is the journaling app's hosted chat gateway
	BackendGateway BackendID = "gateway"

	// BackendAnthropic talks to the Anthropic API directly (dev mode,
	// user-supplied API key)
	BackendAnthropic BackendID = "anthropic"

	// BackendLorem is the mock lorem ipsum backend for offline UI work
	BackendLorem BackendID = "lorem"
)

// String returns the string representation of the backend ID
func (b BackendID) String() string {
	return string(b)
}

// IsValid returns true if the backend ID is a known backend
func (b BackendID) IsValid() bool {
	switch b {
	case BackendGateway, BackendAnthropic, BackendLorem:
		return true
	default:
		return false
	}
}

// Registry holds the set of available backends so the app layer can
// switch between them at runtime (gateway in production, lorem or
// anthropic during development). Safe for concurrent use.
type Registry struct {
	backends map[BackendID]Streamer
	mu       sync.RWMutex
}

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[BackendID]Streamer)}
}

// Register adds or replaces a backend.
func (r *Registry) Register(s Streamer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[s.Name()] = s
}

// Get returns the backend registered under id.
func (r *Registry) Get(id BackendID) (Streamer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.backends[id]
	if !ok {
		return nil, fmt.Errorf("no backend registered for id: %s", id)
	}
	return s, nil
}

// Names returns the registered backend IDs in unspecified order.
func (r *Registry) Names() []BackendID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]BackendID, 0, len(r.backends))
	for id := range r.backends {
		names = append(names, id)
	}
	return names
}
