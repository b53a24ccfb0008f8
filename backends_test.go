package chatgateway

import "testing"

// TestBackendID tests string conversion and validity
func TestBackendID(t *testing.T) {
	if BackendGateway.String() != "gateway" {
		t.Errorf("String() = %q", BackendGateway.String())
	}

	for _, id := range []BackendID{BackendGateway, BackendAnthropic, BackendLorem} {
		if !id.IsValid() {
			t.Errorf("expected %s to be valid", id)
		}
	}
	if BackendID("openai").IsValid() {
		t.Error("expected unknown backend to be invalid")
	}
}

// TestRegistry tests register, lookup, and listing
func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	if _, err := registry.Get(BackendLorem); err == nil {
		t.Fatal("expected error for empty registry")
	}

	first := &scriptedStreamer{}
	registry.Register(first)

	got, err := registry.Get(BackendLorem)
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if got != Streamer(first) {
		t.Error("Get returned a different backend")
	}

	// Registering again under the same ID replaces
	second := &scriptedStreamer{}
	registry.Register(second)
	got, err = registry.Get(BackendLorem)
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if got != Streamer(second) {
		t.Error("expected replacement backend")
	}

	names := registry.Names()
	if len(names) != 1 || names[0] != BackendLorem {
		t.Errorf("Names() = %v", names)
	}
}
