package memory

import (
	"testing"

	"github.com/SAP-F-2025/session-service/internal/session"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	ctrl := session.NewController(session.Config{SessionID: "sess-1"})

	if !registry.Put("sess-1", ctrl) {
		t.Fatal("first put must succeed")
	}
	if registry.Put("sess-1", session.NewController(session.Config{SessionID: "sess-1"})) {
		t.Error("put on a taken ID must be rejected")
	}

	got, ok := registry.Get("sess-1")
	if !ok || got != ctrl {
		t.Error("existing controller must win a put collision")
	}
	if registry.Len() != 1 {
		t.Errorf("expected 1 live session, got %d", registry.Len())
	}

	registry.Delete("sess-1")
	if _, ok := registry.Get("sess-1"); ok {
		t.Error("deleted session still resolvable")
	}
	if registry.Len() != 0 {
		t.Errorf("expected 0 live sessions, got %d", registry.Len())
	}

	// Deleting twice is harmless.
	registry.Delete("sess-1")
}
