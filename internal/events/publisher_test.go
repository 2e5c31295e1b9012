package events

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/SAP-F-2025/session-service/internal/models"
	"github.com/SAP-F-2025/session-service/internal/session"
	"github.com/SAP-F-2025/session-service/internal/utils"
)

func TestSessionNotifier_BuildsEnvelope(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	mockPublisher := NewMockEventPublisher(logger)
	notifier := NewSessionNotifier(mockPublisher, utils.NewDevelopmentLogger())

	snapshot := &models.SessionSnapshot{
		SessionID:     "sess-1",
		AssessmentID:  "assess-1",
		Mode:          models.ModeAdaptive,
		Phase:         models.PhaseAnswering,
		TimeRemaining: 295,
		Answered:      []int{1, 2},
	}

	notifier.Notify(context.Background(), session.EventTimeWarning, snapshot)

	published := mockPublisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(published))
	}

	event := published[0]
	if event.Type != string(session.EventTimeWarning) {
		t.Errorf("expected event type %s, got %s", session.EventTimeWarning, event.Type)
	}
	if event.ID == "" {
		t.Error("event ID should not be empty")
	}
	if event.Source != "session-service" {
		t.Errorf("expected source 'session-service', got '%s'", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("expected version '1.0', got '%s'", event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("event timestamp should not be zero")
	}
	if event.SessionID != "sess-1" || event.AssessmentID != "assess-1" {
		t.Errorf("session fields not carried: %+v", event)
	}
	if event.AnsweredCount != 2 {
		t.Errorf("expected answered count 2, got %d", event.AnsweredCount)
	}
	if event.Snapshot == nil || event.Snapshot.TimeRemaining != 295 {
		t.Error("full snapshot not attached to the envelope")
	}

	mockPublisher.ClearEvents()
	if len(mockPublisher.GetPublishedEvents()) != 0 {
		t.Error("clear did not empty the event log")
	}
}
