package events

import (
	"time"

	"github.com/SAP-F-2025/session-service/internal/models"
)

// SessionEvent is the envelope published to the event bus for every session
// lifecycle transition. Downstream consumers (dashboards, proctoring,
// analytics) subscribe to the session topic.
type SessionEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`

	SessionID    string              `json:"session_id"`
	AssessmentID string              `json:"assessment_id"`
	Mode         models.SessionMode  `json:"mode"`
	Phase        models.SessionPhase `json:"phase"`

	TimeRemaining int `json:"time_remaining"`
	AnsweredCount int `json:"answered_count"`

	Snapshot *models.SessionSnapshot `json:"snapshot,omitempty"`
}

const (
	eventSource  = "session-service"
	eventVersion = "1.0"
)
