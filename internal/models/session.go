package models

import "time"

type SessionMode string

const (
	ModeStandard SessionMode = "standard"
	ModeAdaptive SessionMode = "adaptive"
)

type SessionPhase string

const (
	PhaseInitializing SessionPhase = "initializing"
	PhaseAnswering    SessionPhase = "answering"
	PhaseSubmitting   SessionPhase = "submitting"
	PhaseFeedback     SessionPhase = "feedback"
	PhaseTerminal     SessionPhase = "terminal"
)

type TimerState string

const (
	TimerStopped  TimerState = "stopped"
	TimerRunning  TimerState = "running"
	TimerWarning  TimerState = "warning"
	TimerCritical TimerState = "critical"
	TimerExpired  TimerState = "expired"
)

// SessionEndReason records why a session reached its terminal state.
type SessionEndReason string

const (
	EndReasonCompleted SessionEndReason = "completed"
	EndReasonTimeout   SessionEndReason = "timeout"
	EndReasonAbandoned SessionEndReason = "abandoned"
)

// SessionSnapshot is the read model handed to the hosting UI: everything it
// needs to render the current state of an assessment session. Snapshots are
// immutable copies; mutating one never affects the live session.
type SessionSnapshot struct {
	SessionID    string      `json:"session_id"`
	AssessmentID string      `json:"assessment_id"`
	Mode         SessionMode `json:"mode"`

	Phase      SessionPhase `json:"phase"`
	TimerState TimerState   `json:"timer_state"`

	TimeLimitSeconds int `json:"time_limit_seconds"`
	TimeRemaining    int `json:"time_remaining"`

	Question  *Question    `json:"question,omitempty"`
	Answer    *AnswerState `json:"answer,omitempty"`
	CanSubmit bool         `json:"can_submit"`
	Feedback  Feedback     `json:"feedback"`

	// Answered holds the question numbers already submitted, for progress
	// display only. Questions are never re-navigable.
	Answered []int `json:"answered"`

	EndReason SessionEndReason `json:"end_reason,omitempty"`
	Results   *DetailedResults `json:"results,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}
