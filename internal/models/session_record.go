package models

import (
	"time"

	"gorm.io/datatypes"
)

// SessionRecord is the archived form of a terminal session, written once
// when a session completes, times out or is abandoned. Live session state is
// never persisted here.
type SessionRecord struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	SessionID string `json:"session_id" gorm:"not null;size:36;uniqueIndex"`

	AssessmentID string           `json:"assessment_id" gorm:"not null;size:36;index"`
	Mode         SessionMode      `json:"mode" gorm:"not null;size:16"`
	EndReason    SessionEndReason `json:"end_reason" gorm:"not null;size:16"`

	TimeLimitSeconds int `json:"time_limit_seconds" gorm:"not null"`
	ElapsedSeconds   int `json:"elapsed_seconds" gorm:"not null"`
	AnsweredCount    int `json:"answered_count" gorm:"not null"`

	// Answered question numbers and the final submitted answers, as
	// delivered to the grading backend.
	Answered datatypes.JSON `json:"answered" gorm:"type:jsonb"`
	Answers  datatypes.JSON `json:"answers" gorm:"type:jsonb"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
}
