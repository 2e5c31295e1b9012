package models

import "encoding/json"

// StartResult is the bootstrap payload returned by the assessment backend.
// AllQuestions is present only for standard-mode assignments.
type StartResult struct {
	AssessmentID     string            `json:"assessment_id"`
	Mode             SessionMode       `json:"mode"`
	TimeLimitMinutes int               `json:"time_limit_minutes"`
	Question         *QuestionPayload  `json:"question"`
	AllQuestions     []QuestionPayload `json:"all_questions,omitempty"`
}

// SubmissionResult is the grading backend's response to a submitted answer.
// IsCorrect is only meaningful in adaptive mode; Completed and NextQuestion
// drive adaptive advancement and are ignored by standard sessions.
type SubmissionResult struct {
	IsCorrect    *bool            `json:"is_correct,omitempty"`
	Completed    bool             `json:"completed,omitempty"`
	AssessmentID string           `json:"assessment_id,omitempty"`
	NextQuestion *QuestionPayload `json:"question,omitempty"`
}

// DetailedResults is fetched once, on session termination, and handed off to
// the results view. The session service treats the breakdown as opaque.
type DetailedResults struct {
	AssessmentID   string          `json:"assessment_id"`
	Score          float64         `json:"score"`
	TotalQuestions int             `json:"total_questions"`
	CorrectCount   int             `json:"correct_count"`
	Breakdown      json.RawMessage `json:"breakdown,omitempty"`
}
