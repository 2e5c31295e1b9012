package session

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyStarted     = errors.New("session already started")
	ErrSessionNotActive   = errors.New("session is not active")
	ErrSessionTerminal    = errors.New("session already reached terminal state")
	ErrSubmissionPending  = errors.New("a submission is already in flight")
	ErrAnswerIncomplete   = errors.New("answer is incomplete or over limit")
	ErrQuestionUnanswered = errors.New("question is unanswerable due to malformed metadata")

	ErrCaptureMismatch  = errors.New("capture operation does not match question type")
	ErrOptionOutOfRange = errors.New("selected option index out of range")
	ErrSlotOutOfRange   = errors.New("target slot index out of range")
)

// MetadataError describes malformed type-specific question metadata, e.g. a
// fill-in-blank payload with no blanks. It is non-fatal: the question is
// surfaced in an unanswerable error state instead of guessing a shape.
type MetadataError struct {
	QuestionID string
	Type       string
	Reason     string
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("malformed %s metadata for question %s: %s", e.Type, e.QuestionID, e.Reason)
}

func NewMetadataError(questionID, questionType, reason string) *MetadataError {
	return &MetadataError{
		QuestionID: questionID,
		Type:       questionType,
		Reason:     reason,
	}
}
