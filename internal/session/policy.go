package session

import (
	"fmt"

	"github.com/SAP-F-2025/session-service/internal/models"
)

// NextState is what a policy produces after a successful submission: either
// the next current question with a fresh answer container, or the terminal
// marker. MetaErr is set when the next question carried malformed metadata
// and is being rendered in its unanswerable error state.
type NextState struct {
	Terminal bool
	Question *models.Question
	Draft    *AnswerDraft
	MetaErr  *MetadataError
}

// modePolicy encapsulates the control-flow variant of a session: where the
// next question comes from, whether feedback is shown, and how completion
// is detected.
type modePolicy interface {
	Mode() models.SessionMode
	// ShowsFeedback reports whether correctness is surfaced mid-session.
	ShowsFeedback() bool
	// Advance produces the next state after a graded submission.
	Advance(result *models.SubmissionResult) (NextState, error)
}

// standardPolicy advances through a pre-loaded ordered question list by a
// local index. It never consults the submission result.
type standardPolicy struct {
	questions []models.QuestionPayload
	index     int
}

func newStandardPolicy(questions []models.QuestionPayload) *standardPolicy {
	return &standardPolicy{questions: questions}
}

func (p *standardPolicy) Mode() models.SessionMode {
	return models.ModeStandard
}

func (p *standardPolicy) ShowsFeedback() bool {
	return false
}

func (p *standardPolicy) Advance(_ *models.SubmissionResult) (NextState, error) {
	p.index++
	if p.index >= len(p.questions) {
		return NextState{Terminal: true}, nil
	}
	question, draft, err := Normalize(&p.questions[p.index])
	next := NextState{Question: question, Draft: draft}
	if err != nil {
		next.MetaErr, _ = err.(*MetadataError)
		if next.MetaErr == nil {
			return NextState{}, err
		}
	}
	return next, nil
}

// adaptivePolicy relies entirely on the grading backend: the next question
// is server-supplied and completion is its explicit flag. It never holds a
// local question list.
type adaptivePolicy struct{}

func newAdaptivePolicy() *adaptivePolicy {
	return &adaptivePolicy{}
}

func (p *adaptivePolicy) Mode() models.SessionMode {
	return models.ModeAdaptive
}

func (p *adaptivePolicy) ShowsFeedback() bool {
	return true
}

func (p *adaptivePolicy) Advance(result *models.SubmissionResult) (NextState, error) {
	if result == nil {
		return NextState{}, fmt.Errorf("adaptive advance requires a submission result")
	}
	if result.Completed {
		return NextState{Terminal: true}, nil
	}
	if result.NextQuestion == nil {
		return NextState{}, fmt.Errorf("submission result is neither completed nor carries a next question")
	}
	question, draft, err := Normalize(result.NextQuestion)
	next := NextState{Question: question, Draft: draft}
	if err != nil {
		next.MetaErr, _ = err.(*MetadataError)
		if next.MetaErr == nil {
			return NextState{}, err
		}
	}
	return next, nil
}
