package session

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/session-service/internal/models"
)

// FeedbackDisplayDelay is how long adaptive-mode feedback stays on screen
// before the session advances. Standard mode advances immediately.
const FeedbackDisplayDelay = 1500 * time.Millisecond

// resultsFetchTimeout bounds the terminal detailed-results request, which
// runs outside any caller context.
const resultsFetchTimeout = 30 * time.Second

// Gateway is the session's contract with the external assessment backend:
// the grading oracle plus the one-shot detailed-results fetch.
type Gateway interface {
	SubmitAnswer(ctx context.Context, questionID string, answer models.Answer, assessmentID string) (*models.SubmissionResult, error)
	GetDetailedResults(ctx context.Context, assessmentID string) (*models.DetailedResults, error)
}

// BuildAnswer produces the type-correct wire payload from the draft. An
// incomplete draft is rejected here so a placeholder-padded container can
// never reach the gateway.
func BuildAnswer(q *models.Question, d *AnswerDraft) (models.Answer, error) {
	if !d.Complete(q) {
		return models.Answer{}, ErrAnswerIncomplete
	}

	switch q.Type {
	case models.MultipleChoice, models.TrueFalse:
		idx := *d.selectedIndex
		return models.Answer{SelectedIndex: &idx}, nil
	case models.MultipleSelect:
		return models.Answer{SelectedIndexes: append([]int(nil), d.selectedIndexes...)}, nil
	case models.FillInBlank:
		selections := make([]int, len(d.blankSelections))
		for i, sel := range d.blankSelections {
			selections[i] = *sel
		}
		return models.Answer{BlankSelections: selections}, nil
	case models.Matching:
		selections := make([]int, len(d.matchSelections))
		for i, sel := range d.matchSelections {
			selections[i] = *sel
		}
		return models.Answer{MatchSelections: selections}, nil
	case models.ShortAnswer, models.Essay:
		text := d.text
		return models.Answer{Text: &text}, nil
	default:
		return models.Answer{}, fmt.Errorf("cannot build answer for question type %q", q.Type)
	}
}

// Submit grades the current answer. On gateway failure nothing is retried
// automatically: the error is surfaced and the session rolls back to
// Answering so the user may retry manually. On success advancement is
// deferred to the mode policy: immediately for standard sessions, after the
// feedback display delay for adaptive ones.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()

	if !c.started {
		c.mu.Unlock()
		return ErrSessionNotActive
	}
	if c.phase == models.PhaseTerminal {
		c.mu.Unlock()
		return ErrSessionTerminal
	}
	if c.pendingSubmit || c.phase == models.PhaseSubmitting {
		c.mu.Unlock()
		return ErrSubmissionPending
	}
	if c.phase != models.PhaseAnswering {
		c.mu.Unlock()
		return ErrSessionNotActive
	}
	if c.question.Unanswerable {
		c.mu.Unlock()
		return ErrQuestionUnanswered
	}

	payload, err := BuildAnswer(c.question, c.draft)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	question := c.question
	assessmentID := c.assessmentID
	c.phase = models.PhaseSubmitting
	c.pendingSubmit = true
	c.broadcastLocked(c.snapshotLocked())
	c.mu.Unlock()

	// Suspension point: the timer keeps ticking while the request is
	// in flight.
	result, err := c.gateway.SubmitAnswer(ctx, question.ID, payload, assessmentID)

	c.mu.Lock()
	c.pendingSubmit = false
	if c.phase == models.PhaseTerminal {
		// Torn down while the request was in flight. The abandoned record
		// is already archived; the late grading result is discarded.
		c.mu.Unlock()
		c.logger.Warn("Discarding submission result for a terminal session",
			"session_id", c.id,
			"question_id", question.ID)
		return ErrSessionTerminal
	}
	if err != nil {
		// Roll back to the pre-submission state for a manual retry.
		if c.phase == models.PhaseSubmitting {
			c.phase = models.PhaseAnswering
		}
		c.broadcastLocked(c.snapshotLocked())
		c.mu.Unlock()
		c.logger.Error("Answer submission failed",
			"session_id", c.id,
			"question_id", question.ID,
			"error", err)
		return fmt.Errorf("failed to submit answer: %w", err)
	}

	if !c.answeredSet[question.QuestionNumber] {
		c.answeredSet[question.QuestionNumber] = true
		c.answered = append(c.answered, question.QuestionNumber)
	}
	c.finalAnswers = append(c.finalAnswers, submittedAnswer{
		QuestionID:     question.ID,
		QuestionNumber: question.QuestionNumber,
		Answer:         payload,
	})

	c.logger.Info("Answer submitted",
		"session_id", c.id,
		"question_id", question.ID,
		"question_number", question.QuestionNumber)

	snap := c.snapshotLocked()
	c.publish(EventAnswerSubmitted, snap)

	if c.policy.ShowsFeedback() && result.IsCorrect != nil {
		c.feedback = models.Feedback{IsCorrect: *result.IsCorrect, Visible: true}
		c.phase = models.PhaseFeedback
		c.broadcastLocked(c.snapshotLocked())
		c.mu.Unlock()

		c.afterFunc(c.feedbackDelay, func() { c.advance(result) })
		return nil
	}

	c.advanceLocked(result)
	c.broadcastLocked(c.snapshotLocked())
	c.mu.Unlock()
	return nil
}

// advance is the deferred continuation after the feedback display delay.
func (c *Controller) advance(result *models.SubmissionResult) {
	c.mu.Lock()
	if c.phase == models.PhaseTerminal {
		c.mu.Unlock()
		return
	}
	c.advanceLocked(result)
	c.broadcastLocked(c.snapshotLocked())
	c.mu.Unlock()
}

func (c *Controller) advanceLocked(result *models.SubmissionResult) {
	c.feedback = models.Feedback{}

	next, err := c.policy.Advance(result)
	if err != nil {
		// The grading backend broke its contract; there is no question to
		// continue with, so the session ends rather than hanging.
		c.logger.Error("Advancement failed, terminating session",
			"session_id", c.id, "error", err)
		c.finishLocked()
		return
	}

	if next.Terminal {
		c.finishLocked()
		return
	}

	if next.MetaErr != nil {
		c.logger.Warn("Next question has malformed metadata, rendering error state",
			"session_id", c.id,
			"question_id", next.MetaErr.QuestionID,
			"reason", next.MetaErr.Reason)
	}

	c.question = next.Question
	c.draft = next.Draft
	c.phase = models.PhaseAnswering
}

// finishLocked transitions the session to Terminal: the timer is cancelled,
// the record is archived and the detailed results are requested once.
func (c *Controller) finishLocked() {
	c.phase = models.PhaseTerminal
	if c.timer.State() == models.TimerExpired {
		c.endReason = models.EndReasonTimeout
	} else {
		c.endReason = models.EndReasonCompleted
	}
	c.timer.Stop()
	c.stopTickerLocked()

	snap := c.snapshotLocked()
	record := c.buildRecordLocked()

	c.logger.Info("Assessment session completed",
		"session_id", c.id,
		"assessment_id", c.assessmentID,
		"end_reason", c.endReason,
		"answered_count", record.AnsweredCount)

	c.publish(EventCompleted, snap)
	go func() {
		c.notifyTerminal(snap)
		ctx, cancel := context.WithTimeout(context.Background(), resultsFetchTimeout)
		defer cancel()
		c.archive(ctx, record)
		c.fetchResults(ctx)
		c.notifyTerminal(c.Snapshot())
	}()
}

// fetchResults performs the one-shot detailed-results request that hands
// the session off to the results view. Subscribers are released whether or
// not the fetch succeeds, so watch streams always see the channel close.
func (c *Controller) fetchResults(ctx context.Context) {
	results, err := c.gateway.GetDetailedResults(ctx, c.assessmentID)

	c.mu.Lock()
	if err != nil {
		c.logger.Error("Failed to fetch detailed results",
			"session_id", c.id,
			"assessment_id", c.assessmentID,
			"error", err)
	} else {
		c.results = results
	}
	c.broadcastLocked(c.snapshotLocked())
	c.closeSubscribersLocked()
	c.mu.Unlock()
}
