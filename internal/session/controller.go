package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/SAP-F-2025/session-service/internal/models"
	"github.com/SAP-F-2025/session-service/internal/utils"
)

// LifecycleEvent identifies the session notifications published to the
// event bus.
type LifecycleEvent string

const (
	EventStarted         LifecycleEvent = "session.started"
	EventTimeWarning     LifecycleEvent = "session.time_warning"
	EventTimeCritical    LifecycleEvent = "session.time_critical"
	EventAnswerSubmitted LifecycleEvent = "session.answer_submitted"
	EventCompleted       LifecycleEvent = "session.completed"
	EventAbandoned       LifecycleEvent = "session.abandoned"
)

// Notifier publishes session lifecycle events. Implementations must be safe
// for concurrent use; failures are logged, never propagated into the
// session flow.
type Notifier interface {
	Notify(ctx context.Context, event LifecycleEvent, snapshot *models.SessionSnapshot)
}

// Archiver persists the record of a terminal session.
type Archiver interface {
	Archive(ctx context.Context, record *models.SessionRecord) error
}

// Config wires a controller to its collaborators. TickInterval, Delay and
// AfterFunc exist so tests can drive time deterministically.
type Config struct {
	SessionID string
	Gateway   Gateway
	Logger    utils.Logger
	Notifier  Notifier
	Archiver  Archiver

	TickInterval  time.Duration
	FeedbackDelay time.Duration
	Now           func() time.Time
	AfterFunc     func(d time.Duration, f func())

	// OnTerminal is invoked (off the session lock) when the session reaches
	// its terminal state through submission or expiry, so the hosting layer
	// can evict the live session and persist the final snapshot. Adaptive
	// sessions terminate inside the deferred feedback advance, after the
	// submit call has already returned to the caller.
	OnTerminal func(snapshot models.SessionSnapshot)
}

// submittedAnswer is kept for the terminal session record.
type submittedAnswer struct {
	QuestionID     string        `json:"question_id"`
	QuestionNumber int           `json:"question_number"`
	Answer         models.Answer `json:"answer"`
}

// Controller drives one assessment session. Two asynchronous mutation
// sources exist (the one-second tick and user input with its submission
// flow); every mutation serializes through one mutex so the shared state
// has a single, ordered history.
type Controller struct {
	mu sync.Mutex

	id           string
	assessmentID string
	mode         models.SessionMode
	phase        models.SessionPhase
	policy       modePolicy
	timer        *Timer

	question *models.Question
	draft    *AnswerDraft
	feedback models.Feedback

	answered     []int
	answeredSet  map[int]bool
	finalAnswers []submittedAnswer

	started       bool
	pendingSubmit bool
	autoSubmitted bool

	endReason models.SessionEndReason
	results   *models.DetailedResults
	startedAt time.Time

	subscribers map[chan models.SessionSnapshot]struct{}
	stopTick    chan struct{}
	stopOnce    sync.Once

	gateway       Gateway
	logger        utils.Logger
	notifier      Notifier
	archiver      Archiver
	onTerminal    func(snapshot models.SessionSnapshot)
	tickInterval  time.Duration
	feedbackDelay time.Duration
	now           func() time.Time
	afterFunc     func(d time.Duration, f func())
}

func NewController(cfg Config) *Controller {
	c := &Controller{
		id:            cfg.SessionID,
		phase:         models.PhaseInitializing,
		timer:         NewTimer(),
		answeredSet:   make(map[int]bool),
		subscribers:   make(map[chan models.SessionSnapshot]struct{}),
		stopTick:      make(chan struct{}),
		gateway:       cfg.Gateway,
		logger:        cfg.Logger,
		notifier:      cfg.Notifier,
		archiver:      cfg.Archiver,
		onTerminal:    cfg.OnTerminal,
		tickInterval:  cfg.TickInterval,
		feedbackDelay: cfg.FeedbackDelay,
		now:           cfg.Now,
		afterFunc:     cfg.AfterFunc,
	}
	if c.tickInterval <= 0 {
		c.tickInterval = time.Second
	}
	if c.feedbackDelay <= 0 {
		c.feedbackDelay = FeedbackDisplayDelay
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.afterFunc == nil {
		c.afterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	return c
}

// Start enters the session with a bootstrap payload. The start-once latch
// makes re-entrant starts (re-renders, navigation replays racing the
// asynchronous bootstrap) a no-op: the second call gets ErrAlreadyStarted
// and the caller re-attaches to the existing session instead.
func (c *Controller) Start(ctx context.Context, start *models.StartResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return ErrAlreadyStarted
	}
	if start == nil || start.AssessmentID == "" {
		return fmt.Errorf("bootstrap payload is missing required fields")
	}

	var first *models.QuestionPayload
	switch start.Mode {
	case models.ModeStandard:
		if len(start.AllQuestions) == 0 {
			return fmt.Errorf("standard session bootstrap carries no question list")
		}
		c.policy = newStandardPolicy(start.AllQuestions)
		first = &start.AllQuestions[0]
	case models.ModeAdaptive:
		if start.Question == nil {
			return fmt.Errorf("adaptive session bootstrap carries no initial question")
		}
		c.policy = newAdaptivePolicy()
		first = start.Question
	default:
		return fmt.Errorf("unknown session mode %q", start.Mode)
	}

	question, draft, err := Normalize(first)
	if err != nil {
		if metaErr, ok := err.(*MetadataError); ok {
			c.logger.Warn("Initial question has malformed metadata, rendering error state",
				"session_id", c.id,
				"question_id", metaErr.QuestionID,
				"reason", metaErr.Reason)
		} else {
			return fmt.Errorf("failed to normalize initial question: %w", err)
		}
	}

	c.started = true
	c.assessmentID = start.AssessmentID
	c.mode = start.Mode
	c.question = question
	c.draft = draft
	c.feedback = models.Feedback{}
	c.startedAt = c.now()
	c.phase = models.PhaseAnswering

	c.timer.Start(start.TimeLimitMinutes * 60)
	go c.runTicker()

	c.logger.Info("Assessment session started",
		"session_id", c.id,
		"assessment_id", c.assessmentID,
		"mode", c.mode,
		"time_limit_seconds", c.timer.Limit())

	snap := c.snapshotLocked()
	c.publish(EventStarted, snap)
	c.broadcastLocked(snap)
	return nil
}

// runTicker drives the cooperative one-second tick until the session stops.
func (c *Controller) runTicker() {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopTick:
			return
		case <-ticker.C:
			c.HandleTick()
		}
	}
}

// HandleTick applies one timer tick to the session. Exported so tests (and
// a hosting layer that owns its own clock) can drive time explicitly.
func (c *Controller) HandleTick() {
	c.mu.Lock()

	if c.phase == models.PhaseTerminal {
		c.mu.Unlock()
		return
	}

	outcome := c.timer.Tick()
	snap := c.snapshotLocked()

	if outcome.CrossedWarning {
		c.logger.Info("Session time warning threshold crossed",
			"session_id", c.id, "remaining", outcome.Remaining)
		c.publish(EventTimeWarning, snap)
	}
	if outcome.CrossedCritical {
		c.logger.Info("Session time critical threshold crossed",
			"session_id", c.id, "remaining", outcome.Remaining)
		c.publish(EventTimeCritical, snap)
	}

	autoSubmit := false
	if outcome.Expired {
		// Exactly one auto-submit, and only when a validator-approved
		// answer exists and no submission is already in flight. Otherwise
		// the session stalls awaiting an external force-advance.
		if !c.pendingSubmit && !c.autoSubmitted && c.phase == models.PhaseAnswering && c.draft.Complete(c.question) {
			c.autoSubmitted = true
			autoSubmit = true
		} else {
			c.logger.Warn("Session timer expired without a submittable answer",
				"session_id", c.id,
				"phase", c.phase,
				"pending_submit", c.pendingSubmit)
		}
	}

	c.broadcastLocked(snap)
	c.mu.Unlock()

	if autoSubmit {
		go func() {
			if err := c.Submit(context.Background()); err != nil {
				c.logger.Error("Auto-submit on expiry failed",
					"session_id", c.id, "error", err)
			}
		}()
	}
}

// ===== ANSWER CAPTURE =====

func (c *Controller) SelectOption(option int) error {
	return c.capture(func() error { return c.draft.Select(c.question, option) })
}

func (c *Controller) ToggleOption(option int) error {
	return c.capture(func() error { return c.draft.Toggle(c.question, option) })
}

func (c *Controller) SetBlank(slot, option int) error {
	return c.capture(func() error { return c.draft.SetBlank(c.question, slot, option) })
}

func (c *Controller) SetMatch(left, right int) error {
	return c.capture(func() error { return c.draft.SetMatch(c.question, left, right) })
}

func (c *Controller) SetText(text string) error {
	return c.capture(func() error { return c.draft.SetText(text) })
}

func (c *Controller) capture(mutate func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return ErrSessionNotActive
	}
	if c.phase != models.PhaseAnswering {
		return ErrSessionNotActive
	}
	if c.question != nil && c.question.Unanswerable {
		return ErrQuestionUnanswered
	}
	if err := mutate(); err != nil {
		return err
	}
	c.broadcastLocked(c.snapshotLocked())
	return nil
}

// ===== READ SIDE =====

// Snapshot returns an immutable copy of the current session state.
func (c *Controller) Snapshot() models.SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() models.SessionSnapshot {
	snap := models.SessionSnapshot{
		SessionID:        c.id,
		AssessmentID:     c.assessmentID,
		Mode:             c.mode,
		Phase:            c.phase,
		TimerState:       c.timer.State(),
		TimeLimitSeconds: c.timer.Limit(),
		TimeRemaining:    c.timer.Remaining(),
		Feedback:         c.feedback,
		Answered:         append([]int(nil), c.answered...),
		EndReason:        c.endReason,
		Results:          c.results,
		UpdatedAt:        c.now(),
	}
	if c.question != nil {
		q := *c.question
		snap.Question = &q
		snap.CanSubmit = c.phase == models.PhaseAnswering && !c.pendingSubmit && c.draft.Complete(c.question)
	}
	if c.draft != nil {
		state := c.draft.State()
		snap.Answer = &state
	}
	return snap
}

// Subscribe returns a channel of state snapshots. The cancel function must
// be called to release the subscription.
func (c *Controller) Subscribe() (<-chan models.SessionSnapshot, func()) {
	ch := make(chan models.SessionSnapshot, 8)

	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	initial := c.snapshotLocked()
	c.mu.Unlock()

	ch <- initial

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

func (c *Controller) broadcastLocked(snap models.SessionSnapshot) {
	for ch := range c.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale update so a slow consumer cannot block the
			// session reducer.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// publish fires a lifecycle notification without blocking the reducer.
func (c *Controller) publish(event LifecycleEvent, snap models.SessionSnapshot) {
	if c.notifier == nil {
		return
	}
	go c.notifier.Notify(context.Background(), event, &snap)
}

// ===== TEARDOWN =====

// Teardown cancels the session: the timer stops, the partial session is
// archived and subscribers are released. Tearing down a terminal session
// only re-runs the idempotent cleanup.
func (c *Controller) Teardown(ctx context.Context) {
	c.mu.Lock()
	if c.phase == models.PhaseTerminal {
		c.stopTickerLocked()
		c.mu.Unlock()
		return
	}

	c.phase = models.PhaseTerminal
	c.endReason = models.EndReasonAbandoned
	c.timer.Stop()
	c.stopTickerLocked()

	snap := c.snapshotLocked()
	record := c.buildRecordLocked()
	c.broadcastLocked(snap)
	c.closeSubscribersLocked()
	c.mu.Unlock()

	c.logger.Info("Assessment session torn down",
		"session_id", c.id,
		"assessment_id", c.assessmentID,
		"answered_count", record.AnsweredCount)

	c.publish(EventAbandoned, snap)
	c.archive(ctx, record)
}

func (c *Controller) stopTickerLocked() {
	c.stopOnce.Do(func() { close(c.stopTick) })
}

func (c *Controller) closeSubscribersLocked() {
	for ch := range c.subscribers {
		delete(c.subscribers, ch)
		close(ch)
	}
}

func (c *Controller) buildRecordLocked() *models.SessionRecord {
	answered, _ := json.Marshal(c.answered)
	answers, _ := json.Marshal(c.finalAnswers)
	return &models.SessionRecord{
		SessionID:        c.id,
		AssessmentID:     c.assessmentID,
		Mode:             c.mode,
		EndReason:        c.endReason,
		TimeLimitSeconds: c.timer.Limit(),
		ElapsedSeconds:   c.timer.Elapsed(),
		AnsweredCount:    len(c.answered),
		Answered:         answered,
		Answers:          answers,
		StartedAt:        c.startedAt,
		EndedAt:          c.now(),
	}
}

func (c *Controller) notifyTerminal(snap models.SessionSnapshot) {
	if c.onTerminal != nil {
		c.onTerminal(snap)
	}
}

func (c *Controller) archive(ctx context.Context, record *models.SessionRecord) {
	if c.archiver == nil {
		return
	}
	if err := c.archiver.Archive(ctx, record); err != nil {
		c.logger.Error("Failed to archive session record",
			"session_id", c.id, "error", err)
	}
}
