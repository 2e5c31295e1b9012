package session

import "github.com/SAP-F-2025/session-service/internal/models"

const (
	// WarningThresholdSeconds is the remaining time at which the one-shot
	// warning notice is raised.
	WarningThresholdSeconds = 300
	// CriticalThresholdSeconds is the remaining time for the critical notice.
	CriticalThresholdSeconds = 120
)

// TickOutcome reports what a single one-second tick produced. The threshold
// crossings are one-shot per session; Expired is raised exactly once.
type TickOutcome struct {
	Remaining       int
	CrossedWarning  bool
	CrossedCritical bool
	Expired         bool
}

// Timer is the countdown state machine:
//
//	Stopped -> Running -> (Warning -> Critical) -> Expired
//
// It holds no goroutine of its own; the owning controller drives it with
// cooperative one-second ticks and stops it on every exit path.
type Timer struct {
	state     models.TimerState
	limit     int
	remaining int

	warningFired  bool
	criticalFired bool
	expiredFired  bool
}

func NewTimer() *Timer {
	return &Timer{state: models.TimerStopped}
}

// Start arms the countdown with the session time limit in seconds. Starting
// an already-armed timer is a no-op so re-entrant initialization cannot
// reset the countdown.
func (t *Timer) Start(limitSeconds int) {
	if t.state != models.TimerStopped {
		return
	}
	t.limit = limitSeconds
	t.remaining = limitSeconds
	t.state = models.TimerRunning
}

// Tick decrements the remaining time by one second and reports any
// threshold crossings. Ticking a stopped or expired timer does nothing.
func (t *Timer) Tick() TickOutcome {
	switch t.state {
	case models.TimerRunning, models.TimerWarning, models.TimerCritical:
	default:
		return TickOutcome{Remaining: t.remaining}
	}

	t.remaining--
	if t.remaining < 0 {
		t.remaining = 0
	}
	outcome := TickOutcome{Remaining: t.remaining}

	if !t.warningFired && t.remaining <= WarningThresholdSeconds {
		t.warningFired = true
		outcome.CrossedWarning = true
		t.state = models.TimerWarning
	}
	if !t.criticalFired && t.remaining <= CriticalThresholdSeconds {
		t.criticalFired = true
		outcome.CrossedCritical = true
		t.state = models.TimerCritical
	}
	if t.remaining == 0 && !t.expiredFired {
		t.expiredFired = true
		outcome.Expired = true
		t.state = models.TimerExpired
	}

	return outcome
}

// Stop halts the countdown. Stopping is idempotent and preserves an
// already-expired state for snapshots.
func (t *Timer) Stop() {
	if t.state == models.TimerExpired {
		return
	}
	t.state = models.TimerStopped
}

func (t *Timer) Remaining() int {
	return t.remaining
}

func (t *Timer) Limit() int {
	return t.limit
}

func (t *Timer) State() models.TimerState {
	return t.state
}

// Elapsed returns consumed seconds, for the terminal session record.
func (t *Timer) Elapsed() int {
	return t.limit - t.remaining
}
