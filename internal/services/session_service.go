package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/SAP-F-2025/session-service/internal/errors"
	"github.com/SAP-F-2025/session-service/internal/models"
	"github.com/SAP-F-2025/session-service/internal/session"
	"github.com/SAP-F-2025/session-service/internal/store/memory"
	redisstore "github.com/SAP-F-2025/session-service/internal/store/redis"
	"github.com/SAP-F-2025/session-service/internal/utils"
	"github.com/SAP-F-2025/session-service/internal/validator"
)

// Gateway is the full contract with the assessment backend: the bootstrap
// operations plus the grading/results operations the controller itself uses.
type Gateway interface {
	session.Gateway
	StartAssessment(ctx context.Context, subjectID, period string) (*models.StartResult, error)
	StartStandardAssignment(ctx context.Context, assignmentID string) (*models.StartResult, error)
	StartAdaptiveAssignment(ctx context.Context, assignmentID string) (*models.StartResult, error)
}

// SnapshotStore persists the latest snapshot per session for re-attach.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *models.SessionSnapshot) error
	Get(ctx context.Context, sessionID string) (*models.SessionSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

// ===== REQUEST / RESPONSE TYPES =====

// StartSessionRequest bootstraps a session either from a subject/period
// pair (adaptive benchmark assessment) or from an assignment id with an
// explicit mode.
type StartSessionRequest struct {
	SubjectID    string             `json:"subject_id"`
	Period       string             `json:"period"`
	AssignmentID string             `json:"assignment_id"`
	Mode         models.SessionMode `json:"mode" validate:"omitempty,session_mode"`
}

const (
	CaptureSelect   = "select"
	CaptureToggle   = "toggle"
	CaptureSetBlank = "set_blank"
	CaptureSetMatch = "set_match"
	CaptureSetText  = "set_text"
)

// CaptureRequest mutates the in-progress answer container. Action decides
// which fields are read.
type CaptureRequest struct {
	Action string `json:"action" validate:"required,oneof=select toggle set_blank set_match set_text"`
	Option *int   `json:"option,omitempty"`
	Slot   *int   `json:"slot,omitempty"`
	Left   *int   `json:"left,omitempty"`
	Right  *int   `json:"right,omitempty"`
	Text   string `json:"text,omitempty"`
}

// ===== SERVICE =====

type SessionService struct {
	registry  *memory.Registry
	snapshots SnapshotStore
	gateway   Gateway
	notifier  session.Notifier
	archiver  session.Archiver
	logger    utils.Logger
	validator *validator.Validator
}

func NewSessionService(
	registry *memory.Registry,
	snapshots SnapshotStore,
	gateway Gateway,
	notifier session.Notifier,
	archiver session.Archiver,
	logger utils.Logger,
	v *validator.Validator,
) *SessionService {
	return &SessionService{
		registry:  registry,
		snapshots: snapshots,
		gateway:   gateway,
		notifier:  notifier,
		archiver:  archiver,
		logger:    logger,
		validator: v,
	}
}

// Start bootstraps a new assessment session. Bootstrap failure is fatal for
// the attempt: no session is registered and the caller returns to its
// dashboard.
func (s *SessionService) Start(ctx context.Context, req *StartSessionRequest) (*models.SessionSnapshot, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	start, err := s.bootstrap(ctx, req)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	ctrl := session.NewController(session.Config{
		SessionID: sessionID,
		Gateway:   s.gateway,
		Logger:    s.logger,
		Notifier:  s.notifier,
		Archiver:  s.archiver,
		// Adaptive sessions reach terminal inside the deferred feedback
		// advance, after Submit has returned; the hook keeps the registry
		// and the persisted snapshot current on every terminal path.
		OnTerminal: func(snap models.SessionSnapshot) {
			s.registry.Delete(snap.SessionID)
			s.persistSnapshot(context.Background(), &snap)
		},
	})

	if !s.registry.Put(sessionID, ctrl) {
		return nil, fmt.Errorf("session id collision for %s", sessionID)
	}

	if err := ctrl.Start(ctx, start); err != nil {
		s.registry.Delete(sessionID)
		if errors.Is(err, session.ErrAlreadyStarted) {
			return nil, ErrSessionAlreadyStarted
		}
		return nil, fmt.Errorf("%w: %v", ErrBootstrapFailed, err)
	}

	snap := ctrl.Snapshot()
	s.persistSnapshot(ctx, &snap)
	return &snap, nil
}

func (s *SessionService) bootstrap(ctx context.Context, req *StartSessionRequest) (*models.StartResult, error) {
	switch {
	case req.AssignmentID != "" && req.Mode == models.ModeStandard:
		return s.gateway.StartStandardAssignment(ctx, req.AssignmentID)
	case req.AssignmentID != "":
		return s.gateway.StartAdaptiveAssignment(ctx, req.AssignmentID)
	case req.SubjectID != "" && req.Period != "":
		return s.gateway.StartAssessment(ctx, req.SubjectID, req.Period)
	default:
		return nil, ErrMissingStartParams
	}
}

// Get returns the current snapshot. A session that is not live in this
// process falls back to the persisted snapshot so a reconnecting client can
// still render its last known state.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	if ctrl, ok := s.registry.Get(sessionID); ok {
		snap := ctrl.Snapshot()
		return &snap, nil
	}
	if s.snapshots != nil {
		snap, err := s.snapshots.Get(ctx, sessionID)
		if err == nil {
			return snap, nil
		}
		if !errors.Is(err, redisstore.ErrSnapshotNotFound) {
			s.logger.Error("Failed to read persisted snapshot",
				"session_id", sessionID, "error", err)
		}
	}
	return nil, ErrSessionNotFound
}

// Capture applies one answer-capture mutation to a live session.
func (s *SessionService) Capture(ctx context.Context, sessionID string, req *CaptureRequest) (*models.SessionSnapshot, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	ctrl, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	var err error
	switch req.Action {
	case CaptureSelect:
		if req.Option == nil {
			return nil, fmt.Errorf("%w: select needs an option index", ErrBadRequest)
		}
		err = ctrl.SelectOption(*req.Option)
	case CaptureToggle:
		if req.Option == nil {
			return nil, fmt.Errorf("%w: toggle needs an option index", ErrBadRequest)
		}
		err = ctrl.ToggleOption(*req.Option)
	case CaptureSetBlank:
		if req.Slot == nil || req.Option == nil {
			return nil, fmt.Errorf("%w: set_blank needs slot and option indexes", ErrBadRequest)
		}
		err = ctrl.SetBlank(*req.Slot, *req.Option)
	case CaptureSetMatch:
		if req.Left == nil || req.Right == nil {
			return nil, fmt.Errorf("%w: set_match needs left and right indexes", ErrBadRequest)
		}
		err = ctrl.SetMatch(*req.Left, *req.Right)
	case CaptureSetText:
		err = ctrl.SetText(req.Text)
	}
	if err != nil {
		return nil, err
	}

	snap := ctrl.Snapshot()
	s.persistSnapshot(ctx, &snap)
	return &snap, nil
}

// Submit grades the current answer of a live session.
func (s *SessionService) Submit(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	ctrl, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	if err := ctrl.Submit(ctx); err != nil {
		return nil, err
	}

	snap := ctrl.Snapshot()
	s.persistSnapshot(ctx, &snap)
	if snap.Phase == models.PhaseTerminal {
		s.registry.Delete(sessionID)
	}
	return &snap, nil
}

// TimeRemaining reports the countdown for a live session.
func (s *SessionService) TimeRemaining(ctx context.Context, sessionID string) (int, error) {
	ctrl, ok := s.registry.Get(sessionID)
	if !ok {
		return 0, ErrSessionNotFound
	}
	return ctrl.Snapshot().TimeRemaining, nil
}

// Teardown cancels a session on navigation-away or unmount. Idempotent.
func (s *SessionService) Teardown(ctx context.Context, sessionID string) error {
	ctrl, ok := s.registry.Get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}

	ctrl.Teardown(ctx)
	s.registry.Delete(sessionID)
	if s.snapshots != nil {
		if err := s.snapshots.Delete(ctx, sessionID); err != nil {
			s.logger.Error("Failed to delete persisted snapshot",
				"session_id", sessionID, "error", err)
		}
	}

	s.logger.Info("Session torn down", "session_id", sessionID)
	return nil
}

// Subscribe attaches a state stream to a live session.
func (s *SessionService) Subscribe(sessionID string) (<-chan models.SessionSnapshot, func(), error) {
	ctrl, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, nil, ErrSessionNotFound
	}
	ch, cancel := ctrl.Subscribe()
	return ch, cancel, nil
}

// LiveSessions reports how many sessions are live in this process.
func (s *SessionService) LiveSessions() int {
	return s.registry.Len()
}

// validate runs the struct validator and converts failures into readable
// per-field messages.
func (s *SessionService) validate(req interface{}) error {
	err := s.validator.Validate(req)
	if err == nil {
		return nil
	}
	if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
		return fmt.Errorf("%w: %s", ErrValidationFailed, converted.Error())
	}
	return fmt.Errorf("%w: %v", ErrValidationFailed, err)
}

func (s *SessionService) persistSnapshot(ctx context.Context, snap *models.SessionSnapshot) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		s.logger.Error("Failed to persist session snapshot",
			"session_id", snap.SessionID, "error", err)
	}
}
