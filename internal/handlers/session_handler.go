package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/session-service/internal/services"
	"github.com/SAP-F-2025/session-service/internal/session"
	"github.com/SAP-F-2025/session-service/internal/utils"
)

// SessionHandler exposes the session lifecycle entry points consumed by the
// hosting UI: start, answer capture, submit, state reads and teardown.
type SessionHandler struct {
	BaseHandler
	service *services.SessionService
}

func NewSessionHandler(service *services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// StartSession bootstraps a new assessment session.
// POST /api/v1/sessions/start
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	snap, err := h.service.Start(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingStartParams),
			errors.Is(err, services.ErrValidationFailed):
			h.RespondWithError(c, http.StatusBadRequest, "Invalid start request", err)
		default:
			h.RespondWithError(c, http.StatusBadGateway, "Failed to start session", err)
		}
		return
	}

	c.JSON(http.StatusCreated, snap)
}

// GetSession returns the current session snapshot, so a re-rendered client
// re-attaches instead of starting over.
// GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	snap, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondWithError(c, http.StatusNotFound, "Session not found", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// CaptureAnswer applies one answer-capture mutation.
// POST /api/v1/sessions/:id/answer
func (h *SessionHandler) CaptureAnswer(c *gin.Context) {
	var req services.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	snap, err := h.service.Capture(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			h.RespondWithError(c, http.StatusNotFound, "Session not found", err)
		case errors.Is(err, session.ErrSessionNotActive),
			errors.Is(err, session.ErrQuestionUnanswered):
			h.RespondWithError(c, http.StatusConflict, "Session cannot accept input", err)
		case errors.Is(err, session.ErrCaptureMismatch),
			errors.Is(err, session.ErrOptionOutOfRange),
			errors.Is(err, session.ErrSlotOutOfRange),
			errors.Is(err, services.ErrValidationFailed),
			errors.Is(err, services.ErrBadRequest):
			h.RespondWithError(c, http.StatusBadRequest, "Invalid capture request", err)
		default:
			h.RespondWithError(c, http.StatusInternalServerError, "Failed to capture answer", err)
		}
		return
	}

	c.JSON(http.StatusOK, snap)
}

// SubmitAnswer submits the current answer for grading.
// POST /api/v1/sessions/:id/submit
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	snap, err := h.service.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			h.RespondWithError(c, http.StatusNotFound, "Session not found", err)
		case errors.Is(err, session.ErrAnswerIncomplete):
			h.RespondWithError(c, http.StatusUnprocessableEntity, "Answer is incomplete or over limit", err)
		case errors.Is(err, session.ErrSubmissionPending):
			h.RespondWithError(c, http.StatusConflict, "A submission is already in flight", err)
		case errors.Is(err, session.ErrSessionTerminal),
			errors.Is(err, session.ErrSessionNotActive),
			errors.Is(err, session.ErrQuestionUnanswered):
			h.RespondWithError(c, http.StatusConflict, "Session cannot submit in its current state", err)
		default:
			// Gateway failure: the session rolled back to Answering and the
			// client retries manually.
			h.RespondWithError(c, http.StatusBadGateway, "Submission failed, please retry", err)
		}
		return
	}

	c.JSON(http.StatusOK, snap)
}

// GetTimeRemaining reports the countdown.
// GET /api/v1/sessions/:id/time-remaining
func (h *SessionHandler) GetTimeRemaining(c *gin.Context) {
	remaining, err := h.service.TimeRemaining(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondWithError(c, http.StatusNotFound, "Session not found", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"time_remaining": remaining})
}

// TeardownSession cancels a session on navigation-away.
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) TeardownSession(c *gin.Context) {
	if err := h.service.Teardown(c.Request.Context(), c.Param("id")); err != nil {
		h.RespondWithError(c, http.StatusNotFound, "Session not found", err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Session torn down", nil)
}
