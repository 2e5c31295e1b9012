package services

import "errors"

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Session specific errors
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionNotLive        = errors.New("session is not live on this instance")
	ErrMissingStartParams    = errors.New("start request needs a subject/period pair or an assignment id")
	ErrBootstrapFailed       = errors.New("failed to bootstrap assessment session")
	ErrSessionAlreadyStarted = errors.New("session already started")
)
