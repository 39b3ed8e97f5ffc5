package domain

import "errors"

var (
	ErrValidation            = errors.New("validation failed")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidTransition     = errors.New("invalid navigation transition")
	ErrUnknownTopic          = errors.New("unknown topic")
	ErrUnknownTab            = errors.New("unknown tab")
	ErrUnauthenticated       = errors.New("not logged in")
	ErrSessionNotFound       = errors.New("session not found")
	ErrCollectionUnavailable = errors.New("collection unavailable")
)
