package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrAlreadyStarted  = errors.New("service already started")
	ErrNotStarted      = errors.New("service not started")
)
