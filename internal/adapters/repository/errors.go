package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound      = errors.New("result not found")
	ErrInvalidLimit  = errors.New("invalid chart limit")
	ErrDuplicate     = errors.New("result already stored")
	ErrMissingResult = errors.New("nil result")
)
