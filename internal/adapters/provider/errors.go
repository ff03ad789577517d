package provider

import "errors"

// Sentinel kinds for snapshot provider errors. Both are fatal to starting a
// session; callers must not substitute defaults for a failed fetch.
var (
	ErrUnavailable = errors.New("band snapshot unavailable")
	ErrOutOfRange  = errors.New("band snapshot metric out of range")
)
