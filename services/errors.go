package services

import "errors"

// Error taxonomy for the report lifecycle. Handlers map these to HTTP codes
// with errors.Is; messages wrapped around the sentinels stay user-visible.
var (
	// ErrValidation marks caller-correctable input problems (HTTP 400)
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks lookups for a report code that does not exist (HTTP 404)
	ErrNotFound = errors.New("report not found")
	// ErrInvalidTransition marks status changes that skip, reverse, or leave
	// the terminal state (HTTP 409)
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrAllocationExhausted is returned when every report code draw collided
	// with an existing case (HTTP 500)
	ErrAllocationExhausted = errors.New("report code allocation exhausted")
	// ErrPersistence marks infrastructure failures in the store or the
	// evidence blob location (HTTP 500)
	ErrPersistence = errors.New("persistence failure")
)
