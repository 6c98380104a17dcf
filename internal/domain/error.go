package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOperationFailed = errors.New("operation failed")

	// Entitlement errors. Quota exhaustion is a verdict, not an error;
	// only infrastructure failures surface here.
	ErrStoreUnreachable = errors.New("store unreachable")

	// Generation errors
	ErrInvalidInput        = errors.New("invalid input")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrProviderFailure     = errors.New("provider failure")
	ErrMissingResult       = errors.New("missing result in provider response")
	ErrTimeout             = errors.New("generation timed out")
)

// GenerationError wraps one of the generation sentinels with the context a
// caller needs to show an actionable message: which transport failed and the
// provider's correlation token when one was assigned. The token matters for
// Timeout in particular, since the provider keeps processing after we stop
// polling and support can look the job up later.
type GenerationError struct {
	Err       error  // one of the generation sentinels above
	Transport string // transport name, e.g. "relay-primary" or "fal-direct"
	RequestID string // provider correlation token, empty if never queued
	Detail    string
}

func (e *GenerationError) Error() string {
	msg := e.Err.Error()
	if e.Transport != "" {
		msg = e.Transport + ": " + msg
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("%s (request_id=%s)", msg, e.RequestID)
	}
	if e.Detail != "" {
		msg = msg + ": " + e.Detail
	}
	return msg
}

func (e *GenerationError) Unwrap() error { return e.Err }
