package repo

import (
	"context"
	"errors"
	"fmt"
)

// ErrClassifierUnavailable is the single failure category a classifier adapter
// may return. Rate limits, connection failures, and timeouts all collapse into
// it; the wrapped detail exists only for logging. The pipeline never inspects
// anything beyond this sentinel.
var ErrClassifierUnavailable = errors.New("classifier unavailable")

// ClassifierError wraps a transport failure with its kind for log lines.
type ClassifierError struct {
	Kind string // rate_limit, connection, timeout, service
	Err  error
}

func (e *ClassifierError) Error() string {
	return fmt.Sprintf("classifier unavailable (%s): %v", e.Kind, e.Err)
}

func (e *ClassifierError) Unwrap() error { return ErrClassifierUnavailable }

// ClassifierRepo is the judgment-service interface.
//
// ClassifyRaw sends the system prompt and the message text to the external
// judge and returns its raw reply text. It performs exactly one call: no
// retries, no backoff. Any failure is reported as ErrClassifierUnavailable.
// Implementations must be safe for concurrent use.
type ClassifierRepo interface {
	ClassifyRaw(ctx context.Context, systemPrompt, text string) (string, error)
}
