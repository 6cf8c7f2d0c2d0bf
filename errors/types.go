package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Kind classifies a widget error
type Kind string

const (
	// KindAuthUnavailable means no usable browser session was found, or the
	// API rejected the cookies we sent.
	KindAuthUnavailable Kind = "auth_unavailable"

	// KindNetwork covers connection failures, timeouts and unexpected
	// HTTP statuses that are not auth rejections.
	KindNetwork Kind = "network"

	// KindParse covers malformed response bodies and out-of-range values.
	KindParse Kind = "parse"

	// KindProcessSpawn means the embedded CLI could not be started.
	KindProcessSpawn Kind = "process_spawn"

	// KindConfig covers invalid configuration.
	KindConfig Kind = "config"
)

// WidgetError is a classified, recoverable error. None of these are fatal to
// the running widget; the scheduler retries on the next tick and the UI keeps
// showing the last known data.
type WidgetError struct {
	Kind      Kind
	Message   string
	Cause     error
	Timestamp time.Time
	CanRetry  bool
}

func (e *WidgetError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *WidgetError) Unwrap() error {
	return e.Cause
}

// New creates a WidgetError of the given kind.
func New(kind Kind, message string) *WidgetError {
	return &WidgetError{
		Kind:      kind,
		Message:   message,
		Timestamp: time.Now(),
		CanRetry:  kind != KindConfig,
	}
}

// Wrap creates a WidgetError of the given kind wrapping a cause.
func Wrap(kind Kind, message string, cause error) *WidgetError {
	e := New(kind, message)
	e.Cause = cause
	return e
}

// KindOf returns the kind of err, or KindNetwork if err is not a WidgetError.
// Network is the safe default: it is always retryable and never prompts a
// credential re-resolution.
func KindOf(err error) Kind {
	var we *WidgetError
	if stderrors.As(err, &we) {
		return we.Kind
	}
	return KindNetwork
}

// IsAuth reports whether err is an auth-rejection/auth-unavailable error.
func IsAuth(err error) bool {
	return KindOf(err) == KindAuthUnavailable
}
