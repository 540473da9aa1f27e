package slots

import (
	"errors"
	"fmt"
)

// Severity classifies an engine error as fatal or recoverable. Fatal errors
// abort the process: the engine cannot safely continue (for example when it
// no longer knows which slot a created device occupies). Recoverable errors
// are logged at the point of detection and the operation is skipped.
type Severity int

const (
	// Recoverable errors are logged and the operation continues
	// best-effort.
	Recoverable Severity = iota
	// Fatal errors must propagate to the top and abort the run.
	Fatal
)

// String returns a human-readable name for the severity.
func (s Severity) String() string {
	switch s {
	case Recoverable:
		return "recoverable"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Error is an engine error carrying a severity tag, the operation that
// produced it and, when applicable, the 1-based slot it concerns.
type Error struct {
	Severity Severity
	Op       string // engine operation, e.g. "fillAll"
	Slot     int    // 1-based slot number, 0 when not slot-specific
	Message  string
	Err      error // underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Slot > 0 {
		msg = fmt.Sprintf("%s (slot %d)", msg, e.Slot)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// Unwrap returns the underlying cause for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// fatalf creates a fatal engine error.
func fatalf(op string, err error, format string, args ...interface{}) *Error {
	return &Error{
		Severity: Fatal,
		Op:       op,
		Message:  fmt.Sprintf(format, args...),
		Err:      err,
	}
}

// IsFatal reports whether err (or anything it wraps) is a fatal engine
// error. Non-engine errors are treated as fatal: an unknown failure is not
// something the engine knows how to continue past.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr.Severity == Fatal
	}
	return true
}
