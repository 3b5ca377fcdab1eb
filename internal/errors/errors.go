package apperrors

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of a batch run to the OS.
const (
	ExitSuccess         = 0   // Every worker reported success.
	ExitErrorGeneric    = 1   // Indicates a generic error, including rejected sends.
	ExitErrorIncomplete = 2   // Fewer outcomes than workers were collected.
	ExitPartial         = 3   // All outcomes collected, at least one is an error.
	ExitErrorConfig     = 4   // Indicates a configuration error.
	ExitErrorCanceled   = 130 // Indicates the run was canceled (e.g., SIGINT).
)

// Fault kinds reported by FaultKind for well-known error classes.
const (
	KindPanic      = "panic"
	KindCanceled   = "canceled"
	KindDeadline   = "deadline"
	KindValidation = "validation"
	KindGoexit     = "goexit"
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WorkerFault is a fault raised inside a worker's computation. It never
// leaves the worker as an error; the worker turns it into an Error outcome.
type WorkerFault struct {
	// Worker is the name of the faulting worker.
	Worker string
	// Kind classifies the fault (see FaultKind).
	Kind string
	// Cause is the underlying error.
	Cause error
}

// Error returns "<kind>: <cause>".
func (e WorkerFault) Error() string {
	if e.Cause == nil {
		return e.Kind
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

// Unwrap returns the original cause.
func (e WorkerFault) Unwrap() error { return e.Cause }

// PanicError carries a value recovered from a panicking computation.
type PanicError struct {
	// Value is what was passed to panic.
	Value any
	// Stack is the goroutine stack captured at recovery time.
	Stack []byte
}

// Error returns the panic value formatted with %v.
func (e PanicError) Error() string { return fmt.Sprintf("%v", e.Value) }

// Unwrap returns the panic value when it is itself an error.
func (e PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// DrainTimeoutError is returned when the coordinator's drain deadline expires
// before every launched worker's outcome was collected.
type DrainTimeoutError struct {
	// Expected is the number of workers launched.
	Expected int
	// Received is how many outcomes were collected before the deadline.
	Received int
	// Limit is the configured drain deadline.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e DrainTimeoutError) Error() string {
	return fmt.Sprintf("drain timed out after %s: received %d of %d outcomes", e.Limit, e.Received, e.Expected)
}

// Is makes errors.Is(err, context.DeadlineExceeded) hold for drain timeouts.
func (e DrainTimeoutError) Is(target error) bool {
	return target == context.DeadlineExceeded
}

// CountMismatchError reports a batch whose collected outcomes do not match
// the number of launched workers.
type CountMismatchError struct {
	Expected int
	Received int
	Rejected int
}

// Error returns a formatted message describing the mismatch.
func (e CountMismatchError) Error() string {
	if e.Rejected > 0 {
		return fmt.Sprintf("outcome count mismatch: expected %d, received %d, refused %d sends", e.Expected, e.Received, e.Rejected)
	}
	return fmt.Sprintf("outcome count mismatch: expected %d, received %d", e.Expected, e.Received)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As(). It returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// FaultKind names the class of err, the way an exception class name would.
// Well-known classes get a stable name; anything else reports the dynamic
// type of the innermost wrapped error.
func FaultKind(err error) string {
	if err == nil {
		return ""
	}
	var fault WorkerFault
	if errors.As(err, &fault) && fault.Kind != "" {
		return fault.Kind
	}
	var p PanicError
	if errors.As(err, &p) {
		return KindPanic
	}
	switch {
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return KindDeadline
	}
	var v ValidationError
	if errors.As(err, &v) {
		return KindValidation
	}

	inner := err
	for {
		next := errors.Unwrap(inner)
		if next == nil {
			break
		}
		inner = next
	}
	return typeName(inner)
}

func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		return "error"
	}
	if pkg := t.PkgPath(); pkg != "" {
		return pkg[strings.LastIndex(pkg, "/")+1:] + "." + name
	}
	return name
}

// ExitCodeFor maps a run-level error to an exit code. Context cancellation
// maps to ExitErrorCanceled, drain deadlines to ExitErrorIncomplete and
// configuration problems to ExitErrorConfig.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cfgErr ConfigError
	var valErr ValidationError
	var drainErr DrainTimeoutError
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		return ExitErrorConfig
	case errors.As(err, &drainErr):
		return ExitErrorIncomplete
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorIncomplete
	}
	return ExitErrorGeneric
}
