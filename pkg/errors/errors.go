package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrOutOfMemory is returned when a Pool refuses an allocation.
var ErrOutOfMemory = stderrors.New("out of memory")

// EngineError is the interface implemented by all njscore errors.
type EngineError interface {
	error
	Kind() string // e.g., "Init", "Introspection", "Runtime"
	// Message returns the specific error message without the kind prefix.
	Message() string
	Unwrap() error
}

// --- Concrete Error Types ---

// InitError reports a failure while building the shared template or
// cloning it into a VM instance. It is always fatal to the step that
// raised it.
type InitError struct {
	Stage string // e.g., "namespace Math", "prototype Array", "clone"
	Msg   string
	Cause error
}

func (e *InitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Init Error in %s: %s: %v", e.Stage, e.Msg, e.Cause)
	}
	return fmt.Sprintf("Init Error in %s: %s", e.Stage, e.Msg)
}
func (e *InitError) Kind() string    { return "Init" }
func (e *InitError) Message() string { return e.Msg }
func (e *InitError) Unwrap() error   { return e.Cause }

// NewInitError wraps cause with the build stage that produced it.
func NewInitError(stage string, cause error) *InitError {
	return &InitError{Stage: stage, Msg: "builtin initialisation failed", Cause: cause}
}

// IntrospectionError reports a failed completion or name-resolution call.
// It never affects the template or an instance's state.
type IntrospectionError struct {
	Op    string // "completions" or "resolve"
	Msg   string
	Cause error
}

func (e *IntrospectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Introspection Error in %s: %s: %v", e.Op, e.Msg, e.Cause)
	}
	return fmt.Sprintf("Introspection Error in %s: %s", e.Op, e.Msg)
}
func (e *IntrospectionError) Kind() string    { return "Introspection" }
func (e *IntrospectionError) Message() string { return e.Msg }
func (e *IntrospectionError) Unwrap() error   { return e.Cause }

// RuntimeError is raised by native entry points and property access.
// Name carries the script-visible error constructor, e.g. "TypeError".
type RuntimeError struct {
	Name  string
	Msg   string
	Cause error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Msg)
}
func (e *RuntimeError) Kind() string    { return "Runtime" }
func (e *RuntimeError) Message() string { return e.Msg }
func (e *RuntimeError) Unwrap() error   { return e.Cause }
func (e *RuntimeError) CausedBy(cause error) *RuntimeError {
	e.Cause = cause
	return e
}

func NewTypeError(format string, args ...any) *RuntimeError {
	return &RuntimeError{Name: "TypeError", Msg: fmt.Sprintf(format, args...)}
}

func NewRangeError(format string, args ...any) *RuntimeError {
	return &RuntimeError{Name: "RangeError", Msg: fmt.Sprintf(format, args...)}
}

func NewSyntaxError(format string, args ...any) *RuntimeError {
	return &RuntimeError{Name: "SyntaxError", Msg: fmt.Sprintf(format, args...)}
}

func NewURIError(format string, args ...any) *RuntimeError {
	return &RuntimeError{Name: "URIError", Msg: fmt.Sprintf(format, args...)}
}

// Is and As re-export the standard helpers so callers need one import.
func Is(err, target error) bool     { return stderrors.Is(err, target) }
func As(err error, target any) bool { return stderrors.As(err, target) }

// --- Error Reporting ---

// Describe renders err for a terminal: the kind and message of an engine
// error followed by its cause on a second line.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var ee EngineError
	if !stderrors.As(err, &ee) {
		return fmt.Sprintf("Error: %v", err)
	}
	var msg string
	switch e := ee.(type) {
	case *InitError:
		msg = fmt.Sprintf("Init Error in %s: %s", e.Stage, e.Msg)
	case *IntrospectionError:
		msg = fmt.Sprintf("Introspection Error in %s: %s", e.Op, e.Msg)
	default:
		msg = fmt.Sprintf("%s: %s", runtimeName(ee), ee.Message())
	}
	if cause := ee.Unwrap(); cause != nil {
		msg += fmt.Sprintf("\n  caused by: %v", cause)
	}
	return msg
}

func runtimeName(ee EngineError) string {
	if re, ok := ee.(*RuntimeError); ok && re.Name != "" {
		return re.Name
	}
	return ee.Kind() + " Error"
}
