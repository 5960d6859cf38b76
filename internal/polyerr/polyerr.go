// Package polyerr holds the typed errors raised by the constraint-synthesis
// pipeline. Each kind carries the stage that raised it and the offending
// token or identifier, and may wrap an underlying cause.
package polyerr

import "fmt"

// Kind identifies which of the fatal error categories an Error belongs to.
type Kind int

const (
	// Config marks a malformed input file, a missing required field, or a
	// dimension mismatch. Fatal at PARSE_INPUT.
	Config Kind = iota

	// Parse marks unparseable polynomial or HOA text. Fatal at the owning
	// stage.
	Parse

	// Model marks a generator precondition violation, such as a guard that
	// negates a non-atomic region. Fatal at GENERATE_CONSTRAINTS.
	Model

	// Solver marks a child-process failure or an unparseable solver
	// result. Surfaced as an unsatisfiable result with a diagnostic
	// attached, not necessarily fatal to the orchestrator.
	Solver
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "ConfigError"
	case Parse:
		return "ParseError"
	case Model:
		return "ModelError"
	case Solver:
		return "SolverFailure"
	default:
		return "UnknownError"
	}
}

// Error is the single error type raised by the core pipeline. It is never
// silently caught: every stage either returns one unchanged or wraps it.
type Error struct {
	kind    Kind
	stage   string
	token   string
	msg     string
	wrapped error
}

// New creates an Error of the given kind for the given stage, describing the
// offending token or identifier. msg is a human-readable description.
func New(kind Kind, stage, token, msg string) *Error {
	return &Error{kind: kind, stage: stage, token: token, msg: msg}
}

// Wrap creates an Error like New but records cause as the wrapped error,
// retrievable via errors.Unwrap.
func Wrap(kind Kind, stage, token, msg string, cause error) *Error {
	return &Error{kind: kind, stage: stage, token: token, msg: msg, wrapped: cause}
}

func (e *Error) Error() string {
	if e.token != "" {
		if e.wrapped != nil {
			return fmt.Sprintf("[%s %s] %s (offending: %q): %s", e.kind, e.stage, e.msg, e.token, e.wrapped.Error())
		}
		return fmt.Sprintf("[%s %s] %s (offending: %q)", e.kind, e.stage, e.msg, e.token)
	}
	if e.wrapped != nil {
		return fmt.Sprintf("[%s %s] %s: %s", e.kind, e.stage, e.msg, e.wrapped.Error())
	}
	return fmt.Sprintf("[%s %s] %s", e.kind, e.stage, e.msg)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// Kind returns the error's category.
func (e *Error) Kind() Kind {
	return e.kind
}

// Stage returns the name of the pipeline stage that raised the error.
func (e *Error) Stage() string {
	return e.stage
}

// Token returns the offending token or identifier, which may be empty.
func (e *Error) Token() string {
	return e.token
}

// Diagnostic renders a short operator-facing summary, independent of
// Error() which is meant for logs.
func (e *Error) Diagnostic() string {
	return e.Error()
}
