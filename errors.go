package multiparser

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies an Error.
type Kind int

const (
	// KindConfiguration marks an invalid glob, invalid parser, or
	// contradictory trackable option, raised synchronously from Track/Tail
	// before any worker runs.
	KindConfiguration Kind = iota
	// KindParser marks a user parser that raised or returned an ill-shaped
	// value. It terminates the worker that hit it.
	KindParser
	// KindSessionFailure wraps a KindParser failure that aborted the whole
	// session because TerminateAllOnFail was set.
	KindSessionFailure
	// KindProgrammer marks Run/Terminate called outside a scoped
	// acquisition (Enter/Exit), or Run called twice.
	KindProgrammer
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindParser:
		return "parser"
	case KindSessionFailure:
		return "session-failure"
	case KindProgrammer:
		return "programmer"
	default:
		return "unknown"
	}
}

// Error is the single error type multiparser surfaces to callers. Op names
// the operation that failed (e.g. "track", "tail", "run").
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("multiparser: %s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("multiparser: %s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Cause supports github.com/pkg/errors-style cause chains.
func (e *Error) Cause() error { return e.Err }

func configError(op string, err error) error {
	return &Error{Kind: KindConfiguration, Op: op, Err: pkgerrors.WithStack(err)}
}

func configErrorf(op, format string, args ...any) error {
	return configError(op, fmt.Errorf(format, args...))
}

func parserError(op string, err error) error {
	return &Error{Kind: KindParser, Op: op, Err: pkgerrors.WithStack(err)}
}

func schemaError(op, format string, args ...any) error {
	return parserError(op, fmt.Errorf(format, args...))
}

func programmerErrorf(op, format string, args ...any) error {
	return &Error{Kind: KindProgrammer, Op: op, Err: fmt.Errorf(format, args...)}
}

func sessionFailure(op string, cause error) error {
	return &Error{Kind: KindSessionFailure, Op: op, Err: cause}
}
