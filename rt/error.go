package rt

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Error taxonomy
// ---------------------------------------------------------------------------

// ErrKind classifies a runtime failure. Both the runtime's own primitives
// and the handle layer report failures through this single taxonomy.
type ErrKind int

const (
	ErrNone      ErrKind = iota
	ErrAlloc             // allocation failure (fatal, never recovered)
	ErrType              // type or conversion mismatch
	ErrAttribute         // attribute not found or rejected
	ErrKey               // mapping key not found
	ErrIndex             // sequence index out of range
	ErrCall              // callee raised or is not callable
	ErrValue             // unorderable, unhashable, unsized, bad operand value
	ErrContract          // caller violated the handle layer's contract
)

// String returns the conventional name for the kind.
func (k ErrKind) String() string {
	switch k {
	case ErrAlloc:
		return "AllocError"
	case ErrType:
		return "TypeError"
	case ErrAttribute:
		return "AttributeError"
	case ErrKey:
		return "KeyError"
	case ErrIndex:
		return "IndexError"
	case ErrCall:
		return "CallError"
	case ErrValue:
		return "ValueError"
	case ErrContract:
		return "ContractError"
	default:
		return "Error"
	}
}

// Error is the failure signal carried out of every fallible runtime
// primitive. There is no ambient "last error" state: an operation either
// succeeds or hands its caller one of these.
type Error struct {
	Kind    ErrKind
	Message string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// Fail creates an Error with the given kind and message.
func Fail(kind ErrKind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Failf creates an Error with a formatted message.
func Failf(kind ErrKind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or ErrNone if err is nil or not a
// runtime Error.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrNone
}

// IsKind reports whether err is a runtime Error of the given kind.
func IsKind(err error, kind ErrKind) bool {
	return KindOf(err) == kind
}
