package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrInvalidBody  = errors.New("invalid JSON body")
	ErrMissingField = errors.New("all prediction fields are required")
	ErrOutOfRange   = errors.New("field out of range")
	ErrInternal     = errors.New("internal server error")
)

// Error tags a failure with the handler operation that produced it.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Kind != nil && e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Message is the client-facing text: the kind, plus the cause for client
// errors. Internal causes are never exposed.
func (e *Error) Message() string {
	if e.Kind == nil {
		return ErrInternal.Error()
	}
	if e.Err != nil && !errors.Is(e.Kind, ErrInternal) {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// Wrap tags an unexpected failure of op as internal.
func Wrap(op string, err error) error {
	return &Error{Op: op, Kind: ErrInternal, Err: err}
}

// WrapKind attaches kind and op to err.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}
