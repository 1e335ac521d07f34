package api

import (
	"errors"
	"fmt"
)

// Kind classifies shim failures per the error taxonomy: transport errors are
// retried then surfaced with troubleshooting detail, business errors carry
// the backend message and are never retried, validation errors never reach
// the network.
type Kind string

const (
	KindTransport  Kind = "transport"
	KindBusiness   Kind = "business"
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
)

// Error is the uniform error contract of the shim: every failed call returns
// one of these with a human-readable message, regardless of transport.
type Error struct {
	Op      string
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

func transportError(op, message string, cause error) *Error {
	return &Error{Op: op, Kind: KindTransport, Message: message, Err: cause}
}

func businessError(op, message string) *Error {
	return &Error{Op: op, Kind: KindBusiness, Message: message}
}

func notFoundError(op, message string) *Error {
	return &Error{Op: op, Kind: KindNotFound, Message: message}
}

// ErrorKind extracts the Kind from err, or "" when err is not a shim error.
func ErrorKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsNotFound(err error) bool {
	return ErrorKind(err) == KindNotFound
}
