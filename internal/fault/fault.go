// Package fault classifies failures into the coarse kinds the transport layer
// maps to response statuses.
package fault

import (
	"errors"
	"fmt"
)

// Kind is a coarse failure class
type Kind int

const (
	// Internal is an unexpected store failure
	Internal Kind = iota
	// BadRequest is rejected input, including lookups that found nothing
	BadRequest
	// Conflict is a guid or slug already taken
	Conflict
)

func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error carries a kind, a message safe to show to clients and the cause
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an error of kind k with a public message
func New(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err as kind k. An error that is already classified keeps
// its own kind and message.
func Wrap(k Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return &Error{Kind: k, Message: message, Err: err}
}

// KindOf returns the kind of err, Internal when unclassified
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Internal
}

// Message returns the public message of err
func Message(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return "internal server error"
}
