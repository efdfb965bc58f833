package application

import (
	"errors"
	"fmt"
)

// Kind classifies an application failure so the HTTP layer can pick a status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindInvalidToken
	KindConflict
	KindNotFound
	KindUnavailable
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidToken:
		return "invalid_token"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error is returned by every service method. Message is safe to show to clients; Err is not.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func validationError(msg string, details map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

func unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

func conflict(msg, field string) *Error {
	return &Error{Kind: KindConflict, Message: msg, Details: map[string]string{field: msg}}
}

func notFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}
