package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error that crosses a package boundary wraps one of these.
var (
	ErrValidation         = errors.New("validation error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrActivationRequired = errors.New("activation required")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrNotFound           = errors.New("not found")
	ErrNetwork            = errors.New("network error")
	ErrServer             = errors.New("server error")
)

// Error carries a kind and a human readable message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError builds an Error of the given kind with a formatted message.
func NewError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validationf is shorthand for NewError(ErrValidation, ...).
func Validationf(format string, args ...any) *Error {
	return NewError(ErrValidation, format, args...)
}

// NotFoundf is shorthand for NewError(ErrNotFound, ...).
func NotFoundf(format string, args ...any) *Error {
	return NewError(ErrNotFound, format, args...)
}

// Kind names used on the wire.
const (
	KindValidation         = "validation"
	KindUnauthorized       = "unauthorized"
	KindForbidden          = "forbidden"
	KindActivationRequired = "activation_required"
	KindInvalidTransition  = "invalid_transition"
	KindNotFound           = "not_found"
	KindNetwork            = "network"
	KindServer             = "server"
)

var kindNames = []struct {
	kind error
	name string
}{
	{ErrValidation, KindValidation},
	{ErrUnauthorized, KindUnauthorized},
	{ErrActivationRequired, KindActivationRequired},
	{ErrForbidden, KindForbidden},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrNotFound, KindNotFound},
	{ErrNetwork, KindNetwork},
	{ErrServer, KindServer},
}

// KindOf returns the wire name of the kind wrapped by err. Unclassified errors are "server".
func KindOf(err error) string {
	for _, k := range kindNames {
		if errors.Is(err, k.kind) {
			return k.name
		}
	}
	return KindServer
}

// KindFromName is the inverse of KindOf.
func KindFromName(name string) error {
	for _, k := range kindNames {
		if k.name == name {
			return k.kind
		}
	}
	return ErrServer
}

// Message returns the user-facing message of err without wrapping prefixes.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Error()
	}
	return err.Error()
}
