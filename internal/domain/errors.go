package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidVariant  = errors.New("invalid variant")
	ErrRenderBackend   = errors.New("render backend error")
	ErrDataUnavailable = errors.New("data unavailable")
)

// Error carries one of the sentinel errors above as its kind, a message safe
// to show to clients and the underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func NewInvalidVariant(raw, msg string) *Error {
	return &Error{Kind: ErrInvalidVariant, Message: fmt.Sprintf("%s %q", msg, raw)}
}

func NewRenderBackend(msg string, err error) *Error {
	return &Error{Kind: ErrRenderBackend, Message: msg, Err: err}
}

func NewDataUnavailable(msg string, err error) *Error {
	return &Error{Kind: ErrDataUnavailable, Message: msg, Err: err}
}

// HTTPStatus maps an error to the response status.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidVariant):
		return http.StatusBadRequest
	case errors.Is(err, ErrDataUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Code maps an error to the machine readable code used in error bodies.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidVariant):
		return "invalid_variant"
	case errors.Is(err, ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, ErrRenderBackend):
		return "render_backend_error"
	default:
		return "internal_error"
	}
}

// Message returns the client-facing message of err.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal server error"
}
