// Package apperr defines the tagged error taxonomy shared across the
// service. Handlers use the kind to pick an HTTP status while the message
// travels to the client verbatim.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for transport mapping.
type Kind string

const (
	// KindValidation marks malformed input rejected before any
	// collaborator call.
	KindValidation Kind = "validation"
	// KindNotFound marks a reference to a user the identity provider
	// does not know.
	KindNotFound Kind = "not_found"
	// KindCollaborator marks any failure surfaced by the identity
	// provider or the record store, transport failures included.
	KindCollaborator Kind = "collaborator"
)

// Error carries a kind alongside the client-facing message. Err optionally
// retains the underlying cause for logs and errors.Is chains.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the kind to the status code reported to clients.
func (e *Error) HTTPStatus() int {
	if e.Kind == KindNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// New builds a tagged error with the given client-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap tags an underlying error while keeping its message client-visible.
func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

// KindOf extracts the kind from an error chain, defaulting to
// KindCollaborator for untagged failures.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return KindCollaborator
}

// StatusOf resolves the HTTP status for any error.
func StatusOf(err error) int {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.HTTPStatus()
	}
	return http.StatusBadRequest
}
