// Package domainerrors defines the error taxonomy shared by services and
// handlers. Services attach a Code to every failure; handlers translate the
// code to an HTTP status without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure.
type Code string

const (
	CodeBadRequest    Code = "bad_request"
	CodeNotFound      Code = "not_found"
	CodeArtifactStore Code = "artifact_store_failed"
	CodeLedgerQuery   Code = "ledger_query_failed"
	CodeLedgerCommit  Code = "ledger_commit_failed"
	CodeRender        Code = "render_failed"
	CodeInternal      Code = "internal"
)

// Error carries a code, a caller-facing message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap builds a coded error around an underlying cause.
func Wrap(code Code, message string, err error) error {
	return &Error{Code: code, Message: message, Err: err}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Message extracts the caller-facing message, falling back to the raw error.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// ToHTTPStatus maps a code to the status handlers respond with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound, CodeRender:
		return http.StatusNotFound
	case CodeArtifactStore, CodeLedgerQuery, CodeLedgerCommit, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
