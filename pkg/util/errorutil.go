package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewAuthInvalid marks a stored credential the desk no longer accepts
// (or one that cannot be decoded). Recovered silently by the session
// store; never shown to the user.
func NewAuthInvalid(message string, err error) error {
	return &DomainError{Code: "AUTH_INVALID", Message: message, HTTPStatus: http.StatusUnauthorized, Err: err}
}

// NewLoginRejected carries the desk's verbatim rejection message for a
// login attempt.
func NewLoginRejected(message string) error {
	return NewDomainError("LOGIN_REJECTED", message, http.StatusUnauthorized, nil)
}

// NewForbidden marks a valid session whose role is insufficient.
func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

// NewFetchFailed wraps a failed listing/detail/update call, keeping the
// underlying reason for the inline message and the HTTP status so views
// can redirect on 401/403.
func NewFetchFailed(message string, status int, err error) error {
	return &DomainError{Code: "FETCH_FAILED", Message: message, HTTPStatus: status, Err: err}
}

// NewValidationRejected surfaces server-side field validation using the
// first structured message the desk returned.
func NewValidationRejected(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_REJECTED", message, http.StatusBadRequest, details)
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "FETCH_FAILED",
		Message:    "request failed",
		HTTPStatus: 0,
		Err:        err,
	}
}

// IsCode reports whether err carries the given taxonomy code.
func IsCode(err error, code string) bool {
	domainErr := ToDomainError(err)
	return domainErr != nil && domainErr.Code == code
}

// IsAuthStatus reports whether err is a fetch failure the desk answered
// with 401 or 403; listing views redirect to login on these.
func IsAuthStatus(err error) bool {
	domainErr := ToDomainError(err)
	if domainErr == nil {
		return false
	}
	return domainErr.HTTPStatus == http.StatusUnauthorized || domainErr.HTTPStatus == http.StatusForbidden
}
