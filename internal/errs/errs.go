// Package errs provides the structured error carried across the service
// boundary: a cause, a human message, an HTTP-like status, a categorical
// label and a capture flag that tells the operator alerting pipeline
// whether the error is worth reporting.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Cause   error
	Title   string
	Message string
	Status  int
	Label   string

	// ShouldBeCaptured distinguishes operator-worthy failures from
	// expected, user-facing rejections such as authorization denials.
	ShouldBeCaptured bool
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds a capture-worthy error with the given status and label.
func New(cause error, status int, label, message string) *Error {
	return &Error{
		Cause:            cause,
		Message:          message,
		Status:           status,
		Label:            label,
		ShouldBeCaptured: true,
	}
}

// NotFound marks a missing record.
func NotFound(cause error, label, message string) *Error {
	return &Error{
		Cause:            cause,
		Title:            "Not found",
		Message:          message,
		Status:           http.StatusNotFound,
		Label:            label,
		ShouldBeCaptured: false,
	}
}

// Forbidden marks an authorization rejection. These are expected
// conditions and must not page anybody.
func Forbidden(label, message string) *Error {
	return &Error{
		Title:            "Unauthorized",
		Message:          message,
		Status:           http.StatusForbidden,
		Label:            label,
		ShouldBeCaptured: false,
	}
}

// StatusOf extracts the HTTP-like status from err, defaulting to 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// IsCaptureWorthy reports whether err should reach operator alerting.
// Unstructured errors are always capture-worthy.
func IsCaptureWorthy(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.ShouldBeCaptured
	}
	return err != nil
}
