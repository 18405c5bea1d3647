package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrConflict     = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss    = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Enrollment-commit failure kinds. Each check of the commit pipeline fails
// closed with its own kind so callers can tell them apart.
var (
	ErrInvalidTerm        = New("INVALID_TERM", http.StatusBadRequest, "invalid term")
	ErrCourseNotFound     = New("COURSE_NOT_FOUND", http.StatusNotFound, "course not found in catalog")
	ErrSectionNotFound    = New("SECTION_NOT_FOUND", http.StatusNotFound, "section not found for course")
	ErrScheduleConflict   = New("SCHEDULE_CONFLICT", http.StatusConflict, "time conflict with existing schedule")
	ErrPrereqsNotMet      = New("PREREQUISITES_NOT_MET", http.StatusPreconditionFailed, "prerequisites not met")
	ErrCatalogUnavailable = New("CATALOG_UNAVAILABLE", http.StatusServiceUnavailable, "course catalog unavailable")
)

// ConflictError carries the enrollment record that collides with the
// attempted one. The base *Error is held as a named field: an embedded
// *Error would occupy the Error name and block method promotion.
type ConflictError struct {
	Base        *Error      `json:"error"`
	Conflicting interface{} `json:"conflicting"`
}

// NewConflictError builds a ScheduleConflict error holding the conflicting record.
func NewConflictError(message string, conflicting interface{}) *ConflictError {
	return &ConflictError{
		Base:        Clone(ErrScheduleConflict, message),
		Conflicting: conflicting,
	}
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return e.Base.Error()
}

// Unwrap exposes the underlying typed error so errors.As finds it.
func (e *ConflictError) Unwrap() error {
	return e.Base
}

// PrereqError carries the missing-prerequisite list for a blocked enrollment.
type PrereqError struct {
	Base    *Error   `json:"error"`
	Missing []string `json:"missing"`
}

// NewPrereqError builds a PrerequisitesNotMet error with the missing list.
func NewPrereqError(message string, missing []string) *PrereqError {
	return &PrereqError{
		Base:    Clone(ErrPrereqsNotMet, message),
		Missing: missing,
	}
}

// Error implements the error interface.
func (e *PrereqError) Error() string {
	return e.Base.Error()
}

// Unwrap exposes the underlying typed error so errors.As finds it.
func (e *PrereqError) Unwrap() error {
	return e.Base
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
