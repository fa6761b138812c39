package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents common error identifiers reused across the API.
type ErrorCode string

const (
	ErrValidation   ErrorCode = "validation_error"
	ErrConflict     ErrorCode = "conflict"
	ErrNotFound     ErrorCode = "not_found"
	ErrUnauthorized ErrorCode = "unauthorized"
	ErrForbidden    ErrorCode = "forbidden"
	ErrTooMany      ErrorCode = "too_many_requests"
	ErrInternal     ErrorCode = "internal_error"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// AppError carries additional metadata beyond a regular error.
type AppError struct {
	err        error
	message    string
	code       ErrorCode
	httpStatus int
	fields     []FieldError
}

// New creates a new AppError with supplied details.
func New(message string, status int, code ErrorCode, err error) *AppError {
	return &AppError{
		err:        err,
		message:    message,
		httpStatus: status,
		code:       code,
	}
}

// Validation builds a 400 error carrying field-level messages.
func Validation(message string, fields []FieldError, err error) *AppError {
	return New(message, http.StatusBadRequest, ErrValidation, err).WithFields(fields)
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func (e *AppError) Unwrap() error {
	return e.err
}

// Message returns a safe error message for clients.
func (e *AppError) Message() string {
	return e.message
}

// StatusCode returns the HTTP status to use for this error.
func (e *AppError) StatusCode() int {
	return e.httpStatus
}

// Code returns the application level error code.
func (e *AppError) Code() ErrorCode {
	return e.code
}

// WithFields attaches field-level errors to the AppError.
func (e *AppError) WithFields(fields []FieldError) *AppError {
	copy := *e
	copy.fields = fields
	return &copy
}

// Fields returns any field-level errors recorded on the AppError.
func (e *AppError) Fields() []FieldError {
	return e.fields
}

// Is reports whether err is an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.code == code
	}
	return false
}

// As extracts the AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Wrap converts a standard error into an AppError if needed.
func Wrap(err error, message string, status int, code ErrorCode) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}
	return New(message, status, code, err)
}
