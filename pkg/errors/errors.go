package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Error kinds. Every failure the engines surface is one of these; HTTP
// collaborators map them to status codes via Status.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeAuthorization = "AUTHORIZATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeInvalidState  = "INVALID_STATE"
	CodeInternal      = "INTERNAL_ERROR"
)

// Validation creates a 400 error for malformed input, raised before any
// store interaction.
func Validation(message string, err error) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// Authorization creates a 403 error for a caller whose role or identity
// does not permit the operation.
func Authorization(message string, err error) *AppError {
	return &AppError{
		Code:    CodeAuthorization,
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

// NotFound creates a 404 error
func NotFound(message string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

// InvalidState creates a 409 error for an operation not valid in the ride's
// current status.
func InvalidState(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInvalidState,
		Message: message,
		Status:  http.StatusConflict,
		Err:     err,
	}
}

// Internal creates a 500 error
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Kind predicates

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return hasCode(err, CodeValidation) }

// IsAuthorization reports whether err is an authorization error.
func IsAuthorization(err error) bool { return hasCode(err, CodeAuthorization) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsInvalidState reports whether err is an invalid-state error.
func IsInvalidState(err error) bool { return hasCode(err, CodeInvalidState) }

func hasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError attempts to convert an error to AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	// Return generic internal error if not an AppError
	return Internal("An unexpected error occurred", err)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
