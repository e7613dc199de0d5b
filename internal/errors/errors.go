package errors

import (
	"errors"
	"fmt"
	"net/http"

	"zebu/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of a
// wrapped AppError and classifying domain errors otherwise
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    codeOf(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeDatabaseError      = "DATABASE_ERROR"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidVariable    = "INVALID_VARIABLE"
	CodeInsufficientData   = "INSUFFICIENT_DATA"
	CodeInvalidMeasure     = "INVALID_MEASURE"
	CodeUnsupportedArity   = "UNSUPPORTED_ARITY"
	CodeUnsupportedMeasure = "UNSUPPORTED_MEASURE"
	CodeFieldNotAvailable  = "FIELD_NOT_AVAILABLE"
)

// domainCodes is checked in order; the first matching sentinel wins.
var domainCodes = []struct {
	sentinel error
	code     string
}{
	{core.ErrUnsupportedMeasure, CodeUnsupportedMeasure},
	{core.ErrUnsupportedArity, CodeUnsupportedArity},
	{core.ErrFieldNotAvailable, CodeFieldNotAvailable},
	{core.ErrInvalidMeasure, CodeInvalidMeasure},
	{core.ErrInvalidVariable, CodeInvalidVariable},
	{core.ErrInsufficientData, CodeInsufficientData},
	{core.ErrInvalidParameter, CodeInvalidInput},
	{core.ErrNotFound, CodeNotFound},
}

func codeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	for _, dc := range domainCodes {
		if errors.Is(err, dc.sentinel) {
			return dc.code
		}
	}
	return CodeInternalError
}

// FromDomain classifies err by the domain sentinel it wraps. The message
// is the error text itself.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Code: codeOf(err), Message: err.Error(), Cause: err}
}

// HTTPStatus maps an error code to a response status
func HTTPStatus(code string) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput, CodeValidationError, CodeInvalidVariable, CodeInvalidMeasure:
		return http.StatusBadRequest
	case CodeInsufficientData, CodeUnsupportedArity, CodeUnsupportedMeasure:
		return http.StatusUnprocessableEntity
	case CodeFieldNotAvailable:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: cause}
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
