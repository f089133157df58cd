package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error.
type ErrorType string

const (
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeForbidden  ErrorType = "FORBIDDEN"
	ErrorTypeUpstream   ErrorType = "UPSTREAM"
	ErrorTypeDatabase   ErrorType = "DATABASE_ERROR"
	ErrorTypeInternal   ErrorType = "INTERNAL"
)

// Layer represents the application layer where the error occurred.
type Layer string

const (
	LayerRepository     Layer = "repository"
	LayerDomain         Layer = "domain"
	LayerHandler        Layer = "handler"
	LayerInfrastructure Layer = "infrastructure"
)

// AppError carries a typed error with its originating layer.
type AppError struct {
	Type    ErrorType
	Layer   Layer
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s][%s] %s: %v", e.Layer, e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s][%s] %s", e.Layer, e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError.
func New(layer Layer, errorType ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:    errorType,
		Layer:   layer,
		Message: message,
		Err:     err,
	}
}

// Newf creates an AppError with a formatted message and no cause.
func Newf(layer Layer, errorType ErrorType, format string, args ...any) *AppError {
	return &AppError{
		Type:    errorType,
		Layer:   layer,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// HTTPStatus maps an error to its HTTP status code. Unknown errors map to 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
