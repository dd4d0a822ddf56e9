// errors.go - Structured error handling for API responses
package api

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/fault-logbook/backend/internal/models"
	"github.com/fault-logbook/backend/internal/recordlog"
	"github.com/fault-logbook/backend/internal/selection"
	"github.com/fault-logbook/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 error for a form that failed the save gate.
// Message is the single user-facing message for the first offending field.
func NewValidationError(verr *selection.ValidationError) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: verr.Message,
		Field:   verr.Key,
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewConflictError creates a 409 Conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    "CONFLICT",
		Message: message,
	}
}

// NewExportFailedError creates a 500 error for a failed export. The record
// log is untouched when this is returned.
func NewExportFailedError(cause error) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "EXPORT_FAILED",
		Message: "export failed, saved entries were kept",
		Details: cause.Error(),
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// fromDomainError maps errors returned by the core packages onto API errors.
func fromDomainError(err error) *APIError {
	var verr *selection.ValidationError
	switch {
	case errors.As(err, &verr):
		return NewValidationError(verr)
	case errors.Is(err, session.ErrFormNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, models.ErrUnknownField):
		return NewBadRequestError("unknown field", err)
	case errors.Is(err, recordlog.ErrNoRecords):
		return NewConflictError("No entries to export")
	}
	return nil
}

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &httpErr):
		apiErr = &APIError{
			Status:  httpErr.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", httpErr.Message),
		}
	default:
		apiErr = fromDomainError(err)
		if apiErr == nil {
			apiErr = &APIError{
				Status:  http.StatusInternalServerError,
				Code:    "UNKNOWN_ERROR",
				Message: "An unexpected error occurred",
				Details: err.Error(),
			}
		}
	}

	_ = c.JSON(apiErr.Status, apiErr)
}
