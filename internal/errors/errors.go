// Package errors provides custom error types for sitecheck
package errors

import (
	"fmt"
	"net/http"
)

// ServiceError is the base interface for all sitecheck errors
type ServiceError interface {
	error
	HTTPStatus() int
	Code() string
}

// BaseError is the base implementation of ServiceError
type BaseError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"code"`
	Details    string `json:"details,omitempty"`
}

func (e *BaseError) Error() string {
	return e.Message
}

func (e *BaseError) HTTPStatus() int {
	return e.StatusCode
}

func (e *BaseError) Code() string {
	return e.ErrorCode
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	BaseError
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{
		BaseError: BaseError{
			Message:    fmt.Sprintf("%s not found", resource),
			StatusCode: http.StatusNotFound,
			ErrorCode:  "NOT_FOUND",
		},
		Resource: resource,
	}
}

// ValidationError represents malformed input, reported with field-level detail
type ValidationError struct {
	BaseError
	Field string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusBadRequest,
			ErrorCode:  "VALIDATION_ERROR",
		},
		Field: field,
	}
}

// ConflictError represents an operation refused because of existing state,
// e.g. deleting a template that live instances still reference
type ConflictError struct {
	BaseError
	Resource string
}

func NewConflictError(resource, message string) *ConflictError {
	if message == "" {
		message = fmt.Sprintf("%s already exists", resource)
	}
	return &ConflictError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusConflict,
			ErrorCode:  "CONFLICT",
		},
		Resource: resource,
	}
}

// UnauthorizedError represents a missing or invalid caller identity
type UnauthorizedError struct {
	BaseError
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	if message == "" {
		message = "authentication required"
	}
	return &UnauthorizedError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusUnauthorized,
			ErrorCode:  "UNAUTHORIZED",
		},
	}
}

// ImportError represents a fatal seed import failure. The import runs in a
// single transaction, so nothing parsed before the failure is committed.
type ImportError struct {
	BaseError
	Source        string
	OriginalError error
}

func NewImportError(source string, original error) *ImportError {
	return &ImportError{
		BaseError: BaseError{
			Message:    fmt.Sprintf("seed import failed: %v", original),
			StatusCode: http.StatusUnprocessableEntity,
			ErrorCode:  "IMPORT_ERROR",
		},
		Source:        source,
		OriginalError: original,
	}
}

func (e *ImportError) Unwrap() error {
	return e.OriginalError
}

// InternalError represents an internal server error
type InternalError struct {
	BaseError
	OriginalError error
}

func NewInternalError(original error) *InternalError {
	return &InternalError{
		BaseError: BaseError{
			Message:    "internal server error",
			StatusCode: http.StatusInternalServerError,
			ErrorCode:  "INTERNAL_ERROR",
		},
		OriginalError: original,
	}
}

func (e *InternalError) Unwrap() error {
	return e.OriginalError
}

// BadRequestError represents a generic bad request error
type BadRequestError struct {
	BaseError
}

func NewBadRequestError(message string) *BadRequestError {
	return &BadRequestError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusBadRequest,
			ErrorCode:  "BAD_REQUEST",
		},
	}
}

// ToHTTPError converts any error to an appropriate HTTP response
func ToHTTPError(err error) (int, map[string]interface{}) {
	if err == nil {
		return http.StatusOK, nil
	}

	// Check if it's a ServiceError
	if se, ok := err.(ServiceError); ok {
		body := map[string]interface{}{
			"error":   se.Code(),
			"message": se.Error(),
		}
		if ve, ok := err.(*ValidationError); ok && ve.Field != "" {
			body["field"] = ve.Field
		}
		return se.HTTPStatus(), body
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError, map[string]interface{}{
		"error":   "INTERNAL_ERROR",
		"message": "internal server error",
	}
}
