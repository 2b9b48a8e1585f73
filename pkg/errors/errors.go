package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeLocationRequired indicates a geo query was attempted without coordinates
	ErrorTypeLocationRequired ErrorType = "LOCATION_REQUIRED"

	// ErrorTypeInsufficientStock indicates a sale would drive a listing quantity negative
	ErrorTypeInsufficientStock ErrorType = "INSUFFICIENT_STOCK"

	// ErrorTypeDuplicateReview indicates a booking has already been rated
	ErrorTypeDuplicateReview ErrorType = "DUPLICATE_REVIEW"

	// ErrorTypeTransactionFailed indicates a multi-step commit was rolled back
	ErrorTypeTransactionFailed ErrorType = "TRANSACTION_FAILED"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// TypeOf returns the error type of err if it is an AppError, or ErrorTypeInternal otherwise.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewLocationRequiredError creates a new location required error
func NewLocationRequiredError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeLocationRequired,
		Message: message,
	}
}

// NewInsufficientStockError creates a new insufficient stock error
func NewInsufficientStockError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInsufficientStock,
		Message: message,
	}
}

// NewDuplicateReviewError creates a new duplicate review error
func NewDuplicateReviewError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeDuplicateReview,
		Message: message,
	}
}

// NewTransactionFailedError creates a new transaction failed error
func NewTransactionFailedError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeTransactionFailed,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}
