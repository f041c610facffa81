package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes for the application's error taxonomy.
const (
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodePolicyDenied        = "POLICY_DENIED"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeNotFound            = "NOT_FOUND"
	CodeInternal            = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// AppError represents a custom application error.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewConstraintViolationError reports a unique-key or foreign-key conflict
// (duplicate like/save, duplicate handle, reference to a missing profile).
func NewConstraintViolationError(message string) *AppError {
	return &AppError{
		Code:    CodeConstraintViolation,
		Message: message,
	}
}

// NewPolicyDeniedError reports that an access-policy predicate evaluated
// false for the attempted operation.
func NewPolicyDeniedError(message string) *AppError {
	return &AppError{
		Code:    CodePolicyDenied,
		Message: message,
	}
}

// NewValidationError reports rejected input (handle format, reserved word,
// malformed tag entry on write).
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidationFailed,
		Message: message,
	}
}

// NewNotFoundError reports that the target row does not exist or is not
// visible to the requester. The two cases are deliberately indistinguishable
// so callers cannot probe for the existence of rows they may not read.
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// HTTPStatus maps an error to an HTTP status code by its taxonomy code.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeConstraintViolation:
		return fiber.StatusConflict
	case CodePolicyDenied:
		return fiber.StatusForbidden
	case CodeValidationFailed:
		return fiber.StatusBadRequest
	case CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes a standardized error response using the status
// derived from the error's taxonomy code.
func RespondWithError(c *fiber.Ctx, err error) error {
	var response ErrorResponse

	// Only the taxonomy message goes on the wire. The wrapped cause can carry
	// raw driver or SQL text and stays in server-side logs.
	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
	} else {
		response = ErrorResponse{
			Error: "Internal server error",
		}
	}

	return c.Status(HTTPStatus(err)).JSON(response)
}
