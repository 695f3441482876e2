package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
)

type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewBadRequestError(message string, details any) *APIError {
	return &APIError{
		StatusCode: fiber.StatusBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
		Details:    details,
	}
}

func NewUnauthorizedError(message string) *APIError {
	return &APIError{
		StatusCode: fiber.StatusUnauthorized,
		Code:       "UNAUTHORIZED",
		Message:    message,
	}
}

func NewForbiddenError(message string) *APIError {
	return &APIError{
		StatusCode: fiber.StatusForbidden,
		Code:       "FORBIDDEN",
		Message:    message,
	}
}

func NewNotFoundError(resource string) *APIError {
	return &APIError{
		StatusCode: fiber.StatusNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
	}
}

// NewUnsupportedMediaError is returned for uploads whose suffix is not a supported format
func NewUnsupportedMediaError(message string) *APIError {
	return &APIError{
		StatusCode: fiber.StatusUnsupportedMediaType,
		Code:       "UNSUPPORTED_FORMAT",
		Message:    message,
	}
}

// NewUnprocessableError is returned when a supported file cannot be parsed or a chart cannot be drawn
func NewUnprocessableError(code, message string, details any) *APIError {
	return &APIError{
		StatusCode: fiber.StatusUnprocessableEntity,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

func NewInternalError(err error) *APIError {
	return &APIError{
		StatusCode: fiber.StatusInternalServerError,
		Code:       "INTERNAL_ERROR",
		Message:    "An internal error occurred",
		Details:    err.Error(), // Only in development
	}
}

// ErrorHandler is a middleware to handle APIError
func ErrorHandler(c fiber.Ctx, err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			apiErr = &APIError{StatusCode: fiberErr.Code, Code: "HTTP_ERROR", Message: fiberErr.Message}
		} else {
			apiErr = NewInternalError(err)
		}
	}

	return c.Status(apiErr.StatusCode).JSON(apiErr)
}
