package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Error kinds surfaced to API clients. Every failed request carries exactly
// one of these; none are retried internally.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeForbidden       = "FORBIDDEN"
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeUnauthenticated = "UNAUTHENTICATED"
)

// Error is a kind-tagged, client-visible error
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Status maps the error kind to an HTTP status code
func (e *Error) Status() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeBadUserInput:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

func BadUserInput(format string, args ...any) *Error {
	return &Error{Code: CodeBadUserInput, Message: fmt.Sprintf(format, args...)}
}

// BadUserInputWith attaches collected field errors, used by registration
// where independent checks are reported together.
func BadUserInputWith(message string, details any) *Error {
	return &Error{Code: CodeBadUserInput, Message: message, Details: details}
}

func Unauthenticated(message string) *Error {
	return &Error{Code: CodeUnauthenticated, Message: message}
}

// FromRecord translates a gorm lookup error for the named entity
func FromRecord(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("%s not found", entity)
	}
	return err
}

// HTTPErrorHandler renders kind-tagged errors as JSON. Unknown errors
// become opaque 500s so internals never leak to clients.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		_ = c.JSON(appErr.Status(), echo.Map{"error": appErr})
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code := CodeBadUserInput
		switch httpErr.Code {
		case http.StatusUnauthorized:
			code = CodeUnauthenticated
		case http.StatusNotFound:
			code = CodeNotFound
		case http.StatusForbidden:
			code = CodeForbidden
		}
		_ = c.JSON(httpErr.Code, echo.Map{
			"error": &Error{Code: code, Message: fmt.Sprintf("%v", httpErr.Message)},
		})
		return
	}

	c.Logger().Error(err)
	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"error": &Error{Code: "INTERNAL", Message: "Internal server error"},
	})
}
