package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ApiError struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Domain errors returned by the services. FromError maps them onto ApiErrors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotEnrolled  = errors.New("not enrolled in this course")
	ErrInvalid      = errors.New("invalid input")
)

var (
	ErrBadRequest       = func(detail string) *ApiError { return New(http.StatusBadRequest, "Bad Request", detail) }
	ErrUnauthorizedReq  = func(detail string) *ApiError { return New(http.StatusUnauthorized, "Unauthorized", detail) }
	ErrForbiddenReq     = func(detail string) *ApiError { return New(http.StatusForbidden, "Forbidden", detail) }
	ErrNotFoundReq      = func(detail string) *ApiError { return New(http.StatusNotFound, "Not Found", detail) }
	ErrMethodNotAllowed = func(detail string) *ApiError { return New(http.StatusMethodNotAllowed, "Method Not Allowed", detail) }
	ErrConflictReq      = func(detail string) *ApiError { return New(http.StatusConflict, "Conflict", detail) }
	ErrTooManyRequests  = func(detail string) *ApiError { return New(http.StatusTooManyRequests, "Too Many Requests", detail) }
	ErrInternalServer   = func(detail string) *ApiError {
		return New(http.StatusInternalServerError, "Internal Server Error", detail)
	}
	ErrServiceUnavailable = func(detail string) *ApiError {
		return New(http.StatusServiceUnavailable, "Service Unavailable", detail)
	}
)

func New(code int, message, detail string) *ApiError {
	return &ApiError{
		Code:    code,
		Message: message,
		Detail:  detail,
	}
}

func (e *ApiError) WithRequestID(requestID string) *ApiError {
	e.RequestID = requestID
	return e
}

func (e *ApiError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

func (e *ApiError) StatusCode() int {
	return e.Code
}

// Invalid wraps a user facing validation message.
func Invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalid, msg)
}

// Conflictf wraps a user facing conflict message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// FromError converts any error into an ApiError. Unknown errors become a
// 500 without leaking their text.
func FromError(err error) *ApiError {
	var apiErr *ApiError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, ErrInvalid):
		return ErrBadRequest(detail(err, ErrInvalid))
	case errors.Is(err, ErrNotFound):
		return ErrNotFoundReq(detail(err, ErrNotFound))
	case errors.Is(err, ErrConflict):
		return ErrConflictReq(detail(err, ErrConflict))
	case errors.Is(err, ErrForbidden):
		return ErrForbiddenReq(detail(err, ErrForbidden))
	case errors.Is(err, ErrUnauthorized):
		return ErrUnauthorizedReq(detail(err, ErrUnauthorized))
	case errors.Is(err, ErrNotEnrolled):
		return ErrForbiddenReq(ErrNotEnrolled.Error())
	default:
		return ErrInternalServer("")
	}
}

// detail strips the sentinel prefix added by Invalid and Conflictf.
func detail(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
