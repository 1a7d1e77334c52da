package xerrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Common reusable application errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized access")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("conflict: resource already exists")
	ErrInternal          = errors.New("internal server error")
	ErrSessionExpired    = errors.New("session expired or invalid")
	ErrBadRequest        = errors.New("bad request")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
)

// CodeInsufficientStock is the structured error code for stock violations.
const CodeInsufficientStock = "insufficient_stock"

// RequestError is the only error the API client returns. Status is 0 when
// the request never produced an HTTP response.
type RequestError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// NewRequestError builds a RequestError, synthesizing a message from the status when empty.
func NewRequestError(status int, code, message string) *RequestError {
	if strings.TrimSpace(message) == "" {
		message = fmt.Sprintf("HTTP error %d", status)
	}
	return &RequestError{Status: status, Code: code, Message: message}
}

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// messageError replaces the text of a sentinel while keeping it matchable.
type messageError struct {
	msg string
	err error
}

func (e *messageError) Error() string { return e.msg }
func (e *messageError) Unwrap() error { return e.err }

// WithMessage returns an error that reads as message and matches err with errors.Is.
func WithMessage(err error, message string) error {
	return &messageError{msg: message, err: err}
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}

// IsStockError reports a stock violation. The structured code wins; the
// message substrings are a shim for backends that only send prose.
func IsStockError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInsufficientStock) {
		return true
	}
	var re *RequestError
	if !errors.As(err, &re) {
		return false
	}
	if re.Code == CodeInsufficientStock {
		return true
	}
	msg := strings.ToLower(re.Message)
	return strings.Contains(msg, "insufficient") || strings.Contains(msg, "not enough")
}

// IsUnauthorized reports a 401-class failure.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrSessionExpired) {
		return true
	}
	var re *RequestError
	return errors.As(err, &re) && re.Status == http.StatusUnauthorized
}

// IsTransient reports failures worth retrying for idempotent requests:
// transport errors and gateway/throttling statuses. Caller cancellation is not transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var re *RequestError
	if errors.As(err, &re) {
		switch re.Status {
		case 0:
			return re.Err != nil
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// StatusFor maps a sentinel to the HTTP status the backend answers with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrInvalidInput), errors.Is(err, ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CodeFor returns the structured code sent alongside the message, if any.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrSessionExpired):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return ""
	}
}
