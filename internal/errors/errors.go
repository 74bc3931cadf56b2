package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ErrorCode represents a category of client-side failure.
type ErrorCode string

const (
	// ErrCodeTransport indicates the request never produced a response (connection refused, DNS, reset).
	ErrCodeTransport ErrorCode = "transport"
	// ErrCodeTimeout indicates the per-client timeout elapsed.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the caller canceled the context.
	ErrCodeCanceled ErrorCode = "canceled"
	// ErrCodeServer indicates the backend answered with a non-2xx status.
	ErrCodeServer ErrorCode = "server"
	// ErrCodeValidation indicates the payload was rejected before it was sent.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeUnauthorized indicates the session expired or the token was rejected (401).
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeForbidden indicates the caller lacks permission (403).
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeNotFound indicates the resource does not exist (404).
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeDecode indicates a 2xx response body could not be decoded.
	ErrCodeDecode ErrorCode = "decode"
)

// DomainError is the normalized, human-readable error surfaced to callers.
// Message is meant for display; Cause keeps the transport detail for logs and errors.Is.
type DomainError struct {
	Code    ErrorCode
	Message string
	// Status is the HTTP status of the response, zero when no response arrived.
	Status int
	// Server is the message the backend supplied (message, detail or error field), "" when none.
	Server string
	// Detail is the server-supplied detail field, kept for handlers that format their own notice.
	Detail string
	Cause  error
}

// Error returns the display message.
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// serverBody is the subset of a backend error body we read.
type serverBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Error   string `json:"error"`
}

// FromResponse builds a DomainError from a non-2xx response.
// The message prefers the server-supplied message, then detail, then error, then a generic
// transport message.
func FromResponse(status int, body []byte) *DomainError {
	server := serverMessage(body)
	msg := server
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status code %d", status)
	}
	return &DomainError{
		Code:    codeForStatus(status),
		Message: msg,
		Status:  status,
		Server:  server,
		Detail:  ServerDetail(body),
		Cause:   fmt.Errorf("http status %d", status),
	}
}

// ServerDetail returns the detail field of a backend error body, or "".
func ServerDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var sb serverBody
	if err := json.Unmarshal(body, &sb); err != nil {
		return ""
	}
	return strings.TrimSpace(sb.Detail)
}

func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var sb serverBody
	if err := json.Unmarshal(body, &sb); err != nil {
		return ""
	}
	for _, m := range []string{sb.Message, sb.Detail, sb.Error} {
		if m = strings.TrimSpace(m); m != "" {
			return m
		}
	}
	return ""
}

func codeForStatus(status int) ErrorCode {
	switch status {
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	default:
		return ErrCodeServer
	}
}

// Transport classifies an error returned by the HTTP round trip.
func Transport(err error) *DomainError {
	if err == nil {
		return nil
	}
	code := ErrCodeTransport
	msg := "Network Error"
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		code, msg = ErrCodeCanceled, "request canceled"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		code, msg = ErrCodeTimeout, "timeout exceeded"
	}
	return &DomainError{Code: code, Message: msg, Cause: err}
}

// Decode wraps a failure to decode a successful response body.
func Decode(err error) *DomainError {
	return &DomainError{Code: ErrCodeDecode, Message: "invalid response from server", Cause: err}
}

// Validation creates a Validation error for a payload rejected before sending.
func Validation(message string, cause error) *DomainError {
	return &DomainError{Code: ErrCodeValidation, Message: message, Cause: cause}
}

// WithFallback keeps the server-supplied message of err and substitutes fallback for
// the generic transport text. Validation messages are kept as they are.
// Non-DomainErrors are wrapped as transport failures first.
func WithFallback(err error, fallback string) error {
	if err == nil {
		return nil
	}
	de := asDomain(err)
	if de.Server != "" || de.Code == ErrCodeValidation {
		return de
	}
	return &DomainError{Code: de.Code, Message: fallback, Status: de.Status, Detail: de.Detail, Cause: de.Cause}
}

// Relabel replaces the message of err with a fixed operation-specific message,
// keeping code, status and cause.
func Relabel(err error, message string) error {
	if err == nil {
		return nil
	}
	de := asDomain(err)
	return &DomainError{
		Code:    de.Code,
		Message: message,
		Status:  de.Status,
		Server:  de.Server,
		Detail:  de.Detail,
		Cause:   err,
	}
}

func asDomain(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return Transport(err)
}

// Message returns the display message of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

// IsUnauthorized checks if an error is an Unauthorized error.
func IsUnauthorized(err error) bool {
	return isCode(err, ErrCodeUnauthorized)
}

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool {
	return isCode(err, ErrCodeForbidden)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool {
	return isCode(err, ErrCodeTimeout)
}

// IsTransport checks if an error is a Transport error.
func IsTransport(err error) bool {
	return isCode(err, ErrCodeTransport)
}

// GetCode returns the ErrorCode from an error, or empty string if not a DomainError.
func GetCode(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// GetStatus returns the HTTP status carried by err, or 0.
func GetStatus(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Status
	}
	return 0
}
