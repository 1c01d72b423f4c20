// Package ifcerr defines the API error taxonomy, one sentinel per
// variant in apps/server/src/error.rs's ApiError enum, plus the
// HTTP status/code mapping used to render them. Call sites construct
// an *Error with the matching constructor and wrap an underlying cause
// with %w, following the non-panicking fmt.Errorf("...: %w", ErrX)
// discipline shown in other_examples' lvlath builder-api.go.
package ifcerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors, one per taxonomy entry. Callers branch on these with
// errors.Is; they are never constructed directly as responses — use the
// matching constructor below (MissingFile, FileTooLarge, ...) to attach a
// message and HTTP mapping.
var (
	ErrMissingFile  = errors.New("missing file in request")
	ErrFileTooLarge = errors.New("file too large")
	ErrInvalidUTF8  = errors.New("invalid utf-8 content")
	ErrMultipart    = errors.New("multipart error")
	ErrProcessing   = errors.New("processing error")
	ErrCache        = errors.New("cache error")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal server error")
	ErrTask         = errors.New("task error")
)

// Code is the machine-readable error code returned in JSON error bodies.
type Code string

const (
	CodeMissingFile  Code = "MISSING_FILE"
	CodeFileTooLarge Code = "FILE_TOO_LARGE"
	CodeInvalidUTF8  Code = "INVALID_UTF8"
	CodeMultipart    Code = "MULTIPART_ERROR"
	CodeNotFound     Code = "NOT_FOUND"
	CodeProcessing   Code = "PROCESSING_ERROR"
	CodeCache        Code = "CACHE_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeTask         Code = "TASK_ERROR"
)

var statusByCode = map[Code]int{
	CodeMissingFile:  http.StatusBadRequest,
	CodeFileTooLarge: http.StatusRequestEntityTooLarge,
	CodeInvalidUTF8:  http.StatusBadRequest,
	CodeMultipart:    http.StatusBadRequest,
	CodeNotFound:     http.StatusNotFound,
	CodeProcessing:   http.StatusInternalServerError,
	CodeCache:        http.StatusInternalServerError,
	CodeInternal:     http.StatusInternalServerError,
	CodeTask:         http.StatusInternalServerError,
}

// Error is the taxonomy-tagged error type returned from HTTP handlers.
// It carries a client-facing message, a machine-readable Code, and
// (optionally) a wrapped cause for logging.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Status returns the HTTP status code for e's taxonomy entry.
func (e *Error) Status() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func newError(code Code, sentinel error, format string, args ...any) *Error {
	msg := sentinel.Error()
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Code: code, Message: msg, Cause: sentinel}
}

// MissingFile reports that the request's multipart body had no `file`
// field.
func MissingFile() *Error {
	return newError(CodeMissingFile, ErrMissingFile, "")
}

// FileTooLarge reports that the uploaded payload exceeded maxMB
// megabytes.
func FileTooLarge(maxMB int) *Error {
	return newError(CodeFileTooLarge, ErrFileTooLarge, "file too large: maximum size is %d MB", maxMB)
}

// InvalidUTF8 wraps a UTF-8 decoding failure.
func InvalidUTF8(cause error) *Error {
	return &Error{Code: CodeInvalidUTF8, Message: ErrInvalidUTF8.Error(), Cause: fmt.Errorf("%w: %v", ErrInvalidUTF8, cause)}
}

// Multipart wraps a multipart body decoding failure.
func Multipart(cause error) *Error {
	return &Error{Code: CodeMultipart, Message: fmt.Sprintf("multipart error: %v", cause), Cause: fmt.Errorf("%w: %v", ErrMultipart, cause)}
}

// Processing wraps a lexer/decoder/router failure surfaced to the
// client; byte offset and similar detail belongs in msg.
func Processing(msg string) *Error {
	return &Error{Code: CodeProcessing, Message: fmt.Sprintf("processing error: %s", msg), Cause: ErrProcessing}
}

// Cache wraps a cache I/O failure that must be surfaced to the client
// (this is distinct from the "log and ignore" policy applied to
// fire-and-forget cache writes — those never reach this constructor).
func Cache(msg string) *Error {
	return &Error{Code: CodeCache, Message: fmt.Sprintf("cache error: %s", msg), Cause: ErrCache}
}

// NotFound reports that key has no entry in the cache.
func NotFound(key string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("not found: %s", key), Cause: ErrNotFound}
}

// Internal wraps an unexpected failure with no more specific taxonomy
// entry.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf("internal server error: %s", msg), Cause: ErrInternal}
}

// Task wraps a worker-pool job that failed to complete (join error).
func Task(cause error) *Error {
	return &Error{Code: CodeTask, Message: "task error", Cause: fmt.Errorf("%w: %v", ErrTask, cause)}
}
