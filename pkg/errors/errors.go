package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeMissingData ErrorType = "missing_data"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents an API error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// NewMissingPuzzleData returns the error raised when a puzzle record lacks
// an expected field (publication date or board). Callers inside the per-date
// download loop treat it as skippable; everywhere else it is fatal.
func NewMissingPuzzleData(msg string) *Error {
	return &Error{
		Type:    ErrorTypeMissingData,
		Message: msg,
	}
}

// IsMissingPuzzleData reports whether err indicates a record with missing
// puzzle data.
func IsMissingPuzzleData(err error) bool {
	var apiErr *Error
	if stderrors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeMissingData
	}
	return false
}

// IsType reports whether err is an *Error of the given type.
func IsType(err error, t ErrorType) bool {
	var apiErr *Error
	if stderrors.As(err, &apiErr) {
		return apiErr.Type == t
	}
	return false
}
