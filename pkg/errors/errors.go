package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Metadata errors
	ErrMetadataParse     ErrorCode = "METADATA_PARSE"
	ErrMetadataTruncated ErrorCode = "METADATA_TRUNCATED"
	ErrMetadataInvalid   ErrorCode = "METADATA_INVALID"

	// Source resolution errors
	ErrDuplicateSource ErrorCode = "DUPLICATE_SOURCE"
	ErrSourcesLoad     ErrorCode = "SOURCES_LOAD"
	ErrSourcesSave     ErrorCode = "SOURCES_SAVE"

	// Planning errors
	ErrUnitCycle ErrorCode = "UNIT_CYCLE"

	// FileSystem errors
	ErrFileAccess          ErrorCode = "FILE_ACCESS"
	ErrConflict            ErrorCode = "CONFLICT"
	ErrUnsupportedFileType ErrorCode = "UNSUPPORTED_FILE_TYPE"
	ErrDirCreate           ErrorCode = "DIR_CREATE"
	ErrSymlinkCreate       ErrorCode = "SYMLINK_CREATE"

	// Package listing errors
	ErrUnknownDistro ErrorCode = "UNKNOWN_DISTRO"
)

// DotsError represents a structured error with code and details
type DotsError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotsError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotsError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DotsError) Is(target error) bool {
	var targetErr *DotsError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DotsError with the given code and message
func New(code ErrorCode, message string) *DotsError {
	return &DotsError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotsError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotsError {
	return &DotsError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DotsError
func Wrap(err error, code ErrorCode, message string) *DotsError {
	if err == nil {
		return nil
	}
	return &DotsError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotsError {
	if err == nil {
		return nil
	}
	return &DotsError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DotsError) WithDetail(key string, value interface{}) *DotsError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dotsErr *DotsError
	if errors.As(err, &dotsErr) {
		return dotsErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DotsError
func GetErrorCode(err error) ErrorCode {
	var dotsErr *DotsError
	if errors.As(err, &dotsErr) {
		return dotsErr.Code
	}
	return ErrUnknown
}

// GetMessage returns the error text without the leading code tag, for
// callers that print the code separately. Only errors that are directly
// a DotsError are unwrapped; joined errors keep their full text.
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	if dotsErr, ok := err.(*DotsError); ok {
		if dotsErr.Wrapped != nil {
			return dotsErr.Message + ": " + GetMessage(dotsErr.Wrapped)
		}
		return dotsErr.Message
	}
	return err.Error()
}
