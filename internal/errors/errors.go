package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput       = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON      = errors.New("invalid JSON format")
	ErrMultipleJSON     = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound     = errors.New("file not found")
	ErrFileEmpty        = errors.New("file is empty")
	ErrNoInput          = errors.New("no input provided: please specify a file or URL with -i or pipe JSON data to stdin")
	ErrInvalidFilePath  = errors.New("invalid file path")
	ErrNotJSON          = errors.New("content does not look like JSON")
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	ErrBodyTooLarge     = errors.New("response body is too large")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeFetch     ErrorType = "fetch"
	ErrorTypeClipboard ErrorType = "clipboard"
	ErrorTypeView      ErrorType = "view"
	ErrorTypeOutput    ErrorType = "output"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newError(t ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: message,
		Err:     err,
	}
}

// NewInputError creates a new error related to reading input
func NewInputError(message string, err error) *AppError {
	return newError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return newError(ErrorTypeParsing, message, err)
}

// NewConfigError creates a new error related to loading configuration
func NewConfigError(message string, err error) *AppError {
	return newError(ErrorTypeConfig, message, err)
}

// NewFetchError creates a new error related to fetching a remote document
func NewFetchError(message string, err error) *AppError {
	return newError(ErrorTypeFetch, message, err)
}

// NewClipboardError creates a new error related to clipboard access
func NewClipboardError(message string, err error) *AppError {
	return newError(ErrorTypeClipboard, message, err)
}

// NewViewError creates a new error raised by the interactive viewer
func NewViewError(message string, err error) *AppError {
	return newError(ErrorTypeView, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newError(ErrorTypeOutput, message, err)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeFetch:
			return fmt.Sprintf("Fetch error: %s", appErr.Message)
		case ErrorTypeClipboard:
			return fmt.Sprintf("Clipboard error: %s", appErr.Message)
		case ErrorTypeView:
			return fmt.Sprintf("Viewer error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON value."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file or URL with -i or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrNotJSON) {
		return "Error: The content does not look like JSON."
	}
	if errors.Is(err, ErrUnexpectedStatus) {
		return "Error: The server returned an unexpected status."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
