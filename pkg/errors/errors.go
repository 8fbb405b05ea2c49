package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an error category independently of its message.
type ErrorCode string

const (
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration document
	ErrConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigRead     ErrorCode = "CONFIG_READ"
	ErrConfigParse    ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Application settings
	ErrSettingsLoad ErrorCode = "SETTINGS_LOAD"

	// Bundles
	ErrBundleNotFound ErrorCode = "BUNDLE_NOT_FOUND"

	// Execution
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrActionExecute ErrorCode = "ACTION_EXECUTE"
	ErrExport        ErrorCode = "EXPORT"
	ErrUnknownShell  ErrorCode = "UNKNOWN_SHELL"
)

// DotsError is an error with a stable code and optional structured details.
type DotsError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *DotsError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DotsError) Unwrap() error {
	return e.Wrapped
}

// Is matches any *DotsError with the same code.
func (e *DotsError) Is(target error) bool {
	var targetErr *DotsError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

func New(code ErrorCode, message string) *DotsError {
	return &DotsError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

func Newf(code ErrorCode, format string, args ...interface{}) *DotsError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) *DotsError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotsError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func (e *DotsError) WithDetail(key string, value interface{}) *DotsError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *DotsError) WithDetails(details map[string]interface{}) *DotsError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// IsErrorCode reports whether any error in err's chain carries code.
func IsErrorCode(err error, code ErrorCode) bool {
	var dotsErr *DotsError
	if errors.As(err, &dotsErr) {
		return dotsErr.Code == code
	}
	return false
}

// GetErrorCode returns the code of the first *DotsError in err's chain, or
// ErrUnknown.
func GetErrorCode(err error) ErrorCode {
	var dotsErr *DotsError
	if errors.As(err, &dotsErr) {
		return dotsErr.Code
	}
	return ErrUnknown
}

func GetErrorDetails(err error) map[string]interface{} {
	var dotsErr *DotsError
	if errors.As(err, &dotsErr) {
		return dotsErr.Details
	}
	return nil
}
