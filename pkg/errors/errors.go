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

	// Element descriptor errors
	ErrElementLoad    ErrorCode = "ELEMENT_LOAD"
	ErrElementParse   ErrorCode = "ELEMENT_PARSE"
	ErrElementInvalid ErrorCode = "ELEMENT_INVALID"

	// Dependency graph errors — all fatal to the whole run
	ErrDuplicateElement  ErrorCode = "DUPLICATE_ELEMENT"
	ErrMissingDependency ErrorCode = "MISSING_DEPENDENCY"
	ErrSelfDependency    ErrorCode = "SELF_DEPENDENCY"
	ErrDependencyCycle   ErrorCode = "DEPENDENCY_CYCLE"

	// Context engine errors — fatal to the current element only
	ErrKeySyntax        ErrorCode = "KEY_SYNTAX"
	ErrDuplicateAssign  ErrorCode = "DUPLICATE_ASSIGN"
	ErrReadOnlyConflict ErrorCode = "READONLY_CONFLICT"

	// Template errors — fatal to the current element only
	ErrTemplateUnresolved   ErrorCode = "TEMPLATE_UNRESOLVED"
	ErrTemplateNonPrimitive ErrorCode = "TEMPLATE_NON_PRIMITIVE"
	ErrNamespaceConflict    ErrorCode = "NAMESPACE_CONFLICT"

	// Tool errors
	ErrToolNotFound ErrorCode = "TOOL_NOT_FOUND"
	ErrToolParams   ErrorCode = "TOOL_PARAMS"
	ErrToolExecute  ErrorCode = "TOOL_EXECUTE"

	// Pseudo-terminal errors
	ErrPtySpawn ErrorCode = "PTY_SPAWN"
	ErrPtyExit  ErrorCode = "PTY_EXIT"

	// Run errors
	ErrRunLocked  ErrorCode = "RUN_LOCKED"
	ErrRunAborted ErrorCode = "RUN_ABORTED"
)

// DotrigError represents a structured error with code and details
type DotrigError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotrigError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotrigError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DotrigError) Is(target error) bool {
	var targetErr *DotrigError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DotrigError with the given code and message
func New(code ErrorCode, message string) *DotrigError {
	return &DotrigError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotrigError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotrigError {
	return &DotrigError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DotrigError
func Wrap(err error, code ErrorCode, message string) *DotrigError {
	if err == nil {
		return nil
	}
	return &DotrigError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotrigError {
	if err == nil {
		return nil
	}
	return &DotrigError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DotrigError) WithDetail(key string, value interface{}) *DotrigError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dotrigErr *DotrigError
	if errors.As(err, &dotrigErr) {
		return dotrigErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DotrigError
func GetErrorCode(err error) ErrorCode {
	var dotrigErr *DotrigError
	if errors.As(err, &dotrigErr) {
		return dotrigErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DotrigError
func GetErrorDetails(err error) map[string]interface{} {
	var dotrigErr *DotrigError
	if errors.As(err, &dotrigErr) {
		return dotrigErr.Details
	}
	return nil
}

// IsDependencyError reports whether the error belongs to the dependency
// graph category, which aborts the whole run before any element executes.
func IsDependencyError(err error) bool {
	switch GetErrorCode(err) {
	case ErrDuplicateElement, ErrMissingDependency, ErrSelfDependency, ErrDependencyCycle:
		return true
	}
	return false
}
