// Package tableerrors provides the structured error taxonomy shared by the
// loader, the typed table engine and the facades built on top of them.
//
// # Overview
//
// Every failure surfaced by tabula is an *Error carrying:
//   - an ErrorType used by callers to branch on the failure category
//   - a human-readable message
//   - an optional cause, reachable through errors.Is / errors.As
//   - key-value details (file path, column name, line number, ...)
//   - the call stack captured where the error was created
//
// # Basic Usage
//
//	if !ok {
//	    return nil, tableerrors.ColumnNotFound(name)
//	}
//
//	data, err := os.ReadFile(path)
//	if err != nil {
//	    return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeFile, "failed to read file").
//	        WithDetail("path", path)
//	}
//
// # Error Types
//
// The taxonomy is deliberately small:
//   - file: the input is missing or unreadable (IOError)
//   - format: empty input, duplicate header names, row width mismatch (FormatError)
//   - column_not_found: an operation names an unknown column (ColumnNotFoundError)
//   - coercion: a value disagrees with the type chosen for its column (TypeCoercionError)
//   - validation: bad arguments or configuration
//   - internal: invariant violations
//
// # Thread Safety
//
// Error instances are not safe for concurrent modification. Add details
// before sharing an error across goroutines.
package tableerrors

import (
	"errors"
	"runtime"

	stringpool "github.com/ajitpratap0/tabula/pkg/strings"
)

// ErrorType represents the category of an error.
type ErrorType string

const (
	// ErrorTypeInternal represents internal invariant violations
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents invalid arguments or configuration
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeFile represents a missing or unreadable input file
	ErrorTypeFile ErrorType = "file"
	// ErrorTypeFormat represents malformed delimited input
	ErrorTypeFormat ErrorType = "format"
	// ErrorTypeColumnNotFound represents a reference to an unknown column
	ErrorTypeColumnNotFound ErrorType = "column_not_found"
	// ErrorTypeCoercion represents a value that cannot be converted to its column type
	ErrorTypeCoercion ErrorType = "coercion"
)

// Error represents a structured error with context.
//
// Fields:
//   - Type: Categorizes the error
//   - Message: Human-readable error description
//   - Cause: The underlying error that caused this error
//   - Details: Key-value pairs providing additional context
//   - Stack: Call stack at the point of error creation
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack.
type StackFrame struct {
	Function string // Fully qualified function name
	File     string // Source file path
	Line     int    // Line number in source file
}

// Error implements the error interface, returning the error type, message,
// and cause (if present).
func (e *Error) Error() string {
	if e.Cause != nil {
		return stringpool.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return stringpool.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same type with no message,
// which lets sentinel values such as ErrColumnNotFound match with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Type == e.Type
}

// WithDetail adds a key-value detail to the error. Calls can be chained.
//
// Example:
//
//	err := tableerrors.New(tableerrors.ErrorTypeFormat, "row width mismatch").
//	    WithDetail("line", 7).
//	    WithDetail("expected", 3).
//	    WithDetail("actual", 2)
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Detail returns the detail stored under key.
func (e *Error) Detail(key string) (interface{}, bool) {
	v, ok := e.Details[key]
	return v, ok
}

// Sentinels usable with errors.Is to test an error's category.
var (
	ErrFile           = &Error{Type: ErrorTypeFile}
	ErrFormat         = &Error{Type: ErrorTypeFormat}
	ErrColumnNotFound = &Error{Type: ErrorTypeColumnNotFound}
	ErrCoercion       = &Error{Type: ErrorTypeCoercion}
	ErrValidation     = &Error{Type: ErrorTypeValidation}
)

// New creates a new error with the given type and message, capturing the
// call stack at the point of creation.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf is New with a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: stringpool.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error, preserving it as the cause. If err is
// already an *Error its stack is kept. Returns nil if err is nil.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// ColumnNotFound returns the error reported when an operation references a
// column that is not part of the table.
func ColumnNotFound(name string) *Error {
	return &Error{
		Type:    ErrorTypeColumnNotFound,
		Message: stringpool.Sprintf("column %q not found", name),
		Details: map[string]interface{}{"column": name},
		Stack:   captureStack(2),
	}
}

// IsType checks if the error, or any error it wraps, is of the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// TypeOf returns the ErrorType of err, or ErrorTypeInternal when err is not
// a structured error.
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ErrorTypeInternal
	}
	return e.Type
}

// IsFile reports whether err is an IOError.
func IsFile(err error) bool { return IsType(err, ErrorTypeFile) }

// IsFormat reports whether err is a FormatError.
func IsFormat(err error) bool { return IsType(err, ErrorTypeFormat) }

// IsColumnNotFound reports whether err is a ColumnNotFoundError.
func IsColumnNotFound(err error) bool { return IsType(err, ErrorTypeColumnNotFound) }

// IsCoercion reports whether err is a TypeCoercionError.
func IsCoercion(err error) bool { return IsType(err, ErrorTypeCoercion) }

// captureStack captures the current call stack up to maxFrames deep,
// skipping the specified number of frames from the top.
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
