package issue

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of error that occurred
type ErrorType int

const (
	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = iota
	// ErrorTypeConfiguration indicates a configuration error
	ErrorTypeConfiguration
	// ErrorTypeInput indicates the input file is missing, unreadable or malformed
	ErrorTypeInput
	// ErrorTypeTimeout indicates the external call did not finish in time
	ErrorTypeTimeout
	// ErrorTypeCommand indicates the external call exited with an error
	ErrorTypeCommand
)

// UnknownError is reported when a failed call gives no error text
const UnknownError = "Unknown error"

// IssueError represents a structured error with type and suggestion
type IssueError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
}

// Error implements the error interface
func (e *IssueError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("caused by: %v", e.Cause))
	}

	msg := strings.Join(parts, ": ")
	if e.Suggestion != "" {
		msg += fmt.Sprintf("\n💡 %s", e.Suggestion)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *IssueError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *IssueError) Is(target error) bool {
	t, ok := target.(*IssueError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Cause:      cause,
		Suggestion: "Check your flags and try again",
	}
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(message string, cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypeConfiguration,
		Message:    message,
		Cause:      cause,
		Suggestion: "Run 'gh issue-batch init' to write a fresh configuration file",
	}
}

// NewNotFoundError creates the error reported when the input file does not exist
func NewNotFoundError(path string) *IssueError {
	return &IssueError{
		Type:    ErrorTypeInput,
		Message: fmt.Sprintf("Could not find file '%s'", path),
	}
}

// NewInputError creates a new input file error
func NewInputError(message string, cause error) *IssueError {
	return &IssueError{
		Type:    ErrorTypeInput,
		Message: message,
		Cause:   cause,
	}
}

// NewTimeoutError creates the error reported when an issue could not be created in time
func NewTimeoutError(cause error) *IssueError {
	return &IssueError{
		Type:    ErrorTypeTimeout,
		Message: "Request timed out",
		Cause:   cause,
	}
}

// NewCommandError creates the error reported when issue creation failed.
// output is the error text of the external tool; UnknownError is used when it is blank.
func NewCommandError(output string, cause error) *IssueError {
	output = strings.TrimSpace(output)
	if output == "" {
		output = UnknownError
	}
	return &IssueError{
		Type:    ErrorTypeCommand,
		Message: output,
		Cause:   cause,
	}
}

// IsTimeout reports whether err is a timeout error
func IsTimeout(err error) bool {
	return hasType(err, ErrorTypeTimeout)
}

// IsInput reports whether err is an input file error
func IsInput(err error) bool {
	return hasType(err, ErrorTypeInput)
}

// IsRecoverable reports whether err is a failure of a single issue
// after which the batch can go on with the next row
func IsRecoverable(err error) bool {
	return hasType(err, ErrorTypeTimeout) || hasType(err, ErrorTypeCommand)
}

func hasType(err error, t ErrorType) bool {
	var ie *IssueError
	return errors.As(err, &ie) && ie.Type == t
}

// Reason returns the user facing reason of a failed submission
func Reason(err error) string {
	if err == nil {
		return UnknownError
	}
	var ie *IssueError
	if errors.As(err, &ie) {
		return ie.Message
	}
	return err.Error()
}
