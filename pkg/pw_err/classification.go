// pkg/pw_err/classification.go
//
// Error classification with exit codes.

package pw_err

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCategory decides the exit code and how loudly an error is reported.
type ErrorCategory int

const (
	CategorySystem     ErrorCategory = iota // randomness source, filesystem, logging
	CategoryValidation                      // bad flags, config values or lengths
	CategoryNetwork                         // Vault unreachable or refusing
	CategoryUser                            // ctrl+c or closed popup
	CategoryInternal                        // a pwgen bug
	CategoryPermission                      // Vault policy denies the path
)

var categories = map[ErrorCategory]struct {
	name string
	exit int
}{
	CategorySystem:     {"system", 1},
	CategoryValidation: {"validation", 2},
	CategoryNetwork:    {"network", 1},
	CategoryUser:       {"user", 130},
	CategoryInternal:   {"internal", 3},
	CategoryPermission: {"permission", 1},
}

func (c ErrorCategory) String() string {
	if meta, ok := categories[c]; ok {
		return meta.name
	}
	return "system"
}

// ClassifiedError is an error with a category and numbered fix-up steps.
type ClassifiedError struct {
	Category    ErrorCategory
	Message     string
	Cause       error
	Remediation []string
}

func (e *ClassifiedError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Cause != nil && e.Cause.Error() != e.Message {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	if len(e.Remediation) > 0 {
		sb.WriteString("\n\nHow to fix:")
		for i, step := range e.Remediation {
			fmt.Fprintf(&sb, "\n  %d. %s", i+1, step)
		}
	}
	return sb.String()
}

func (e *ClassifiedError) Unwrap() error { return e.Cause }

// ExitCode is 2 for validation, 3 for internal errors, 130 for
// cancellation and 1 otherwise.
func (e *ClassifiedError) ExitCode() int {
	if meta, ok := categories[e.Category]; ok {
		return meta.exit
	}
	return 1
}

// GetExitCode extracts exit code from any error.
// Returns 0 for nil, the category code for classified errors, 1 for others.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.ExitCode()
	}
	return 1
}

func classify(cat ErrorCategory, message string, cause error, remediation []string) *ClassifiedError {
	return &ClassifiedError{Category: cat, Message: message, Cause: cause, Remediation: remediation}
}

// NewValidationError creates an error for input validation failures.
// Validation errors are expected: the user can fix them.
func NewValidationError(message string, cause error, remediation ...string) error {
	return NewExpectedError(classify(CategoryValidation, message, cause, remediation))
}

func NewNetworkError(message string, cause error, remediation ...string) error {
	return classify(CategoryNetwork, message, cause, remediation)
}

// NewPermissionError reports that operation on resource was refused.
func NewPermissionError(resource, operation string, cause error, remediation ...string) error {
	msg := fmt.Sprintf("permission denied: cannot %s %s", operation, resource)
	return classify(CategoryPermission, msg, cause, remediation)
}

func NewInternalError(message string, cause error) error {
	return classify(CategoryInternal, message, cause, []string{
		"This is likely a bug in pwgen",
		"Re-run with LOG_LEVEL=DEBUG and include the log in a bug report",
	})
}

// NewUserCancelledError is returned when the user interrupts operation.
func NewUserCancelledError(operation string) error {
	return classify(CategoryUser, "operation cancelled by user: "+operation, nil,
		[]string{"Run the command again to retry"})
}

// CategoryOf returns the category of err, CategorySystem when unclassified.
func CategoryOf(err error) ErrorCategory {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}
	return CategorySystem
}
