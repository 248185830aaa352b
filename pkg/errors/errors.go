// Package errors provides structured error types for blueprint.
// Errors carry a code, a category, key/value context, an optional cause and
// remediation suggestions.
package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Category classifies errors for consistent handling and display.
type Category string

const (
	CategoryConfig     Category = "config"     // Configuration loading/parsing errors
	CategoryValidation Category = "validation" // Input validation errors
	CategoryIO         Category = "io"         // File/IO errors
	CategoryExport     Category = "export"     // Report export errors
	CategoryPDF        Category = "pdf"        // Document generator errors
	CategoryCommand    Category = "command"    // Shell command errors
	CategoryInternal   Category = "internal"   // Internal/unexpected errors
)

// BlueprintError is a structured error with context and suggestions.
// It implements the error interface and supports error wrapping.
type BlueprintError struct {
	// Code is a unique identifier for this error type (e.g., "CONFIG_NOT_FOUND")
	Code string

	// Category classifies this error for consistent handling
	Category Category

	// Message is the primary error message describing what went wrong
	Message string

	// Context provides additional key-value details about the error
	Context map[string]string

	// Cause is the underlying error that triggered this error
	Cause error

	// Suggestions are actionable remediation steps for the user
	Suggestions []string
}

// Error implements the error interface.
func (e *BlueprintError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain inspection.
func (e *BlueprintError) Unwrap() error {
	return e.Cause
}

// Is reports whether e matches target for errors.Is() checks.
// Two BlueprintErrors match if they have the same Code.
func (e *BlueprintError) Is(target error) bool {
	if t, ok := target.(*BlueprintError); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new BlueprintError with the given code, category, and message.
func New(code string, category Category, message string) *BlueprintError {
	return &BlueprintError{
		Code:     code,
		Category: category,
		Message:  message,
		Context:  make(map[string]string),
	}
}

// Wrap wraps an existing error with a BlueprintError.
func Wrap(err error, code string, category Category, message string) *BlueprintError {
	return New(code, category, message).WithCause(err)
}

// WithContext adds a context key-value pair and returns the error for chaining.
func (e *BlueprintError) WithContext(key, value string) *BlueprintError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithCause wraps an underlying error and returns the error for chaining.
func (e *BlueprintError) WithCause(cause error) *BlueprintError {
	e.Cause = cause
	return e
}

// WithSuggestion adds a remediation suggestion and returns the error for chaining.
func (e *BlueprintError) WithSuggestion(suggestion string) *BlueprintError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// HasSuggestions returns true if the error has suggestions.
func (e *BlueprintError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// ContextString returns the context entries as key="value" pairs, sorted by key.
func (e *BlueprintError) ContextString() string {
	if len(e.Context) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, e.Context[k]))
	}
	return strings.Join(parts, ", ")
}

// AsBlueprintError finds the first BlueprintError in err's chain.
func AsBlueprintError(err error) (*BlueprintError, bool) {
	var be *BlueprintError
	if stderrors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsCategory checks if an error is a BlueprintError with the given category.
func IsCategory(err error, category Category) bool {
	if be, ok := AsBlueprintError(err); ok {
		return be.Category == category
	}
	return false
}

// IsCode checks if an error is a BlueprintError with the given code.
func IsCode(err error, code string) bool {
	if be, ok := AsBlueprintError(err); ok {
		return be.Code == code
	}
	return false
}

// Code returns the code of the first BlueprintError in err's chain, or "".
func Code(err error) string {
	if be, ok := AsBlueprintError(err); ok {
		return be.Code
	}
	return ""
}

// Format renders err for terminal output, including context and suggestions.
func Format(err error) string {
	be, ok := AsBlueprintError(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error [%s]: %s", be.Code, be.Message)
	if ctx := be.ContextString(); ctx != "" {
		fmt.Fprintf(&sb, "\n  context: %s", ctx)
	}
	if be.Cause != nil {
		fmt.Fprintf(&sb, "\n  cause: %v", be.Cause)
	}
	for _, s := range be.Suggestions {
		fmt.Fprintf(&sb, "\n  -> %s", s)
	}
	return sb.String()
}
