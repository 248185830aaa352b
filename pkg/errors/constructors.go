package errors

import "fmt"

// -----------------------------------------------------------------------------
// Smart Constructors with Auto-Attached Suggestions
// -----------------------------------------------------------------------------

// Config creates a configuration error with auto-attached suggestions.
func Config(code, message string) *BlueprintError {
	return AttachSuggestions(New(code, CategoryConfig, message))
}

// ConfigWrap wraps an error as a configuration error with auto-attached suggestions.
func ConfigWrap(cause error, code, message string) *BlueprintError {
	return AttachSuggestions(Wrap(cause, code, CategoryConfig, message))
}

// Validation creates a validation error with auto-attached suggestions.
func Validation(code, message string) *BlueprintError {
	return AttachSuggestions(New(code, CategoryValidation, message))
}

// Validationf creates a validation error with a formatted message.
func Validationf(code, format string, args ...interface{}) *BlueprintError {
	return Validation(code, fmt.Sprintf(format, args...))
}

// IOWrap wraps an error as a file/IO error with auto-attached suggestions.
func IOWrap(cause error, code, message string) *BlueprintError {
	return AttachSuggestions(Wrap(cause, code, CategoryIO, message))
}

// Export creates an export error with auto-attached suggestions.
func Export(code, message string) *BlueprintError {
	return AttachSuggestions(New(code, CategoryExport, message))
}

// ExportWrap wraps an error as an export error with auto-attached suggestions.
func ExportWrap(cause error, code, message string) *BlueprintError {
	return AttachSuggestions(Wrap(cause, code, CategoryExport, message))
}

// PDF creates a document generator error with auto-attached suggestions.
func PDF(code, message string) *BlueprintError {
	return AttachSuggestions(New(code, CategoryPDF, message))
}

// PDFf creates a document generator error with a formatted message.
func PDFf(code, format string, args ...interface{}) *BlueprintError {
	return PDF(code, fmt.Sprintf(format, args...))
}

// PDFWrap wraps an error as a document generator error.
func PDFWrap(cause error, code, message string) *BlueprintError {
	return AttachSuggestions(Wrap(cause, code, CategoryPDF, message))
}

// Command creates a shell command error with auto-attached suggestions.
func Command(code, message string) *BlueprintError {
	return AttachSuggestions(New(code, CategoryCommand, message))
}

// -----------------------------------------------------------------------------
// Convenience Constructors for Common Scenarios
// -----------------------------------------------------------------------------

// ConfigNotFound creates an error for a missing config file.
func ConfigNotFound(path string) *BlueprintError {
	return Config(ErrConfigNotFound, "configuration file not found").
		WithContext("path", path)
}

// ConfigParseError creates an error for a config file that failed to parse.
func ConfigParseError(path string, cause error) *BlueprintError {
	return ConfigWrap(cause, ErrConfigParseFailed, "failed to parse configuration file").
		WithContext("path", path)
}

// ValidationRequired creates an error for a missing required field.
func ValidationRequired(field string) *BlueprintError {
	return Validation(ErrValidationRequired, fmt.Sprintf("%s is required", field)).
		WithContext("field", field)
}

// BlueprintNotFound creates an error for an unknown blueprint ID.
func BlueprintNotFound(id string) *BlueprintError {
	return Validation(ErrBlueprintNotFound, "blueprint not found").
		WithContext("id", id)
}

// ExportInvalidFormat creates an error for an unsupported export format.
func ExportInvalidFormat(format string) *BlueprintError {
	return Export(ErrExportInvalidFormat, fmt.Sprintf("unsupported export format %q", format)).
		WithContext("format", format)
}

// InternalPanic creates an error from a recovered panic value.
func InternalPanic(recovered interface{}) *BlueprintError {
	return New(ErrInternalPanic, CategoryInternal, fmt.Sprintf("unexpected panic: %v", recovered))
}
