package errors

import "strings"

// -----------------------------------------------------------------------------
// Configuration Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = "CONFIG_NOT_FOUND"

	// ErrConfigParseFailed indicates the configuration file could not be parsed.
	// Usually a YAML syntax error or invalid structure.
	ErrConfigParseFailed = "CONFIG_PARSE_FAILED"

	// ErrConfigInvalid indicates configuration values are invalid.
	ErrConfigInvalid = "CONFIG_INVALID"

	// ErrConfigWriteFailed indicates the config file could not be written.
	ErrConfigWriteFailed = "CONFIG_WRITE_FAILED"
)

// -----------------------------------------------------------------------------
// Validation Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrValidationRequired indicates a required field is missing.
	ErrValidationRequired = "VALIDATION_REQUIRED"

	// ErrValidationInvalid indicates a field value is malformed.
	ErrValidationInvalid = "VALIDATION_INVALID"

	// ErrBlueprintNotFound indicates no blueprint exists with the given ID.
	ErrBlueprintNotFound = "BLUEPRINT_NOT_FOUND"

	// ErrBlueprintExists indicates a blueprint with the given ID already exists.
	ErrBlueprintExists = "BLUEPRINT_EXISTS"
)

// -----------------------------------------------------------------------------
// IO Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrIOReadFailed indicates a file could not be read.
	ErrIOReadFailed = "IO_READ_FAILED"

	// ErrIOWriteFailed indicates a file could not be written.
	ErrIOWriteFailed = "IO_WRITE_FAILED"

	// ErrIODecodeFailed indicates a file was read but its contents did not parse.
	ErrIODecodeFailed = "IO_DECODE_FAILED"
)

// -----------------------------------------------------------------------------
// Export Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrExportInvalidFormat indicates an unknown export format was requested.
	ErrExportInvalidFormat = "EXPORT_INVALID_FORMAT"

	// ErrExportFailed indicates rendering the export failed.
	ErrExportFailed = "EXPORT_FAILED"
)

// -----------------------------------------------------------------------------
// PDF Generator Error Codes
// -----------------------------------------------------------------------------
// These indicate a defect in the generator itself, never bad report content.

const (
	// ErrPDFInvariant indicates an internal consistency check failed
	// (dangling object reference, xref offset mismatch).
	ErrPDFInvariant = "PDF_INVARIANT_VIOLATION"

	// ErrPDFEncodeFailed indicates the byte encoder rejected a string.
	ErrPDFEncodeFailed = "PDF_ENCODE_FAILED"

	// ErrPDFObjectOrder indicates objects were not numbered 1..N in order.
	ErrPDFObjectOrder = "PDF_OBJECT_ORDER"

	// ErrPDFInvalid indicates an external reader rejected a document.
	ErrPDFInvalid = "PDF_INVALID"
)

// -----------------------------------------------------------------------------
// Command Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrCommandUnknown indicates the shell command is not recognized.
	ErrCommandUnknown = "COMMAND_UNKNOWN"

	// ErrCommandUsage indicates the command was called with bad arguments.
	ErrCommandUsage = "COMMAND_USAGE"
)

// -----------------------------------------------------------------------------
// Internal Error Codes
// -----------------------------------------------------------------------------

const (
	// ErrInternalPanic indicates a recovered panic.
	ErrInternalPanic = "INTERNAL_PANIC"
)

// CodeCategory derives the category of an error code from its prefix.
func CodeCategory(code string) Category {
	switch {
	case strings.HasPrefix(code, "CONFIG_"):
		return CategoryConfig
	case strings.HasPrefix(code, "VALIDATION_"), strings.HasPrefix(code, "BLUEPRINT_"):
		return CategoryValidation
	case strings.HasPrefix(code, "IO_"):
		return CategoryIO
	case strings.HasPrefix(code, "EXPORT_"):
		return CategoryExport
	case strings.HasPrefix(code, "PDF_"):
		return CategoryPDF
	case strings.HasPrefix(code, "COMMAND_"):
		return CategoryCommand
	default:
		return CategoryInternal
	}
}
