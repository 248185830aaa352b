package errors

// Registry maps error codes to their remediation suggestions.
type Registry struct {
	suggestions map[string][]string
}

// NewRegistry creates a new suggestion registry.
func NewRegistry() *Registry {
	return &Registry{
		suggestions: make(map[string][]string),
	}
}

// Register adds a suggestion for an error code.
func (r *Registry) Register(code, text string) *Registry {
	r.suggestions[code] = append(r.suggestions[code], text)
	return r
}

// Get returns the suggestions registered for code.
func (r *Registry) Get(code string) []string {
	return r.suggestions[code]
}

var defaultRegistry = newDefaultRegistry()

// DefaultRegistry returns the registry used by the smart constructors.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func newDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(ErrConfigNotFound, "Run 'blueprint init' to create a default config file")
	r.Register(ErrConfigParseFailed, "Check the YAML syntax (indentation must use spaces)")
	r.Register(ErrConfigInvalid, "Layout values must be positive numbers in points (1/72 inch)")
	r.Register(ErrConfigWriteFailed, "Check that the config directory is writable")

	r.Register(ErrValidationRequired, "Fill in the missing field and retry")
	r.Register(ErrBlueprintNotFound, "List stored blueprints with GET /api/blueprints")

	r.Register(ErrIOReadFailed, "Check that the file exists and is readable")
	r.Register(ErrIOWriteFailed, "Check that the target directory exists and is writable")
	r.Register(ErrIODecodeFailed, "Blueprint files must be .yaml, .yml or .json")

	r.Register(ErrExportInvalidFormat, "Supported formats are: pdf, csv")

	r.Register(ErrPDFInvariant, "This is a bug in the document generator; please report it with the input lines")
	r.Register(ErrPDFInvalid, "Re-export the blueprint; hand-edited PDF files are not supported")

	r.Register(ErrCommandUnknown, "Type /help to list available commands")
	r.Register(ErrCommandUsage, "Type /help to see the arguments each command takes")

	return r
}

// AttachSuggestions appends the registered suggestions for err's code.
func AttachSuggestions(err *BlueprintError) *BlueprintError {
	if err == nil {
		return nil
	}
	err.Suggestions = append(err.Suggestions, defaultRegistry.Get(err.Code)...)
	return err
}
