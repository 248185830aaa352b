package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

// -----------------------------------------------------------------------------
// BlueprintError Tests
// -----------------------------------------------------------------------------

func TestBlueprintErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *BlueprintError
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrConfigInvalid, CategoryConfig, "bad margin"),
			want: "CONFIG_INVALID: bad margin",
		},
		{
			name: "with cause",
			err:  Wrap(io.EOF, ErrIOReadFailed, CategoryIO, "read blueprint"),
			want: "IO_READ_FAILED: read blueprint: EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBlueprintErrorUnwrapAndIs(t *testing.T) {
	err := Wrap(io.ErrUnexpectedEOF, ErrIODecodeFailed, CategoryIO, "decode")
	wrapped := fmt.Errorf("loading: %w", err)

	if !stderrors.Is(wrapped, io.ErrUnexpectedEOF) {
		t.Error("expected errors.Is to find the cause")
	}
	if !stderrors.Is(wrapped, New(ErrIODecodeFailed, CategoryIO, "other message")) {
		t.Error("expected errors.Is to match on code")
	}
	if stderrors.Is(wrapped, New(ErrIOReadFailed, CategoryIO, "decode")) {
		t.Error("expected different codes not to match")
	}
}

func TestCodeAndCategoryHelpers(t *testing.T) {
	err := fmt.Errorf("outer: %w", BlueprintNotFound("abc"))

	if got := Code(err); got != ErrBlueprintNotFound {
		t.Errorf("Code() = %q, want %q", got, ErrBlueprintNotFound)
	}
	if !IsCode(err, ErrBlueprintNotFound) {
		t.Error("IsCode should see through fmt wrapping")
	}
	if !IsCategory(err, CategoryValidation) {
		t.Error("expected validation category")
	}
	if Code(io.EOF) != "" {
		t.Error("plain errors have no code")
	}
}

func TestContextStringIsSorted(t *testing.T) {
	err := New(ErrConfigInvalid, CategoryConfig, "x").
		WithContext("zeta", "1").
		WithContext("alpha", "2")

	want := `alpha="2", zeta="1"`
	if got := err.ContextString(); got != want {
		t.Errorf("ContextString() = %q, want %q", got, want)
	}
}

// -----------------------------------------------------------------------------
// Constructor Tests
// -----------------------------------------------------------------------------

func TestConstructorsAttachSuggestions(t *testing.T) {
	tests := []struct {
		name     string
		err      *BlueprintError
		category Category
	}{
		{"config not found", ConfigNotFound("/tmp/x.yaml"), CategoryConfig},
		{"invalid format", ExportInvalidFormat("docx"), CategoryExport},
		{"pdf invariant", PDF(ErrPDFInvariant, "offset mismatch"), CategoryPDF},
		{"unknown command", Command(ErrCommandUnknown, "/frobnicate"), CategoryCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Category != tt.category {
				t.Errorf("category = %s, want %s", tt.err.Category, tt.category)
			}
			if !tt.err.HasSuggestions() {
				t.Error("expected registered suggestions to be attached")
			}
		})
	}
}

func TestCodeCategory(t *testing.T) {
	tests := map[string]Category{
		ErrConfigParseFailed:   CategoryConfig,
		ErrBlueprintExists:     CategoryValidation,
		ErrIOWriteFailed:       CategoryIO,
		ErrExportFailed:        CategoryExport,
		ErrPDFEncodeFailed:     CategoryPDF,
		ErrCommandUsage:        CategoryCommand,
		ErrInternalPanic:       CategoryInternal,
		"SOMETHING_UNEXPECTED": CategoryInternal,
	}
	for code, want := range tests {
		if got := CodeCategory(code); got != want {
			t.Errorf("CodeCategory(%s) = %s, want %s", code, got, want)
		}
	}
}

func TestFormat(t *testing.T) {
	out := Format(ConfigParseError("config.yaml", io.ErrUnexpectedEOF))

	for _, want := range []string{
		"Error [CONFIG_PARSE_FAILED]",
		`path="config.yaml"`,
		"cause: unexpected EOF",
		"-> Check the YAML syntax",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() output missing %q:\n%s", want, out)
		}
	}

	if got := Format(io.EOF); got != "Error: EOF" {
		t.Errorf("Format(plain) = %q", got)
	}
}
