package blueprint

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	berrors "github.com/r3d91ll/blueprint/pkg/errors"
)

// FileFormat is the serialization used for blueprint documents.
type FileFormat string

const (
	FormatYAML FileFormat = "yaml"
	FormatJSON FileFormat = "json"
)

// FileFormatFromPath picks the format from a file extension.
func FileFormatFromPath(path string) (FileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", berrors.IOWrap(fmt.Errorf("unknown extension %q", filepath.Ext(path)), berrors.ErrIODecodeFailed, "cannot infer blueprint file format").
			WithContext("path", path)
	}
}

// Decode reads one blueprint document from r and validates it.
func Decode(r io.Reader, format FileFormat) (*Blueprint, error) {
	var b Blueprint
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&b)
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&b)
	default:
		return nil, berrors.Validationf(berrors.ErrValidationInvalid, "unknown blueprint format %q", format)
	}
	if err != nil {
		return nil, berrors.IOWrap(err, berrors.ErrIODecodeFailed, "failed to decode blueprint").
			WithContext("format", string(format))
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Encode writes b to w.
func Encode(w io.Writer, b *Blueprint, format FileFormat) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to encode blueprint")
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(b); err != nil {
			return berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to encode blueprint")
		}
		return nil
	default:
		return berrors.Validationf(berrors.ErrValidationInvalid, "unknown blueprint format %q", format)
	}
}

// LoadFile reads a blueprint from a .yaml, .yml or .json file.
func LoadFile(path string) (*Blueprint, error) {
	format, err := FileFormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, berrors.IOWrap(err, berrors.ErrIOReadFailed, "failed to open blueprint").
			WithContext("path", path)
	}
	defer f.Close()

	b, err := Decode(f, format)
	if err != nil {
		if berr, ok := berrors.AsBlueprintError(err); ok {
			berr.WithContext("path", path)
		}
		return nil, err
	}
	return b, nil
}

// SaveFile writes b to path in the format matching its extension.
func SaveFile(path string, b *Blueprint) error {
	format, err := FileFormatFromPath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to create directory").
			WithContext("path", filepath.Dir(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to create blueprint file").
			WithContext("path", path)
	}
	if err := Encode(f, b, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to close blueprint file").
			WithContext("path", path)
	}
	return nil
}
