// Package config handles blueprint configuration loading.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	berrors "github.com/r3d91ll/blueprint/pkg/errors"
	"github.com/r3d91ll/blueprint/pkg/pdf"
)

// Encodings accepted by document.encoding.
const (
	EncodingWinAnsi = "winansi"
	EncodingUTF8    = "utf-8"
)

// Store backends accepted by store.backend.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
)

// CSV dialects accepted by export.csv_dialect.
var validDialects = []string{"standard", "excel", "tsv"}

// Config is the root configuration structure.
type Config struct {
	Layout   pdf.Layout     `yaml:"layout"`
	Document DocumentConfig `yaml:"document"`
	Export   ExportConfig   `yaml:"export"`
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Shell    ShellConfig    `yaml:"shell"`
}

// DocumentConfig holds PDF metadata and byte encoding settings.
type DocumentConfig struct {
	Creator  string `yaml:"creator"`
	Subject  string `yaml:"subject"`
	Encoding string `yaml:"encoding"`
}

// ExportConfig holds export settings.
type ExportConfig struct {
	CSVDialect    string `yaml:"csv_dialect"`
	IncludeHeader bool   `yaml:"include_header"`
	OutputDir     string `yaml:"output_dir"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	MaxBodyBytes    int64  `yaml:"max_body_bytes"`

	// CORSOrigins lists origins allowed for browser requests and websocket
	// upgrades. "*" allows any origin.
	CORSOrigins   []string `yaml:"cors_origins"`
	EnableLogging bool     `yaml:"enable_logging"`
}

// StoreConfig selects where blueprints are kept.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

// ShellConfig holds interactive shell settings.
type ShellConfig struct {
	HistoryFile string `yaml:"history_file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Layout: pdf.DefaultLayout(),
		Document: DocumentConfig{
			Creator:  "blueprint",
			Subject:  "Money blueprint",
			Encoding: EncodingWinAnsi,
		},
		Export: ExportConfig{
			CSVDialect:    "standard",
			IncludeHeader: true,
			OutputDir:     "./exports",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeoutSec:  15,
			WriteTimeoutSec: 60,
			MaxBodyBytes:    1 << 20,
			CORSOrigins:     []string{"http://localhost:5173"},
			EnableLogging:   true,
		},
		Store: StoreConfig{
			Backend: StoreMemory,
			Dir:     "./blueprints",
		},
		Shell: ShellConfig{
			HistoryFile: ".blueprint_history",
		},
	}
}

// Load loads configuration from a file. Values missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, berrors.ConfigNotFound(path)
		}
		return nil, berrors.IOWrap(err, berrors.ErrIOReadFailed, "failed to read configuration file").
			WithContext("path", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, berrors.ConfigParseError(path, err)
	}

	if err := cfg.Validate(); err != nil {
		if berr, ok := berrors.AsBlueprintError(err); ok {
			berr.WithContext("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads config from path, or returns default if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// Validate checks that every configured value is usable.
func (c *Config) Validate() error {
	layout := []struct {
		field string
		value float64
	}{
		{"layout.page_width", c.Layout.PageWidth},
		{"layout.page_height", c.Layout.PageHeight},
		{"layout.margin", c.Layout.Margin},
		{"layout.font_size", c.Layout.FontSize},
		{"layout.line_height", c.Layout.LineHeight},
	}
	for _, l := range layout {
		if math.IsNaN(l.value) || math.IsInf(l.value, 0) || l.value <= 0 {
			return invalid(l.field, fmt.Sprint(l.value), "a positive number of points")
		}
	}
	if 2*c.Layout.Margin >= math.Min(c.Layout.PageWidth, c.Layout.PageHeight) {
		return invalid("layout.margin", fmt.Sprint(c.Layout.Margin), "less than half the shorter page side")
	}
	if c.Layout.WrapWidth < 0 {
		return invalid("layout.wrap_width", fmt.Sprint(c.Layout.WrapWidth), "0 (derived) or a positive character count")
	}

	switch c.Document.Encoding {
	case EncodingWinAnsi, EncodingUTF8:
	default:
		return invalid("document.encoding", c.Document.Encoding, EncodingWinAnsi+", "+EncodingUTF8)
	}

	if !contains(validDialects, c.Export.CSVDialect) {
		return invalid("export.csv_dialect", c.Export.CSVDialect, strings.Join(validDialects, ", "))
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StoreFile:
		if c.Store.Dir == "" {
			return berrors.ValidationRequired("store.dir")
		}
	default:
		return invalid("store.backend", c.Store.Backend, StoreMemory+", "+StoreFile)
	}

	if c.Server.Addr == "" {
		return berrors.ValidationRequired("server.addr")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return invalid("server.max_body_bytes", fmt.Sprint(c.Server.MaxBodyBytes), "a positive byte count")
	}
	return nil
}

func invalid(field, value, valid string) *berrors.BlueprintError {
	return berrors.Config(berrors.ErrConfigInvalid, fmt.Sprintf("invalid value for %s", field)).
		WithContext("field", field).
		WithContext("value", value).
		WithContext("valid_options", valid)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Encoder returns the PDF byte encoder selected by document.encoding.
func (c *Config) Encoder() pdf.Encoder {
	if c.Document.Encoding == EncodingUTF8 {
		return pdf.UTF8Encoder{}
	}
	return pdf.NewWinAnsiEncoder()
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return berrors.ConfigWrap(err, berrors.ErrConfigWriteFailed, "failed to create config directory").
			WithContext("path", dir)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return berrors.ConfigWrap(err, berrors.ErrConfigWriteFailed, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return berrors.ConfigWrap(err, berrors.ErrConfigWriteFailed, "failed to write config file").
			WithContext("path", path)
	}
	return nil
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	// First check for config in current working directory
	if _, err := os.Stat("blueprint.yaml"); err == nil {
		return "blueprint.yaml"
	}
	// Then check for config/ subdirectory
	if _, err := os.Stat("config/blueprint.yaml"); err == nil {
		return "config/blueprint.yaml"
	}
	return "blueprint.yaml"
}

// InitConfig creates a default config file if it doesn't exist.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // Already exists
	}

	return Default().Save(path)
}
