package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	berrors "github.com/r3d91ll/blueprint/pkg/errors"
	"github.com/r3d91ll/blueprint/pkg/pdf"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blueprint.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// -----------------------------------------------------------------------------
// Load Tests with Structured Errors
// -----------------------------------------------------------------------------

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/to/blueprint.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}

	berr, ok := err.(*berrors.BlueprintError)
	if !ok {
		t.Fatalf("expected *berrors.BlueprintError, got %T", err)
	}
	if berr.Code != berrors.ErrConfigNotFound {
		t.Errorf("expected code %q, got %q", berrors.ErrConfigNotFound, berr.Code)
	}
	if berr.Category != berrors.CategoryConfig {
		t.Errorf("expected category %v, got %v", berrors.CategoryConfig, berr.Category)
	}

	foundInit := false
	for _, s := range berr.Suggestions {
		if strings.Contains(s, "blueprint init") {
			foundInit = true
			break
		}
	}
	if !foundInit {
		t.Error("expected suggestion to mention 'blueprint init'")
	}
}

func TestLoad_YAMLParseError(t *testing.T) {
	path := writeConfig(t, `layout:
  page_width: [595
  margin: 48
`)

	_, err := Load(path)
	berr, ok := err.(*berrors.BlueprintError)
	if !ok {
		t.Fatalf("expected *berrors.BlueprintError, got %T (%v)", err, err)
	}
	if berr.Code != berrors.ErrConfigParseFailed {
		t.Errorf("expected code %q, got %q", berrors.ErrConfigParseFailed, berr.Code)
	}
	if berr.Context["path"] != path {
		t.Errorf("expected path context %q, got %q", path, berr.Context["path"])
	}
	if berr.Cause == nil {
		t.Error("expected cause to be set")
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `layout:
  margin: 36
  wrap_width: 72
store:
  backend: file
  dir: /var/lib/blueprint
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantLayout := pdf.DefaultLayout()
	wantLayout.Margin = 36
	wantLayout.WrapWidth = 72
	if diff := cmp.Diff(wantLayout, cfg.Layout); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
	if cfg.Store.Backend != StoreFile || cfg.Store.Dir != "/var/lib/blueprint" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server.addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantField string
		wantCode  string
	}{
		{"negative margin", "layout:\n  margin: -4\n", "layout.margin", berrors.ErrConfigInvalid},
		{"margin too large", "layout:\n  margin: 400\n", "layout.margin", berrors.ErrConfigInvalid},
		{"zero font size", "layout:\n  font_size: 0\n", "layout.font_size", berrors.ErrConfigInvalid},
		{"unknown encoding", "document:\n  encoding: latin9\n", "document.encoding", berrors.ErrConfigInvalid},
		{"unknown dialect", "export:\n  csv_dialect: semicolon\n", "export.csv_dialect", berrors.ErrConfigInvalid},
		{"unknown backend", "store:\n  backend: redis\n", "store.backend", berrors.ErrConfigInvalid},
		{"zero body limit", "server:\n  max_body_bytes: 0\n", "server.max_body_bytes", berrors.ErrConfigInvalid},
		{"file store without dir", "store:\n  backend: file\n  dir: \"\"\n", "store.dir", berrors.ErrValidationRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			berr, ok := berrors.AsBlueprintError(err)
			if !ok {
				t.Fatalf("expected BlueprintError, got %T (%v)", err, err)
			}
			if berr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", berr.Code, tt.wantCode)
			}
			if berr.Context["field"] != tt.wantField {
				t.Errorf("field context = %q, want %q", berr.Context["field"], tt.wantField)
			}
			if berr.Context["path"] == "" {
				t.Error("expected path context")
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Save / Init Tests
// -----------------------------------------------------------------------------

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "blueprint.yaml")

	cfg := Default()
	cfg.Layout.FontSize = 9
	cfg.Document.Encoding = EncodingUTF8
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestInitConfigDoesNotOverwrite(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9999\"\n")

	if err := InitConfig(path); err != nil {
		t.Fatalf("InitConfig() error = %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("InitConfig overwrote existing file, addr = %q", cfg.Server.Addr)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestEncoder(t *testing.T) {
	cfg := Default()
	if _, ok := cfg.Encoder().(*pdf.WinAnsiEncoder); !ok {
		t.Errorf("default encoder = %T, want *pdf.WinAnsiEncoder", cfg.Encoder())
	}
	cfg.Document.Encoding = EncodingUTF8
	if _, ok := cfg.Encoder().(pdf.UTF8Encoder); !ok {
		t.Errorf("utf-8 encoder = %T, want pdf.UTF8Encoder", cfg.Encoder())
	}
}
