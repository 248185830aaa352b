package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/r3d91ll/blueprint/pkg/blueprint"
	"github.com/r3d91ll/blueprint/pkg/config"
	berrors "github.com/r3d91ll/blueprint/pkg/errors"
	"github.com/r3d91ll/blueprint/pkg/validate"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestRunDispatch(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantOut  string
		wantCode string
	}{
		{"version", []string{"version"}, "Blueprint " + version, ""},
		{"help", []string{"help"}, "Usage: blueprint", ""},
		{"unknown", []string{"frobnicate"}, "Usage: blueprint", berrors.ErrCommandUnknown},
		{"render without input", []string{"render"}, "Usage: blueprint render", berrors.ErrCommandUsage},
		{"render bad format", []string{"render", "-format", "docx", "in.yaml"}, "", berrors.ErrExportInvalidFormat},
		{"render text as csv", []string{"render", "-format", "csv", "notes.txt"}, "", berrors.ErrCommandUsage},
		{"verify without files", []string{"verify"}, "", berrors.ErrCommandUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, "", tt.args...)
			if tt.wantCode == "" && err != nil {
				t.Fatalf("run(%v) error = %v", tt.args, err)
			}
			if tt.wantCode != "" && !berrors.IsCode(err, tt.wantCode) {
				t.Fatalf("run(%v) error = %v, want code %s", tt.args, err, tt.wantCode)
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("output = %q, want it to contain %q", out, tt.wantOut)
			}
		})
	}
}

func TestRenderTextToPDF(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(input, []byte("Monthly budget\nRent: £900\n"), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out", "notes.pdf")

	out, err := runCLI(t, "", "render", "-title", "Notes", "-o", output, input)
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(out, "1 pages") {
		t.Errorf("output = %q", out)
	}

	report, err := validate.CheckFile(output)
	if err != nil {
		t.Fatalf("CheckFile() error = %v", err)
	}
	if !report.Contains("Rent: GBP 900") {
		t.Errorf("PDF text = %q", report.Text)
	}
}

func TestRenderStdinToStdout(t *testing.T) {
	out, err := runCLI(t, "hello\nworld\n", "render", "-o", "-", "-")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if _, err := validate.Check([]byte(out)); err != nil {
		t.Errorf("stdout is not a valid PDF: %v", err)
	}
}

func TestRenderBlueprintToCSV(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "plan.yaml")
	b := blueprint.New("Money Blueprint", "Sam Taylor")
	b.AddSection("Income").AddAmount("Net income", 2500.5)
	if err := blueprint.SaveFile(input, b); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "plan.csv")

	if _, err := runCLI(t, "", "render", "-format", "csv", "-o", output, input); err != nil {
		t.Fatalf("render error = %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Income,Net income,\"£2,500.50\"") {
		t.Errorf("CSV = %q", data)
	}
}

func TestVerifyReportsFailures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.pdf")
	if err := os.WriteFile(bad, []byte("not a pdf"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "", "verify", bad)
	if !berrors.IsCode(err, berrors.ErrPDFInvalid) {
		t.Fatalf("verify error = %v, want %s", err, berrors.ErrPDFInvalid)
	}
	if !strings.Contains(out, "✗ "+bad) {
		t.Errorf("output = %q", out)
	}
}

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blueprint.yaml")
	if _, err := runCLI(t, "", "init", "-config", path); err != nil {
		t.Fatalf("init error = %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != config.Default().Server.Addr {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestShellCommandRunsScript(t *testing.T) {
	out, err := runCLI(t, "/title Plan\n/show\n", "shell")
	if err != nil {
		t.Fatalf("shell error = %v", err)
	}
	if !strings.Contains(out, "Plan\n") || !strings.HasSuffix(out, "Goodbye!\n") {
		t.Errorf("output = %q", out)
	}
}
