package help

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// =============================================================================
// Registry Tests
// =============================================================================

func TestGetCommand(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
		wantOK   bool
	}{
		{"export", "/export", true},
		{"/export", "/export", true},
		{"/q", "/quit", true},
		{"h", "/help", true},
		{"frobnicate", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := GetCommand(tt.name)
			if ok != tt.wantOK || cmd.Name != tt.wantName {
				t.Errorf("GetCommand(%q) = %q, %v; want %q, %v", tt.name, cmd.Name, ok, tt.wantName, tt.wantOK)
			}
		})
	}
}

func TestEveryCommandHasCategoryAndUsage(t *testing.T) {
	known := make(map[Category]bool)
	for _, cat := range CategoryOrder {
		known[cat] = true
	}
	seen := make(map[string]bool)
	for _, cmd := range Commands {
		if !known[cmd.Category] {
			t.Errorf("%s has unlisted category %q", cmd.Name, cmd.Category)
		}
		if !strings.HasPrefix(cmd.Usage, cmd.Name) {
			t.Errorf("%s usage %q does not start with the command", cmd.Name, cmd.Usage)
		}
		if seen[cmd.Name] {
			t.Errorf("%s registered twice", cmd.Name)
		}
		seen[cmd.Name] = true
	}
}

func TestNames(t *testing.T) {
	want := []string{
		"title", "owner", "section", "set", "amount", "bullet", "note", "show",
		"save", "load", "export", "verify", "help", "quit",
	}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

// =============================================================================
// Style Tests
// =============================================================================

func TestStripANSI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{StyleCommand("/help"), "/help"},
		{CommandWithShortcut("/help", "/h"), "/help (or /h)"},
		{ExampleLine("/export pdf", "Render"), "/export pdf -> Render"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripANSI(tt.in); got != tt.want {
			t.Errorf("StripANSI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPadRightIgnoresEscapes(t *testing.T) {
	got := PadRight(StyleCommand("/set"), 8)
	if visibleLength(got) != 8 {
		t.Errorf("visible length = %d, want 8", visibleLength(got))
	}
	if got := PadRight("toolong", 3); got != "toolong" {
		t.Errorf("PadRight() = %q, want input unchanged", got)
	}
}

// =============================================================================
// Renderer Tests
// =============================================================================

func TestRenderFullPlain(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, false).RenderFull()
	out := buf.String()

	if strings.Contains(out, "\033") {
		t.Error("plain output contains ANSI escapes")
	}
	for _, cat := range CategoryOrder {
		if !strings.Contains(out, cat.DisplayName()) {
			t.Errorf("output missing category %q", cat.DisplayName())
		}
	}
	for _, cmd := range Commands {
		if !strings.Contains(out, cmd.Name) {
			t.Errorf("output missing command %s", cmd.Name)
		}
	}
	if !strings.Contains(out, "│ /help (or /h)   Show this help message") {
		t.Errorf("command column not aligned:\n%s", out)
	}
}

func TestRenderFullColor(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, true).RenderFull()
	if !strings.Contains(buf.String(), ColorCyan+"/export"+ColorReset) {
		t.Error("color output does not style command names")
	}
}

func TestRenderCommand(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	if !r.RenderCommand("export") {
		t.Fatal("RenderCommand(export) = false")
	}
	for _, want := range []string{
		"Usage: /export <pdf|csv> [file]",
		"/export csv plan.csv -> Write CSV to plan.csv",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if r.RenderCommand("frobnicate") {
		t.Error("RenderCommand(frobnicate) = true")
	}
	if buf.Len() != 0 {
		t.Errorf("unknown command wrote %q", buf.String())
	}
}
