package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	berrors "github.com/r3d91ll/blueprint/pkg/errors"
	"github.com/r3d91ll/blueprint/pkg/pdf"
)

func generate(t *testing.T, lines []string, layout pdf.Layout) []byte {
	t.Helper()
	data, err := pdf.Generate(lines, layout)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return data
}

func TestCheckGeneratedDocuments(t *testing.T) {
	many := make([]string, 123)
	for i := range many {
		many[i] = fmt.Sprintf("Row %03d", i+1)
	}
	forty := pdf.Layout{PageWidth: 595, PageHeight: 842, Margin: 21, FontSize: 10, LineHeight: 20}

	tests := []struct {
		name      string
		lines     []string
		layout    pdf.Layout
		wantPages int
		wantText  []string
	}{
		{
			name:      "empty input",
			lines:     nil,
			layout:    pdf.DefaultLayout(),
			wantPages: 1,
		},
		{
			name:      "money line",
			lines:     []string{"Money Blueprint", "Net income: £2,500.50", `Paths (C:\temp)`},
			layout:    pdf.DefaultLayout(),
			wantPages: 1,
			wantText:  []string{"Money Blueprint", "Net income: GBP 2,500.50", `Paths (C:\temp)`},
		},
		{
			name:      "latin-1 text",
			lines:     []string{"Café crème"},
			layout:    pdf.DefaultLayout(),
			wantPages: 1,
			wantText:  []string{"Café crème"},
		},
		{
			name:      "four pages",
			lines:     many,
			layout:    forty,
			wantPages: 4,
			wantText:  []string{"Row 001", "Row 040", "Row 041", "Row 123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Check(generate(t, tt.lines, tt.layout))
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if report.Pages != tt.wantPages {
				t.Errorf("Pages = %d, want %d", report.Pages, tt.wantPages)
			}
			for _, want := range tt.wantText {
				if !report.Contains(want) {
					t.Errorf("extracted text missing %q: %q", want, report.Text)
				}
			}
		})
	}
}

func TestCheckPageBoundaries(t *testing.T) {
	lines := make([]string, 45)
	for i := range lines {
		lines[i] = fmt.Sprintf("Row %02d", i+1)
	}
	layout := pdf.Layout{PageWidth: 595, PageHeight: 842, Margin: 21, FontSize: 10, LineHeight: 20}

	report, err := Check(generate(t, lines, layout))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if report.Pages != 2 {
		t.Fatalf("Pages = %d, want 2", report.Pages)
	}
	if !strings.Contains(report.Text[1], "Row 41") || strings.Contains(report.Text[0], "Row 41") {
		t.Errorf("Row 41 should start page 2; pages = %q", report.Text)
	}
}

func TestCheckRejectsInvalidData(t *testing.T) {
	tests := map[string][]byte{
		"not a pdf": []byte("hello world"),
		"truncated": generate(t, []string{"x"}, pdf.DefaultLayout())[:40],
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Check(data)
			if !berrors.IsCode(err, berrors.ErrPDFInvalid) {
				t.Errorf("Check() error = %v, want %s", err, berrors.ErrPDFInvalid)
			}
		})
	}
}

func TestCheckFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(path, generate(t, []string{"On disk"}, pdf.DefaultLayout()), 0644); err != nil {
		t.Fatal(err)
	}

	report, err := CheckFile(path)
	if err != nil {
		t.Fatalf("CheckFile() error = %v", err)
	}
	if !report.Contains("On disk") {
		t.Errorf("text = %q", report.Text)
	}

	if _, err := CheckFile(filepath.Join(t.TempDir(), "missing.pdf")); !berrors.IsCode(err, berrors.ErrIOReadFailed) {
		t.Errorf("CheckFile(missing) error = %v", err)
	}
}
