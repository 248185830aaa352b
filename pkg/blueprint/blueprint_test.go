package blueprint

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	berrors "github.com/r3d91ll/blueprint/pkg/errors"
)

func sample() *Blueprint {
	b := &Blueprint{
		ID:        "bp-1",
		Title:     "Money Blueprint",
		Owner:     "Sam Taylor",
		CreatedAt: time.Date(2024, 4, 6, 9, 30, 0, 0, time.UTC),
	}
	b.AddSection("Income").
		AddAmount("Net income", 2500.5).
		Add("Pay day", "25th")
	b.AddSection("Goals").
		Bullet("Emergency fund of three months").
		Bullet("Clear credit card").
		Note("Review in six months.")
	return b
}

// ---- Model Tests ----

func TestNew(t *testing.T) {
	b := New("Plan", "Alex")
	if b.ID == "" {
		t.Error("expected generated ID")
	}
	if b.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt location = %v, want UTC", b.CreatedAt.Location())
	}
	if other := New("Plan", "Alex"); other.ID == b.ID {
		t.Error("expected unique IDs")
	}
}

func TestSectionAddReplacesLabel(t *testing.T) {
	var s Section
	s.Add("Rent", "£900.00").Add("Rent", "£950.00").Add("Food", "£300.00")

	want := []Entry{{"Rent", "£950.00"}, {"Food", "£300.00"}}
	if diff := cmp.Diff(want, s.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Blueprint)
		wantField string
	}{
		{"valid", func(*Blueprint) {}, ""},
		{"missing title", func(b *Blueprint) { b.Title = "  " }, "title"},
		{"missing section title", func(b *Blueprint) { b.Sections[1].Title = "" }, "sections[1].title"},
		{"missing entry label", func(b *Blueprint) { b.Sections[0].Entries[1].Label = "" }, "sections[0].entries[1].label"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sample()
			tt.mutate(b)
			err := b.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			berr, ok := berrors.AsBlueprintError(err)
			if !ok || berr.Code != berrors.ErrValidationRequired {
				t.Fatalf("Validate() error = %v, want %s", err, berrors.ErrValidationRequired)
			}
			if berr.Context["field"] != tt.wantField {
				t.Errorf("field = %q, want %q", berr.Context["field"], tt.wantField)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	b := sample()
	c := b.Clone()
	c.Sections[0].Entries[0].Value = "changed"
	c.Sections[1].Bullets[0] = "changed"

	if b.Sections[0].Entries[0].Value == "changed" || b.Sections[1].Bullets[0] == "changed" {
		t.Error("Clone shares slices with the original")
	}
}

// ---- Format Tests ----

func TestFormatGBP(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{2500.5, "£2,500.50"},
		{0, "£0.00"},
		{-10, "-£10.00"},
		{1234567.891, "£1,234,567.89"},
		{-0.001, "£0.00"},
	}
	for _, tt := range tests {
		if got := FormatGBP(tt.amount); got != tt.want {
			t.Errorf("FormatGBP(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatPercentAndDate(t *testing.T) {
	if got := FormatPercent(12.5); got != "12.5%" {
		t.Errorf("FormatPercent() = %q", got)
	}
	if got := FormatDate(time.Date(2024, 4, 6, 0, 0, 0, 0, time.UTC)); got != "06/04/2024" {
		t.Errorf("FormatDate() = %q", got)
	}
}

func TestLines(t *testing.T) {
	want := []string{
		"Money Blueprint",
		"Prepared for Sam Taylor on 06/04/2024",
		"",
		"Income",
		"------",
		"Net income: £2,500.50",
		"Pay day: 25th",
		"",
		"Goals",
		"-----",
		"- Emergency fund of three months",
		"- Clear credit card",
		"",
		"Review in six months.",
	}
	if diff := cmp.Diff(want, Lines(sample())); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

func TestLinesMinimal(t *testing.T) {
	got := Lines(&Blueprint{Title: "Empty"})
	if diff := cmp.Diff([]string{"Empty", "Prepared"}, got); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

// ---- Codec Tests ----

func TestEncodeDecode(t *testing.T) {
	for _, format := range []FileFormat{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, sample(), format); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if diff := cmp.Diff(sample(), got); diff != "" {
				t.Errorf("decoded mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeYAMLDocument(t *testing.T) {
	doc := `id: b-42
title: Household plan
owner: Jo
sections:
  - title: Spending
    entries:
      - label: Rent
        value: £950.00
    bullets:
      - Cancel unused subscriptions
`
	b, err := Decode(strings.NewReader(doc), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if b.Title != "Household plan" || len(b.Sections) != 1 || b.Sections[0].Entries[0].Value != "£950.00" {
		t.Errorf("unexpected blueprint: %+v", b)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		format   FileFormat
		wantCode string
	}{
		{"broken json", "{", FormatJSON, berrors.ErrIODecodeFailed},
		{"missing title", `{"id":"x"}`, FormatJSON, berrors.ErrValidationRequired},
		{"unknown format", "", FileFormat("toml"), berrors.ErrValidationInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), tt.format)
			if !berrors.IsCode(err, tt.wantCode) {
				t.Errorf("Decode() error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"plan.yaml", "plan.yml", "plan.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "sub", name)
			if err := SaveFile(path, sample()); err != nil {
				t.Fatalf("SaveFile() error = %v", err)
			}
			got, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			if diff := cmp.Diff(sample(), got); diff != "" {
				t.Errorf("loaded mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(dir, "plan.txt")); !berrors.IsCode(err, berrors.ErrIODecodeFailed) {
		t.Errorf("LoadFile(.txt) error = %v", err)
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.json")); !berrors.IsCode(err, berrors.ErrIOReadFailed) {
		t.Errorf("LoadFile(missing) error = %v", err)
	}
}

// ---- Store Tests ----

func storeImplementations(t *testing.T) map[string]Store {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "store"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStoreCRUD(t *testing.T) {
	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			b := sample()
			if err := store.Create(b); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if err := store.Create(b); !berrors.IsCode(err, berrors.ErrBlueprintExists) {
				t.Errorf("duplicate Create() error = %v", err)
			}

			got, err := store.Get(b.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if diff := cmp.Diff(b, got); diff != "" {
				t.Errorf("Get() mismatch (-want +got):\n%s", diff)
			}

			got.Title = "Renamed"
			if err := store.Update(got); err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			again, _ := store.Get(b.ID)
			if again.Title != "Renamed" {
				t.Errorf("Title after update = %q", again.Title)
			}

			older := &Blueprint{ID: "bp-0", Title: "Older", CreatedAt: b.CreatedAt.Add(-time.Hour)}
			if err := store.Create(older); err != nil {
				t.Fatalf("Create(older) error = %v", err)
			}
			list, err := store.List()
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(list) != 2 || list[0].ID != "bp-0" || list[1].ID != "bp-1" {
				t.Errorf("List() order = %v", ids(list))
			}

			if err := store.Delete(b.ID); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := store.Get(b.ID); !berrors.IsCode(err, berrors.ErrBlueprintNotFound) {
				t.Errorf("Get(deleted) error = %v", err)
			}
			if err := store.Delete(b.ID); !berrors.IsCode(err, berrors.ErrBlueprintNotFound) {
				t.Errorf("Delete(deleted) error = %v", err)
			}
			if err := store.Update(b); !berrors.IsCode(err, berrors.ErrBlueprintNotFound) {
				t.Errorf("Update(deleted) error = %v", err)
			}
		})
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	store := NewMemoryStore()
	b := sample()
	if err := store.Create(b); err != nil {
		t.Fatal(err)
	}
	b.Title = "mutated after create"

	got, _ := store.Get(b.ID)
	if got.Title != "Money Blueprint" {
		t.Errorf("store shares memory with caller, title = %q", got.Title)
	}
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Create(&Blueprint{ID: "../escape", Title: "x"}); !berrors.IsCode(err, berrors.ErrValidationInvalid) {
		t.Errorf("Create(../escape) error = %v", err)
	}
	if _, err := store.Get("../escape"); !berrors.IsCode(err, berrors.ErrBlueprintNotFound) {
		t.Errorf("Get(../escape) error = %v", err)
	}
}

func TestFileStoreSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Create(sample()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	list, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List() returned %d blueprints, want 1", len(list))
	}
}

func ids(list []*Blueprint) []string {
	out := make([]string, len(list))
	for i, b := range list {
		out[i] = b.ID
	}
	return out
}
