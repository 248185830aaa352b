// Package blueprint models a money blueprint: the answers a user gives about
// their finances, grouped into titled sections, and the plain-text report
// lines rendered from them.
package blueprint

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	berrors "github.com/r3d91ll/blueprint/pkg/errors"
)

// Blueprint is one user's report.
type Blueprint struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Owner     string    `json:"owner,omitempty" yaml:"owner,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	Sections  []Section `json:"sections" yaml:"sections"`
}

// Section is a titled group of answers.
type Section struct {
	Title   string   `json:"title" yaml:"title"`
	Entries []Entry  `json:"entries,omitempty" yaml:"entries,omitempty"`
	Bullets []string `json:"bullets,omitempty" yaml:"bullets,omitempty"`
	Notes   string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Entry is a labelled value, already formatted for display.
type Entry struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// New creates a blueprint with a fresh ID.
func New(title, owner string) *Blueprint {
	return &Blueprint{
		ID:        uuid.New().String(),
		Title:     title,
		Owner:     owner,
		CreatedAt: time.Now().UTC(),
	}
}

// AddSection appends a section and returns it for filling in.
func (b *Blueprint) AddSection(title string) *Section {
	b.Sections = append(b.Sections, Section{Title: title})
	return &b.Sections[len(b.Sections)-1]
}

// Section returns the section with the given title, or nil.
func (b *Blueprint) Section(title string) *Section {
	for i := range b.Sections {
		if strings.EqualFold(b.Sections[i].Title, title) {
			return &b.Sections[i]
		}
	}
	return nil
}

// Add appends a labelled value. An existing entry with the same label is
// replaced in place.
func (s *Section) Add(label, value string) *Section {
	for i := range s.Entries {
		if s.Entries[i].Label == label {
			s.Entries[i].Value = value
			return s
		}
	}
	s.Entries = append(s.Entries, Entry{Label: label, Value: value})
	return s
}

// AddAmount appends a labelled sterling amount.
func (s *Section) AddAmount(label string, amount float64) *Section {
	return s.Add(label, FormatGBP(amount))
}

// Bullet appends a bullet point.
func (s *Section) Bullet(text string) *Section {
	s.Bullets = append(s.Bullets, text)
	return s
}

// Note appends a paragraph to the section notes.
func (s *Section) Note(text string) *Section {
	if s.Notes == "" {
		s.Notes = text
	} else {
		s.Notes += "\n" + text
	}
	return s
}

// Validate checks the fields a report cannot be rendered without.
func (b *Blueprint) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return berrors.ValidationRequired("title")
	}
	for i, s := range b.Sections {
		if strings.TrimSpace(s.Title) == "" {
			return berrors.ValidationRequired(fmt.Sprintf("sections[%d].title", i))
		}
		for j, e := range s.Entries {
			if strings.TrimSpace(e.Label) == "" {
				return berrors.ValidationRequired(fmt.Sprintf("sections[%d].entries[%d].label", i, j))
			}
		}
	}
	return nil
}

// Clone returns a deep copy of b.
func (b *Blueprint) Clone() *Blueprint {
	c := *b
	c.Sections = make([]Section, len(b.Sections))
	for i, s := range b.Sections {
		s.Entries = append([]Entry(nil), s.Entries...)
		s.Bullets = append([]string(nil), s.Bullets...)
		c.Sections[i] = s
	}
	return &c
}
