// Package pdf writes plain-text reports as PDF 1.4 documents.
//
// The file is assembled by hand: one Type1 Helvetica font, a content stream
// and page object per page, a page tree, catalog and info dictionary, then
// the cross-reference table and trailer. Lines are sanitized to the WinAnsi
// repertoire, word wrapped to the text column, and split into pages.
//
// Usage:
//
//	data, err := pdf.Generate(lines, pdf.DefaultLayout())
//
//	g := &pdf.Generator{Layout: layout, Info: pdf.Info{Title: "Budget"}}
//	doc, err := g.Generate(lines)
package pdf

import (
	"time"
)

// Document is a generated PDF file and a summary of its structure.
type Document struct {
	Data         []byte
	PageCount    int
	ObjectCount  int
	LinesPerPage int
}

// Generator produces documents with fixed layout and metadata. The zero value
// uses DefaultLayout, a Windows-1252 encoder and the current time.
type Generator struct {
	Layout  Layout
	Encoder Encoder
	Info    Info

	// Now stamps /CreationDate when Info.CreationDate is zero.
	Now func() time.Time
}

// NewGenerator creates a generator for layout with a Windows-1252 encoder.
func NewGenerator(layout Layout) *Generator {
	return &Generator{
		Layout:  layout,
		Encoder: NewWinAnsiEncoder(),
	}
}

// Generate renders lines as a PDF document. Every call allocates its own
// object numbers and offsets, so one Generator may serve concurrent calls.
func (g *Generator) Generate(lines []string) (*Document, error) {
	layout := g.Layout.Normalize()

	enc := g.Encoder
	if enc == nil {
		enc = NewWinAnsiEncoder()
	}

	info := g.Info
	if info.Producer == "" {
		info.Producer = DefaultProducer
	}
	if info.CreationDate.IsZero() {
		now := time.Now
		if g.Now != nil {
			now = g.Now
		}
		info.CreationDate = now()
	}

	perPage := layout.LinesPerPage()
	pages := Chunk(Prepare(lines, layout.CharsPerLine()), perPage)

	graph, err := Assemble(pages, layout, enc, info)
	if err != nil {
		return nil, err
	}

	data, err := Serialize(graph.Objects, graph.CatalogID, graph.InfoID, enc)
	if err != nil {
		return nil, err
	}
	if err := VerifyXref(data); err != nil {
		return nil, err
	}

	return &Document{
		Data:         data,
		PageCount:    len(graph.PageIDs),
		ObjectCount:  len(graph.Objects),
		LinesPerPage: perPage,
	}, nil
}

// Generate renders lines with layout and default metadata.
func Generate(lines []string, layout Layout) ([]byte, error) {
	doc, err := (&Generator{Layout: layout}).Generate(lines)
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}
