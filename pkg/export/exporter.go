package export

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/r3d91ll/blueprint/pkg/blueprint"
	"github.com/r3d91ll/blueprint/pkg/config"
	berrors "github.com/r3d91ll/blueprint/pkg/errors"
	"github.com/r3d91ll/blueprint/pkg/pdf"
)

// Event describes a finished export.
type Event struct {
	ExportID    string `json:"exportId"`
	BlueprintID string `json:"blueprintId"`
	Format      Format `json:"format"`
	Bytes       int    `json:"bytes"`
	Pages       int    `json:"pages,omitempty"`
}

// Notifier is told about every successful export.
type Notifier interface {
	ExportCompleted(Event)
}

// Result is a rendered export file.
type Result struct {
	ID          string
	BlueprintID string
	Format      Format
	Filename    string
	Data        []byte
	Pages       int

	// SHA256 is the hex-encoded digest of Data.
	SHA256    string
	CreatedAt time.Time
}

// ContentType returns the MIME type of the result.
func (r *Result) ContentType() string {
	return r.Format.ContentType()
}

// Generator builds the PDF generator for b from cfg: layout and encoder from
// the configuration, title, author and creation date from the blueprint. The
// same blueprint therefore always renders to the same bytes.
func Generator(b *blueprint.Blueprint, cfg *config.Config) *pdf.Generator {
	if cfg == nil {
		cfg = config.Default()
	}
	g := pdf.NewGenerator(cfg.Layout)
	g.Encoder = cfg.Encoder()
	g.Info = pdf.Info{
		Title:   b.Title,
		Author:  b.Owner,
		Subject: cfg.Document.Subject,
		Creator: cfg.Document.Creator,

		CreationDate: b.CreatedAt,
	}
	return g
}

// PDF renders b as a PDF document.
func PDF(b *blueprint.Blueprint, cfg *config.Config) (*pdf.Document, error) {
	return Generator(b, cfg).Generate(blueprint.Lines(b))
}

// CSV renders b as CSV using the configured dialect.
func CSV(b *blueprint.Blueprint, cfg *config.Config) ([]byte, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	var buf bytes.Buffer
	err := WriteCSV(&buf, b, &CSVConfig{
		Dialect:       CSVDialect(cfg.Export.CSVDialect),
		IncludeHeader: cfg.Export.IncludeHeader,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Exporter renders blueprints and reports each export to an optional
// Notifier.
type Exporter struct {
	config   *config.Config
	notifier Notifier
}

// NewExporter creates an exporter. If cfg is nil, config.Default() is used.
func NewExporter(cfg *config.Config, notifier Notifier) *Exporter {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Exporter{config: cfg, notifier: notifier}
}

// Export validates b and renders it in format.
func (e *Exporter) Export(b *blueprint.Blueprint, format Format) (*Result, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		ID:          uuid.New().String(),
		BlueprintID: b.ID,
		Format:      format,
		Filename:    format.Filename(b.Title),
		CreatedAt:   time.Now().UTC(),
	}

	switch format {
	case FormatPDF:
		doc, err := PDF(b, e.config)
		if err != nil {
			return nil, berrors.ExportWrap(err, berrors.ErrExportFailed, "failed to render PDF").
				WithContext("blueprint", b.ID)
		}
		res.Data = doc.Data
		res.Pages = doc.PageCount
	case FormatCSV:
		data, err := CSV(b, e.config)
		if err != nil {
			return nil, berrors.ExportWrap(err, berrors.ErrExportFailed, "failed to render CSV").
				WithContext("blueprint", b.ID)
		}
		res.Data = data
	default:
		return nil, berrors.ExportInvalidFormat(string(format))
	}

	sum := sha256.Sum256(res.Data)
	res.SHA256 = hex.EncodeToString(sum[:])

	log.Printf("[export] %s %s -> %s (%d bytes, %d pages)", format, b.ID, res.Filename, len(res.Data), res.Pages)

	if e.notifier != nil {
		e.notifier.ExportCompleted(Event{
			ExportID:    res.ID,
			BlueprintID: res.BlueprintID,
			Format:      res.Format,
			Bytes:       len(res.Data),
			Pages:       res.Pages,
		})
	}
	return res, nil
}
