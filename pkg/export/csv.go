package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/r3d91ll/blueprint/pkg/blueprint"
)

// CSVDialect specifies the CSV format variant.
type CSVDialect string

const (
	// DialectStandard uses RFC 4180 compliant CSV (comma-separated, quoted strings).
	DialectStandard CSVDialect = "standard"

	// DialectExcel writes a UTF-8 byte order mark and CRLF line endings so
	// spreadsheet applications detect the encoding of "£".
	DialectExcel CSVDialect = "excel"

	// DialectTSV uses tab-separated values instead of comma.
	DialectTSV CSVDialect = "tsv"
)

const utf8BOM = "\xef\xbb\xbf"

// Labels used for rows that are not labelled entries.
const (
	BulletLabel = "-"
	NotesLabel  = "notes"
)

// CSVConfig specifies options for CSV export.
type CSVConfig struct {
	// Dialect specifies the CSV format variant.
	// Default: DialectStandard
	Dialect CSVDialect

	// IncludeHeader writes column headers as the first row.
	// Default: true
	IncludeHeader bool
}

// DefaultCSVConfig returns a CSVConfig with sensible defaults.
func DefaultCSVConfig() *CSVConfig {
	return &CSVConfig{
		Dialect:       DialectStandard,
		IncludeHeader: true,
	}
}

// CSVRow is one exported answer.
type CSVRow struct {
	Section string
	Label   string
	Value   string
}

// CSVWriter writes blueprint answers as section,label,value rows.
type CSVWriter struct {
	config      *CSVConfig
	out         io.Writer
	writer      *csv.Writer
	started     bool
	rowsWritten int
}

// NewCSVWriter creates a new CSVWriter that writes to the given io.Writer.
// If config is nil, DefaultCSVConfig() is used.
func NewCSVWriter(w io.Writer, config *CSVConfig) *CSVWriter {
	if config == nil {
		config = DefaultCSVConfig()
	}

	csvWriter := csv.NewWriter(w)
	switch config.Dialect {
	case DialectTSV:
		csvWriter.Comma = '\t'
	case DialectExcel:
		csvWriter.UseCRLF = true
	}

	return &CSVWriter{
		config: config,
		out:    w,
		writer: csvWriter,
	}
}

// start writes the byte order mark and header before the first row.
func (cw *CSVWriter) start() error {
	if cw.started {
		return nil
	}
	cw.started = true

	if cw.config.Dialect == DialectExcel {
		if _, err := io.WriteString(cw.out, utf8BOM); err != nil {
			return fmt.Errorf("failed to write byte order mark: %w", err)
		}
	}
	if cw.config.IncludeHeader {
		if err := cw.writer.Write([]string{"section", "label", "value"}); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}
	return nil
}

// Write writes a single row.
func (cw *CSVWriter) Write(row CSVRow) error {
	if err := cw.start(); err != nil {
		return err
	}
	if err := cw.writer.Write([]string{row.Section, row.Label, row.Value}); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}
	cw.rowsWritten++
	return nil
}

// WriteBlueprint writes every entry, bullet and note of b in section order.
func (cw *CSVWriter) WriteBlueprint(b *blueprint.Blueprint) error {
	if err := cw.start(); err != nil {
		return err
	}
	for _, row := range Rows(b) {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (cw *CSVWriter) Flush() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// RowsWritten returns the number of data rows written (excluding header).
func (cw *CSVWriter) RowsWritten() int {
	return cw.rowsWritten
}

// Rows flattens b into CSV rows. Bullets use the label "-" and notes the
// label "notes".
func Rows(b *blueprint.Blueprint) []CSVRow {
	var rows []CSVRow
	for _, s := range b.Sections {
		for _, e := range s.Entries {
			rows = append(rows, CSVRow{Section: s.Title, Label: e.Label, Value: e.Value})
		}
		for _, bullet := range s.Bullets {
			rows = append(rows, CSVRow{Section: s.Title, Label: BulletLabel, Value: bullet})
		}
		if s.Notes != "" {
			rows = append(rows, CSVRow{Section: s.Title, Label: NotesLabel, Value: s.Notes})
		}
	}
	return rows
}

// WriteCSV is a convenience function to export a blueprint to CSV.
// If config is nil, DefaultCSVConfig() is used.
func WriteCSV(w io.Writer, b *blueprint.Blueprint, config *CSVConfig) error {
	writer := NewCSVWriter(w, config)
	if err := writer.WriteBlueprint(b); err != nil {
		return err
	}
	return writer.Flush()
}
