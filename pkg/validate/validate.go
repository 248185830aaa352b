// Package validate checks generated PDF files with independent readers:
// pdfcpu for structural validation and ledongthuc/pdf for page and text
// extraction.
package validate

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	berrors "github.com/r3d91ll/blueprint/pkg/errors"
)

// Report summarizes a valid document.
type Report struct {
	// Pages is the page count; both readers agree on it.
	Pages int

	// Text holds the extracted plain text of each page.
	Text []string
}

// Contains reports whether any page contains s.
func (r *Report) Contains(s string) bool {
	for _, t := range r.Text {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}

var disableConfigDir sync.Once

// configuration returns a relaxed pdfcpu configuration that never touches
// the user's config directory.
func configuration() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Check validates data and extracts its text.
func Check(data []byte) (report *Report, err error) {
	// The text reader panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			report = nil
			err = invalid(fmt.Errorf("%v", r), "text reader failed")
		}
	}()

	ctx, err := api.ReadContext(bytes.NewReader(data), configuration())
	if err != nil {
		return nil, invalid(err, "pdfcpu could not read the document")
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, invalid(err, "pdfcpu validation failed")
	}

	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, invalid(err, "text reader could not open the document")
	}

	pages := r.NumPage()
	if pages != ctx.PageCount {
		return nil, berrors.PDFf(berrors.ErrPDFInvalid, "readers disagree on page count: %d and %d", ctx.PageCount, pages)
	}

	report = &Report{Pages: pages, Text: make([]string, pages)}
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			return nil, berrors.PDFf(berrors.ErrPDFInvalid, "page %d is missing", i)
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, invalid(err, "text extraction failed").WithContext("page", strconv.Itoa(i))
		}
		report.Text[i-1] = text
	}
	return report, nil
}

// CheckFile validates the PDF file at path.
func CheckFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, berrors.IOWrap(err, berrors.ErrIOReadFailed, "failed to read PDF").
			WithContext("path", path)
	}
	report, err := Check(data)
	if err != nil {
		if berr, ok := berrors.AsBlueprintError(err); ok {
			berr.WithContext("path", path)
		}
		return nil, err
	}
	return report, nil
}

func invalid(cause error, message string) *berrors.BlueprintError {
	return berrors.PDFWrap(cause, berrors.ErrPDFInvalid, message)
}
