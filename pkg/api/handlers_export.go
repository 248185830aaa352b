package api

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/r3d91ll/blueprint/pkg/blueprint"
	"github.com/r3d91ll/blueprint/pkg/config"
	"github.com/r3d91ll/blueprint/pkg/export"
	"github.com/r3d91ll/blueprint/pkg/pdf"
)

// ExportHandler handles export-related API requests.
type ExportHandler struct {
	store    blueprint.Store
	exporter *export.Exporter
	config   *config.Config
}

// NewExportHandler creates a new ExportHandler. Exports are announced
// through notifier when it is non-nil.
func NewExportHandler(store blueprint.Store, cfg *config.Config, notifier export.Notifier) *ExportHandler {
	if cfg == nil {
		cfg = config.Default()
	}
	return &ExportHandler{
		store:    store,
		exporter: export.NewExporter(cfg, notifier),
		config:   cfg,
	}
}

// RegisterRoutes registers the export API routes on the router.
func (h *ExportHandler) RegisterRoutes(router *Router) {
	router.GET("/api/blueprints/:id/export/:format", h.ExportStored)
	router.POST("/api/export/:format", h.ExportInline)
	router.POST("/api/pdf", h.RenderPDF)
}

// -----------------------------------------------------------------------------
// API Request Types
// -----------------------------------------------------------------------------

// PDFRequest is the body of POST /api/pdf: raw report lines and an optional
// layout. Zero layout fields take their defaults.
type PDFRequest struct {
	Lines  []string    `json:"lines"`
	Layout *pdf.Layout `json:"layout,omitempty"`
	Title  string      `json:"title,omitempty"`
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

// ExportStored handles GET /api/blueprints/:id/export/:format.
// It renders a stored blueprint and returns it as a download.
func (h *ExportHandler) ExportStored(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(PathParam(r, "format"))
	if err != nil {
		WriteBlueprintError(w, err)
		return
	}
	b, err := h.store.Get(PathParam(r, "id"))
	if err != nil {
		WriteBlueprintError(w, err)
		return
	}

	res, err := h.exporter.Export(b, format)
	if err != nil {
		WriteBlueprintError(w, err)
		return
	}
	writeExport(w, r, res)
}

// ExportInline handles POST /api/export/:format.
// The blueprint comes in the request body and is not stored.
func (h *ExportHandler) ExportInline(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(PathParam(r, "format"))
	if err != nil {
		WriteBlueprintError(w, err)
		return
	}
	b, ok := decodeBlueprint(w, r)
	if !ok {
		return
	}

	res, err := h.exporter.Export(b, format)
	if err != nil {
		WriteBlueprintError(w, err)
		return
	}
	writeExport(w, r, res)
}

// RenderPDF handles POST /api/pdf.
// It passes lines straight to the generator without a blueprint.
func (h *ExportHandler) RenderPDF(w http.ResponseWriter, r *http.Request) {
	var req PDFRequest
	if !readJSONOrFail(w, r, &req) {
		return
	}

	layout := h.config.Layout
	if req.Layout != nil {
		layout = *req.Layout
	}
	g := pdf.NewGenerator(layout)
	g.Encoder = h.config.Encoder()
	g.Info = pdf.Info{
		Title:   req.Title,
		Creator: h.config.Document.Creator,
	}

	doc, err := g.Generate(req.Lines)
	if err != nil {
		log.Printf("[api] %s pdf render failed: %v", RequestID(r.Context()), err)
		WriteBlueprintError(w, err)
		return
	}

	name := "report"
	if req.Title != "" {
		name = req.Title
	}
	w.Header().Set("Content-Type", export.FormatPDF.ContentType())
	w.Header().Set("Content-Disposition", contentDisposition(export.FormatPDF.Filename(name)))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.Header().Set(HeaderPDFPages, strconv.Itoa(doc.PageCount))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}

// writeExport sends res as an attachment. The digest doubles as a strong
// ETag so unchanged reports answer 304.
func writeExport(w http.ResponseWriter, r *http.Request, res *export.Result) {
	etag := `"` + res.SHA256 + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set(HeaderExportID, res.ID)
	if res.Format == export.FormatPDF {
		w.Header().Set(HeaderPDFPages, strconv.Itoa(res.Pages))
	}
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", res.ContentType())
	w.Header().Set("Content-Disposition", contentDisposition(res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Data); err != nil {
		log.Printf("[api] %s failed to write export %s: %v", RequestID(r.Context()), res.ID, err)
	}
}

func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}

