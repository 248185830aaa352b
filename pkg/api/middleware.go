package api

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	berrors "github.com/r3d91ll/blueprint/pkg/errors"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Response headers the download endpoints set. Browsers only expose them to
// scripts when they are listed in Access-Control-Expose-Headers.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderExportID  = "X-Export-ID"
	HeaderPDFPages  = "X-PDF-Pages"
)

var exposedHeaders = strings.Join([]string{
	"Content-Disposition", "ETag", HeaderExportID, HeaderPDFPages, HeaderRequestID,
}, ", ")

// -----------------------------------------------------------------------------
// CORS
// -----------------------------------------------------------------------------

// CORSMiddleware lets the calculator front end, served from another origin,
// call the API and read the download headers. "*" allows any origin.
// Preflight OPTIONS requests are answered without reaching the router.
func CORSMiddleware(allowedOrigins []string) Middleware {
	allowed := makeOriginChecker(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" && allowed(r) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, If-None-Match, "+HeaderRequestID)
				h.Set("Access-Control-Expose-Headers", exposedHeaders)
				h.Set("Access-Control-Max-Age", "86400")
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// -----------------------------------------------------------------------------
// Access log
// -----------------------------------------------------------------------------

// statusRecorder remembers the status and size of a response.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int64
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Hijack lets websocket upgrades through the recorder.
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// LoggingMiddleware writes one access log line per request. Downloads add
// the export id and page count the handler put in the response headers.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Print(accessLogLine(r, rec.status, rec.written, w.Header(), time.Since(start)))
	})
}

// accessLogLine formats
// "[api] <request id> METHOD /path status latency N bytes [export=<id>] [pages=<n>]".
func accessLogLine(r *http.Request, status int, written int64, h http.Header, d time.Duration) string {
	var sb strings.Builder
	sb.WriteString("[api] ")
	if id := h.Get(HeaderRequestID); id != "" {
		sb.WriteString(id)
		sb.WriteByte(' ')
	}
	fmt.Fprintf(&sb, "%s %s %d %s %d bytes", r.Method, r.URL.Path, status, formatLatency(d), written)
	if id := h.Get(HeaderExportID); id != "" {
		sb.WriteString(" export=" + id)
	}
	if pages := h.Get(HeaderPDFPages); pages != "" {
		sb.WriteString(" pages=" + pages)
	}
	return sb.String()
}

func formatLatency(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}

// -----------------------------------------------------------------------------
// Recovery
// -----------------------------------------------------------------------------

// RecoveryMiddleware turns a handler panic into a 500 INTERNAL_PANIC
// response. The panic value and stack go to the log only; the response
// carries the request id so a report can be matched to the log.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			berr := berrors.InternalPanic(rec)
			id := w.Header().Get(HeaderRequestID)
			log.Printf("[api] %s %s %s: %v\n%s", id, r.Method, r.URL.Path, berr, debug.Stack())

			apiErr := &APIError{
				Code:    berrors.ErrInternalPanic,
				Message: "An unexpected error occurred while handling the request",
			}
			if id != "" {
				apiErr.Context = map[string]string{"request_id": id}
			}
			writeAPIError(w, http.StatusInternalServerError, apiErr)
		}()

		next.ServeHTTP(w, r)
	})
}

// -----------------------------------------------------------------------------
// Request bodies
// -----------------------------------------------------------------------------

// ContentTypeMiddleware rejects POST and PUT bodies that are not JSON.
// Blueprints and render requests are only accepted as JSON over HTTP; YAML
// blueprints are a file format for the CLI and shell.
func ContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if (r.Method == http.MethodPost || r.Method == http.MethodPut) && r.ContentLength != 0 {
			mediaType, _, _ := strings.Cut(r.Header.Get("Content-Type"), ";")
			if strings.TrimSpace(mediaType) != "application/json" {
				WriteError(w, http.StatusUnsupportedMediaType,
					"unsupported_media_type",
					"Blueprints and render requests must be sent as application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// BodyLimitMiddleware caps request bodies at limit bytes; handlers answer
// 413 when a decode hits the cap.
func BodyLimitMiddleware(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && limit > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// -----------------------------------------------------------------------------
// Request IDs
// -----------------------------------------------------------------------------

type requestIDKey struct{}

// RequestIDMiddleware tags every request with an id, keeping one supplied
// by an upstream proxy. The id is echoed in X-Request-ID and stored in the
// request context for handler logs.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID returns the id RequestIDMiddleware stored in ctx, or "-".
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return "-"
}

// Chain wraps handler in middlewares; the first one sees the request first.
func Chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}
