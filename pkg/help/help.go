// Package help renders the command reference of the blueprint shell.
//
// Commands are described once in the Commands registry; the shell's /help
// output and its tab completion both read from it. Output is styled with
// ANSI colors and box drawing characters when color is enabled and degrades
// to plain text otherwise.
//
//	renderer := help.NewRenderer(os.Stdout, true)
//	renderer.RenderFull()
//	renderer.RenderCommand("export")
package help

import (
	"fmt"
	"io"
)

// Box drawing characters for listings.
const (
	BoxHorizontal = "─"
	BoxVertical   = "│"
	BoxTeeLeft    = "├"
)

// ANSI color codes for styled output.
const (
	ColorReset  = "\033[0m"
	ColorBold   = "\033[1m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorGray   = "\033[90m"
)

// Renderer formats and writes help output.
type Renderer struct {
	w     io.Writer
	color bool
}

// NewRenderer creates a help renderer that writes to w. With color false
// every ANSI sequence is stripped before writing.
func NewRenderer(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, color: color}
}

// writeln writes a line to the renderer's output.
func (r *Renderer) writeln(s string) {
	if !r.color {
		s = StripANSI(s)
	}
	fmt.Fprintln(r.w, s)
}
