package pdf

import (
	"fmt"
	"strings"
)

// FontResource is the resource name the content streams select the font by.
const FontResource = "F1"

// escapeLine escapes one report line for a content stream. Tests replace it
// to observe how often lines are escaped.
var escapeLine = Escape

// BuildContent renders the text operators for one page. The text matrix puts
// the first baseline at the top-left margin; each further line advances by the
// layout's line height with T*.
func BuildContent(page []string, layout Layout) string {
	var sb strings.Builder
	sb.WriteString("BT\n")
	fmt.Fprintf(&sb, "/%s %.2f Tf\n", FontResource, layout.FontSize)
	fmt.Fprintf(&sb, "%.2f TL\n", layout.LineHeight)
	fmt.Fprintf(&sb, "1.00 0.00 0.00 1.00 %.2f %.2f Tm\n", layout.Margin, layout.PageHeight-layout.Margin)
	for i, line := range page {
		if i > 0 {
			sb.WriteString("T* ")
		}
		sb.WriteByte('(')
		sb.WriteString(escapeLine(line))
		sb.WriteString(") Tj\n")
	}
	sb.WriteString("ET")
	return sb.String()
}
