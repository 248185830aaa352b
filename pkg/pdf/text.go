package pdf

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// substitutions maps runes the WinAnsi Helvetica font cannot show, or that
// the report must spell out, to ASCII replacements. It is consulted before
// the printable Latin-1 check, so the pound sign is spelled out even though
// it is encodable.
var substitutions = map[rune]string{
	'\u00a3': "GBP ", // pound sign
	'\u20ac': "EUR ", // euro sign
	'\u2018': "'",    // left single quote
	'\u2019': "'",    // right single quote
	'\u201a': "'",    // low single quote
	'\u2032': "'",    // prime
	'\u201c': "\"",   // left double quote
	'\u201d': "\"",   // right double quote
	'\u201e': "\"",   // low double quote
	'\u2033': "\"",   // double prime
	'\u2010': "-",    // hyphen
	'\u2011': "-",    // non-breaking hyphen
	'\u2012': "-",    // figure dash
	'\u2013': "-",    // en dash
	'\u2014': "-",    // em dash
	'\u2015': "-",    // horizontal bar
	'\u2212': "-",    // minus sign
	'\u2026': "...",  // ellipsis
	'\u2022': "*",    // bullet
	'\u2023': "*",    // triangular bullet
	'\u25cf': "*",    // black circle
	'\u2192': "->",
	'\u2190': "<-",
	'\u2264': "<=",
	'\u2265': ">=",
	'\u2248': "~",
	'\u2260': "!=",
	'\u2122': "(TM)",
	'\u2002': " ", // en space
	'\u2003': " ", // em space
	'\u2007': " ", // figure space
	'\u2009': " ", // thin space
	'\u202f': " ", // narrow no-break space
	'\u200b': "",  // zero width space
	'\ufeff': "",  // byte order mark
}

// Sanitize maps text onto the printable Latin-1 repertoire shown by the
// standard Helvetica font. Carriage returns are removed and newlines kept;
// tabs become two spaces and other control characters a single space. Runes
// that are neither in the substitution table nor printable Latin-1 become '?'.
func Sanitize(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "?")
	}
	text = norm.NFC.String(text)

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\r':
			// dropped
		case r == '\t':
			sb.WriteString("  ")
		case r == '\n':
			sb.WriteByte('\n')
		case r < 0x20 || r == 0x7f:
			sb.WriteByte(' ')
		default:
			if sub, ok := substitutions[r]; ok {
				sb.WriteString(sub)
			} else if isPrintableLatin1(r) {
				sb.WriteRune(r)
			} else {
				sb.WriteByte('?')
			}
		}
	}
	return sb.String()
}

func isPrintableLatin1(r rune) bool {
	return (r >= 0x20 && r <= 0x7e) || (r >= 0xa0 && r <= 0xff)
}

// Escape escapes the PDF literal string delimiters in text. Backslashes are
// replaced first so the escapes added for parentheses are not doubled.
func Escape(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, "(", `\(`)
	text = strings.ReplaceAll(text, ")", `\)`)
	return text
}

// Wrap breaks text into lines of at most maxWidth characters, greedily
// filling each line with whole words. Words longer than maxWidth are split
// at the width boundary. The result always holds at least one line.
func Wrap(text string, maxWidth int) []string {
	if maxWidth < 1 {
		maxWidth = 1
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var line strings.Builder
	width := 0
	for _, word := range words {
		for word != "" {
			n := utf8.RuneCountInString(word)
			if width == 0 {
				if n <= maxWidth {
					line.WriteString(word)
					width = n
					break
				}
				head, tail := splitAt(word, maxWidth)
				lines = append(lines, head)
				word = tail
				continue
			}
			if width+1+n <= maxWidth {
				line.WriteByte(' ')
				line.WriteString(word)
				width += 1 + n
				break
			}
			lines = append(lines, line.String())
			line.Reset()
			width = 0
		}
	}
	if width > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// splitAt splits s after the first n runes.
func splitAt(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}

// Prepare turns caller supplied report text into sanitized, wrapped report
// lines. Embedded newlines start new lines; blank lines are kept.
func Prepare(lines []string, maxWidth int) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		for _, part := range strings.Split(Sanitize(l), "\n") {
			out = append(out, Wrap(part, maxWidth)...)
		}
	}
	return out
}

// Chunk splits lines into consecutive pages of perPage lines; the last page
// may be shorter. An empty input yields one page holding one empty line.
func Chunk(lines []string, perPage int) [][]string {
	if perPage < 1 {
		perPage = 1
	}
	if len(lines) == 0 {
		return [][]string{{""}}
	}

	pages := make([][]string, 0, len(lines)/perPage+1)
	for start := 0; start < len(lines); start += perPage {
		end := len(lines)
		if perPage < end-start {
			end = start + perPage
		}
		pages = append(pages, lines[start:end:end])
	}
	return pages
}
