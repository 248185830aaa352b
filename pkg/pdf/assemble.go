package pdf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	berrors "github.com/r3d91ll/blueprint/pkg/errors"
)

// DefaultProducer is written to the /Producer entry when Info leaves it empty.
const DefaultProducer = "blueprint"

const fontBody = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"

// Object is one indirect object: its number and the text between
// "obj" and "endobj".
type Object struct {
	ID   int
	Body string
}

// Info holds the document information dictionary entries.
type Info struct {
	Title        string    `yaml:"title,omitempty" json:"title,omitempty"`
	Author       string    `yaml:"author,omitempty" json:"author,omitempty"`
	Subject      string    `yaml:"subject,omitempty" json:"subject,omitempty"`
	Creator      string    `yaml:"creator,omitempty" json:"creator,omitempty"`
	Producer     string    `yaml:"producer,omitempty" json:"producer,omitempty"`
	CreationDate time.Time `yaml:"-" json:"-"`
}

// Graph is the complete object graph of a document, ordered by object number.
type Graph struct {
	Objects    []Object
	FontID     int
	PagesID    int
	CatalogID  int
	InfoID     int
	PageIDs    []int
	ContentIDs []int
}

// idAllocator hands out object numbers from 1 without gaps.
type idAllocator struct {
	last int
}

func (a *idAllocator) next() int {
	a.last++
	return a.last
}

// Assemble builds the object graph for pages. Every object number is
// allocated before any body is written, in the order font, then a content
// and page pair per page, then pages, catalog and info; bodies therefore
// reference their parents by number directly. Stream lengths are measured
// with enc.
func Assemble(pages [][]string, layout Layout, enc Encoder, info Info) (*Graph, error) {
	if len(pages) == 0 {
		pages = [][]string{{""}}
	}
	if enc == nil {
		enc = NewWinAnsiEncoder()
	}
	layout = layout.Normalize()

	var ids idAllocator
	g := &Graph{
		PageIDs:    make([]int, len(pages)),
		ContentIDs: make([]int, len(pages)),
	}
	g.FontID = ids.next()
	for i := range pages {
		g.ContentIDs[i] = ids.next()
		g.PageIDs[i] = ids.next()
	}
	g.PagesID = ids.next()
	g.CatalogID = ids.next()
	g.InfoID = ids.next()

	objects := make([]Object, 0, ids.last)
	objects = append(objects, Object{ID: g.FontID, Body: fontBody})

	for i, page := range pages {
		content := BuildContent(page, layout)
		data, err := enc.Encode(content)
		if err != nil {
			return nil, berrors.PDFWrap(err, berrors.ErrPDFEncodeFailed, "failed to encode content stream").
				WithContext("page", strconv.Itoa(i+1))
		}
		objects = append(objects,
			Object{
				ID:   g.ContentIDs[i],
				Body: fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(data), content),
			},
			Object{
				ID: g.PageIDs[i],
				Body: fmt.Sprintf(
					"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %.2f %.2f] /Resources << /Font << /%s %d 0 R >> >> /Contents %d 0 R >>",
					g.PagesID, layout.PageWidth, layout.PageHeight, FontResource, g.FontID, g.ContentIDs[i],
				),
			},
		)
	}

	kids := make([]string, len(g.PageIDs))
	for i, id := range g.PageIDs {
		kids[i] = fmt.Sprintf("%d 0 R", id)
	}
	objects = append(objects,
		Object{
			ID:   g.PagesID,
			Body: fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(g.PageIDs)),
		},
		Object{
			ID:   g.CatalogID,
			Body: fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", g.PagesID),
		},
		Object{
			ID:   g.InfoID,
			Body: infoBody(info),
		},
	)

	g.Objects = objects
	if err := CheckReferences(objects); err != nil {
		return nil, err
	}
	return g, nil
}

func infoBody(info Info) string {
	producer := info.Producer
	if producer == "" {
		producer = DefaultProducer
	}
	created := info.CreationDate
	if created.IsZero() {
		created = time.Now()
	}

	var sb strings.Builder
	sb.WriteString("<<")
	for _, entry := range []struct{ key, value string }{
		{"Title", info.Title},
		{"Author", info.Author},
		{"Subject", info.Subject},
		{"Creator", info.Creator},
		{"Producer", producer},
	} {
		if entry.value == "" {
			continue
		}
		fmt.Fprintf(&sb, " /%s (%s)", entry.key, infoString(entry.value))
	}
	fmt.Fprintf(&sb, " /CreationDate (D:%s)", created.UTC().Format("20060102150405"))
	sb.WriteString(" >>")
	return sb.String()
}

// infoString makes a metadata value safe for a one-line literal string.
func infoString(s string) string {
	return Escape(strings.ReplaceAll(Sanitize(s), "\n", " "))
}

var refPattern = regexp.MustCompile(`(\d+) 0 R\b`)

// CheckReferences reports an error if any object's dictionary refers to an
// object number that is not defined in objects. Stream data and the contents
// of literal strings are not scanned.
func CheckReferences(objects []Object) error {
	defined := make(map[int]bool, len(objects))
	for _, obj := range objects {
		defined[obj.ID] = true
	}

	for _, obj := range objects {
		dict := obj.Body
		if i := strings.Index(dict, "\nstream\n"); i >= 0 {
			dict = dict[:i]
		}
		dict = stripLiteralStrings(dict)
		for _, m := range refPattern.FindAllStringSubmatch(dict, -1) {
			id, err := strconv.Atoi(m[1])
			if err != nil || !defined[id] {
				return berrors.PDFf(berrors.ErrPDFInvariant, "object %d refers to undefined object %s", obj.ID, m[1]).
					WithContext("object", strconv.Itoa(obj.ID))
			}
		}
	}
	return nil
}

// stripLiteralStrings removes the contents of every literal string in dict,
// keeping the outer parentheses. Escaped characters and balanced inner
// parentheses stay inside the string.
func stripLiteralStrings(dict string) string {
	if !strings.ContainsRune(dict, '(') {
		return dict
	}

	var sb strings.Builder
	sb.Grow(len(dict))
	depth := 0
	for i := 0; i < len(dict); i++ {
		c := dict[i]
		switch {
		case depth == 0:
			sb.WriteByte(c)
			if c == '(' {
				depth = 1
			}
		case c == '\\':
			i++
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				sb.WriteByte(c)
			}
		}
	}
	return sb.String()
}
