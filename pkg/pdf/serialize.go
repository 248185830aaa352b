package pdf

import (
	"bytes"
	"fmt"
	"strconv"

	berrors "github.com/r3d91ll/blueprint/pkg/errors"
)

// header is the version line followed by a comment of four high-bit
// characters marking the file as binary.
const header = "%PDF-1.4\n%âãÏÓ\n"

const (
	freeEntry      = "0000000000 65535 f \n"
	xrefEntryWidth = len(freeEntry)
)

// Serialize writes objects as a complete PDF file. Objects must be ordered by
// number starting at 1 without gaps. Every byte offset recorded in the
// cross-reference table is measured on the encoded output.
func Serialize(objects []Object, catalogID, infoID int, enc Encoder) ([]byte, error) {
	if enc == nil {
		enc = NewWinAnsiEncoder()
	}
	for i, obj := range objects {
		if obj.ID != i+1 {
			return nil, berrors.PDFf(berrors.ErrPDFObjectOrder, "object at position %d has number %d, want %d", i, obj.ID, i+1)
		}
	}
	n := len(objects)
	if catalogID < 1 || catalogID > n || infoID < 1 || infoID > n {
		return nil, berrors.PDFf(berrors.ErrPDFObjectOrder, "trailer refers to catalog %d and info %d outside 1..%d", catalogID, infoID, n)
	}

	var buf bytes.Buffer
	write := func(s string) error {
		b, err := enc.Encode(s)
		if err != nil {
			return berrors.PDFWrap(err, berrors.ErrPDFEncodeFailed, "failed to encode document")
		}
		buf.Write(b)
		return nil
	}

	if err := write(header); err != nil {
		return nil, err
	}

	offsets := make([]int, n)
	for i, obj := range objects {
		offsets[i] = buf.Len()
		if err := write(fmt.Sprintf("%d 0 obj\n%s\nendobj\n", obj.ID, obj.Body)); err != nil {
			return nil, err
		}
	}

	xrefOffset := buf.Len()
	var xref bytes.Buffer
	fmt.Fprintf(&xref, "xref\n0 %d\n", n+1)
	xref.WriteString(freeEntry)
	for _, off := range offsets {
		fmt.Fprintf(&xref, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&xref, "trailer\n<< /Size %d /Root %d 0 R /Info %d 0 R >>\n", n+1, catalogID, infoID)
	fmt.Fprintf(&xref, "startxref\n%d\n%%%%EOF", xrefOffset)
	if err := write(xref.String()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// VerifyXref parses the cross-reference table of a serialized document and
// checks that every in-use entry points at the "N 0 obj" header of its object
// and that the trailer size matches the table.
func VerifyXref(data []byte) error {
	fail := func(format string, args ...interface{}) error {
		return berrors.PDFf(berrors.ErrPDFInvariant, format, args...)
	}

	i := bytes.LastIndex(data, []byte("startxref\n"))
	if i < 0 {
		return fail("startxref keyword not found")
	}
	rest := data[i+len("startxref\n"):]
	end := bytes.IndexByte(rest, '\n')
	if end < 0 {
		return fail("startxref offset is not terminated")
	}
	xrefOffset, err := strconv.Atoi(string(rest[:end]))
	if err != nil || xrefOffset < 0 || xrefOffset >= len(data) {
		return fail("startxref offset %q is invalid", rest[:end])
	}

	table := data[xrefOffset:]
	if !bytes.HasPrefix(table, []byte("xref\n0 ")) {
		return fail("no xref table at offset %d", xrefOffset)
	}
	table = table[len("xref\n0 "):]
	end = bytes.IndexByte(table, '\n')
	if end < 0 {
		return fail("xref subsection header is not terminated")
	}
	size, err := strconv.Atoi(string(table[:end]))
	if err != nil || size < 1 {
		return fail("xref subsection size %q is invalid", table[:end])
	}
	entries := table[end+1:]
	if len(entries) < size*xrefEntryWidth {
		return fail("xref table holds fewer than %d entries", size)
	}

	if string(entries[:xrefEntryWidth]) != freeEntry {
		return fail("xref entry 0 is %q, want the free list head", entries[:xrefEntryWidth])
	}
	for k := 1; k < size; k++ {
		entry := entries[k*xrefEntryWidth : (k+1)*xrefEntryWidth]
		if !bytes.HasSuffix(entry, []byte(" 00000 n \n")) {
			return fail("xref entry %d is malformed: %q", k, entry)
		}
		off, err := strconv.Atoi(string(entry[:10]))
		if err != nil || off < 0 || off >= xrefOffset {
			return fail("xref entry %d has invalid offset %q", k, entry[:10])
		}
		want := fmt.Sprintf("%d 0 obj", k)
		if !bytes.HasPrefix(data[off:], []byte(want)) {
			return fail("xref entry %d points at offset %d which does not start %q", k, off, want)
		}
	}

	trailer := entries[size*xrefEntryWidth:]
	if !bytes.Contains(trailer, []byte(fmt.Sprintf("/Size %d ", size))) {
		return fail("trailer /Size does not match %d xref entries", size)
	}
	return nil
}
