package pdf

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Encoder turns serialized PDF text into the bytes written to the file.
// Byte offsets in the cross-reference table and stream lengths are measured
// on the encoder's output.
type Encoder interface {
	Encode(s string) ([]byte, error)
}

// WinAnsiEncoder encodes text as Windows-1252, the encoding the standard
// Helvetica font is declared with. The underlying transformer is created on
// first use and is safe for concurrent use.
type WinAnsiEncoder struct {
	mu  sync.Mutex
	enc *encoding.Encoder
}

// NewWinAnsiEncoder creates a Windows-1252 encoder.
func NewWinAnsiEncoder() *WinAnsiEncoder {
	return &WinAnsiEncoder{}
}

// Encode implements Encoder. Runes outside Windows-1252 are an error.
func (e *WinAnsiEncoder) Encode(s string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.enc == nil {
		e.enc = charmap.Windows1252.NewEncoder()
	}
	out, err := e.enc.Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("windows-1252: %w", err)
	}
	return out, nil
}

// UTF8Encoder writes text unchanged as UTF-8. Latin-1 runes above 0x7F then
// take two bytes and are not rendered by the WinAnsi font.
type UTF8Encoder struct{}

// Encode implements Encoder.
func (UTF8Encoder) Encode(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("utf-8: invalid byte sequence")
	}
	return []byte(s), nil
}
