package printer

import (
	"bufio"
	"bytes"
	"strings"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Most receipt printers ship with a single-byte code page, so characters
// outside ASCII are spelled out before they reach the device.
var asciiFallback = strings.NewReplacer(
	"₱", "P",
	"ñ", "n", "Ñ", "N",
	"é", "e", "É", "E",
	"á", "a", "í", "i", "ó", "o", "ú", "u",
	"—", "-", "–", "-",
	"…", "...",
)

// Document builds an ESC/POS byte stream. Receipt layout happens before this
// point, so the document only carries pre-formatted lines plus printer commands.
type Document struct {
	buf   bytes.Buffer
	ascii bool
}

// NewDocument starts a document with the initialize command. When ascii is
// true, text is transliterated to ASCII.
func NewDocument(ascii bool) *Document {
	d := &Document{ascii: ascii}
	d.Init()
	return d
}

// Init sends ESC @.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold enables or disables emphasized text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// Text writes one line followed by a line feed.
func (d *Document) Text(s string) *Document {
	if d.ascii {
		s = asciiFallback.Replace(s)
	}
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

// Block writes every line of a pre-formatted text block.
func (d *Document) Block(text string) *Document {
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		d.Text(sc.Text())
	}
	return d
}

// PartialCut sends GS V 1.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// ReceiptDocument wraps a formatted receipt: left aligned, fed past the
// tear bar and partially cut.
func ReceiptDocument(text string, ascii bool) []byte {
	return NewDocument(ascii).
		SetAlign(AlignLeft).
		Block(text).
		FeedLines(4).
		PartialCut().
		Bytes()
}
