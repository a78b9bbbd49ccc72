// Package extract turns document bytes into text lines for the document
// parsers.
package extract

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrNoText is returned when a document yields no text at all, typically a
// scanned statement without a text layer.
var ErrNoText = errors.New("document has no extractable text")

// Extractor produces the text lines of a document, in reading order.
type Extractor interface {
	Extract(ctx context.Context, data []byte) ([]string, error)
}

// PlainText treats the input as already-extracted UTF-8 text.
type PlainText struct{}

func (PlainText) Extract(ctx context.Context, data []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, errors.New("plain text document is not valid UTF-8")
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}
	return lines, nil
}

var pdfMagic = []byte("%PDF-")

// Sniffing dispatches on the content: PDF files go to PDF, everything else
// to Text.
type Sniffing struct {
	PDF  Extractor
	Text Extractor
}

// NewSniffing returns a Sniffing extractor backed by PDF and PlainText.
func NewSniffing() *Sniffing {
	return &Sniffing{PDF: &PDF{}, Text: PlainText{}}
}

func (s *Sniffing) Extract(ctx context.Context, data []byte) ([]string, error) {
	if IsPDF(data) {
		return s.PDF.Extract(ctx, data)
	}
	return s.Text.Extract(ctx, data)
}

// IsPDF reports whether data starts with the PDF header, ignoring leading
// whitespace some generators emit.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), pdfMagic)
}
