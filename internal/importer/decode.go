package importer

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encodings reported in model.FormatMatch.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
	EncodingExtracted   = "extracted"
)

// previewRunes caps UnsupportedError.Preview.
const previewRunes = 200

type decoding struct {
	name   string
	decode func([]byte) (string, error)
}

// decodings are tried in order on tabular input. UTF-8 decoding strips a BOM
// and turns invalid bytes into U+FFFD, so a Latin export decoded as UTF-8
// fails detection on its accented keywords and is retried as Windows-1252.
var decodings = []decoding{
	{EncodingUTF8, func(b []byte) (string, error) {
		out, err := unicode.UTF8BOM.NewDecoder().Bytes(b)
		return string(out), err
	}},
	{EncodingWindows1252, func(b []byte) (string, error) {
		return charmap.Windows1252.NewDecoder().String(string(b))
	}},
}

// preview returns the start of the first decoding, or of the next one when
// the first is visibly garbled.
func preview(texts []string) string {
	if len(texts) == 0 {
		return ""
	}
	text := texts[0]
	if strings.ContainsRune(text, utf8.RuneError) && len(texts) > 1 {
		text = texts[1]
	}
	r := []rune(text)
	if len(r) > previewRunes {
		r = r[:previewRunes]
	}
	return string(r)
}
