// Package source reads compiler input files, normalizing them to UTF-8
// before they reach the lexer.
package source

import (
	"bytes"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// File is a decoded, BOM-stripped source file ready for lexing.
type File struct {
	Name string
	Text string
}

// Load reads path and decodes it as ASCII or ISO-8859-1 encoded source.
// Text that is already valid UTF-8 (a superset of ASCII) is kept as-is;
// otherwise the bytes are assumed to be ISO-8859-1 (Latin-1), the only
// other encoding allowed, and are transcoded with
// golang.org/x/text/encoding/charmap so every byte value maps to a valid
// rune instead of being rejected or mangled.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(path, raw)
}

// LoadReader behaves like Load but reads from an already-open stream,
// for embedding contexts that do not have the source on disk.
func LoadReader(name string, r io.Reader) (*File, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decode(name, raw)
}

func decode(name string, raw []byte) (*File, error) {
	raw = stripBOM(raw)

	var text string
	if utf8.Valid(raw) {
		text = string(raw)
	} else {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, err
		}
		text = string(decoded)
	}

	return &File{Name: name, Text: text}, nil
}

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
}
