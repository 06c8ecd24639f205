package feed

import (
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// charsetReader decodes feeds declared as ISO-8859-1 or Windows-1252; UTF-8
// and US-ASCII are read as is.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	default:
		return input, nil
	}
}
