package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

// ReadCSV parses a comma or semicolon separated file.
//
// UTF-8 and UTF-16 input with a byte order mark is decoded accordingly.
// Input that is not valid UTF-8 is read as Windows-1252, the encoding Excel
// uses for CSV exports on Portuguese systems.
func (r Reader) ReadCSV(src io.Reader) ([]inventory.Row, error) {
	data, err := r.readAll(src)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(trimBOM(data))) == 0 {
		return nil, ErrEmptyFile
	}

	text, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalid, err)
	}

	cr := csv.NewReader(bytes.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = sniffDelimiter(text)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return r.toRows(records)
}

// ReadCSV parses src with a zero Reader.
func ReadCSV(src io.Reader) ([]inventory.Row, error) {
	return Reader{}.ReadCSV(src)
}

func decode(data []byte) ([]byte, error) {
	var dec transform.Transformer
	switch {
	case bytes.HasPrefix(data, []byte{0xfe, 0xff}), bytes.HasPrefix(data, []byte{0xff, 0xfe}):
		dec = unicode.BOMOverride(unicode.UTF8.NewDecoder())
	case utf8.Valid(trimBOM(data)):
		return trimBOM(data), nil
	default:
		dec = charmap.Windows1252.NewDecoder()
	}

	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return nil, err
	}
	return trimBOM(out), nil
}

// sniffDelimiter picks ';' when the first line has more semicolons than
// commas, as Excel writes in locales with a decimal comma.
func sniffDelimiter(text []byte) rune {
	line := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}
