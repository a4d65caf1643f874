// Package spreadsheet turns CSV and XLSX files into inventory rows.
//
// The first row within MaxHeaderSearchRows that carries a known column label
// is the header; title rows and blank lines above it are skipped. Every
// later non-empty row becomes an inventory.Row keyed by the cleaned header
// text. Cells are returned as strings; coercion happens in the importer.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

// MaxHeaderSearchRows bounds how far down the header row may sit.
const MaxHeaderSearchRows = 20

var (
	// ErrUnsupportedType is returned by Read for extensions it cannot parse.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrEmptyFile is returned when a file has no header or no data rows.
	ErrEmptyFile = errors.New("empty file")

	// ErrTooLarge is returned when input exceeds Reader.MaxSize.
	ErrTooLarge = errors.New("file too large")

	// ErrInvalid wraps parser failures.
	ErrInvalid = errors.New("invalid spreadsheet")
)

// Reader parses spreadsheets. The zero value reads unlimited input, uses the
// default labels for header detection and takes the first XLSX sheet.
type Reader struct {
	Labels  inventory.LabelSet
	Sheet   string
	MaxSize int64
}

// Read dispatches on the file extension of name.
func (r Reader) Read(name string, src io.Reader) ([]inventory.Row, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return r.ReadCSV(src)
	case ".xlsx", ".xlsm":
		return r.ReadXLSX(src)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(name))
}

// Read parses src with a zero Reader.
func Read(name string, src io.Reader) ([]inventory.Row, error) {
	return Reader{}.Read(name, src)
}

func (r Reader) readAll(src io.Reader) ([]byte, error) {
	if r.MaxSize <= 0 {
		return io.ReadAll(src)
	}
	data, err := io.ReadAll(io.LimitReader(src, r.MaxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > r.MaxSize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, r.MaxSize)
	}
	return data, nil
}

func (r Reader) labels() inventory.LabelSet {
	if r.Labels == nil {
		return inventory.DefaultLabels()
	}
	return r.Labels
}

// toRows locates the header in records and maps the rows beneath it.
func (r Reader) toRows(records [][]string) ([]inventory.Row, error) {
	h := findHeader(records, r.labels())
	if h < 0 {
		return nil, ErrEmptyFile
	}

	header := make([]string, len(records[h]))
	seen := make(map[string]bool, len(header))
	for i, cell := range records[h] {
		key := inventory.CleanCell(cell)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		header[i] = key
	}

	rows := make([]inventory.Row, 0, len(records)-h-1)
	for _, rec := range records[h+1:] {
		if isEmptyRow(rec) {
			continue
		}
		row := make(inventory.Row, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			if i < len(rec) {
				row[key] = rec[i]
			} else {
				row[key] = nil
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

// findHeader returns the index of the first row with a known label, falling
// back to the first non-empty row. It returns -1 when every row is empty.
func findHeader(records [][]string, labels inventory.LabelSet) int {
	limit := min(len(records), MaxHeaderSearchRows)
	for i := 0; i < limit; i++ {
		for _, cell := range records[i] {
			if _, ok := labels[inventory.CleanCell(cell)]; ok {
				return i
			}
		}
	}
	for i, rec := range records {
		if !isEmptyRow(rec) {
			return i
		}
	}
	return -1
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// trimBOM drops a UTF-8 byte order mark.
func trimBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
}
