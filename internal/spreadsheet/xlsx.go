package spreadsheet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

// ReadXLSX parses an Excel workbook. Reader.Sheet selects the sheet; when it
// is empty the first sheet is read. Cells are taken as stored, ignoring the
// number format, so a value shown rounded still imports in full.
func (r Reader) ReadXLSX(src io.Reader) ([]inventory.Row, error) {
	data, err := r.readAll(src)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyFile
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", ErrInvalid, sheet, err)
	}
	return r.toRows(records)
}

// ReadXLSX parses src with a zero Reader.
func ReadXLSX(src io.Reader) ([]inventory.Row, error) {
	return Reader{}.ReadXLSX(src)
}
