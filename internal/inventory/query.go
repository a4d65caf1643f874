package inventory

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Search returns the records whose column contains text, ignoring case.
//
// ColumnAll matches against the title only. A specific column matches its
// textual form: integers in base 10, decimals via FormatFloat. Empty text
// returns a copy of records in the same order. The column is validated even
// when text is empty.
func Search(records []Book, text string, col Column) ([]Book, error) {
	if !isSearchColumn(col) {
		return nil, &ColumnError{Column: string(col)}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		out := make([]Book, len(records))
		copy(out, records)
		return out, nil
	}

	fold := cases.Fold()
	needle := fold.String(text)

	out := make([]Book, 0, len(records))
	for _, b := range records {
		if strings.Contains(fold.String(ColumnText(b, col)), needle) {
			out = append(out, b)
		}
	}
	return out, nil
}

func isSearchColumn(col Column) bool {
	return col == ColumnAll || isFieldColumn(col)
}

// ColumnText is the textual form of a column that Search matches against.
// ColumnAll yields the title.
func ColumnText(b Book, col Column) string {
	switch col {
	case ColumnAll, ColumnTitle:
		return b.Title
	case ColumnID:
		return strconv.FormatInt(b.ID, 10)
	case ColumnCopyCount:
		return strconv.FormatInt(b.CopyCount, 10)
	case ColumnValue:
		return FormatFloat(b.Value)
	case ColumnMissingCount:
		return strconv.FormatInt(b.MissingCount, 10)
	case ColumnTotalCount:
		return strconv.FormatInt(b.TotalCount, 10)
	case ColumnAveragePrice:
		return FormatFloat(b.AveragePrice)
	default:
		return ""
	}
}

func isBlankText(s string) bool {
	return strings.TrimSpace(s) == ""
}
