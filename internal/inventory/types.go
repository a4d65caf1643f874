package inventory

import (
	"context"
	"strings"
)

// Book is one inventory row.
type Book struct {
	ID int64 `json:"id"`
	Fields
}

// Fields holds the six mutable columns of a Book.
type Fields struct {
	Title        string  `json:"title"`
	CopyCount    int64   `json:"copy_count"`
	Value        float64 `json:"value"`
	MissingCount int64   `json:"missing_count"`
	TotalCount   int64   `json:"total_count"`
	AveragePrice float64 `json:"average_price"`
}

// IsBlank reports whether every field is at its zero value.
// Manual entry refuses blank forms; imports do not check this.
func (f Fields) IsBlank() bool {
	return strings.TrimSpace(f.Title) == "" &&
		f.CopyCount == 0 &&
		f.Value == 0 &&
		f.MissingCount == 0 &&
		f.TotalCount == 0 &&
		f.AveragePrice == 0
}

// Store is the persistent book table.
//
// Implementations assign ids on Insert, list in insertion order and report
// unknown ids with an error wrapping ErrNotFound. Every call is durable when
// it returns.
type Store interface {
	Insert(ctx context.Context, f Fields) (int64, error)
	Update(ctx context.Context, id int64, f Fields) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (Book, error)
	List(ctx context.Context) ([]Book, error)
}

// Column identifies a Book column for search and sort.
type Column string

const (
	ColumnAll          Column = "all"
	ColumnID           Column = "id"
	ColumnTitle        Column = "title"
	ColumnCopyCount    Column = "copy_count"
	ColumnValue        Column = "value"
	ColumnMissingCount Column = "missing_count"
	ColumnTotalCount   Column = "total_count"
	ColumnAveragePrice Column = "average_price"
)

// FieldColumns lists the six mutable columns in display order.
var FieldColumns = []Column{
	ColumnTitle,
	ColumnCopyCount,
	ColumnValue,
	ColumnMissingCount,
	ColumnTotalCount,
	ColumnAveragePrice,
}

// columnAliases accepts the display labels used by the front-ends.
var columnAliases = map[string]Column{
	"all":             ColumnAll,
	"todos":           ColumnAll,
	"id":              ColumnID,
	"title":           ColumnTitle,
	"nome":            ColumnTitle,
	"copy_count":      ColumnCopyCount,
	"copy-count":      ColumnCopyCount,
	"nº livros":       ColumnCopyCount,
	"value":           ColumnValue,
	"valor(€)":        ColumnValue,
	"missing_count":   ColumnMissingCount,
	"missing-count":   ColumnMissingCount,
	"livros em falta": ColumnMissingCount,
	"total_count":     ColumnTotalCount,
	"total-count":     ColumnTotalCount,
	"total livros":    ColumnTotalCount,
	"average_price":   ColumnAveragePrice,
	"average-price":   ColumnAveragePrice,
	"preço médio(€)":  ColumnAveragePrice,
}

// ParseColumn resolves a column name or display label.
// An empty name means ColumnAll.
func ParseColumn(name string) (Column, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return ColumnAll, nil
	}
	if col, ok := columnAliases[key]; ok {
		return col, nil
	}
	return "", &ColumnError{Column: name}
}

// Label returns the display label for a column.
func (c Column) Label() string {
	switch c {
	case ColumnAll:
		return "All"
	case ColumnID:
		return "ID"
	case ColumnTitle:
		return "Title"
	case ColumnCopyCount:
		return "Copies"
	case ColumnValue:
		return "Value(€)"
	case ColumnMissingCount:
		return "Missing"
	case ColumnTotalCount:
		return "Total"
	case ColumnAveragePrice:
		return "Avg Price(€)"
	default:
		return string(c)
	}
}
