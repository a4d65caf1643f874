package inventory

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/google/uuid"

	"github.com/JonMunkholm/bookinv/internal/logging"
)

// Row is one spreadsheet record: column label to raw cell value.
type Row map[string]any

// LabelSet maps source column labels to the field they populate.
// Lookups are exact and case-sensitive.
type LabelSet map[string]Column

// DefaultLabels returns the canonical field labels, the headers of the
// original Portuguese spreadsheet and the labels of the entry form.
func DefaultLabels() LabelSet {
	return LabelSet{
		"title":         ColumnTitle,
		"copy-count":    ColumnCopyCount,
		"value":         ColumnValue,
		"missing-count": ColumnMissingCount,
		"total-count":   ColumnTotalCount,
		"average-price": ColumnAveragePrice,

		"NOME":            ColumnTitle,
		"Nº LIVROS":       ColumnCopyCount,
		"VALOR(€)":        ColumnValue,
		"LIVROS EM FALTA": ColumnMissingCount,
		"TOTAL LIVROS":    ColumnTotalCount,
		"PREÇO MÉDIO(€)":  ColumnAveragePrice,

		"Nome":            ColumnTitle,
		"Nº Livros":       ColumnCopyCount,
		"Valor(€)":        ColumnValue,
		"Livros em Falta": ColumnMissingCount,
		"Total Livros":    ColumnTotalCount,
		"Preço Médio(€)":  ColumnAveragePrice,
	}
}

// With returns a copy of ls with extra labels mapped to col.
// Labels naming a non-field column are ignored.
func (ls LabelSet) With(col Column, labels ...string) LabelSet {
	out := make(LabelSet, len(ls)+len(labels))
	for k, v := range ls {
		out[k] = v
	}
	if !isFieldColumn(col) {
		return out
	}
	for _, l := range labels {
		if l != "" {
			out[l] = col
		}
	}
	return out
}

func isFieldColumn(col Column) bool {
	for _, c := range FieldColumns {
		if c == col {
			return true
		}
	}
	return false
}

// SkippedRow describes a row the importer could not insert.
type SkippedRow struct {
	Index  int    `json:"index"` // 0-based position in the input
	Reason string `json:"reason"`
	Row    Row    `json:"row,omitempty"`
}

// ImportResult summarises one import batch. Attempted counts every input
// row, so Attempted - Inserted == len(Skipped).
type ImportResult struct {
	BatchID   string       `json:"batch_id"`
	Attempted int          `json:"attempted"`
	Inserted  int          `json:"inserted"`
	IDs       []int64      `json:"ids"`
	Skipped   []SkippedRow `json:"skipped"`
}

var errNilRow = errors.New("row is empty")

// ImportRows inserts each row as a new book. Rows are independent: a row
// that cannot be extracted or inserted is recorded in Skipped and the batch
// continues. The batch always runs to the end; cancellation of ctx is
// ignored and only its values (request id) are used.
func ImportRows(ctx context.Context, store Store, rows []Row, labels LabelSet) ImportResult {
	if labels == nil {
		labels = DefaultLabels()
	}
	ctx = context.WithoutCancel(ctx)

	result := ImportResult{
		BatchID:   uuid.New().String(),
		Attempted: len(rows),
		IDs:       make([]int64, 0, len(rows)),
		Skipped:   []SkippedRow{},
	}
	logger := logging.WithFields(ctx, "batch_id", result.BatchID)

	for i, row := range rows {
		fields, err := ExtractFields(row, labels)
		if err == nil {
			var id int64
			id, err = store.Insert(ctx, fields)
			if err == nil {
				result.IDs = append(result.IDs, id)
				result.Inserted++
				continue
			}
			err = fmt.Errorf("insert: %w", err)
		}

		result.Skipped = append(result.Skipped, SkippedRow{Index: i, Reason: err.Error(), Row: row})
		logger.Warn("import row skipped", "row", i, "error", err)
	}

	logger.Info("import finished",
		"attempted", result.Attempted,
		"inserted", result.Inserted,
		"skipped", len(result.Skipped),
	)
	return result
}

// ExtractFields maps a row onto Fields. Columns the row lacks take their
// coercion default, so a row with no recognised label yields all defaults.
// When several labels in one row map to the same field the lexically first
// label wins.
func ExtractFields(row Row, labels LabelSet) (Fields, error) {
	if row == nil {
		return Fields{}, errNilRow
	}

	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	raw := make(map[Column]any, len(FieldColumns))
	for _, k := range keys {
		col, ok := labels[k]
		if !ok {
			continue
		}
		if _, seen := raw[col]; seen {
			continue
		}
		v := row[k]
		if !isScalar(v) {
			return Fields{}, fmt.Errorf("column %q: non-scalar value %T", k, v)
		}
		raw[col] = v
	}

	return Fields{
		Title:        CoerceText(raw[ColumnTitle]),
		CopyCount:    CoerceInt(raw[ColumnCopyCount], 0),
		Value:        CoerceFloat(raw[ColumnValue], 0),
		MissingCount: CoerceInt(raw[ColumnMissingCount], 0),
		TotalCount:   CoerceInt(raw[ColumnTotalCount], 0),
		AveragePrice: CoerceFloat(raw[ColumnAveragePrice], 0),
	}, nil
}

func isScalar(v any) bool {
	if v == nil {
		return true
	}
	if _, ok := v.([]byte); ok {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct,
		reflect.Pointer, reflect.Func, reflect.Chan, reflect.Interface:
		return false
	}
	return true
}
