package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

func books() []inventory.Book {
	return []inventory.Book{
		{ID: 1, Fields: inventory.Fields{Title: "O Ano da Morte de Ricardo Reis", CopyCount: 2, Value: 10, MissingCount: 1, TotalCount: 5, AveragePrice: 2}},
		{ID: 2, Fields: inventory.Fields{Title: "Memorial do Convento", CopyCount: 12, Value: 20.5, MissingCount: 0, TotalCount: 5, AveragePrice: 4.1}},
		{ID: 3, Fields: inventory.Fields{Title: "ÉVORA", CopyCount: 1, Value: 3, MissingCount: 2, TotalCount: 1, AveragePrice: 3}},
	}
}

func ids(bs []inventory.Book) []int64 {
	out := make([]int64, len(bs))
	for i, b := range bs {
		out[i] = b.ID
	}
	return out
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name string
		text string
		col  inventory.Column
		want []int64
	}{
		{"empty returns all", "", inventory.ColumnAll, []int64{1, 2, 3}},
		{"whitespace returns all", "   ", inventory.ColumnAll, []int64{1, 2, 3}},
		{"all matches title case-insensitively", "MEMORIAL", inventory.ColumnAll, []int64{2}},
		{"all ignores numbers", "12", inventory.ColumnAll, []int64{}},
		{"unicode folding", "évora", inventory.ColumnTitle, []int64{3}},
		{"integer column substring", "1", inventory.ColumnCopyCount, []int64{2, 3}},
		{"integral float renders .0", "10.0", inventory.ColumnValue, []int64{1}},
		{"decimal float", "20.5", inventory.ColumnValue, []int64{2}},
		{"average price", "4.1", inventory.ColumnAveragePrice, []int64{2}},
		{"missing count", "2", inventory.ColumnMissingCount, []int64{3}},
		{"total count", "5", inventory.ColumnTotalCount, []int64{1, 2}},
		{"trimmed text", "  convento ", inventory.ColumnTitle, []int64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inventory.Search(books(), tt.text, tt.col)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSearchEmptyEqualsList(t *testing.T) {
	all := books()
	got, err := inventory.Search(all, "", inventory.ColumnAll)
	require.NoError(t, err)
	assert.Equal(t, all, got)
}

func TestSearchUnknownColumn(t *testing.T) {
	_, err := inventory.Search(books(), "x", inventory.Column("author"))
	assert.ErrorIs(t, err, inventory.ErrUnknownColumn)

	// id is sortable but not searchable.
	_, err = inventory.Search(books(), "1", inventory.ColumnID)
	assert.ErrorIs(t, err, inventory.ErrUnknownColumn)
}

func TestParseColumn(t *testing.T) {
	tests := []struct {
		in   string
		want inventory.Column
	}{
		{"", inventory.ColumnAll},
		{"Todos", inventory.ColumnAll},
		{"all", inventory.ColumnAll},
		{"Nome", inventory.ColumnTitle},
		{"Nº Livros", inventory.ColumnCopyCount},
		{"Valor(€)", inventory.ColumnValue},
		{"Livros em Falta", inventory.ColumnMissingCount},
		{"Total Livros", inventory.ColumnTotalCount},
		{"Preço Médio(€)", inventory.ColumnAveragePrice},
		{"average_price", inventory.ColumnAveragePrice},
		{" ID ", inventory.ColumnID},
	}
	for _, tt := range tests {
		got, err := inventory.ParseColumn(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := inventory.ParseColumn("autor")
	assert.ErrorIs(t, err, inventory.ErrUnknownColumn)
}
