package inventory_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

func TestSortBy(t *testing.T) {
	tests := []struct {
		col  inventory.Column
		desc bool
		want []int64
	}{
		{inventory.ColumnID, true, []int64{3, 2, 1}},
		{inventory.ColumnTitle, false, []int64{2, 1, 3}},
		{inventory.ColumnCopyCount, false, []int64{3, 1, 2}},
		{inventory.ColumnCopyCount, true, []int64{2, 1, 3}},
		{inventory.ColumnValue, false, []int64{3, 1, 2}},
		{inventory.ColumnMissingCount, true, []int64{3, 1, 2}},
		{inventory.ColumnAveragePrice, false, []int64{1, 3, 2}},
	}

	for _, tt := range tests {
		got, err := inventory.SortBy(books(), tt.col, tt.desc)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ids(got), "%s desc=%v", tt.col, tt.desc)
	}
}

func TestSortByStableTies(t *testing.T) {
	// Books 1 and 2 share TotalCount 5.
	asc, err := inventory.SortBy(books(), inventory.ColumnTotalCount, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids(asc))

	desc, err := inventory.SortBy(books(), inventory.ColumnTotalCount, true)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(desc))
}

func TestSortByDoesNotMutateInput(t *testing.T) {
	in := books()
	_, err := inventory.SortBy(in, inventory.ColumnTitle, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(in))
}

func TestSortByUnknownColumn(t *testing.T) {
	_, err := inventory.SortBy(books(), inventory.ColumnAll, false)
	assert.ErrorIs(t, err, inventory.ErrUnknownColumn)
}

func TestSorterToggle(t *testing.T) {
	s := inventory.NewSorter()
	records := books()

	first, desc, err := s.Sort(records, inventory.ColumnValue)
	require.NoError(t, err)
	assert.False(t, desc)

	second, desc, err := s.Sort(records, inventory.ColumnValue)
	require.NoError(t, err)
	assert.True(t, desc)

	reversed := slices.Clone(first)
	slices.Reverse(reversed)
	assert.Equal(t, ids(reversed), ids(second))

	third, _, err := s.Sort(records, inventory.ColumnValue)
	require.NoError(t, err)
	fourth, _, err := s.Sort(records, inventory.ColumnValue)
	require.NoError(t, err)
	assert.Equal(t, ids(first), ids(third))
	assert.Equal(t, ids(second), ids(fourth))
}

func TestSorterColumnsIndependent(t *testing.T) {
	s := inventory.NewSorter()

	_, _, err := s.Sort(books(), inventory.ColumnTitle)
	require.NoError(t, err)
	_, desc, err := s.Sort(books(), inventory.ColumnCopyCount)
	require.NoError(t, err)
	assert.False(t, desc, "first sort on a new column is ascending")

	_, desc, err = s.Sort(books(), inventory.ColumnTitle)
	require.NoError(t, err)
	assert.True(t, desc)
}

func TestSorterReset(t *testing.T) {
	s := inventory.NewSorter()

	_, _, err := s.Sort(books(), inventory.ColumnID)
	require.NoError(t, err)
	d, ok := s.Direction(inventory.ColumnID)
	assert.True(t, ok)
	assert.False(t, d)

	s.Reset()
	_, ok = s.Direction(inventory.ColumnID)
	assert.False(t, ok)

	_, desc, err := s.Sort(books(), inventory.ColumnID)
	require.NoError(t, err)
	assert.False(t, desc)
}

func TestSorterZeroValue(t *testing.T) {
	var s inventory.Sorter
	_, desc, err := s.Sort(books(), inventory.ColumnTitle)
	require.NoError(t, err)
	assert.False(t, desc)
}
