package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/bookinv/internal/inventory"
	"github.com/JonMunkholm/bookinv/internal/storage/memory"
)

func newService(t *testing.T) (*inventory.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	return inventory.NewService(store, nil), store
}

func TestServiceCRUD(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	id, err := svc.Add(ctx, inventory.Fields{Title: "Levantado do Chão", CopyCount: 1})
	require.NoError(t, err)

	b, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Levantado do Chão", b.Title)

	require.NoError(t, svc.Update(ctx, id, inventory.Fields{Title: "Levantado do Chão", CopyCount: 3}))
	b, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), b.CopyCount)

	require.NoError(t, svc.Delete(ctx, id))
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	assert.ErrorIs(t, svc.Update(ctx, id, inventory.Fields{}), inventory.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, id), inventory.ErrNotFound)
}

func TestServiceAddRejectsBlank(t *testing.T) {
	svc, store := newService(t)

	_, err := svc.Add(context.Background(), inventory.Fields{Title: "   "})
	assert.ErrorIs(t, err, inventory.ErrBlankRecord)
	assert.Zero(t, store.Len())
}

func TestServiceSearchSummaries(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Add(ctx, inventory.Fields{Title: "A", Value: 10, TotalCount: 1, AveragePrice: 1})
	require.NoError(t, err)
	_, err = svc.Add(ctx, inventory.Fields{Title: "AB", Value: 30, TotalCount: 9, AveragePrice: 5})
	require.NoError(t, err)

	view, err := svc.Search(ctx, "", inventory.ColumnAll)
	require.NoError(t, err)
	assert.False(t, view.Filtered)
	assert.Len(t, view.Books, 2)
	assert.Equal(t, 3.0, view.Summary.AvgPrice)

	view, err = svc.Search(ctx, "a", inventory.ColumnAll)
	require.NoError(t, err)
	assert.True(t, view.Filtered)
	assert.Len(t, view.Books, 2)
	assert.Equal(t, 4.0, view.Summary.AvgPrice)

	view, err = svc.Search(ctx, "ab", inventory.ColumnTitle)
	require.NoError(t, err)
	require.Len(t, view.Books, 1)
	assert.Equal(t, int64(9), view.Summary.TotalBooks)

	_, err = svc.Search(ctx, "x", inventory.Column("author"))
	assert.ErrorIs(t, err, inventory.ErrUnknownColumn)

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), sum.TotalBooks)
	assert.Equal(t, 40.0, sum.TotalValue)
}

func TestServiceImportAllowsBlankRows(t *testing.T) {
	svc, store := newService(t)

	result := svc.Import(context.Background(), []inventory.Row{{"title": ""}})
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, store.Len())
}
