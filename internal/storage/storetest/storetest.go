// Package storetest holds the behaviour every inventory.Store must share.
// Backend tests call Run with a constructor for an empty store.
package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

// Run exercises newStore against the Store contract. newStore must return
// an empty store each time it is called.
func Run(t *testing.T, newStore func(t *testing.T) inventory.Store) {
	t.Run("InsertGet", func(t *testing.T) { testInsertGet(t, newStore(t)) })
	t.Run("UpdateGet", func(t *testing.T) { testUpdateGet(t, newStore(t)) })
	t.Run("DeleteGet", func(t *testing.T) { testDeleteGet(t, newStore(t)) })
	t.Run("UnknownID", func(t *testing.T) { testUnknownID(t, newStore(t)) })
	t.Run("ListOrder", func(t *testing.T) { testListOrder(t, newStore(t)) })
	t.Run("IDsNotReused", func(t *testing.T) { testIDsNotReused(t, newStore(t)) })
	t.Run("ConcurrentInsert", func(t *testing.T) { testConcurrentInsert(t, newStore(t)) })
}

var sample = inventory.Fields{
	Title:        "Os Lusíadas",
	CopyCount:    2,
	Value:        10.5,
	MissingCount: 1,
	TotalCount:   5,
	AveragePrice: 2.1,
}

func testInsertGet(t *testing.T, s inventory.Store) {
	ctx := context.Background()

	id, err := s.Insert(ctx, sample)
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, sample, got.Fields)
}

func testUpdateGet(t *testing.T, s inventory.Store) {
	ctx := context.Background()

	id, err := s.Insert(ctx, sample)
	require.NoError(t, err)

	next := inventory.Fields{Title: "Mensagem", CopyCount: 7, Value: 0, MissingCount: 0, TotalCount: 7, AveragePrice: 12.25}
	require.NoError(t, s.Update(ctx, id, next))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, next, got.Fields)
	assert.Equal(t, id, got.ID)
}

func testDeleteGet(t *testing.T, s inventory.Store) {
	ctx := context.Background()

	id, err := s.Insert(ctx, sample)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, id))

	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	books, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func testUnknownID(t *testing.T, s inventory.Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, 4242)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, 4242, sample), inventory.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 4242), inventory.ErrNotFound)
}

func testListOrder(t *testing.T, s inventory.Store) {
	ctx := context.Background()

	var ids []int64
	for _, title := range []string{"C", "A", "B"} {
		id, err := s.Insert(ctx, inventory.Fields{Title: title})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	books, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)
	for i, b := range books {
		assert.Equal(t, ids[i], b.ID)
	}
	assert.Equal(t, "C", books[0].Title)
}

func testIDsNotReused(t *testing.T, s inventory.Store) {
	ctx := context.Background()

	first, err := s.Insert(ctx, sample)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, first))

	second, err := s.Insert(ctx, sample)
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func testConcurrentInsert(t *testing.T, s inventory.Store) {
	ctx := context.Background()
	const n = 20

	var wg sync.WaitGroup
	ids := make([]int64, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = s.Insert(ctx, inventory.Fields{Title: "concurrent", CopyCount: int64(i)})
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[ids[i]], "id %d assigned twice", ids[i])
		seen[ids[i]] = true
	}

	books, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, books, n)
}
