package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/bookinv/internal/inventory"
	"github.com/JonMunkholm/bookinv/internal/storage/memory"
)

func newTestApp(t *testing.T, books ...inventory.Fields) (*app, *memory.Store) {
	t.Helper()
	store := memory.New()
	for _, f := range books {
		_, err := store.Insert(context.Background(), f)
		require.NoError(t, err)
	}
	return &app{svc: inventory.NewService(store, nil)}, store
}

// run executes the root command with args and returns what it printed.
func run(t *testing.T, a *app, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a.in = strings.NewReader(stdin)
	a.out = &out
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestListPrintsTableAndSummary(t *testing.T) {
	a, _ := newTestApp(t,
		inventory.Fields{Title: "Caim", CopyCount: 2, Value: 10, TotalCount: 3, AveragePrice: 5},
		inventory.Fields{Title: "Claraboia", CopyCount: 1, Value: 20, TotalCount: 4, AveragePrice: 5},
	)

	out, err := run(t, a, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "Caim")
	assert.Contains(t, out, "Claraboia")
	assert.Contains(t, out, "Total de Livros: 7")
}

func TestListSorted(t *testing.T) {
	a, _ := newTestApp(t,
		inventory.Fields{Title: "B", Value: 2},
		inventory.Fields{Title: "A", Value: 3},
	)

	out, err := run(t, a, "", "list", "--sort", "title", "--json")
	require.NoError(t, err)

	var view inventory.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Books, 2)
	assert.Equal(t, "A", view.Books[0].Title)

	out, err = run(t, a, "", "list", "--sort", "value", "--desc", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, int64(2), view.Books[0].ID)

	_, err = run(t, a, "", "list", "--sort", "isbn")
	var colErr *inventory.ColumnError
	assert.ErrorAs(t, err, &colErr)
}

func TestAddGetUpdate(t *testing.T) {
	a, store := newTestApp(t)

	out, err := run(t, a, "", "add", "--title", "Caim", "--copies", "2", "--value", "12,50")
	require.NoError(t, err)
	assert.Contains(t, out, "Livro 1 adicionado")

	b, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 12.5, b.Value)

	_, err = run(t, a, "", "update", "1", "--missing", "1")
	require.NoError(t, err)

	b, err = store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Caim", b.Title, "untouched flags keep their values")
	assert.Equal(t, int64(2), b.CopyCount)
	assert.Equal(t, int64(1), b.MissingCount)

	out, err = run(t, a, "", "get", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Caim")
}

func TestAddBlankRejected(t *testing.T) {
	a, store := newTestApp(t)

	_, err := run(t, a, "", "add", "--title", "  ")
	assert.ErrorIs(t, err, inventory.ErrBlankRecord)
	assert.Zero(t, store.Len())
}

func TestGetErrors(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := run(t, a, "", "get", "abc")
	assert.ErrorContains(t, err, "invalid id")

	_, err = run(t, a, "", "get", "9")
	assert.Equal(t, "INV001", inventory.MapError(err).Code)

	_, err = run(t, a, "", "get")
	assert.Error(t, err)
}

func TestDeleteConfirmation(t *testing.T) {
	a, store := newTestApp(t, inventory.Fields{Title: "A"}, inventory.Fields{Title: "B"})

	out, err := run(t, a, "n\n", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Apagar o livro 1?")
	assert.Contains(t, out, "cancelada")
	assert.Equal(t, 2, store.Len())

	_, err = run(t, a, "s\n", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	_, err = run(t, a, "", "delete", "--yes", "2")
	require.NoError(t, err)
	assert.Zero(t, store.Len())
}

func TestSearchColumn(t *testing.T) {
	a, _ := newTestApp(t,
		inventory.Fields{Title: "Levantado do Chão", CopyCount: 12},
		inventory.Fields{Title: "Caim", CopyCount: 2},
	)

	out, err := run(t, a, "", "search", "2", "--json")
	require.NoError(t, err)
	var view inventory.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Empty(t, view.Books)

	out, err = run(t, a, "", "search", "2", "--column", "copy_count", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Len(t, view.Books, 2)
	assert.True(t, view.Filtered)
}

func TestSummaryLines(t *testing.T) {
	a, _ := newTestApp(t, inventory.Fields{Title: "A", TotalCount: 4, MissingCount: 1})

	out, err := run(t, a, "", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Total de Livros: 4\n")
	assert.Contains(t, out, "Livros em Falta: 1\n")
}

func TestImportFile(t *testing.T) {
	a, store := newTestApp(t)

	path := filepath.Join(t.TempDir(), "livros.csv")
	require.NoError(t, os.WriteFile(path, []byte("NOME,Nº LIVROS\nCaim,1\n,\nClaraboia,2\n"), 0o644))

	out, err := run(t, a, "", "import", path)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
	assert.Contains(t, out, "Importados 2 de")

	_, err = run(t, a, "", "import", filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
