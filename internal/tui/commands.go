package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/bookinv/internal/inventory"
	"github.com/JonMunkholm/bookinv/internal/logging"
	"github.com/JonMunkholm/bookinv/internal/spreadsheet"
)

// OpTimeout bounds a single store call made from the terminal.
var OpTimeout = 30 * time.Second

var errNoPath = errors.New("indique o caminho do ficheiro")

type (
	viewMsg  struct{ view inventory.View }
	doneMsg  string
	errMsg   struct{ err error }
	savedMsg struct {
		id    int64
		added bool
	}
	importedMsg struct {
		path   string
		result inventory.ImportResult
	}
)

func (e errMsg) Error() string { return e.err.Error() }

// loadCmd runs the current search. An empty search lists everything.
func (m *Model) loadCmd() tea.Cmd {
	svc, text, col := m.svc, m.searchText, m.filterColumn()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), OpTimeout)
		defer cancel()

		view, err := svc.Search(ctx, text, col)
		if err != nil {
			return errMsg{err}
		}
		return viewMsg{view}
	}
}

func (m *Model) saveCmd(id int64, f inventory.Fields) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), OpTimeout)
		defer cancel()

		if id == 0 {
			newID, err := svc.Add(ctx, f)
			if err != nil {
				return errMsg{err}
			}
			return savedMsg{id: newID, added: true}
		}
		if err := svc.Update(ctx, id, f); err != nil {
			return errMsg{err}
		}
		return savedMsg{id: id}
	}
}

func (m *Model) deleteCmd(id int64) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), OpTimeout)
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			return errMsg{err}
		}
		return doneMsg(fmt.Sprintf("Livro %d apagado", id))
	}
}

// importCmd reads the spreadsheet at path and imports every row.
func (m *Model) importCmd(path string) tea.Cmd {
	svc, reader := m.svc, m.reader
	return func() tea.Msg {
		path = strings.TrimSpace(path)
		if path == "" {
			return errMsg{errNoPath}
		}

		f, err := os.Open(path)
		if err != nil {
			return errMsg{fmt.Errorf("abrir ficheiro: %w", err)}
		}
		defer f.Close()

		rows, err := reader.Read(filepath.Base(path), f)
		if err != nil {
			return errMsg{err}
		}

		result := svc.Import(context.Background(), rows)
		logging.FromContext(context.Background()).Info("import finished",
			"file", path,
			"batch_id", result.BatchID,
			"inserted", result.Inserted,
			"skipped", len(result.Skipped),
		)
		return importedMsg{path: path, result: result}
	}
}

// readerFor builds the spreadsheet reader the import command uses.
func readerFor(svc *inventory.Service, sheet string, maxSize int64) spreadsheet.Reader {
	return spreadsheet.Reader{Labels: svc.Labels(), Sheet: sheet, MaxSize: maxSize}
}
