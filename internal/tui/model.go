// Package tui is the single-user terminal front-end: a book table with an
// entry form, search, filter and sort controls, spreadsheet import and the
// summary line underneath.
package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/bookinv/internal/inventory"
	"github.com/JonMunkholm/bookinv/internal/spreadsheet"
)

type mode int

const (
	modeTable mode = iota
	modeMenu
	modeForm
	modeConfirm
	modeSearch
	modeImport
)

// filterColumns is the cycle order of the filter selector.
var filterColumns = append([]inventory.Column{inventory.ColumnAll}, inventory.FieldColumns...)

// sortKeys maps the number keys to sortable columns.
var sortKeys = map[string]inventory.Column{
	"1": inventory.ColumnID,
	"2": inventory.ColumnTitle,
	"3": inventory.ColumnCopyCount,
	"4": inventory.ColumnValue,
	"5": inventory.ColumnMissingCount,
	"6": inventory.ColumnTotalCount,
	"7": inventory.ColumnAveragePrice,
}

// Options configures a Model.
type Options struct {
	Sheet       string // XLSX sheet to import; empty means the first
	MaxFileSize int64
}

// Model is the bubbletea model. Use it through a pointer.
type Model struct {
	svc    *inventory.Service
	reader spreadsheet.Reader
	sorter *inventory.Sorter

	mode   mode
	books  []inventory.Book
	view   inventory.View
	cursor int

	searchText string
	filterIdx  int
	sortCol    inventory.Column
	input      string

	menu       *Menu
	menuCursor int

	form      form
	confirmID int64

	status  string
	err     error
	loading bool
	width   int
}

// New builds a Model over svc.
func New(svc *inventory.Service, opts Options) *Model {
	return &Model{
		svc:    svc,
		reader: readerFor(svc, opts.Sheet, opts.MaxFileSize),
		sorter: inventory.NewSorter(),
	}
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(svc *inventory.Service, opts Options) error {
	_, err := tea.NewProgram(New(svc, opts), tea.WithAltScreen()).Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.reload()
}

func (m *Model) filterColumn() inventory.Column {
	return filterColumns[m.filterIdx]
}

func (m *Model) selected() (inventory.Book, bool) {
	if m.cursor < 0 || m.cursor >= len(m.books) {
		return inventory.Book{}, false
	}
	return m.books[m.cursor], true
}

func (m *Model) reload() tea.Cmd {
	m.loading = true
	return m.loadCmd()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case viewMsg:
		m.loading = false
		m.view = msg.view
		m.books = msg.view.Books
		m.sorter.Reset()
		m.sortCol = ""
		if m.cursor >= len(m.books) {
			m.cursor = max(len(m.books)-1, 0)
		}
		return m, nil

	case savedMsg:
		if msg.added {
			m.setStatus(fmt.Sprintf("Livro %d adicionado", msg.id))
		} else {
			m.setStatus(fmt.Sprintf("Livro %d atualizado", msg.id))
		}
		m.mode = modeTable
		return m, m.reload()

	case importedMsg:
		m.setStatus(fmt.Sprintf("Importados %d de %d registos (%d ignorados)",
			msg.result.Inserted, msg.result.Attempted, len(msg.result.Skipped)))
		return m, m.reload()

	case doneMsg:
		m.setStatus(string(msg))
		return m, m.reload()

	case errMsg:
		m.loading = false
		m.err = msg.err
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeMenu:
			return m, m.updateMenu(msg)
		case modeForm:
			return m, m.updateForm(msg)
		case modeConfirm:
			return m, m.updateConfirm(msg)
		case modeSearch, modeImport:
			return m, m.updateInput(msg)
		default:
			return m, m.updateTable(msg)
		}
	}
	return m, nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.err = nil
}

func (m *Model) updateTable(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if col, ok := sortKeys[key]; ok {
		return m.sortBy(col)
	}

	switch key {
	case "q":
		return tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.books)-1 {
			m.cursor++
		}
	case "m":
		m.openMenu()
	case "a":
		return m.startAdd()
	case "e", "enter":
		return m.startEdit()
	case "d", "delete":
		return m.startDelete()
	case "/":
		return m.startSearch()
	case "f":
		return m.setFilter((m.filterIdx + 1) % len(filterColumns))
	case "c":
		return m.clearFilters()
	case "i":
		return m.startImport()
	case "r":
		return m.reload()
	}
	return nil
}

/* ----------------------------------------
	ACTIONS
---------------------------------------- */

func (m *Model) openMenu() {
	m.menu = buildMenuTree(m)
	m.menuCursor = 0
	m.mode = modeMenu
}

func (m *Model) startAdd() tea.Cmd {
	m.form = newForm(0, inventory.Fields{})
	m.mode = modeForm
	return nil
}

func (m *Model) startEdit() tea.Cmd {
	b, ok := m.selected()
	if !ok {
		m.mode = modeTable
		m.err = errors.New("selecione um livro primeiro")
		return nil
	}
	m.form = newForm(b.ID, b.Fields)
	m.mode = modeForm
	return nil
}

func (m *Model) startDelete() tea.Cmd {
	b, ok := m.selected()
	if !ok {
		m.mode = modeTable
		m.err = errors.New("selecione um livro primeiro")
		return nil
	}
	m.confirmID = b.ID
	m.mode = modeConfirm
	return nil
}

func (m *Model) startSearch() tea.Cmd {
	m.input = m.searchText
	m.mode = modeSearch
	return nil
}

func (m *Model) startImport() tea.Cmd {
	m.input = ""
	m.mode = modeImport
	return nil
}

func (m *Model) setFilter(i int) tea.Cmd {
	m.filterIdx = i
	m.mode = modeTable
	return m.reload()
}

func (m *Model) clearFilters() tea.Cmd {
	m.searchText = ""
	m.filterIdx = 0
	m.mode = modeTable
	m.setStatus("")
	return m.reload()
}

// sortBy orders the displayed rows by col, flipping direction on each call
// for the same column.
func (m *Model) sortBy(col inventory.Column) tea.Cmd {
	m.mode = modeTable
	sorted, _, err := m.sorter.Sort(m.books, col)
	if err != nil {
		m.err = err
		return nil
	}
	m.books = sorted
	m.sortCol = col
	return nil
}

/* ----------------------------------------
	MODE HANDLERS
---------------------------------------- */

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < len(m.menu.Items)-1 {
			m.menuCursor++
		}
	case "esc", "q":
		if m.menu.Parent != nil {
			m.menu = m.menu.Parent
			m.menuCursor = 0
			return nil
		}
		m.mode = modeTable
	case "enter":
		item := m.menu.Items[m.menuCursor]
		switch {
		case item.Submenu != nil:
			m.menu = item.Submenu
			m.menuCursor = 0
		case item.Action != nil:
			m.mode = modeTable
			return item.Action()
		case item.Label == "Back":
			m.mode = modeTable
		}
	}
	return nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch strings.ToLower(msg.String()) {
	case "y", "s", "enter":
		m.mode = modeTable
		return m.deleteCmd(m.confirmID)
	case "n", "esc", "q":
		m.mode = modeTable
		m.setStatus("Operação cancelada")
	}
	return nil
}

// updateInput edits the one-line prompt used by search and import.
func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeTable
		return nil
	case tea.KeyEnter:
		value := m.input
		current := m.mode
		m.mode = modeTable
		if current == modeImport {
			m.setStatus("A importar " + value + "...")
			return m.importCmd(value)
		}
		m.searchText = value
		return m.reload()
	case tea.KeyBackspace:
		m.input = dropLastRune(m.input)
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return nil
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
