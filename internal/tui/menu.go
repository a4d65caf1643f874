package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

// MenuItem either opens a submenu or runs Action. An item labelled "Back"
// returns to the parent menu.
type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func() tea.Cmd
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == "Back" {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

func buildMenuTree(m *Model) *Menu {
	root := &Menu{
		Title: "Menu",
		Items: []MenuItem{
			{Label: "Adicionar livro", Action: m.startAdd},
			{Label: "Atualizar selecionado", Action: m.startEdit},
			{Label: "Apagar selecionado", Action: m.startDelete},
			{Label: "Pesquisar", Action: m.startSearch},
			{Label: "Filtrar por ->", Submenu: loadFilterMenu(m)},
			{Label: "Ordenar por ->", Submenu: loadSortMenu(m)},
			{Label: "Limpar filtros", Action: m.clearFilters},
			{Label: "Importar folha de cálculo", Action: m.startImport},
			{Label: "Sair", Action: func() tea.Cmd { return tea.Quit }},
			{Label: "Back"},
		},
	}

	linkParents(root, nil)
	return root
}

/* ----------------------------------------
	LOAD MENUS
---------------------------------------- */

func loadFilterMenu(m *Model) *Menu {
	items := make([]MenuItem, 0, len(filterColumns)+1)
	for i, col := range filterColumns {
		i := i
		items = append(items, MenuItem{
			Label:  col.Label(),
			Action: func() tea.Cmd { return m.setFilter(i) },
		})
	}
	items = append(items, MenuItem{Label: "Back"})
	return &Menu{Title: "Filtrar por", Items: items}
}

func loadSortMenu(m *Model) *Menu {
	cols := append([]inventory.Column{inventory.ColumnID}, inventory.FieldColumns...)
	items := make([]MenuItem, 0, len(cols)+1)
	for _, col := range cols {
		col := col
		items = append(items, MenuItem{
			Label:  col.Label(),
			Action: func() tea.Cmd { return m.sortBy(col) },
		})
	}
	items = append(items, MenuItem{Label: "Back"})
	return &Menu{Title: "Ordenar por", Items: items}
}
