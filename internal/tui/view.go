package tui

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

var tableColumns = append([]inventory.Column{inventory.ColumnID}, inventory.FieldColumns...)

var columnWidths = map[inventory.Column]int{
	inventory.ColumnID:           6,
	inventory.ColumnTitle:        32,
	inventory.ColumnCopyCount:    10,
	inventory.ColumnValue:        13,
	inventory.ColumnMissingCount: 11,
	inventory.ColumnTotalCount:   10,
	inventory.ColumnAveragePrice: 16,
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString("Inventário de Livros\n")
	fmt.Fprintf(&b, "Pesquisa: %q  Filtro: %s\n\n", m.searchText, m.filterColumn().Label())

	switch m.mode {
	case modeMenu:
		m.viewMenu(&b)
	case modeForm:
		m.viewForm(&b)
	default:
		m.viewTable(&b)
	}

	b.WriteString("\n")
	b.WriteString(m.view.Summary.String())
	b.WriteString("\n")

	switch m.mode {
	case modeConfirm:
		fmt.Fprintf(&b, "\nApagar o livro %d? (s/n)\n", m.confirmID)
	case modeSearch:
		fmt.Fprintf(&b, "\nPesquisar: %s_\n", m.input)
	case modeImport:
		fmt.Fprintf(&b, "\nFicheiro (.csv/.xlsx): %s_\n", m.input)
	}

	if m.err != nil {
		b.WriteString("\nErro: " + errorText(m.err) + "\n")
	} else if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	if m.loading {
		b.WriteString("A carregar...\n")
	}

	if m.mode == modeTable {
		b.WriteString("\n↑/↓ mover • a adicionar • e editar • d apagar • / pesquisar • f filtro • 1-7 ordenar • c limpar • i importar • m menu • q sair\n")
	}
	return b.String()
}

func (m *Model) viewTable(b *strings.Builder) {
	b.WriteString("  ")
	for _, col := range tableColumns {
		label := col.Label()
		if desc, ok := m.sorter.Direction(col); ok && col == m.sortCol {
			if desc {
				label += " ↓"
			} else {
				label += " ↑"
			}
		}
		b.WriteString(pad(label, columnWidths[col]))
	}
	b.WriteString("\n")

	if len(m.books) == 0 {
		b.WriteString("  (sem livros)\n")
		return
	}

	for i, book := range m.books {
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		b.WriteString(prefix)
		for _, col := range tableColumns {
			b.WriteString(pad(inventory.ColumnText(book, col), columnWidths[col]))
		}
		b.WriteString("\n")
	}
}

func (m *Model) viewMenu(b *strings.Builder) {
	b.WriteString(m.menu.Title + "\n\n")
	for i, item := range m.menu.Items {
		cursor := "  "
		if i == m.menuCursor {
			cursor = "> "
		}
		b.WriteString(cursor + item.Label + "\n")
	}
}

func (m *Model) viewForm(b *strings.Builder) {
	if m.form.id == 0 {
		b.WriteString("Adicionar livro\n\n")
	} else {
		fmt.Fprintf(b, "Atualizar livro %d\n\n", m.form.id)
	}
	for i, label := range formLabels {
		cursor := "  "
		if i == m.form.focus {
			cursor = "> "
		}
		fmt.Fprintf(b, "%s%-16s %s\n", cursor, label+":", m.form.values[i])
	}
	b.WriteString("\ntab próximo campo • enter guardar no último campo • ctrl+s guardar • esc cancelar\n")
}

// pad fits s into width runes, truncating with an ellipsis.
func pad(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		if width <= 1 {
			return string(r[:width])
		}
		return string(r[:width-2]) + "… "
	}
	return s + strings.Repeat(" ", width-len(r))
}

// errorText prefers the mapped user message and falls back to the raw text
// for errors the mapper does not know.
func errorText(err error) string {
	if msg := inventory.MapError(err); msg.Code != "ERR000" {
		return inventory.FormatUserError(err)
	}
	return err.Error()
}
