package tui

import (
	"errors"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

// formLabels are shown next to the six inputs, in FieldColumns order.
var formLabels = []string{
	"Nome",
	"Nº Livros",
	"Valor(€)",
	"Livros em Falta",
	"Total Livros",
	"Preço Médio(€)",
}

var errBlankForm = errors.New("preencha pelo menos um campo")

// form is the six-field entry form. id is 0 when adding.
type form struct {
	id     int64
	values [6]string
	focus  int
}

func newForm(id int64, f inventory.Fields) form {
	fm := form{id: id}
	if id == 0 {
		return fm
	}
	fm.values = [6]string{
		f.Title,
		strconv.FormatInt(f.CopyCount, 10),
		inventory.FormatFloat(f.Value),
		strconv.FormatInt(f.MissingCount, 10),
		strconv.FormatInt(f.TotalCount, 10),
		inventory.FormatFloat(f.AveragePrice),
	}
	return fm
}

// fields coerces the inputs. Unreadable numbers become 0.
func (f form) fields() inventory.Fields {
	return inventory.Fields{
		Title:        inventory.CoerceText(f.values[0]),
		CopyCount:    inventory.CoerceInt(f.values[1], 0),
		Value:        inventory.CoerceFloat(f.values[2], 0),
		MissingCount: inventory.CoerceInt(f.values[3], 0),
		TotalCount:   inventory.CoerceInt(f.values[4], 0),
		AveragePrice: inventory.CoerceFloat(f.values[5], 0),
	}
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	f := &m.form
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeTable
		m.setStatus("Operação cancelada")
		return nil
	case tea.KeyTab, tea.KeyDown:
		f.focus = (f.focus + 1) % len(f.values)
	case tea.KeyShiftTab, tea.KeyUp:
		f.focus = (f.focus + len(f.values) - 1) % len(f.values)
	case tea.KeyEnter:
		if f.focus < len(f.values)-1 {
			f.focus++
			return nil
		}
		return m.submitForm()
	case tea.KeyCtrlS:
		return m.submitForm()
	case tea.KeyBackspace:
		f.values[f.focus] = dropLastRune(f.values[f.focus])
	case tea.KeySpace:
		f.values[f.focus] += " "
	case tea.KeyRunes:
		f.values[f.focus] += string(msg.Runes)
	}
	return nil
}

func (m *Model) submitForm() tea.Cmd {
	fields := m.form.fields()
	if fields.IsBlank() {
		m.err = errBlankForm
		return nil
	}
	return m.saveCmd(m.form.id, fields)
}
