// Package templates renders the inventory HTML page.
package templates

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

// PageData is everything the inventory page shows.
type PageData struct {
	View    inventory.View
	Query   string
	Column  inventory.Column
	Sort    inventory.Column
	Desc    bool
	Columns []inventory.Column
}

// Page renders the full inventory page: search form, book table and the
// summary line underneath.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}

		p.raw(`<!DOCTYPE html><html lang="pt"><head><meta charset="utf-8">`)
		p.raw(`<title>Inventário de Livros</title></head><body>`)
		p.raw(`<h1>Inventário de Livros</h1>`)

		p.raw(`<form method="get" action="/">`)
		p.raw(`<input type="search" name="q" value="`)
		p.text(data.Query)
		p.raw(`" placeholder="Pesquisar"> <select name="column">`)
		for _, col := range data.Columns {
			p.raw(`<option value="`)
			p.text(string(col))
			p.raw(`"`)
			if col == data.Column {
				p.raw(` selected`)
			}
			p.raw(`>`)
			p.text(col.Label())
			p.raw(`</option>`)
		}
		p.raw(`</select> <button type="submit">Pesquisar</button> <a href="/">Limpar</a></form>`)

		p.raw(`<table><thead><tr>`)
		for _, col := range append([]inventory.Column{inventory.ColumnID}, inventory.FieldColumns...) {
			p.raw(`<th><a href="`)
			p.text(sortHref(data, col))
			p.raw(`">`)
			p.text(col.Label() + arrow(data, col))
			p.raw(`</a></th>`)
		}
		p.raw(`</tr></thead><tbody>`)
		for _, b := range data.View.Books {
			p.raw(`<tr>`)
			for _, cell := range []string{
				strconv.FormatInt(b.ID, 10),
				b.Title,
				strconv.FormatInt(b.CopyCount, 10),
				inventory.FormatFloat(b.Value),
				strconv.FormatInt(b.MissingCount, 10),
				strconv.FormatInt(b.TotalCount, 10),
				inventory.FormatFloat(b.AveragePrice),
			} {
				p.raw(`<td>`)
				p.text(cell)
				p.raw(`</td>`)
			}
			p.raw(`</tr>`)
		}
		p.raw(`</tbody></table>`)

		p.raw(`<p class="summary">`)
		p.text(data.View.Summary.String())
		p.raw(`</p></body></html>`)

		return p.err
	})
}

// ErrorPage renders a failed page load.
func ErrorPage(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`<!DOCTYPE html><html><body><div class="error"><strong>`)
		p.text(message)
		p.raw(`</strong><p>`)
		p.text(action)
		p.raw(`</p><small>`)
		p.text("Code: " + code)
		p.raw(`</small></div></body></html>`)
		return p.err
	})
}

func arrow(data PageData, col inventory.Column) string {
	if data.Sort != col {
		return ""
	}
	if data.Desc {
		return " ↓"
	}
	return " ↑"
}

// sortHref links a header to its sort, flipping direction on the active column.
func sortHref(data PageData, col inventory.Column) string {
	dir := "asc"
	if data.Sort == col && !data.Desc {
		dir = "desc"
	}
	v := url.Values{}
	v.Set("q", data.Query)
	v.Set("column", string(data.Column))
	v.Set("sort", string(col))
	v.Set("dir", dir)
	return "/?" + v.Encode()
}

// printer keeps the first write error so rendering reads straight through.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) text(s string) {
	p.raw(templ.EscapeString(s))
}
