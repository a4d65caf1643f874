package inventory

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the ISO code amounts are displayed in.
const Currency = money.EUR

// FormatMoney renders f rounded to cents in the display currency.
func FormatMoney(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	cur := money.GetCurrency(Currency)
	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	minor := decimal.NewFromFloat(f).Round(int32(cur.Fraction)).Mul(factor)
	return money.New(minor.IntPart(), Currency).Display()
}

// SummaryLine is one labelled figure of a Summary.
type SummaryLine struct {
	Label string
	Value string
}

// Lines renders the summary the way the front-ends print it.
func (s Summary) Lines() []SummaryLine {
	return []SummaryLine{
		{Label: "Total de Livros", Value: fmt.Sprintf("%d", s.TotalBooks)},
		{Label: "Valor Total", Value: FormatMoney(s.TotalValue)},
		{Label: "Preço Médio", Value: FormatMoney(s.AvgPrice)},
		{Label: "Livros em Falta", Value: fmt.Sprintf("%d", s.MissingBooks)},
	}
}

// String joins Lines on one row.
func (s Summary) String() string {
	out := ""
	for i, l := range s.Lines() {
		if i > 0 {
			out += " | "
		}
		out += l.Label + ": " + l.Value
	}
	return out
}
