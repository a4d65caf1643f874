package inventory

import (
	"math"

	"github.com/shopspring/decimal"
)

// Summary holds the aggregate figures shown under the book table.
type Summary struct {
	TotalBooks   int64   `json:"total_books"`
	TotalValue   float64 `json:"total_value"`
	AvgPrice     float64 `json:"avg_price"`
	MissingBooks int64   `json:"missing_books"`
}

// SummarizeAll aggregates the whole store. AvgPrice is the mean of the
// per-record AveragePrice values.
func SummarizeAll(records []Book) Summary {
	s, _ := sums(records)
	if len(records) == 0 {
		return s
	}

	total := decimal.Zero
	for _, b := range records {
		total = total.Add(toDecimal(b.AveragePrice))
	}
	s.AvgPrice = total.Div(decimal.NewFromInt(int64(len(records)))).InexactFloat64()
	return s
}

// SummarizeFiltered aggregates a search result. AvgPrice is TotalValue
// divided by TotalBooks, or 0 when there are no books.
//
// The two summaries intentionally disagree on AvgPrice for the same records.
func SummarizeFiltered(records []Book) Summary {
	s, value := sums(records)
	if s.TotalBooks > 0 {
		s.AvgPrice = value.Div(decimal.NewFromInt(s.TotalBooks)).InexactFloat64()
	}
	return s
}

func sums(records []Book) (Summary, decimal.Decimal) {
	var s Summary
	value := decimal.Zero
	for _, b := range records {
		s.TotalBooks += b.TotalCount
		s.MissingBooks += b.MissingCount
		value = value.Add(toDecimal(b.Value))
	}
	s.TotalValue = value.InexactFloat64()
	return s, value
}

// toDecimal converts a stored float for summing. NaN and infinities count as 0.
func toDecimal(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
