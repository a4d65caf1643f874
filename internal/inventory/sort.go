package inventory

import (
	"sort"

	"golang.org/x/text/cases"
)

// SortBy returns a sorted copy of records. Ties keep their input order.
// Integer columns compare numerically, decimal columns as floats and the
// title case-folded.
func SortBy(records []Book, col Column, desc bool) ([]Book, error) {
	if col != ColumnID && !isFieldColumn(col) {
		return nil, &ColumnError{Column: string(col)}
	}

	out := make([]Book, len(records))
	copy(out, records)

	var less func(a, b Book) bool
	switch col {
	case ColumnTitle:
		fold := cases.Fold()
		keys := make(map[string]string, len(out))
		for _, b := range out {
			if _, ok := keys[b.Title]; !ok {
				keys[b.Title] = fold.String(b.Title)
			}
		}
		less = func(a, b Book) bool { return keys[a.Title] < keys[b.Title] }
	case ColumnValue, ColumnAveragePrice:
		less = func(a, b Book) bool { return floatKey(a, col) < floatKey(b, col) }
	default:
		less = func(a, b Book) bool { return intKey(a, col) < intKey(b, col) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}

func intKey(b Book, col Column) int64 {
	switch col {
	case ColumnID:
		return b.ID
	case ColumnCopyCount:
		return b.CopyCount
	case ColumnMissingCount:
		return b.MissingCount
	case ColumnTotalCount:
		return b.TotalCount
	}
	return 0
}

func floatKey(b Book, col Column) float64 {
	if col == ColumnAveragePrice {
		return b.AveragePrice
	}
	return b.Value
}

// Sorter remembers a direction per column. The first Sort on a column is
// ascending and every further Sort on it flips the direction.
// A Sorter is not safe for concurrent use.
type Sorter struct {
	desc map[Column]bool
}

// NewSorter returns a Sorter with no remembered directions.
func NewSorter() *Sorter {
	return &Sorter{desc: make(map[Column]bool)}
}

// Sort orders records by col and reports whether the order is descending.
func (s *Sorter) Sort(records []Book, col Column) ([]Book, bool, error) {
	if s.desc == nil {
		s.desc = make(map[Column]bool)
	}

	prev, seen := s.desc[col]
	desc := seen && !prev

	out, err := SortBy(records, col, desc)
	if err != nil {
		return nil, false, err
	}
	s.desc[col] = desc
	return out, desc, nil
}

// Direction reports the last direction used for col, if any.
func (s *Sorter) Direction(col Column) (desc, ok bool) {
	desc, ok = s.desc[col]
	return desc, ok
}

// Reset forgets every remembered direction. Front-ends call it when the
// list is reloaded.
func (s *Sorter) Reset() {
	clear(s.desc)
}
