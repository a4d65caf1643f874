package inventory

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/bookinv/internal/logging"
)

// Service is the entry point both front-ends call. It owns no state beyond
// the store handle and the import label set.
type Service struct {
	store  Store
	labels LabelSet
}

// NewService returns a Service over store. A nil labels uses DefaultLabels.
func NewService(store Store, labels LabelSet) *Service {
	if labels == nil {
		labels = DefaultLabels()
	}
	return &Service{store: store, labels: labels}
}

// Labels returns the label set used by Import.
func (s *Service) Labels() LabelSet {
	return s.labels
}

// View is a list of books with the summary that goes under it.
type View struct {
	Books    []Book  `json:"books"`
	Summary  Summary `json:"summary"`
	Filtered bool    `json:"filtered"`
}

// Add inserts a new book and returns its id. A completely blank record is
// rejected with ErrBlankRecord.
func (s *Service) Add(ctx context.Context, f Fields) (int64, error) {
	if f.IsBlank() {
		return 0, ErrBlankRecord
	}
	id, err := s.store.Insert(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("add book: %w", err)
	}
	logging.FromContext(ctx).Info("book added", "id", id, "title", f.Title)
	return id, nil
}

// Update replaces all six fields of book id.
func (s *Service) Update(ctx context.Context, id int64, f Fields) error {
	if err := s.store.Update(ctx, id, f); err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	logging.FromContext(ctx).Info("book updated", "id", id)
	return nil
}

// Delete removes book id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	logging.FromContext(ctx).Info("book deleted", "id", id)
	return nil
}

// Get returns book id.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

// List returns every book in insertion order.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	books, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Import inserts rows as new books using the service label set. It runs to
// completion even if ctx is cancelled.
func (s *Service) Import(ctx context.Context, rows []Row) ImportResult {
	return ImportRows(ctx, s.store, rows, s.labels)
}

// Search filters the store by text over col. Empty text yields every book
// with the full-store summary; otherwise the matches carry the filtered
// summary.
func (s *Service) Search(ctx context.Context, text string, col Column) (View, error) {
	books, err := s.List(ctx)
	if err != nil {
		return View{}, err
	}

	matches, err := Search(books, text, col)
	if err != nil {
		return View{}, err
	}

	if isBlankText(text) {
		return View{Books: matches, Summary: SummarizeAll(matches)}, nil
	}
	return View{Books: matches, Summary: SummarizeFiltered(matches), Filtered: true}, nil
}

// Summary aggregates the full store.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	books, err := s.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	return SummarizeAll(books), nil
}
