// Package memory is an in-process inventory.Store used by tests and
// ephemeral runs. Nothing is persisted across restarts.
package memory

import (
	"context"
	"sync"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

// Store keeps books in insertion order behind a mutex.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	books  []inventory.Book
	index  map[int64]int
}

// New returns an empty Store whose first id is 1.
func New() *Store {
	return &Store{nextID: 1, index: make(map[int64]int)}
}

func (s *Store) Insert(ctx context.Context, f inventory.Fields) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.index[id] = len(s.books)
	s.books = append(s.books, inventory.Book{ID: id, Fields: f})
	return id, nil
}

func (s *Store) Update(ctx context.Context, id int64, f inventory.Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return &inventory.NotFoundError{ID: id}
	}
	s.books[i].Fields = f
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return &inventory.NotFoundError{ID: id}
	}
	s.books = append(s.books[:i], s.books[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.books); j++ {
		s.index[s.books[j].ID] = j
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (inventory.Book, error) {
	if err := ctx.Err(); err != nil {
		return inventory.Book{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return inventory.Book{}, &inventory.NotFoundError{ID: id}
	}
	return s.books[i], nil
}

func (s *Store) List(ctx context.Context) ([]inventory.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]inventory.Book, len(s.books))
	copy(out, s.books)
	return out, nil
}

// Close is a no-op; it lets Store stand in for the file-backed stores.
func (s *Store) Close() error { return nil }

// Len reports how many books are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

var _ inventory.Store = (*Store)(nil)
