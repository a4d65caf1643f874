// Package sqlite stores books in a SQLite file using the livros table layout
// of the original desktop program, so existing livros.db files open as-is.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

const schema = `CREATE TABLE IF NOT EXISTS livros (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	nome TEXT NOT NULL,
	num_livros INTEGER,
	valor_euros REAL,
	livros_faltantes INTEGER,
	total_livros INTEGER,
	preco_medio REAL
);`

const selectColumns = `SELECT id, COALESCE(nome, ''), COALESCE(num_livros, 0), COALESCE(valor_euros, 0),
	COALESCE(livros_faltantes, 0), COALESCE(total_livros, 0), COALESCE(preco_medio, 0) FROM livros`

// Store is an inventory.Store backed by a SQLite file.
type Store struct {
	db *sql.DB

	insertStmt *sql.Stmt
	updateStmt *sql.Stmt
	deleteStmt *sql.Stmt
	getStmt    *sql.Stmt
	listStmt   *sql.Stmt
}

// Open opens (or creates) the database at path and ensures the table exists.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, inventory.Unavailable("create db dir", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, inventory.Unavailable("open sqlite", err)
	}
	// A single connection serialises writers and id assignment.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, inventory.Unavailable("ping sqlite", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, inventory.Unavailable("enable WAL", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, inventory.Unavailable("create livros table", err)
	}

	s := &Store{db: db}
	if err := s.prepareStatements(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) prepareStatements(ctx context.Context) error {
	var err error
	if s.insertStmt, err = s.db.PrepareContext(ctx,
		`INSERT INTO livros (nome, num_livros, valor_euros, livros_faltantes, total_livros, preco_medio)
		VALUES (?, ?, ?, ?, ?, ?)`); err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	if s.updateStmt, err = s.db.PrepareContext(ctx,
		`UPDATE livros SET nome = ?, num_livros = ?, valor_euros = ?, livros_faltantes = ?,
		total_livros = ?, preco_medio = ? WHERE id = ?`); err != nil {
		return fmt.Errorf("prepare update: %w", err)
	}
	if s.deleteStmt, err = s.db.PrepareContext(ctx, `DELETE FROM livros WHERE id = ?`); err != nil {
		return fmt.Errorf("prepare delete: %w", err)
	}
	if s.getStmt, err = s.db.PrepareContext(ctx, selectColumns+` WHERE id = ?`); err != nil {
		return fmt.Errorf("prepare get: %w", err)
	}
	if s.listStmt, err = s.db.PrepareContext(ctx, selectColumns+` ORDER BY id`); err != nil {
		return fmt.Errorf("prepare list: %w", err)
	}
	return nil
}

// Close releases prepared statements and closes the database.
func (s *Store) Close() error {
	for _, stmt := range []*sql.Stmt{s.insertStmt, s.updateStmt, s.deleteStmt, s.getStmt, s.listStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}

func (s *Store) Insert(ctx context.Context, f inventory.Fields) (int64, error) {
	res, err := s.insertStmt.ExecContext(ctx,
		f.Title, f.CopyCount, f.Value, f.MissingCount, f.TotalCount, f.AveragePrice)
	if err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) Update(ctx context.Context, id int64, f inventory.Fields) error {
	res, err := s.updateStmt.ExecContext(ctx,
		f.Title, f.CopyCount, f.Value, f.MissingCount, f.TotalCount, f.AveragePrice, id)
	if err != nil {
		return fmt.Errorf("update book %d: %w", id, err)
	}
	return requireRow(res, id)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.deleteStmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &inventory.NotFoundError{ID: id}
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (inventory.Book, error) {
	b, err := scanBook(s.getStmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return inventory.Book{}, &inventory.NotFoundError{ID: id}
	}
	if err != nil {
		return inventory.Book{}, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, nil
}

func (s *Store) List(ctx context.Context) ([]inventory.Book, error) {
	rows, err := s.listStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []inventory.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

// scanBook reads one row. SQLite does not enforce column types and the
// original program stored raw form values, so a numeric column may hold
// text or a float; those are coerced like imported cells.
func scanBook(row scanner) (inventory.Book, error) {
	var (
		b                      inventory.Book
		title                  any
		copies, missing, total any
		value, averagePrice    any
	)
	if err := row.Scan(&b.ID, &title, &copies, &value, &missing, &total, &averagePrice); err != nil {
		return inventory.Book{}, err
	}

	b.Title = textValue(title)
	b.CopyCount = inventory.CoerceInt(copies, 0)
	b.Value = inventory.CoerceFloat(value, 0)
	b.MissingCount = inventory.CoerceInt(missing, 0)
	b.TotalCount = inventory.CoerceInt(total, 0)
	b.AveragePrice = inventory.CoerceFloat(averagePrice, 0)
	return b, nil
}

func textValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	}
	return inventory.CoerceText(v)
}

var _ inventory.Store = (*Store)(nil)
