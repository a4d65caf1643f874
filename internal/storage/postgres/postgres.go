// Package postgres is the pooled PostgreSQL inventory.Store used by the
// network deployment.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

const schema = `CREATE TABLE IF NOT EXISTS books (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	copy_count BIGINT NOT NULL DEFAULT 0,
	value DOUBLE PRECISION NOT NULL DEFAULT 0,
	missing_count BIGINT NOT NULL DEFAULT 0,
	total_count BIGINT NOT NULL DEFAULT 0,
	average_price DOUBLE PRECISION NOT NULL DEFAULT 0
)`

const selectColumns = `SELECT id, title, copy_count, value, missing_count, total_count, average_price FROM books`

// PoolConfig tunes the connection pool.
type PoolConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Store is an inventory.Store backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects, pings and ensures the books table exists.
func Open(ctx context.Context, cfg PoolConfig) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, inventory.Unavailable("connect postgres", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, inventory.Unavailable("ping postgres", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create books table: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewFromPool wraps an existing pool. The caller must have created the table.
func NewFromPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close closes the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Insert(ctx context.Context, f inventory.Fields) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO books (title, copy_count, value, missing_count, total_count, average_price)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		f.Title, f.CopyCount, f.Value, f.MissingCount, f.TotalCount, f.AveragePrice,
	).Scan(&id)
	if err != nil {
		return 0, wrap("insert book", err)
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, id int64, f inventory.Fields) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE books SET title = $1, copy_count = $2, value = $3, missing_count = $4,
		total_count = $5, average_price = $6 WHERE id = $7`,
		f.Title, f.CopyCount, f.Value, f.MissingCount, f.TotalCount, f.AveragePrice, id,
	)
	if err != nil {
		return wrap(fmt.Sprintf("update book %d", id), err)
	}
	if tag.RowsAffected() == 0 {
		return &inventory.NotFoundError{ID: id}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return wrap(fmt.Sprintf("delete book %d", id), err)
	}
	if tag.RowsAffected() == 0 {
		return &inventory.NotFoundError{ID: id}
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id int64) (inventory.Book, error) {
	b, err := scanBook(s.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return inventory.Book{}, &inventory.NotFoundError{ID: id}
	}
	if err != nil {
		return inventory.Book{}, wrap(fmt.Sprintf("get book %d", id), err)
	}
	return b, nil
}

func (s *Store) List(ctx context.Context) ([]inventory.Book, error) {
	rows, err := s.pool.Query(ctx, selectColumns+` ORDER BY id`)
	if err != nil {
		return nil, wrap("list books", err)
	}
	books, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (inventory.Book, error) {
		return scanBook(row)
	})
	if err != nil {
		return nil, wrap("list books", err)
	}
	return books, nil
}

func scanBook(row pgx.Row) (inventory.Book, error) {
	var b inventory.Book
	err := row.Scan(&b.ID, &b.Title, &b.CopyCount, &b.Value,
		&b.MissingCount, &b.TotalCount, &b.AveragePrice)
	return b, err
}

// wrap marks connection-level failures as unavailable and annotates server
// errors with their SQLSTATE.
func wrap(op string, err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		return fmt.Errorf("%s: %s (SQLSTATE %s): %w", op, pgErr.Message, pgErr.Code, err)
	case pgconn.Timeout(err):
		return inventory.Unavailable(op, err)
	case pgconn.SafeToRetry(err):
		return inventory.Unavailable(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ inventory.Store = (*Store)(nil)
