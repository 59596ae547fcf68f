package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/example/choufli-orders/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore — хранилище заказов в файле SQLite; вариант по умолчанию.
// Каждая операция — один короткий statement на соединении из пула.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	// busy_timeout: конкурентные писатели ждут, а не получают SQLITE_BUSY
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", path))
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  address TEXT NOT NULL,
  items_json TEXT NOT NULL,
  total INTEGER NOT NULL,
  created_at TEXT NOT NULL
)`)
	if err != nil {
		return &domain.StorageError{Op: "init", Err: err}
	}
	return nil
}

func (s *SQLiteStore) Insert(ctx context.Context, o domain.NewOrder) (int64, error) {
	createdAt := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO orders(name, phone, address, items_json, total, created_at)
         VALUES(?, ?, ?, ?, ?, ?)`,
		o.Name, o.Phone, o.Address, string(o.Items), o.Total, createdAt)
	if err != nil {
		return 0, &domain.StorageError{Op: "insert", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &domain.StorageError{Op: "insert", Err: err}
	}
	return id, nil
}

func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, phone, address, items_json, total, created_at
         FROM orders ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, &domain.StorageError{Op: "list", Err: err}
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var items string
		if err := rows.Scan(&o.ID, &o.Name, &o.Phone, &o.Address, &items, &o.Total, &o.CreatedAt); err != nil {
			return nil, &domain.StorageError{Op: "list", Err: err}
		}
		o.Items = json.RawMessage(items)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list", Err: err}
	}
	return orders, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	// ноль затронутых строк — успех, семантика DELETE WHERE id = x
	if _, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id); err != nil {
		return &domain.StorageError{Op: "delete", Err: err}
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ domain.OrderStore = (*SQLiteStore)(nil)
