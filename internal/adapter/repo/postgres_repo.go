package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/example/choufli-orders/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore — то же хранилище поверх Postgres; выбирается конфигурацией,
// когда задан DATABASE_URL.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Pool: pool}
}

func (s *PostgresStore) Init(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS orders (
  id bigserial PRIMARY KEY,
  name text NOT NULL,
  phone text NOT NULL,
  address text NOT NULL,
  items_json text NOT NULL,
  total bigint NOT NULL,
  created_at text NOT NULL
)`)
	if err != nil {
		return &domain.StorageError{Op: "init", Err: err}
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, o domain.NewOrder) (int64, error) {
	createdAt := time.Now().UTC().Format(time.RFC3339)
	var id int64
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO orders(name, phone, address, items_json, total, created_at)
         VALUES($1, $2, $3, $4, $5, $6) RETURNING id`,
		o.Name, o.Phone, o.Address, string(o.Items), o.Total, createdAt).Scan(&id)
	if err != nil {
		return 0, &domain.StorageError{Op: "insert", Err: err}
	}
	return id, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, name, phone, address, items_json, total, created_at
         FROM orders ORDER BY id DESC LIMIT $1`, limit)
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

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.Pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return &domain.StorageError{Op: "delete", Err: err}
	}
	return nil
}

var _ domain.OrderStore = (*PostgresStore)(nil)
