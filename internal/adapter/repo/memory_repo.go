package repo

import (
	"context"
	"sync"
	"time"

	"github.com/example/choufli-orders/internal/domain"
)

// MemoryStore — хранилище в памяти для тестов и локальных запусков без БД.
type MemoryStore struct {
	mu     sync.RWMutex
	orders []domain.Order
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Init(ctx context.Context) error { return nil }

func (s *MemoryStore) Insert(ctx context.Context, o domain.NewOrder) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.orders = append(s.orders, domain.Order{
		ID:        id,
		Name:      o.Name,
		Phone:     o.Phone,
		Address:   o.Address,
		Items:     append([]byte(nil), o.Items...),
		Total:     o.Total,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return id, nil
}

func (s *MemoryStore) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Order
	for i := len(s.orders) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.orders[i])
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.orders {
		if o.ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			break
		}
	}
	return nil
}

var _ domain.OrderStore = (*MemoryStore)(nil)
