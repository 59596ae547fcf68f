package domain

import "context"

// OrderStore — порт для операций персистентности заказов.
type OrderStore interface {
	// Init идемпотентно создаёт схему; безопасно вызывать при каждом старте.
	Init(ctx context.Context) error
	Insert(ctx context.Context, o NewOrder) (int64, error)
	// ListRecent возвращает не более limit заказов по убыванию id.
	ListRecent(ctx context.Context, limit int) ([]Order, error)
	// Delete идемпотентен: отсутствующий id — не ошибка.
	Delete(ctx context.Context, id int64) error
}

// EventPublisher — порт публикации событий жизненного цикла заказа.
// Публикация best-effort: ошибки логируются адаптером и не влияют на запрос.
type EventPublisher interface {
	OrderCreated(ctx context.Context, id int64, o NewOrder)
	OrderDeleted(ctx context.Context, id int64)
}

// Общие доменные ошибки
var (
	ErrNotFound   = notFoundError("not found")
	ErrValidation = validationError("invalid data")
)

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

type validationError string

func (e validationError) Error() string { return string(e) }

// StorageError оборачивает сбой нижележащего хранилища; наружу уходит только
// обобщённое сообщение, детали драйвера остаются внутри.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }
