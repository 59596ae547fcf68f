package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/example/choufli-orders/internal/domain"
)

// OrderPayload — сырое тело запроса на создание заказа. Items и Total остаются
// непроверенными байтами: форму и тип разбирает нормализация, а не декодер.
type OrderPayload struct {
	Customer CustomerPayload `json:"customer"`
	Items    json.RawMessage `json:"items"`
	Total    json.RawMessage `json:"total"`
}

type CustomerPayload struct {
	Name    any `json:"name"`
	Phone   any `json:"phone"`
	Address any `json:"address"`
}

// CreateOrder — нормализовать входящий заказ, сохранить и опубликовать событие.
type CreateOrder struct {
	Store  domain.OrderStore
	Events domain.EventPublisher // nil — события выключены
}

func (uc CreateOrder) Execute(ctx context.Context, p OrderPayload) (int64, error) {
	o, err := Normalize(p)
	if err != nil {
		return 0, err
	}
	id, err := uc.Store.Insert(ctx, o)
	if err != nil {
		return 0, err
	}
	if uc.Events != nil {
		uc.Events.OrderCreated(ctx, id, o)
	}
	return id, nil
}

// ListOrders — получить последние заказы, новые первыми.
type ListOrders struct {
	Store domain.OrderStore
}

func (uc ListOrders) Execute(ctx context.Context, limit int) ([]domain.Order, error) {
	return uc.Store.ListRecent(ctx, limit)
}

// DeleteOrder — удалить заказ; удаление отсутствующего id проходит успешно.
type DeleteOrder struct {
	Store  domain.OrderStore
	Events domain.EventPublisher
}

func (uc DeleteOrder) Execute(ctx context.Context, id int64) error {
	if err := uc.Store.Delete(ctx, id); err != nil {
		return err
	}
	if uc.Events != nil {
		uc.Events.OrderDeleted(ctx, id)
	}
	return nil
}

// Normalize приводит сырое тело к запросу на создание. Поля клиента приводятся
// к строке и обрезаются; items обязан быть JSON-массивом; total разбирается
// по возможности и по умолчанию равен нулю.
func Normalize(p OrderPayload) (domain.NewOrder, error) {
	name := strings.TrimSpace(coerceText(p.Customer.Name))
	phone := strings.TrimSpace(coerceText(p.Customer.Phone))
	address := strings.TrimSpace(coerceText(p.Customer.Address))
	items, ok := compactArray(p.Items)
	if name == "" || phone == "" || address == "" || !ok {
		return domain.NewOrder{}, domain.ErrValidation
	}
	return domain.NewOrder{
		Name:    name,
		Phone:   phone,
		Address: address,
		Items:   items,
		Total:   coerceTotal(p.Total),
	}, nil
}

func coerceText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// compactArray проверяет, что raw — JSON-массив, и возвращает его без
// лишних пробелов; отсутствие, null и любая другая форма — отказ.
func compactArray(raw json.RawMessage) (json.RawMessage, bool) {
	i := 0
	for i < len(raw) && isSpace(raw[i]) {
		i++
	}
	if i == len(raw) || raw[i] != '[' {
		return nil, false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// coerceTotal: целое — как есть, дробное — усечение, строка — разбор целого,
// всё остальное (включая отсутствие) — ноль.
func coerceTotal(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int64(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n
		}
	}
	return 0
}
