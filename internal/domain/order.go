package domain

import "encoding/json"

// Order — доменная сущность заказа.
type Order struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Address   string          `json:"address"`
	Items     json.RawMessage `json:"items"`
	Total     int64           `json:"total"`
	CreatedAt string          `json:"created_at"`
}

// NewOrder — проверенный запрос на создание заказа; ID и CreatedAt назначает хранилище.
type NewOrder struct {
	Name    string
	Phone   string
	Address string
	Items   json.RawMessage
	Total   int64
}
