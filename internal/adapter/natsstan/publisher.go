package natsstan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	stan "github.com/nats-io/stan.go"
	"go.uber.org/zap"

	"github.com/example/choufli-orders/internal/domain"
)

// Publisher публикует события жизненного цикла заказов в NATS Streaming.
// Публикация best-effort: сбой логируется и никогда не влияет на HTTP-ответ.
type Publisher struct {
	sc      stan.Conn
	subject string
	log     *zap.Logger
}

func Connect(ctx context.Context, clusterID, clientID, url, subject string, log *zap.Logger) (*Publisher, error) {
	if clientID == "" {
		clientID = fmt.Sprintf("choufli-pub-%d", time.Now().UnixNano())
	}
	sc, err := stan.Connect(clusterID, clientID, stan.NatsURL(url))
	if err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		sc.Close()
	}()
	return &Publisher{sc: sc, subject: subject, log: log}, nil
}

type orderEvent struct {
	Event   string          `json:"event"`
	ID      int64           `json:"id"`
	Name    string          `json:"name,omitempty"`
	Phone   string          `json:"phone,omitempty"`
	Address string          `json:"address,omitempty"`
	Items   json.RawMessage `json:"items,omitempty"`
	Total   int64           `json:"total,omitempty"`
}

func (p *Publisher) OrderCreated(ctx context.Context, id int64, o domain.NewOrder) {
	p.publish(orderEvent{
		Event:   "order_created",
		ID:      id,
		Name:    o.Name,
		Phone:   o.Phone,
		Address: o.Address,
		Items:   o.Items,
		Total:   o.Total,
	})
}

func (p *Publisher) OrderDeleted(ctx context.Context, id int64) {
	p.publish(orderEvent{Event: "order_deleted", ID: id})
}

func (p *Publisher) publish(ev orderEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := p.sc.Publish(p.subject, b); err != nil {
		p.log.Warn("publish order event", zap.String("event", ev.Event), zap.Int64("order_id", ev.ID), zap.Error(err))
	}
}

var _ domain.EventPublisher = (*Publisher)(nil)
