// Package events publishes order lifecycle messages for the kitchen display
// and any other listener.
package events

import (
	"context"
	"time"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

type TicketLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

type OrderEvent struct {
	Type           string       `json:"type"`
	OrderID        string       `json:"order_id"`
	Number         string       `json:"number"`
	OrderType      string       `json:"order_type"`
	TableNumber    string       `json:"table_number,omitempty"`
	Status         string       `json:"status"`
	PreviousStatus string       `json:"previous_status,omitempty"`
	Total          string       `json:"total"`
	Lines          []TicketLine `json:"lines,omitempty"`
	OccurredAt     time.Time    `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, OrderEvent) error { return nil }

// RoutingKey maps an event to its topic key: kitchen tickets go to
// kitchen.<order_type>, status changes to order.status.<status>.
func RoutingKey(ev OrderEvent) string {
	if ev.Type == TypeOrderCreated {
		return "kitchen." + ev.OrderType
	}
	return "order.status." + ev.Status
}
