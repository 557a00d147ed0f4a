package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusServed    = "served"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	TypeDineIn   = "dine_in"
	TypeTakeaway = "takeaway"
	TypeDelivery = "delivery"
)

var next = map[string]string{
	StatusPending:   StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusServed,
	StatusServed:    StatusCompleted,
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusServed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func Terminal(s string) bool { return s == StatusCompleted || s == StatusCancelled }

// CanTransition allows one step forward along the kitchen flow, jumping
// straight to completed (paid at the counter), or cancelling any order
// that is not finished.
func CanTransition(from, to string) bool {
	if Terminal(from) || from == to {
		return false
	}
	if to == StatusCancelled || to == StatusCompleted {
		return true
	}
	return next[from] == to
}

type Order struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	CustomerID    *string         `json:"customer_id,omitempty"`
	EmployeeID    *string         `json:"employee_id,omitempty"`
	TableNumber   string          `json:"table_number,omitempty"`
	Type          string          `json:"order_type"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Change        decimal.Decimal `json:"change"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type Item struct {
	ID         string          `json:"id"`
	OrderID    string          `json:"order_id"`
	MenuItemID *string         `json:"menu_item_id,omitempty"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
	Notes      string          `json:"notes,omitempty"`
}

// Number builds the human-facing order number, e.g. ORD-20261018-4E7D4E.
func Number(id string, at time.Time) string {
	hex := strings.ReplaceAll(id, "-", "")
	if len(hex) > 6 {
		hex = hex[:6]
	}
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102"), strings.ToUpper(hex))
}

// Detail is an order with its lines, as returned by GET /orders/:id.
type Detail struct {
	Order
	Items []Item `json:"items"`
}
