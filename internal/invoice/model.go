// Package invoice derives invoices from orders. There is no invoice table:
// an order plus the payment terms is the invoice, and its status is worked
// out at read time.
package invoice

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
	StatusVoid    = "void"
)

const DefaultTerms = 14 * 24 * time.Hour

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusVoid:
		return true
	}
	return false
}

// Source is the slice of an order an invoice is built from.
type Source struct {
	OrderID      string
	OrderNumber  string
	OrderStatus  string
	CustomerID   *string
	CustomerName string
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	CreatedAt    time.Time
}

// Invoice model
// swagger:model Invoice
type Invoice struct {
	ID           string          `json:"id"`
	Number       string          `json:"number"        example:"INV-20261018-4E7D4E"`
	OrderNumber  string          `json:"order_number"  example:"ORD-20261018-4E7D4E"`
	CustomerID   *string         `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name,omitempty"`
	IssuedAt     time.Time       `json:"issued_at"`
	DueAt        time.Time       `json:"due_at"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Tax          decimal.Decimal `json:"tax"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"        example:"pending"`
}

// Number turns ORD-YYYYMMDD-XXXXXX into INV-YYYYMMDD-XXXXXX.
func Number(orderNumber string) string {
	if rest, ok := strings.CutPrefix(orderNumber, "ORD-"); ok {
		return "INV-" + rest
	}
	return "INV-" + orderNumber
}

// DeriveStatus: a cancelled order voids the invoice, a completed one pays
// it, anything else is pending until the due date and overdue after it.
func DeriveStatus(orderStatus string, due, now time.Time) string {
	switch orderStatus {
	case "cancelled":
		return StatusVoid
	case "completed":
		return StatusPaid
	}
	if now.After(due) {
		return StatusOverdue
	}
	return StatusPending
}

func FromSource(s Source, terms time.Duration, now time.Time) Invoice {
	due := s.CreatedAt.Add(terms)
	return Invoice{
		ID:           s.OrderID,
		Number:       Number(s.OrderNumber),
		OrderNumber:  s.OrderNumber,
		CustomerID:   s.CustomerID,
		CustomerName: s.CustomerName,
		IssuedAt:     s.CreatedAt,
		DueAt:        due,
		Subtotal:     s.Subtotal,
		Discount:     s.Discount,
		Tax:          s.Tax,
		Amount:       s.Total,
		Status:       DeriveStatus(s.OrderStatus, due, now),
	}
}

// Stats model
// swagger:model BillingStats
type Stats struct {
	TotalInvoiced decimal.Decimal `json:"total_invoiced"`
	Paid          decimal.Decimal `json:"paid"`
	Pending       decimal.Decimal `json:"pending"`
	Overdue       decimal.Decimal `json:"overdue"`
	Count         int             `json:"count"`
	PaidCount     int             `json:"paid_count"`
	PendingCount  int             `json:"pending_count"`
	OverdueCount  int             `json:"overdue_count"`
}

// ComputeStats folds per-status totals. Void invoices are left out.
func ComputeStats(totals []StatusTotal) Stats {
	var st Stats
	for _, t := range totals {
		switch t.Status {
		case StatusPaid:
			st.Paid = st.Paid.Add(t.Amount)
			st.PaidCount += t.Count
		case StatusPending:
			st.Pending = st.Pending.Add(t.Amount)
			st.PendingCount += t.Count
		case StatusOverdue:
			st.Overdue = st.Overdue.Add(t.Amount)
			st.OverdueCount += t.Count
		default:
			continue
		}
		st.TotalInvoiced = st.TotalInvoiced.Add(t.Amount)
		st.Count += t.Count
	}
	return st
}

type Query struct {
	Status string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

func (q Query) Validate() error {
	if q.Status != "" && !ValidStatus(q.Status) {
		return apperr.Validation("status must be one of pending, paid, overdue, void")
	}
	if !q.From.IsZero() && !q.To.IsZero() && !q.To.After(q.From) {
		return apperr.Validation("to must be after from")
	}
	return nil
}

// Dashboard model
// swagger:model Dashboard
type Dashboard struct {
	TodaySales           decimal.Decimal `json:"today_sales"`
	TodayOrders          int             `json:"today_orders"`
	OpenOrders           int             `json:"open_orders"`
	LowStockItems        int             `json:"low_stock_items"`
	UpcomingReservations int             `json:"upcoming_reservations"`
	Billing              Stats           `json:"billing"`
}
