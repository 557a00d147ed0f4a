package order

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

// CartItem payload of a cart line. Prices always come from the menu.
// swagger:model CartItem
type CartItem struct {
	MenuItemID string `json:"menu_item_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity   int    `json:"quantity"     example:"2"`
	Notes      string `json:"notes"        example:"no onions"`
}

// QuoteRequest payload to price a cart without creating an order.
// swagger:model QuoteRequest
type QuoteRequest struct {
	Items    []CartItem `json:"items"`
	Discount string     `json:"discount" example:"0.00"`
}

// CheckoutRequest payload of checkout.
// swagger:model CheckoutRequest
type CheckoutRequest struct {
	CustomerID     string     `json:"customer_id"`
	EmployeeID     string     `json:"employee_id"`
	TableNumber    string     `json:"table_number"    example:"12"`
	OrderType      string     `json:"order_type"      example:"dine_in"`
	PaymentMethod  string     `json:"payment_method"  example:"cash"`
	AmountTendered string     `json:"amount_tendered" example:"50.00"`
	Discount       string     `json:"discount"        example:"0.00"`
	Notes          string     `json:"notes"`
	Items          []CartItem `json:"items"`
}

// StatusRequest payload of status change.
// swagger:model OrderStatusRequest
type StatusRequest struct {
	Status string `json:"status" example:"preparing"`
}

// CheckoutResponse is the created order plus its printable receipt.
type CheckoutResponse struct {
	Detail
	Receipt    string `json:"receipt"`
	ReceiptURL string `json:"receipt_url,omitempty"`
}

type QuoteResponse struct {
	Cart   Cart   `json:"cart"`
	Totals Totals `json:"totals"`
}

func parseMoney(field, s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, apperr.Validation(field + " must be a decimal number")
	}
	if d.IsNegative() {
		return decimal.Zero, apperr.Validation(field + " must be non-negative")
	}
	return d, nil
}

func validateItems(items []CartItem) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}
	for _, it := range items {
		if it.MenuItemID == "" {
			return apperr.Validation("menu_item_id is required")
		}
		if it.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// Normalize fills defaults and validates everything that does not need the
// menu or the database.
func (r *CheckoutRequest) Normalize() error {
	if err := validateItems(r.Items); err != nil {
		return err
	}
	if r.OrderType == "" {
		r.OrderType = TypeDineIn
	}
	switch r.OrderType {
	case TypeDineIn, TypeTakeaway, TypeDelivery:
	default:
		return apperr.Validation("order_type must be dine_in, takeaway or delivery")
	}
	if r.PaymentMethod == "" {
		r.PaymentMethod = PaymentCard
	}
	if r.PaymentMethod != PaymentCash && r.PaymentMethod != PaymentCard {
		return apperr.Validation("payment_method must be cash or card")
	}
	if r.PaymentMethod == PaymentCash && strings.TrimSpace(r.AmountTendered) == "" {
		return apperr.Validation("amount_tendered is required for cash payments")
	}
	return nil
}
