package order

import (
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

var (
	ErrEmptyCart       = apperr.Validation("cart is empty")
	ErrInvalidQuantity = apperr.Validation("quantity must be greater than zero")
	ErrLineNotFound    = apperr.NotFound("item is not in the cart")
	ErrUnderpaid       = apperr.Validation("amount tendered is less than the total")
)

// Line is one menu item in the cart.
type Line struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	Notes      string          `json:"notes,omitempty"`
}

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the lines being rung up before checkout.
type Cart struct {
	Lines []Line `json:"lines"`
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

func (c *Cart) find(menuItemID string) int {
	for i, l := range c.Lines {
		if l.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

// Add appends l, or bumps the quantity of the existing line for the same
// item. A cart holds at most one line per item; differing notes are joined.
func (c *Cart) Add(l Line) error {
	if l.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	i := c.find(l.MenuItemID)
	if i < 0 {
		c.Lines = append(c.Lines, l)
		return nil
	}
	c.Lines[i].Quantity += l.Quantity
	switch {
	case l.Notes == "" || l.Notes == c.Lines[i].Notes:
	case c.Lines[i].Notes == "":
		c.Lines[i].Notes = l.Notes
	default:
		c.Lines[i].Notes += "; " + l.Notes
	}
	return nil
}

// Update sets the quantity of an item; zero or less removes it.
func (c *Cart) Update(menuItemID string, qty int) error {
	i := c.find(menuItemID)
	if i < 0 {
		return ErrLineNotFound
	}
	if qty <= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return nil
	}
	c.Lines[i].Quantity = qty
	return nil
}

func (c *Cart) Remove(menuItemID string) error {
	return c.Update(menuItemID, 0)
}

func (c *Cart) Clear() { c.Lines = nil }

func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

// Count is the number of portions in the cart.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Totals prices the cart. The discount is clamped to [0, subtotal] and tax
// is charged on the discounted amount, rounded half-up to cents.
func (c *Cart) Totals(taxRate, discount decimal.Decimal) Totals {
	var t Totals
	for _, l := range c.Lines {
		t.Subtotal = t.Subtotal.Add(l.Total())
	}
	t.Subtotal = t.Subtotal.Round(2)

	t.Discount = discount.Round(2)
	if t.Discount.IsNegative() {
		t.Discount = decimal.Zero
	}
	if t.Discount.GreaterThan(t.Subtotal) {
		t.Discount = t.Subtotal
	}
	taxable := t.Subtotal.Sub(t.Discount)
	t.Tax = taxable.Mul(taxRate).Round(2)
	t.Total = taxable.Add(t.Tax)
	return t
}

// Settle validates the payment against total and returns the amount kept
// and the change to hand back.
func Settle(method string, total, tendered decimal.Decimal) (paid, change decimal.Decimal, err error) {
	switch method {
	case PaymentCash:
		if tendered.LessThan(total) {
			return decimal.Zero, decimal.Zero, ErrUnderpaid
		}
		return total, tendered.Sub(total), nil
	case PaymentCard:
		return total, decimal.Zero, nil
	default:
		return decimal.Zero, decimal.Zero, apperr.Validation("payment_method must be cash or card")
	}
}

// LoyaltyPoints awarded for a paid order: one point per whole currency unit.
func LoyaltyPoints(total decimal.Decimal) int {
	if !total.IsPositive() {
		return 0
	}
	return int(total.Floor().IntPart())
}
