package menu

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
	// Inventory item consumed (one unit) per portion sold.
	InventoryID *string   `json:"inventory_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateItemRequest payload of creation.
// swagger:model CreateItemRequest
type CreateItemRequest struct {
	Name        string  `json:"name"         example:"Margherita"`
	Description string  `json:"description"  example:"Tomato, mozzarella, basil"`
	Category    string  `json:"category"     example:"pizza"`
	Price       string  `json:"price"        example:"11.50"`
	Available   *bool   `json:"available"`
	InventoryID *string `json:"inventory_id"`
}

// UpdateItemRequest payload of partial update; empty fields are kept.
// swagger:model UpdateItemRequest
type UpdateItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       string  `json:"price"`
	InventoryID *string `json:"inventory_id"`
}

// ParsePrice accepts positive amounts with at most two decimals.
func ParsePrice(s string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperr.Validation("price must be a decimal number")
	}
	if !p.IsPositive() {
		return decimal.Zero, apperr.Validation("price must be greater than zero")
	}
	if p.Exponent() < -2 && !p.Equal(p.Round(2)) {
		return decimal.Zero, apperr.Validation("price must have at most two decimals")
	}
	return p.Round(2), nil
}

func (r CreateItemRequest) Validate() (*Item, error) {
	if r.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	price, err := ParsePrice(r.Price)
	if err != nil {
		return nil, err
	}
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	inv := r.InventoryID
	if inv != nil && *inv == "" {
		inv = nil
	}
	return &Item{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       price,
		Available:   available,
		InventoryID: inv,
	}, nil
}
