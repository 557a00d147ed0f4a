package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

type Item struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	Supplier     string          `json:"supplier,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// LowStock reports whether the item is at or under its reorder level.
func (it Item) LowStock() bool {
	return it.Quantity.LessThanOrEqual(it.ReorderLevel)
}

// StockValue is quantity times unit cost.
func (it Item) StockValue() decimal.Decimal {
	return it.Quantity.Mul(it.CostPerUnit).Round(2)
}

type Movement struct {
	ID          string          `json:"id"`
	InventoryID string          `json:"inventory_id"`
	Delta       decimal.Decimal `json:"delta"`
	Reason      string          `json:"reason"`
	OrderID     *string         `json:"order_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

const (
	ReasonRestock    = "restock"
	ReasonWaste      = "waste"
	ReasonCorrection = "correction"
	ReasonSale       = "sale"
	ReasonCancel     = "order_cancelled"
)

// ItemView adds derived fields for API responses.
type ItemView struct {
	Item
	LowStock   bool            `json:"low_stock"`
	StockValue decimal.Decimal `json:"stock_value"`
}

func View(it Item) ItemView {
	return ItemView{Item: it, LowStock: it.LowStock(), StockValue: it.StockValue()}
}

// CreateItemRequest payload of creation.
// swagger:model CreateInventoryRequest
type CreateItemRequest struct {
	Name         string `json:"name"          example:"Mozzarella"`
	Unit         string `json:"unit"          example:"kg"`
	Quantity     string `json:"quantity"      example:"12.5"`
	ReorderLevel string `json:"reorder_level" example:"3"`
	CostPerUnit  string `json:"cost_per_unit" example:"8.40"`
	Supplier     string `json:"supplier"      example:"Dairy Co"`
}

// UpdateItemRequest payload of partial update. Quantity is changed only
// through adjustments.
// swagger:model UpdateInventoryRequest
type UpdateItemRequest struct {
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	ReorderLevel string `json:"reorder_level"`
	CostPerUnit  string `json:"cost_per_unit"`
	Supplier     string `json:"supplier"`
}

// AdjustRequest adds delta (may be negative) to the stock on hand.
// swagger:model AdjustRequest
type AdjustRequest struct {
	Delta  string `json:"delta"  example:"-1.5"`
	Reason string `json:"reason" example:"waste"`
}

func parseNonNegative(field, s string, def decimal.Decimal) (decimal.Decimal, error) {
	if s == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperr.Validation(field + " must be a decimal number")
	}
	if d.IsNegative() {
		return decimal.Zero, apperr.Validation(field + " must be non-negative")
	}
	return d, nil
}

func (r CreateItemRequest) Validate() (*Item, error) {
	if r.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	qty, err := parseNonNegative("quantity", r.Quantity, decimal.Zero)
	if err != nil {
		return nil, err
	}
	reorder, err := parseNonNegative("reorder_level", r.ReorderLevel, decimal.Zero)
	if err != nil {
		return nil, err
	}
	cost, err := parseNonNegative("cost_per_unit", r.CostPerUnit, decimal.Zero)
	if err != nil {
		return nil, err
	}
	unit := r.Unit
	if unit == "" {
		unit = "unit"
	}
	return &Item{
		Name:         r.Name,
		Unit:         unit,
		Quantity:     qty,
		ReorderLevel: reorder,
		CostPerUnit:  cost,
		Supplier:     r.Supplier,
	}, nil
}

func (r AdjustRequest) Validate() (decimal.Decimal, string, error) {
	d, err := decimal.NewFromString(r.Delta)
	if err != nil {
		return decimal.Zero, "", apperr.Validation("delta must be a decimal number")
	}
	if d.IsZero() {
		return decimal.Zero, "", apperr.Validation("delta must not be zero")
	}
	switch r.Reason {
	case ReasonRestock, ReasonWaste, ReasonCorrection:
	case "":
		if d.IsPositive() {
			return d, ReasonRestock, nil
		}
		return d, ReasonCorrection, nil
	default:
		return decimal.Zero, "", apperr.Validation("reason must be restock, waste or correction")
	}
	return d, r.Reason, nil
}
