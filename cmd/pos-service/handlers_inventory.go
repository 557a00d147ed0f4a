package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
	"github.com/MikeMC777/restaurant-pos/internal/httpx"
	"github.com/MikeMC777/restaurant-pos/internal/inventory"
)

func views(items []inventory.Item) []inventory.ItemView {
	out := make([]inventory.ItemView, 0, len(items))
	for _, it := range items {
		out = append(out, inventory.View(it))
	}
	return out
}

func listInventoryHandler(repo inventory.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := httpx.Page(c)
		q := inventory.Query{Q: strings.TrimSpace(c.Query("q")), Limit: limit, Offset: offset}
		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.List(c, q.Q, limit, offset, views(items))
	}
}

// @Summary  Low stock items
// @Tags     inventory
// @Produce  json
// @Router   /inventory/low-stock [get]
func lowStockHandler(repo inventory.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := repo.ListLowStock(c.Request.Context())
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": views(items)})
	}
}

func getInventoryHandler(repo inventory.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		it, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, inventory.View(*it))
	}
}

func createInventoryHandler(repo inventory.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req inventory.CreateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		it, err := req.Validate()
		if err != nil {
			httpx.Error(c, err)
			return
		}
		it.ID = uuid.NewString()
		if err := repo.Create(c.Request.Context(), it); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, inventory.View(*it))
	}
}

func optionalDecimal(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, apperr.Validation(field + " must be a non-negative decimal")
	}
	return d, nil
}

func updateInventoryHandler(repo inventory.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req inventory.UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		reorder, err := optionalDecimal("reorder_level", req.ReorderLevel)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		cost, err := optionalDecimal("cost_per_unit", req.CostPerUnit)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		it := &inventory.Item{
			ID:           c.Param("id"),
			Name:         strings.TrimSpace(req.Name),
			Unit:         req.Unit,
			ReorderLevel: reorder,
			CostPerUnit:  cost,
			Supplier:     req.Supplier,
		}
		if err := repo.Update(c.Request.Context(), it); err != nil {
			httpx.Error(c, err)
			return
		}
		out, err := repo.GetByID(c.Request.Context(), it.ID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, inventory.View(*out))
	}
}

func deleteInventoryHandler(repo inventory.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if !ok {
			httpx.Error(c, inventory.ErrNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Adjust stock on hand
// @Tags     inventory
// @Accept   json
// @Produce  json
// @Param    id    path      string                   true  "inventory item id"
// @Param    body  body      inventory.AdjustRequest  true  "delta and reason"
// @Success  200   {object}  inventory.ItemView
// @Failure  409   {object}  httpx.HTTPError
// @Router   /inventory/{id}/adjust [post]
func adjustInventoryHandler(repo inventory.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req inventory.AdjustRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		delta, reason, err := req.Validate()
		if err != nil {
			httpx.Error(c, err)
			return
		}
		it, err := repo.Adjust(c.Request.Context(), c.Param("id"), delta, reason)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, inventory.View(*it))
	}
}

func movementsHandler(repo inventory.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := httpx.Page(c)
		mv, err := repo.Movements(c.Request.Context(), c.Param("id"), limit, offset)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.List(c, "", limit, offset, mv)
	}
}
