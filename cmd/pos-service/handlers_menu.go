package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/restaurant-pos/internal/httpx"
	"github.com/MikeMC777/restaurant-pos/internal/menu"
)

// @Summary  List menu items
// @Tags     menu
// @Produce  json
// @Param    q          query  string  false  "search in name and description"
// @Param    category   query  string  false  "category"
// @Param    available  query  bool    false  "only available items"
// @Router   /menu [get]
func listMenuHandler(repo menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := httpx.Page(c)
		q := menu.Query{
			Q:             strings.TrimSpace(c.Query("q")),
			Category:      c.Query("category"),
			OnlyAvailable: c.Query("available") == "true",
			Limit:         limit,
			Offset:        offset,
		}
		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.List(c, q.Q, limit, offset, items)
	}
}

func getMenuItemHandler(repo menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		it, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

// @Summary  Create menu item
// @Tags     menu
// @Accept   json
// @Produce  json
// @Param    body  body      menu.CreateItemRequest  true  "menu item"
// @Success  201   {object}  menu.Item
// @Failure  400   {object}  httpx.HTTPError
// @Router   /menu [post]
func createMenuItemHandler(repo menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req menu.CreateItemRequest
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
		c.JSON(http.StatusCreated, it)
	}
}

func updateMenuItemHandler(repo menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req menu.UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		it := &menu.Item{
			ID:          c.Param("id"),
			Name:        strings.TrimSpace(req.Name),
			Description: req.Description,
			Category:    req.Category,
			InventoryID: req.InventoryID,
		}
		updatePrice := req.Price != ""
		if updatePrice {
			p, err := menu.ParsePrice(req.Price)
			if err != nil {
				httpx.Error(c, err)
				return
			}
			it.Price = p
		}
		if err := repo.Update(c.Request.Context(), it, updatePrice); err != nil {
			httpx.Error(c, err)
			return
		}
		out, err := repo.GetByID(c.Request.Context(), it.ID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

func setAvailabilityHandler(repo menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req availabilityRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Available == nil {
			httpx.BadRequest(c, "available is required")
			return
		}
		if err := repo.SetAvailability(c.Request.Context(), c.Param("id"), *req.Available); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "available": *req.Available})
	}
}

func deleteMenuItemHandler(repo menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if !ok {
			httpx.Error(c, menu.ErrNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
