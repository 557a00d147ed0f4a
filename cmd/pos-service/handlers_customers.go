package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/restaurant-pos/internal/customer"
	"github.com/MikeMC777/restaurant-pos/internal/httpx"
	"github.com/MikeMC777/restaurant-pos/internal/order"
)

// @Summary  List or search customers
// @Tags     customers
// @Produce  json
// @Param    q  query  string  false  "name, email or phone"
// @Router   /customers [get]
func listCustomersHandler(repo customer.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := httpx.Page(c)
		q := customer.Query{Q: strings.TrimSpace(c.Query("q")), Limit: limit, Offset: offset}
		list, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.List(c, q.Q, limit, offset, list)
	}
}

func getCustomerHandler(repo customer.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cu, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, cu)
	}
}

func createCustomerHandler(repo customer.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customer.CustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		cu, err := req.ValidateCreate()
		if err != nil {
			httpx.Error(c, err)
			return
		}
		cu.ID = uuid.NewString()
		if err := repo.Create(c.Request.Context(), cu); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, cu)
	}
}

func updateCustomerHandler(repo customer.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customer.CustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		cu, err := req.ValidateUpdate(c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if err := repo.Update(c.Request.Context(), cu); err != nil {
			httpx.Error(c, err)
			return
		}
		out, err := repo.GetByID(c.Request.Context(), cu.ID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func deleteCustomerHandler(repo customer.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if !ok {
			httpx.Error(c, customer.ErrNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func customerOrdersHandler(repo customer.Repository, orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if _, err := repo.GetByID(c.Request.Context(), id); err != nil {
			httpx.Error(c, err)
			return
		}
		limit, offset := httpx.Page(c)
		list, err := orders.List(c.Request.Context(), order.Query{CustomerID: id, Limit: limit, Offset: offset})
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.List(c, "", limit, offset, list)
	}
}
