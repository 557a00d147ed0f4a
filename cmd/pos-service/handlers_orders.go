package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
	"github.com/MikeMC777/restaurant-pos/internal/httpx"
	"github.com/MikeMC777/restaurant-pos/internal/order"
)

// @Summary  Price a cart without creating an order
// @Tags     pos
// @Accept   json
// @Produce  json
// @Param    body  body      order.QuoteRequest  true  "cart"
// @Success  200   {object}  order.QuoteResponse
// @Router   /pos/cart/quote [post]
func quoteHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.QuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		q, err := svc.Quote(c.Request.Context(), req)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	}
}

// @Summary  Check out a cart
// @Tags     pos
// @Accept   json
// @Produce  json
// @Param    body  body      order.CheckoutRequest  true  "cart and payment"
// @Success  201   {object}  order.CheckoutResponse
// @Failure  400   {object}  httpx.HTTPError
// @Failure  409   {object}  httpx.HTTPError
// @Router   /pos/checkout [post]
func checkoutHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		resp, err := svc.Checkout(c.Request.Context(), req)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

func listOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := httpx.Page(c)
		from, to, err := rangeParams(c)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		status := c.Query("status")
		if status != "" && !order.ValidStatus(status) {
			httpx.BadRequest(c, "invalid status")
			return
		}
		orders, err := repo.List(c.Request.Context(), order.Query{
			Status:     status,
			CustomerID: c.Query("customer_id"),
			EmployeeID: c.Query("employee_id"),
			From:       from,
			To:         to,
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.List(c, "", limit, offset, orders)
	}
}

func getOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

func getOrderItemsHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if _, _, err := repo.GetByID(c.Request.Context(), id); err != nil {
			httpx.Error(c, err)
			return
		}
		items, err := repo.GetItems(c.Request.Context(), id)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if items == nil {
			items = []order.Item{}
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// @Summary  Change order status
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    id    path      string              true  "order id"
// @Param    body  body      order.StatusRequest  true  "new status"
// @Success  200   {object}  order.Order
// @Failure  400   {object}  httpx.HTTPError
// @Failure  409   {object}  httpx.HTTPError
// @Router   /orders/{id}/status [put]
func updateOrderStatusHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.StatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
			httpx.BadRequest(c, "status is required")
			return
		}
		o, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary  Order receipt
// @Tags     orders
// @Produce  plain
// @Produce  application/pdf
// @Param    id      path   string  true   "order id"
// @Param    format  query  string  false  "text (default) or pdf"
// @Router   /orders/{id}/receipt [get]
func receiptHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.DefaultQuery("format", "text") {
		case "pdf":
			b, o, err := svc.ReceiptPDF(c.Request.Context(), c.Param("id"))
			if err != nil {
				httpx.Error(c, err)
				return
			}
			c.Header("Content-Disposition", `inline; filename="`+o.Number+`.pdf"`)
			c.Data(http.StatusOK, "application/pdf", b)
		case "text":
			s, err := svc.Receipt(c.Request.Context(), c.Param("id"))
			if err != nil {
				httpx.Error(c, err)
				return
			}
			c.String(http.StatusOK, s)
		default:
			httpx.Error(c, apperr.Validation("format must be text or pdf"))
		}
	}
}
