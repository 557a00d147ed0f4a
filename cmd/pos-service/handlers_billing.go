package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/restaurant-pos/internal/httpx"
	"github.com/MikeMC777/restaurant-pos/internal/invoice"
)

// @Summary  List invoices
// @Tags     billing
// @Produce  json
// @Param    status  query  string  false  "pending, paid, overdue or void"
// @Param    from    query  string  false  "issued on or after"
// @Param    to      query  string  false  "issued before"
// @Router   /billing/invoices [get]
func listInvoicesHandler(svc *invoice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := httpx.Page(c)
		from, to, err := rangeParams(c)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		invs, err := svc.List(c.Request.Context(), invoice.Query{
			Status: c.Query("status"),
			From:   from,
			To:     to,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.List(c, "", limit, offset, invs)
	}
}

func getInvoiceHandler(svc *invoice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		inv, items, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"invoice": inv, "items": items})
	}
}

func invoicePDFHandler(svc *invoice.Service, restaurant string) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, inv, err := svc.PDF(c.Request.Context(), c.Param("id"), restaurant)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+inv.Number+`.pdf"`)
		c.Data(http.StatusOK, "application/pdf", b)
	}
}

// @Summary  Billing totals
// @Tags     billing
// @Produce  json
// @Success  200  {object}  invoice.Stats
// @Router   /billing/stats [get]
func billingStatsHandler(svc *invoice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, err := rangeParams(c)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		st, err := svc.Stats(c.Request.Context(), from, to)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

func dashboardHandler(svc *invoice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.Dashboard(c.Request.Context())
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}
