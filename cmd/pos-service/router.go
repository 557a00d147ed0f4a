package main

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/MikeMC777/restaurant-pos/internal/auth"
	"github.com/MikeMC777/restaurant-pos/internal/customer"
	_ "github.com/MikeMC777/restaurant-pos/internal/docs"
	"github.com/MikeMC777/restaurant-pos/internal/employee"
	"github.com/MikeMC777/restaurant-pos/internal/httpx"
	"github.com/MikeMC777/restaurant-pos/internal/inventory"
	"github.com/MikeMC777/restaurant-pos/internal/invoice"
	"github.com/MikeMC777/restaurant-pos/internal/menu"
	"github.com/MikeMC777/restaurant-pos/internal/order"
	"github.com/MikeMC777/restaurant-pos/internal/reservation"
)

// authAPI is the part of the auth client the HTTP layer uses.
type authAPI interface {
	httpx.SessionValidator
	SignIn(ctx context.Context, email, password string) (*auth.SignInResult, error)
	SignOut(ctx context.Context, token string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type app struct {
	menu         menu.Repository
	inventory    inventory.Repository
	orders       *order.Service
	billing      *invoice.Service
	employees    employee.Repository
	customers    customer.Repository
	reservations reservation.Repository
	auth         authAPI
	db           pinger
	restaurant   string
}

func newRouter(a *app) *gin.Engine {
	r := gin.New()
	r.Use(httpx.RequestID(), httpx.Logger(), httpx.Recovery())

	r.GET("/healthz", healthHandler)
	r.GET("/readyz", readyHandler(a.db))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.POST("/auth/sign-in", signInHandler(a.auth))

	api := r.Group("/", httpx.RequireSession(a.auth))
	managers := httpx.RequireRole(auth.RoleAdmin, auth.RoleManager)

	api.POST("/auth/sign-out", signOutHandler(a.auth))

	api.GET("/menu", listMenuHandler(a.menu))
	api.POST("/menu", createMenuItemHandler(a.menu))
	api.GET("/menu/:id", getMenuItemHandler(a.menu))
	api.PUT("/menu/:id", updateMenuItemHandler(a.menu))
	api.DELETE("/menu/:id", deleteMenuItemHandler(a.menu))
	api.PUT("/menu/:id/availability", setAvailabilityHandler(a.menu))

	api.GET("/inventory", listInventoryHandler(a.inventory))
	api.POST("/inventory", createInventoryHandler(a.inventory))
	api.GET("/inventory/low-stock", lowStockHandler(a.inventory))
	api.GET("/inventory/:id", getInventoryHandler(a.inventory))
	api.PUT("/inventory/:id", updateInventoryHandler(a.inventory))
	api.DELETE("/inventory/:id", deleteInventoryHandler(a.inventory))
	api.POST("/inventory/:id/adjust", adjustInventoryHandler(a.inventory))
	api.GET("/inventory/:id/movements", movementsHandler(a.inventory))

	api.POST("/pos/cart/quote", quoteHandler(a.orders))
	api.POST("/pos/checkout", checkoutHandler(a.orders))
	api.GET("/orders", listOrdersHandler(a.orders.Repo()))
	api.GET("/orders/:id", getOrderHandler(a.orders))
	api.GET("/orders/:id/items", getOrderItemsHandler(a.orders.Repo()))
	api.PUT("/orders/:id/status", updateOrderStatusHandler(a.orders))
	api.GET("/orders/:id/receipt", receiptHandler(a.orders))

	billing := api.Group("/billing", managers)
	billing.GET("/invoices", listInvoicesHandler(a.billing))
	billing.GET("/invoices/:id", getInvoiceHandler(a.billing))
	billing.GET("/invoices/:id/pdf", invoicePDFHandler(a.billing, a.restaurant))
	billing.GET("/stats", billingStatsHandler(a.billing))
	api.GET("/dashboard", dashboardHandler(a.billing))

	api.GET("/employees", listEmployeesHandler(a.employees))
	api.GET("/employees/:id", getEmployeeHandler(a.employees))
	api.GET("/employees/:id/targets", listTargetsHandler(a.employees))
	api.GET("/employees/:id/targets/progress", targetProgressHandler(a.employees))
	api.POST("/employees", managers, createEmployeeHandler(a.employees))
	api.PUT("/employees/:id", managers, updateEmployeeHandler(a.employees))
	api.DELETE("/employees/:id", managers, deleteEmployeeHandler(a.employees))
	api.POST("/employees/:id/targets", managers, createTargetHandler(a.employees))

	api.GET("/customers", listCustomersHandler(a.customers))
	api.POST("/customers", createCustomerHandler(a.customers))
	api.GET("/customers/:id", getCustomerHandler(a.customers))
	api.PUT("/customers/:id", updateCustomerHandler(a.customers))
	api.DELETE("/customers/:id", deleteCustomerHandler(a.customers))
	api.GET("/customers/:id/orders", customerOrdersHandler(a.customers, a.orders.Repo()))

	api.GET("/reservations", listReservationsHandler(a.reservations))
	api.POST("/reservations", createReservationHandler(a.reservations))
	api.GET("/reservations/:id", getReservationHandler(a.reservations))
	api.PUT("/reservations/:id", updateReservationHandler(a.reservations))
	api.DELETE("/reservations/:id", deleteReservationHandler(a.reservations))
	api.PUT("/reservations/:id/status", reservationStatusHandler(a.reservations))

	return r
}
