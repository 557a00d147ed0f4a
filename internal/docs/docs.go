// Package docs holds the Swagger document served at /swagger. Keep it in
// sync with the handler annotations in cmd/pos-service.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/auth/sign-in": {"post": {"tags": ["auth"], "summary": "Sign in and open a session", "security": [], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SignInRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/SignInResult"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/HTTPError"}}}}},
        "/auth/sign-out": {"post": {"tags": ["auth"], "summary": "Close the current session", "responses": {"204": {"description": "No Content"}}}},
        "/menu": {
            "get": {"tags": ["menu"], "summary": "List menu items", "parameters": [{"type": "string", "name": "q", "in": "query"}, {"type": "string", "name": "category", "in": "query"}, {"type": "boolean", "name": "available", "in": "query"}, {"type": "integer", "name": "limit", "in": "query"}, {"type": "integer", "name": "offset", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["menu"], "summary": "Create menu item", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateItemRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/HTTPError"}}}}
        },
        "/menu/{id}": {
            "get": {"tags": ["menu"], "summary": "Get menu item", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/HTTPError"}}}},
            "put": {"tags": ["menu"], "summary": "Update menu item", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateItemRequest"}}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["menu"], "summary": "Delete menu item", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/menu/{id}/availability": {"put": {"tags": ["menu"], "summary": "Toggle availability", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/inventory": {
            "get": {"tags": ["inventory"], "summary": "List inventory", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["inventory"], "summary": "Create inventory item", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateInventoryRequest"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/inventory/low-stock": {"get": {"tags": ["inventory"], "summary": "Items at or below reorder level", "responses": {"200": {"description": "OK"}}}},
        "/inventory/{id}": {
            "get": {"tags": ["inventory"], "summary": "Get inventory item", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["inventory"], "summary": "Update inventory item", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateInventoryRequest"}}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["inventory"], "summary": "Delete inventory item", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/inventory/{id}/adjust": {"post": {"tags": ["inventory"], "summary": "Adjust stock", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/AdjustRequest"}}], "responses": {"200": {"description": "OK"}, "409": {"description": "Insufficient stock", "schema": {"$ref": "#/definitions/HTTPError"}}}}},
        "/inventory/{id}/movements": {"get": {"tags": ["inventory"], "summary": "Stock movements", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/pos/cart/quote": {"post": {"tags": ["pos"], "summary": "Price a cart", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/QuoteRequest"}}], "responses": {"200": {"description": "OK"}}}},
        "/pos/checkout": {"post": {"tags": ["pos"], "summary": "Check out a cart into an order", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CheckoutRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/HTTPError"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/HTTPError"}}}}},
        "/orders": {"get": {"tags": ["orders"], "summary": "List orders", "parameters": [{"type": "string", "name": "status", "in": "query"}, {"type": "string", "name": "customer_id", "in": "query"}, {"type": "string", "name": "employee_id", "in": "query"}, {"type": "string", "name": "from", "in": "query"}, {"type": "string", "name": "to", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/orders/{id}": {"get": {"tags": ["orders"], "summary": "Get order with items", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/orders/{id}/items": {"get": {"tags": ["orders"], "summary": "Order items", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/orders/{id}/status": {"put": {"tags": ["orders"], "summary": "Change order status", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/OrderStatusRequest"}}], "responses": {"200": {"description": "OK"}}}},
        "/orders/{id}/receipt": {"get": {"tags": ["orders"], "summary": "Receipt as text or PDF", "produces": ["text/plain", "application/pdf"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "format", "in": "query", "enum": ["text", "pdf"]}], "responses": {"200": {"description": "OK"}}}},
        "/billing/invoices": {"get": {"tags": ["billing"], "summary": "List invoices", "parameters": [{"type": "string", "name": "status", "in": "query", "enum": ["pending", "paid", "overdue", "void"]}], "responses": {"200": {"description": "OK"}}}},
        "/billing/invoices/{id}": {"get": {"tags": ["billing"], "summary": "Get invoice", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Invoice"}}}}},
        "/billing/invoices/{id}/pdf": {"get": {"tags": ["billing"], "summary": "Invoice PDF", "produces": ["application/pdf"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/billing/stats": {"get": {"tags": ["billing"], "summary": "Billing totals by status", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/BillingStats"}}}}},
        "/dashboard": {"get": {"tags": ["billing"], "summary": "Today at a glance", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Dashboard"}}}}},
        "/employees": {
            "get": {"tags": ["employees"], "summary": "List employees", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["employees"], "summary": "Create employee", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/EmployeeRequest"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/employees/{id}": {
            "get": {"tags": ["employees"], "summary": "Get employee", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["employees"], "summary": "Update employee", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["employees"], "summary": "Delete employee", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/employees/{id}/targets": {
            "get": {"tags": ["employees"], "summary": "List targets", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["employees"], "summary": "Create target", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/TargetRequest"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/employees/{id}/targets/progress": {"get": {"tags": ["employees"], "summary": "Progress against each target", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/customers": {
            "get": {"tags": ["customers"], "summary": "List or search customers", "parameters": [{"type": "string", "name": "q", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["customers"], "summary": "Create customer", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CustomerRequest"}}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/HTTPError"}}}}
        },
        "/customers/{id}": {
            "get": {"tags": ["customers"], "summary": "Get customer", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["customers"], "summary": "Update customer", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["customers"], "summary": "Delete customer", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/customers/{id}/orders": {"get": {"tags": ["customers"], "summary": "Order history", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/reservations": {
            "get": {"tags": ["reservations"], "summary": "List reservations", "parameters": [{"type": "string", "name": "date", "in": "query"}, {"type": "string", "name": "status", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["reservations"], "summary": "Book a table", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ReservationRequest"}}], "responses": {"201": {"description": "Created"}, "409": {"description": "Table already booked", "schema": {"$ref": "#/definitions/HTTPError"}}}}
        },
        "/reservations/{id}": {
            "get": {"tags": ["reservations"], "summary": "Get reservation", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["reservations"], "summary": "Update reservation", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["reservations"], "summary": "Delete reservation", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/reservations/{id}/status": {"put": {"tags": ["reservations"], "summary": "Change reservation status", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ReservationStatusRequest"}}], "responses": {"200": {"description": "OK"}}}},
        "/healthz": {"get": {"tags": ["health"], "summary": "Liveness", "security": [], "responses": {"200": {"description": "OK"}}}},
        "/readyz": {"get": {"tags": ["health"], "summary": "Readiness (database reachable)", "security": [], "responses": {"200": {"description": "OK"}, "503": {"description": "Offline"}}}}
    },
    "definitions": {
        "HTTPError": {"type": "object", "properties": {"error": {"type": "string", "example": "not found"}, "kind": {"type": "string", "example": "not_found"}}},
        "SignInRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "SignInResult": {"type": "object", "properties": {"token": {"type": "string"}, "expires_at": {"type": "string"}, "profile": {"type": "object"}}},
        "CreateItemRequest": {"type": "object", "properties": {"name": {"type": "string", "example": "Margherita"}, "description": {"type": "string"}, "category": {"type": "string", "example": "pizza"}, "price": {"type": "string", "example": "11.50"}, "available": {"type": "boolean"}, "inventory_id": {"type": "string"}}},
        "UpdateItemRequest": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "category": {"type": "string"}, "price": {"type": "string"}, "inventory_id": {"type": "string"}}},
        "CreateInventoryRequest": {"type": "object", "properties": {"name": {"type": "string"}, "unit": {"type": "string"}, "quantity": {"type": "string"}, "reorder_level": {"type": "string"}, "cost_per_unit": {"type": "string"}, "supplier": {"type": "string"}}},
        "UpdateInventoryRequest": {"type": "object", "properties": {"name": {"type": "string"}, "unit": {"type": "string"}, "reorder_level": {"type": "string"}, "cost_per_unit": {"type": "string"}, "supplier": {"type": "string"}}},
        "AdjustRequest": {"type": "object", "properties": {"delta": {"type": "string", "example": "-1.5"}, "reason": {"type": "string", "example": "waste"}}},
        "CartItem": {"type": "object", "properties": {"menu_item_id": {"type": "string"}, "quantity": {"type": "integer", "example": 2}, "notes": {"type": "string"}}},
        "QuoteRequest": {"type": "object", "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/CartItem"}}, "discount": {"type": "string"}}},
        "CheckoutRequest": {"type": "object", "properties": {"customer_id": {"type": "string"}, "employee_id": {"type": "string"}, "table_number": {"type": "string"}, "order_type": {"type": "string", "enum": ["dine_in", "takeaway", "delivery"]}, "payment_method": {"type": "string", "enum": ["cash", "card"]}, "amount_tendered": {"type": "string"}, "discount": {"type": "string"}, "notes": {"type": "string"}, "items": {"type": "array", "items": {"$ref": "#/definitions/CartItem"}}}},
        "OrderStatusRequest": {"type": "object", "properties": {"status": {"type": "string", "example": "preparing"}}},
        "Invoice": {"type": "object", "properties": {"id": {"type": "string"}, "number": {"type": "string"}, "order_number": {"type": "string"}, "issued_at": {"type": "string"}, "due_at": {"type": "string"}, "amount": {"type": "string"}, "status": {"type": "string", "enum": ["pending", "paid", "overdue", "void"]}}},
        "BillingStats": {"type": "object", "properties": {"total_invoiced": {"type": "string"}, "paid": {"type": "string"}, "pending": {"type": "string"}, "overdue": {"type": "string"}, "count": {"type": "integer"}, "paid_count": {"type": "integer"}, "pending_count": {"type": "integer"}, "overdue_count": {"type": "integer"}}},
        "Dashboard": {"type": "object", "properties": {"today_sales": {"type": "string"}, "today_orders": {"type": "integer"}, "open_orders": {"type": "integer"}, "low_stock_items": {"type": "integer"}, "upcoming_reservations": {"type": "integer"}, "billing": {"$ref": "#/definitions/BillingStats"}}},
        "EmployeeRequest": {"type": "object", "properties": {"first_name": {"type": "string"}, "last_name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"}, "role": {"type": "string"}, "hourly_rate": {"type": "string"}, "hired_at": {"type": "string"}, "active": {"type": "boolean"}}},
        "TargetRequest": {"type": "object", "properties": {"period_start": {"type": "string"}, "period_end": {"type": "string"}, "amount": {"type": "string"}}},
        "CustomerRequest": {"type": "object", "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"}, "notes": {"type": "string"}}},
        "ReservationRequest": {"type": "object", "properties": {"customer_id": {"type": "string"}, "name": {"type": "string"}, "phone": {"type": "string"}, "party_size": {"type": "integer"}, "table_number": {"type": "string"}, "reserved_at": {"type": "string"}, "duration_minutes": {"type": "integer"}, "notes": {"type": "string"}}},
        "ReservationStatusRequest": {"type": "object", "properties": {"status": {"type": "string", "example": "confirmed"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Restaurant POS API",
	Description:      "Point of sale and back office: menu, inventory, orders, billing, staff, customers and reservations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
