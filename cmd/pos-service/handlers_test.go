package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
	"github.com/MikeMC777/restaurant-pos/internal/auth"
	"github.com/MikeMC777/restaurant-pos/internal/httpx"
	"github.com/MikeMC777/restaurant-pos/internal/invoice"
	"github.com/MikeMC777/restaurant-pos/internal/menu"
	"github.com/MikeMC777/restaurant-pos/internal/order"
	"github.com/MikeMC777/restaurant-pos/internal/reservation"
)

func init() {
	gin.SetMode(gin.TestMode)
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

//
// in-memory stubs
//

type stubAuth struct{}

var tokens = map[string]*httpx.Principal{
	"staff-token":   {ProfileID: "p-staff", Email: "staff@pos.test", Role: auth.RoleStaff},
	"manager-token": {ProfileID: "p-mgr", Email: "mgr@pos.test", Role: auth.RoleManager},
}

func (stubAuth) ValidateSession(_ context.Context, token string) (*httpx.Principal, error) {
	if p, ok := tokens[token]; ok {
		return p, nil
	}
	return nil, apperr.Unauthorized("invalid or expired session")
}

func (stubAuth) SignIn(_ context.Context, email, password string) (*auth.SignInResult, error) {
	if email == "mgr@pos.test" && password == "secret-pass" {
		return &auth.SignInResult{Token: "manager-token", Profile: tokens["manager-token"]}, nil
	}
	return nil, apperr.Unauthorized("invalid email or password")
}

func (stubAuth) SignOut(context.Context, string) error { return nil }

type stubDB struct{ err error }

func (s stubDB) Ping(context.Context) error { return s.err }

type stubMenu struct{ items map[string]*menu.Item }

func (s *stubMenu) Create(_ context.Context, it *menu.Item) error {
	cp := *it
	s.items[it.ID] = &cp
	return nil
}

func (s *stubMenu) GetByID(_ context.Context, id string) (*menu.Item, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, menu.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (s *stubMenu) GetMany(_ context.Context, ids []string) (map[string]menu.Item, error) {
	out := map[string]menu.Item{}
	for _, id := range ids {
		if it, ok := s.items[id]; ok {
			out[id] = *it
		}
	}
	return out, nil
}

func (s *stubMenu) List(_ context.Context, q menu.Query) ([]menu.Item, error) {
	out := []menu.Item{}
	for _, it := range s.items {
		if q.Q != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(q.Q)) {
			continue
		}
		out = append(out, *it)
	}
	return out, nil
}

func (s *stubMenu) Update(_ context.Context, it *menu.Item, updatePrice bool) error {
	cur, ok := s.items[it.ID]
	if !ok {
		return menu.ErrNotFound
	}
	if it.Name != "" {
		cur.Name = it.Name
	}
	if updatePrice {
		cur.Price = it.Price
	}
	return nil
}

func (s *stubMenu) SetAvailability(_ context.Context, id string, available bool) error {
	cur, ok := s.items[id]
	if !ok {
		return menu.ErrNotFound
	}
	cur.Available = available
	return nil
}

func (s *stubMenu) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

type stubOrders struct {
	orders map[string]*order.Order
	items  map[string][]order.Item
}

func (s *stubOrders) Create(_ context.Context, o *order.Order, items []order.Item, _ order.Usage, _ int) error {
	cp := *o
	s.orders[o.ID] = &cp
	s.items[o.ID] = items
	return nil
}

func (s *stubOrders) GetByID(_ context.Context, id string) (*order.Order, []order.Item, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, nil, order.ErrNotFound
	}
	cp := *o
	return &cp, s.items[id], nil
}

func (s *stubOrders) GetItems(_ context.Context, id string) ([]order.Item, error) {
	return s.items[id], nil
}

func (s *stubOrders) List(_ context.Context, q order.Query) ([]order.Order, error) {
	out := []order.Order{}
	for _, o := range s.orders {
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (s *stubOrders) UpdateStatus(_ context.Context, id, from, to string) error {
	o, ok := s.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	if o.Status != from {
		return order.ErrStatusChanged
	}
	o.Status = to
	return nil
}

func (s *stubOrders) Cancel(ctx context.Context, id, from string) error {
	return s.UpdateStatus(ctx, id, from, order.StatusCancelled)
}

// stubBilling derives invoice sources from the stored orders.
type stubBilling struct{ orders *stubOrders }

func (s stubBilling) source(o *order.Order) invoice.Source {
	return invoice.Source{
		OrderID: o.ID, OrderNumber: o.Number, OrderStatus: o.Status,
		Subtotal: o.Subtotal, Discount: o.Discount, Tax: o.Tax, Total: o.Total,
		CreatedAt: o.CreatedAt,
	}
}

func (s stubBilling) List(_ context.Context, q invoice.Query, now time.Time, terms time.Duration) ([]invoice.Source, error) {
	out := []invoice.Source{}
	for _, o := range s.orders.orders {
		src := s.source(o)
		if q.Status == "" || invoice.FromSource(src, terms, now).Status == q.Status {
			out = append(out, src)
		}
	}
	return out, nil
}

func (s stubBilling) Totals(_ context.Context, _, _, now time.Time, terms time.Duration) ([]invoice.StatusTotal, error) {
	var out []invoice.StatusTotal
	for _, o := range s.orders.orders {
		src := s.source(o)
		out = append(out, invoice.StatusTotal{Status: invoice.FromSource(src, terms, now).Status, Count: 1, Amount: src.Total})
	}
	return out, nil
}

func (s stubBilling) Source(_ context.Context, id string) (*invoice.Source, error) {
	o, ok := s.orders.orders[id]
	if !ok {
		return nil, invoice.ErrNotFound
	}
	src := s.source(o)
	return &src, nil
}

func (s stubBilling) Counters(context.Context, time.Time, time.Time, time.Time, time.Time) (*invoice.Counters, error) {
	return &invoice.Counters{TodayOrders: len(s.orders.orders)}, nil
}

type stubReservations struct{ items map[string]*reservation.Reservation }

func (s *stubReservations) Create(_ context.Context, r *reservation.Reservation) error {
	for _, o := range s.items {
		if reservation.Active(o.Status) && o.Overlaps(*r) {
			return reservation.ErrTableBooked
		}
	}
	cp := *r
	s.items[r.ID] = &cp
	return nil
}

func (s *stubReservations) GetByID(_ context.Context, id string) (*reservation.Reservation, error) {
	r, ok := s.items[id]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *stubReservations) List(context.Context, reservation.Query) ([]reservation.Reservation, error) {
	out := []reservation.Reservation{}
	for _, r := range s.items {
		out = append(out, *r)
	}
	return out, nil
}

func (s *stubReservations) Update(_ context.Context, r *reservation.Reservation) error {
	cp := *r
	s.items[r.ID] = &cp
	return nil
}

func (s *stubReservations) UpdateStatus(_ context.Context, id, status string) error {
	r, ok := s.items[id]
	if !ok {
		return reservation.ErrNotFound
	}
	r.Status = status
	return nil
}

func (s *stubReservations) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

//
// router under test
//

type fixture struct {
	menu         *stubMenu
	orders       *stubOrders
	reservations *stubReservations
	db           *stubDB
	router       *gin.Engine
}

func newFixture() *fixture {
	f := &fixture{
		menu: &stubMenu{items: map[string]*menu.Item{
			"pizza": {ID: "pizza", Name: "Margherita", Price: decimal.RequireFromString("12.00"), Available: true},
			"soup":  {ID: "soup", Name: "Soup of the day", Price: decimal.RequireFromString("6.50"), Available: false},
		}},
		orders:       &stubOrders{orders: map[string]*order.Order{}, items: map[string][]order.Item{}},
		reservations: &stubReservations{items: map[string]*reservation.Reservation{}},
		db:           &stubDB{},
	}
	orders := order.NewService(f.orders, order.NewExt(f.menu, nil, nil),
		decimal.RequireFromString("0.08"), order.Header{Restaurant: "Trattoria Test"})
	billing := invoice.NewService(stubBilling{f.orders}, f.orders, invoice.DefaultTerms, time.UTC)
	f.router = newRouter(&app{
		menu:         f.menu,
		orders:       orders,
		billing:      billing,
		reservations: f.reservations,
		auth:         stubAuth{},
		db:           f.db,
		restaurant:   "Trattoria Test",
	})
	return f
}

func (f *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

//
// tests
//

func TestHealthAndReady(t *testing.T) {
	f := newFixture()

	if w := f.do(http.MethodGet, "/healthz", "", ""); w.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", w.Code)
	}
	if w := f.do(http.MethodGet, "/readyz", "", ""); w.Code != http.StatusOK {
		t.Fatalf("readyz status=%d body=%s", w.Code, w.Body.String())
	}

	f.db.err = errors.New("connection refused")
	w := f.do(http.MethodGet, "/readyz", "", "")
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "offline") {
		t.Fatalf("expected offline, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestRequestIDHeader(t *testing.T) {
	f := newFixture()
	w := f.do(http.MethodGet, "/healthz", "", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing X-Request-ID header")
	}
}

func TestSignIn(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/auth/sign-in", "", `{"email":"mgr@pos.test","password":"secret-pass"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var res auth.SignInResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil || res.Token != "manager-token" {
		t.Fatalf("unexpected sign in result: %s", w.Body.String())
	}

	if w := f.do(http.MethodPost, "/auth/sign-in", "", `{"email":"mgr@pos.test","password":"nope"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w := f.do(http.MethodPost, "/auth/sign-in", "", `{"email":""}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	f := newFixture()

	if w := f.do(http.MethodGet, "/menu", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if w := f.do(http.MethodGet, "/menu", "bogus", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", w.Code)
	}
	if w := f.do(http.MethodGet, "/menu", "staff-token", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestBillingRequiresManager(t *testing.T) {
	f := newFixture()

	if w := f.do(http.MethodGet, "/billing/invoices", "staff-token", ""); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff, got %d", w.Code)
	}
	if w := f.do(http.MethodGet, "/billing/invoices", "manager-token", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for manager, got %d body=%s", w.Code, w.Body.String())
	}
	if w := f.do(http.MethodPost, "/employees", "staff-token", `{}`); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 creating employee as staff, got %d", w.Code)
	}
}

func TestMenuCRUD(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/menu", "staff-token", `{"name":"Calzone","category":"pizza","price":"13.90"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	var created menu.Item
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID == "" || !created.Available || created.Price.String() != "13.9" {
		t.Fatalf("unexpected item: %+v", created)
	}

	if w := f.do(http.MethodPost, "/menu", "staff-token", `{"name":"Free","price":"0"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero price, got %d", w.Code)
	}

	w = f.do(http.MethodPut, "/menu/"+created.ID, "staff-token", `{"price":"14.50"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", w.Code, w.Body.String())
	}
	if got := f.menu.items[created.ID]; got.Name != "Calzone" || got.Price.String() != "14.5" {
		t.Fatalf("update not applied: %+v", got)
	}

	if w := f.do(http.MethodPut, "/menu/"+created.ID+"/availability", "staff-token", `{"available":false}`); w.Code != http.StatusOK {
		t.Fatalf("availability status=%d", w.Code)
	}
	if f.menu.items[created.ID].Available {
		t.Fatalf("item still available")
	}

	if w := f.do(http.MethodDelete, "/menu/"+created.ID, "staff-token", ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", w.Code)
	}
	if w := f.do(http.MethodGet, "/menu/"+created.ID, "staff-token", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func checkout(t *testing.T, f *fixture) order.CheckoutResponse {
	t.Helper()
	body := `{"order_type":"dine_in","table_number":"4","payment_method":"cash","amount_tendered":"30.00",
		"items":[{"menu_item_id":"pizza","quantity":2}]}`
	w := f.do(http.MethodPost, "/pos/checkout", "staff-token", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout status=%d body=%s", w.Code, w.Body.String())
	}
	var resp order.CheckoutResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestQuoteAndCheckout(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/pos/cart/quote", "staff-token", `{"items":[{"menu_item_id":"pizza","quantity":2}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("quote status=%d body=%s", w.Code, w.Body.String())
	}
	if len(f.orders.orders) != 0 {
		t.Fatalf("quote must not create an order")
	}

	resp := checkout(t, f)
	if resp.Total.String() != "25.92" || resp.Change.String() != "4.08" {
		t.Fatalf("unexpected totals: total=%s change=%s", resp.Total, resp.Change)
	}
	if resp.Status != order.StatusPending || !strings.HasPrefix(resp.Number, "ORD-") {
		t.Fatalf("unexpected order: %+v", resp.Order)
	}
	if !strings.Contains(resp.Receipt, "Trattoria Test") {
		t.Fatalf("receipt missing header:\n%s", resp.Receipt)
	}

	unavailable := `{"payment_method":"card","items":[{"menu_item_id":"soup","quantity":1}]}`
	if w := f.do(http.MethodPost, "/pos/checkout", "staff-token", unavailable); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for unavailable item, got %d body=%s", w.Code, w.Body.String())
	}
	underpaid := `{"payment_method":"cash","amount_tendered":"5.00","items":[{"menu_item_id":"pizza","quantity":1}]}`
	if w := f.do(http.MethodPost, "/pos/checkout", "staff-token", underpaid); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for underpaid cash, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestOrderStatusFlow(t *testing.T) {
	f := newFixture()
	id := checkout(t, f).ID

	w := f.do(http.MethodPut, "/orders/"+id+"/status", "staff-token", `{"status":"preparing"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w := f.do(http.MethodPut, "/orders/"+id+"/status", "staff-token", `{"status":"served"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 skipping a step, got %d", w.Code)
	}
	if w := f.do(http.MethodPut, "/orders/"+id+"/status", "staff-token", `{"status":"cancelled"}`); w.Code != http.StatusOK {
		t.Fatalf("cancel status=%d body=%s", w.Code, w.Body.String())
	}
	if got := f.orders.orders[id].Status; got != order.StatusCancelled {
		t.Fatalf("status=%s, want cancelled", got)
	}
	if w := f.do(http.MethodPut, "/orders/nope/status", "staff-token", `{"status":"ready"}`); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestReceiptFormats(t *testing.T) {
	f := newFixture()
	resp := checkout(t, f)

	w := f.do(http.MethodGet, "/orders/"+resp.ID+"/receipt", "staff-token", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), resp.Number) {
		t.Fatalf("text receipt status=%d body=%s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodGet, "/orders/"+resp.ID+"/receipt?format=pdf", "staff-token", "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("pdf receipt status=%d type=%s", w.Code, w.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a pdf")
	}

	if w := f.do(http.MethodGet, "/orders/"+resp.ID+"/receipt?format=xml", "staff-token", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", w.Code)
	}
}

func TestInvoices(t *testing.T) {
	f := newFixture()
	resp := checkout(t, f)

	w := f.do(http.MethodGet, "/billing/invoices?status=pending", "manager-token", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var list struct {
		Items []invoice.Invoice `json:"items"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Items) != 1 || list.Items[0].Number != invoice.Number(resp.Number) {
		t.Fatalf("unexpected invoices: %+v", list.Items)
	}

	if w := f.do(http.MethodGet, "/billing/invoices?status=bogus", "manager-token", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status, got %d", w.Code)
	}

	w = f.do(http.MethodGet, "/billing/invoices/"+resp.ID+"/pdf", "manager-token", "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("invoice pdf status=%d", w.Code)
	}

	w = f.do(http.MethodGet, "/dashboard", "staff-token", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"today_orders":1`) {
		t.Fatalf("dashboard status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestReservationConflict(t *testing.T) {
	f := newFixture()
	at := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Minute)

	body := func(start time.Time) string {
		return `{"name":"García","party_size":4,"table_number":"12","reserved_at":"` + start.Format(time.RFC3339) + `"}`
	}

	w := f.do(http.MethodPost, "/reservations", "staff-token", body(at))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	var r reservation.Reservation
	_ = json.Unmarshal(w.Body.Bytes(), &r)

	if w := f.do(http.MethodPost, "/reservations", "staff-token", body(at.Add(30*time.Minute))); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for overlapping booking, got %d", w.Code)
	}
	if w := f.do(http.MethodPost, "/reservations", "staff-token", body(at.Add(90*time.Minute))); w.Code != http.StatusCreated {
		t.Fatalf("back-to-back booking should be accepted, got %d body=%s", w.Code, w.Body.String())
	}

	if w := f.do(http.MethodPut, "/reservations/"+r.ID+"/status", "staff-token", `{"status":"completed"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 completing a pending reservation, got %d", w.Code)
	}
	if w := f.do(http.MethodPut, "/reservations/"+r.ID+"/status", "staff-token", `{"status":"cancelled"}`); w.Code != http.StatusOK {
		t.Fatalf("cancel status=%d", w.Code)
	}
	if w := f.do(http.MethodPut, "/reservations/"+r.ID, "staff-token", body(at)); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 editing a cancelled reservation, got %d", w.Code)
	}
}
