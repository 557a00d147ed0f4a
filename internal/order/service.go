// Package order implements the register: pricing a cart, checking it out
// into an order, moving the order through the kitchen and printing receipts.
package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
	"github.com/MikeMC777/restaurant-pos/internal/events"
	"github.com/MikeMC777/restaurant-pos/internal/menu"
	"github.com/MikeMC777/restaurant-pos/internal/storage"
)

type Service struct {
	repo    Repository
	ext     *Ext
	taxRate decimal.Decimal
	header  Header
	now     func() time.Time
}

func NewService(repo Repository, ext *Ext, taxRate decimal.Decimal, header Header) *Service {
	return &Service{repo: repo, ext: ext, taxRate: taxRate, header: header, now: time.Now}
}

func (s *Service) Repo() Repository { return s.repo }

func (s *Service) Header() Header { return s.header }

// BuildCart prices the requested lines from the menu. Unknown and
// unavailable items are rejected.
func (s *Service) BuildCart(ctx context.Context, req []CartItem) (Cart, map[string]menu.Item, error) {
	if err := validateItems(req); err != nil {
		return Cart{}, nil, err
	}
	ids := make([]string, 0, len(req))
	seen := map[string]bool{}
	for _, it := range req {
		if !seen[it.MenuItemID] {
			seen[it.MenuItemID] = true
			ids = append(ids, it.MenuItemID)
		}
	}
	items, err := s.ext.Menu.GetMany(ctx, ids)
	if err != nil {
		return Cart{}, nil, err
	}
	var cart Cart
	for _, it := range req {
		m, ok := items[it.MenuItemID]
		if !ok {
			return Cart{}, nil, apperr.NotFound("menu item " + it.MenuItemID + " not found")
		}
		if !m.Available {
			return Cart{}, nil, apperr.Conflict(m.Name + " is not available")
		}
		if err := cart.Add(Line{
			MenuItemID: m.ID,
			Name:       m.Name,
			UnitPrice:  m.Price,
			Quantity:   it.Quantity,
			Notes:      it.Notes,
		}); err != nil {
			return Cart{}, nil, err
		}
	}
	return cart, items, nil
}

func (s *Service) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	discount, err := parseMoney("discount", req.Discount)
	if err != nil {
		return nil, err
	}
	cart, _, err := s.BuildCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	return &QuoteResponse{Cart: cart, Totals: cart.Totals(s.taxRate, discount)}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	discount, err := parseMoney("discount", req.Discount)
	if err != nil {
		return nil, err
	}
	tendered, err := parseMoney("amount_tendered", req.AmountTendered)
	if err != nil {
		return nil, err
	}
	cart, menuItems, err := s.BuildCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	totals := cart.Totals(s.taxRate, discount)
	paid, change, err := Settle(req.PaymentMethod, totals.Total, tendered)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	o := &Order{
		ID:            uuid.NewString(),
		CustomerID:    optional(req.CustomerID),
		EmployeeID:    optional(req.EmployeeID),
		TableNumber:   req.TableNumber,
		Type:          req.OrderType,
		Status:        StatusPending,
		PaymentMethod: req.PaymentMethod,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Tax:           totals.Tax,
		Total:         totals.Total,
		AmountPaid:    paid,
		Change:        change,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	o.Number = Number(o.ID, now)

	items := make([]Item, 0, len(cart.Lines))
	usage := Usage{}
	for _, l := range cart.Lines {
		mid := l.MenuItemID
		items = append(items, Item{
			ID:         uuid.NewString(),
			OrderID:    o.ID,
			MenuItemID: &mid,
			Name:       l.Name,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			LineTotal:  l.Total().Round(2),
			Notes:      l.Notes,
		})
		if inv := menuItems[l.MenuItemID].InventoryID; inv != nil {
			usage[*inv] = usage[*inv].Add(decimal.NewFromInt(int64(l.Quantity)))
		}
	}

	if err := s.repo.Create(ctx, o, items, usage, LoyaltyPoints(o.Total)); err != nil {
		return nil, err
	}
	log.Info().Str("order_id", o.ID).Str("number", o.Number).Str("total", o.Total.String()).Msg("[pos] checkout")

	s.publish(ctx, events.TypeOrderCreated, o, "", items)

	resp := &CheckoutResponse{
		Detail:  Detail{Order: *o, Items: items},
		Receipt: RenderReceipt(s.header, *o, items),
	}
	resp.ReceiptURL = s.archive(ctx, o, items)
	return resp, nil
}

// publish is best-effort: a broker outage never fails the sale.
func (s *Service) publish(ctx context.Context, typ string, o *Order, prev string, items []Item) {
	ev := events.OrderEvent{
		Type:           typ,
		OrderID:        o.ID,
		Number:         o.Number,
		OrderType:      o.Type,
		TableNumber:    o.TableNumber,
		Status:         o.Status,
		PreviousStatus: prev,
		Total:          o.Total.StringFixed(2),
		OccurredAt:     s.now().UTC(),
	}
	for _, it := range items {
		ev.Lines = append(ev.Lines, events.TicketLine{Name: it.Name, Quantity: it.Quantity, Notes: it.Notes})
	}
	if err := s.ext.Events.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("order_id", o.ID).Str("type", typ).Msg("[pos] publish event failed")
	}
}

// archiveTimeout caps how long a checkout waits on the receipt store.
const archiveTimeout = 3 * time.Second

func (s *Service) archive(ctx context.Context, o *Order, items []Item) string {
	pdf, err := RenderReceiptPDF(s.header, *o, items)
	if err != nil {
		log.Warn().Err(err).Str("order_id", o.ID).Msg("[pos] render receipt pdf failed")
		return ""
	}
	putCtx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()
	url, err := s.ext.Receipts.Put(putCtx, storage.ReceiptKey(o.Number), pdf, "application/pdf")
	if err != nil {
		log.Warn().Err(err).Str("order_id", o.ID).Msg("[pos] archive receipt failed")
		return ""
	}
	return url
}

func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	o, items, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Item{}
	}
	return &Detail{Order: *o, Items: items}, nil
}

// UpdateStatus moves an order along the kitchen flow. Cancelling returns
// the stock it consumed.
func (s *Service) UpdateStatus(ctx context.Context, id, to string) (*Order, error) {
	if !ValidStatus(to) {
		return nil, apperr.Validation("status must be one of pending, preparing, ready, served, completed, cancelled")
	}
	o, items, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if !CanTransition(from, to) {
		return nil, apperr.Validation("cannot change status from " + from + " to " + to)
	}
	if to == StatusCancelled {
		err = s.repo.Cancel(ctx, id, from)
	} else {
		err = s.repo.UpdateStatus(ctx, id, from, to)
	}
	if err != nil {
		return nil, err
	}
	o.Status = to
	o.UpdatedAt = s.now().UTC()
	log.Info().Str("order_id", id).Str("from", from).Str("to", to).Msg("[pos] status changed")

	s.publish(ctx, events.TypeOrderStatusChanged, o, from, items)
	return o, nil
}

func (s *Service) Receipt(ctx context.Context, id string) (string, error) {
	o, items, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return RenderReceipt(s.header, *o, items), nil
}

func (s *Service) ReceiptPDF(ctx context.Context, id string) ([]byte, *Order, error) {
	o, items, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	b, err := RenderReceiptPDF(s.header, *o, items)
	if err != nil {
		return nil, nil, err
	}
	return b, o, nil
}
