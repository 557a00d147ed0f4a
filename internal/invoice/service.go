package invoice

import (
	"context"
	"time"

	"github.com/MikeMC777/restaurant-pos/internal/order"
)

// ItemSource loads the lines printed on an invoice.
type ItemSource interface {
	GetItems(ctx context.Context, orderID string) ([]order.Item, error)
}

type Service struct {
	repo  Repository
	items ItemSource
	terms time.Duration
	loc   *time.Location
	now   func() time.Time
}

func NewService(repo Repository, items ItemSource, terms time.Duration, loc *time.Location) *Service {
	if terms <= 0 {
		terms = DefaultTerms
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, items: items, terms: terms, loc: loc, now: time.Now}
}

func (s *Service) List(ctx context.Context, q Query) ([]Invoice, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	now := s.now()
	srcs, err := s.repo.List(ctx, q, now, s.terms)
	if err != nil {
		return nil, err
	}
	out := make([]Invoice, 0, len(srcs))
	for _, src := range srcs {
		out = append(out, FromSource(src, s.terms, now))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Invoice, []order.Item, error) {
	src, err := s.repo.Source(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.items.GetItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	inv := FromSource(*src, s.terms, s.now())
	return &inv, items, nil
}

func (s *Service) Stats(ctx context.Context, from, to time.Time) (Stats, error) {
	totals, err := s.repo.Totals(ctx, from, to, s.now(), s.terms)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(totals), nil
}

func (s *Service) PDF(ctx context.Context, id, restaurant string) ([]byte, *Invoice, error) {
	inv, items, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	b, err := RenderPDF(restaurant, *inv, items, s.loc)
	if err != nil {
		return nil, nil, err
	}
	return b, inv, nil
}

// Dashboard reads today's figures in the restaurant's time zone and the
// reservations due in the next 24 hours.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now().In(s.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	c, err := s.repo.Counters(ctx, dayStart, dayStart.AddDate(0, 0, 1), now, now.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	st, err := s.Stats(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		TodaySales:           c.TodaySales,
		TodayOrders:          c.TodayOrders,
		OpenOrders:           c.OpenOrders,
		LowStockItems:        c.LowStockItems,
		UpcomingReservations: c.UpcomingReservations,
		Billing:              st,
	}, nil
}
