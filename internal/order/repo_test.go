package order_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/restaurant-pos/internal/customer"
	"github.com/MikeMC777/restaurant-pos/internal/db/dbtest"
	"github.com/MikeMC777/restaurant-pos/internal/inventory"
	"github.com/MikeMC777/restaurant-pos/internal/order"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	var err error
	testDB, err = dbtest.Open(context.Background(), "order_repo_test")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open test database")
	}
	code := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) *order.PGRepo {
	t.Helper()
	dbtest.Require(t, testDB)
	t.Cleanup(func() { dbtest.Truncate(t, testDB) })
	return order.NewPGRepo(testDB)
}

func seedStock(t *testing.T, name, qty string) string {
	t.Helper()
	it := &inventory.Item{ID: uuid.NewString(), Name: name, Unit: "kg", Quantity: dec(qty)}
	require.NoError(t, inventory.NewPGRepo(testDB).Create(context.Background(), it))
	return it.ID
}

func stockOf(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	it, err := inventory.NewPGRepo(testDB).GetByID(context.Background(), id)
	require.NoError(t, err)
	return it.Quantity
}

func newOrder(customerID *string, total string) (*order.Order, []order.Item) {
	id := uuid.NewString()
	o := &order.Order{
		ID:            id,
		Number:        order.Number(id, time.Now()),
		CustomerID:    customerID,
		Type:          order.TypeDineIn,
		Status:        order.StatusPending,
		PaymentMethod: order.PaymentCard,
		Subtotal:      dec(total),
		Total:         dec(total),
		AmountPaid:    dec(total),
	}
	items := []order.Item{{ID: uuid.NewString(), Name: "Margherita", Quantity: 1, UnitPrice: dec(total), LineTotal: dec(total)}}
	return o, items
}

func TestPGRepo_CreateDeductsStockAndAwardsPoints(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()

	flour := seedStock(t, "flour", "10")
	cheese := seedStock(t, "mozzarella", "4")
	c := &customer.Customer{ID: uuid.NewString(), Name: "Giulia"}
	require.NoError(t, customer.NewPGRepo(testDB).Create(ctx, c))

	o, items := newOrder(&c.ID, "12.80")
	err := repo.Create(ctx, o, items, order.Usage{flour: dec("2"), cheese: dec("0.5")}, 12)
	require.NoError(t, err)

	assert.True(t, dec("8").Equal(stockOf(t, flour)))
	assert.True(t, dec("3.5").Equal(stockOf(t, cheese)))

	moves, err := inventory.NewPGRepo(testDB).Movements(ctx, flour, 10, 0)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, inventory.ReasonSale, moves[0].Reason)
	assert.True(t, dec("-2").Equal(moves[0].Delta))
	require.NotNil(t, moves[0].OrderID)
	assert.Equal(t, o.ID, *moves[0].OrderID)

	got, err := customer.NewPGRepo(testDB).GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.LoyaltyPoints)

	stored, lines, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Number, stored.Number)
	assert.True(t, dec("12.80").Equal(stored.Total))
	require.Len(t, lines, 1)
	assert.Equal(t, "Margherita", lines[0].Name)
}

func TestPGRepo_CreateInsufficientStockRollsBack(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()

	flour := seedStock(t, "flour", "10")
	basil := seedStock(t, "basil", "1")

	o, items := newOrder(nil, "9.00")
	err := repo.Create(ctx, o, items, order.Usage{flour: dec("2"), basil: dec("3")}, 0)
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)

	_, _, err = repo.GetByID(ctx, o.ID)
	assert.ErrorIs(t, err, order.ErrNotFound)
	assert.True(t, dec("10").Equal(stockOf(t, flour)), "earlier deduction must roll back")
	assert.True(t, dec("1").Equal(stockOf(t, basil)))

	moves, err := inventory.NewPGRepo(testDB).Movements(ctx, flour, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestPGRepo_CancelRestocks(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()

	flour := seedStock(t, "flour", "5")
	o, items := newOrder(nil, "7.00")
	require.NoError(t, repo.Create(ctx, o, items, order.Usage{flour: dec("1.5")}, 0))
	require.True(t, dec("3.5").Equal(stockOf(t, flour)))

	require.NoError(t, repo.Cancel(ctx, o.ID, order.StatusPending))
	assert.True(t, dec("5").Equal(stockOf(t, flour)))

	stored, _, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, stored.Status)

	moves, err := inventory.NewPGRepo(testDB).Movements(ctx, flour, 10, 0)
	require.NoError(t, err)
	require.Len(t, moves, 2)
	reasons := []string{moves[0].Reason, moves[1].Reason}
	assert.ElementsMatch(t, []string{inventory.ReasonSale, inventory.ReasonCancel}, reasons)

	// the stored status is no longer pending
	assert.ErrorIs(t, repo.Cancel(ctx, o.ID, order.StatusPending), order.ErrStatusChanged)
	assert.ErrorIs(t, repo.Cancel(ctx, uuid.NewString(), order.StatusPending), order.ErrNotFound)
	assert.True(t, dec("5").Equal(stockOf(t, flour)))
}

func TestPGRepo_ConcurrentCheckoutsShareStock(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()

	a := seedStock(t, "flour", "100")
	b := seedStock(t, "tomato", "100")
	c := seedStock(t, "basil", "100")

	const n = 24
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, items := newOrder(nil, "10.00")
			errs <- repo.Create(ctx, o, items, order.Usage{a: dec("1"), b: dec("1"), c: dec("1")}, 0)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	for _, id := range []string{a, b, c} {
		assert.True(t, dec("76").Equal(stockOf(t, id)), "stock %s", stockOf(t, id))
	}
}
