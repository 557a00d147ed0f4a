package inventory_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/restaurant-pos/internal/db/dbtest"
	"github.com/MikeMC777/restaurant-pos/internal/inventory"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	var err error
	testDB, err = dbtest.Open(context.Background(), "inventory_repo_test")
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

func TestPGRepo_AdjustGuardsStock(t *testing.T) {
	dbtest.Require(t, testDB)
	t.Cleanup(func() { dbtest.Truncate(t, testDB) })
	repo := inventory.NewPGRepo(testDB)
	ctx := context.Background()

	it := &inventory.Item{ID: uuid.NewString(), Name: "olive oil", Unit: "l", Quantity: dec("2.5"), ReorderLevel: dec("1")}
	require.NoError(t, repo.Create(ctx, it))

	_, err := repo.Adjust(ctx, it.ID, dec("-3"), inventory.ReasonWaste)
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)

	got, err := repo.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, dec("2.5").Equal(got.Quantity), "failed adjustment must not touch the row")
	moves, err := repo.Movements(ctx, it.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, moves)

	// draining to exactly zero is allowed
	got, err = repo.Adjust(ctx, it.ID, dec("-2.5"), inventory.ReasonWaste)
	require.NoError(t, err)
	assert.True(t, got.Quantity.IsZero())

	got, err = repo.Adjust(ctx, it.ID, dec("4"), inventory.ReasonRestock)
	require.NoError(t, err)
	assert.True(t, dec("4").Equal(got.Quantity))

	moves, err = repo.Movements(ctx, it.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, moves, 2)

	low, err := repo.ListLowStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, low)

	_, err = repo.Adjust(ctx, uuid.NewString(), dec("1"), inventory.ReasonRestock)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}
