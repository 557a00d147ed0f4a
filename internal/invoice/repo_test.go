package invoice_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/restaurant-pos/internal/db/dbtest"
	"github.com/MikeMC777/restaurant-pos/internal/invoice"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	var err error
	testDB, err = dbtest.Open(context.Background(), "invoice_repo_test")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open test database")
	}
	code := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

var day0 = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func insertOrder(t *testing.T, status, total string, created time.Time) string {
	t.Helper()
	id := uuid.NewString()
	_, err := testDB.Exec(context.Background(), `
		INSERT INTO orders (id, number, status, payment_method, subtotal, total, created_at, updated_at)
		VALUES ($1, $2, $3, 'card', $4, $4, $5, $5)
	`, id, "ORD-"+id[:8], status, total, created)
	require.NoError(t, err)
	return id
}

func TestPGRepo_ListFiltersByDerivedStatus(t *testing.T) {
	dbtest.Require(t, testDB)
	t.Cleanup(func() { dbtest.Truncate(t, testDB) })
	repo := invoice.NewPGRepo(testDB)
	ctx := context.Background()

	now := day0.AddDate(0, 0, 20)
	terms := invoice.DefaultTerms

	paid := insertOrder(t, "completed", "20.00", day0)
	overdue1 := insertOrder(t, "served", "30.00", day0.Add(time.Hour))
	overdue2 := insertOrder(t, "pending", "35.00", day0.Add(2*time.Hour))
	pending := insertOrder(t, "pending", "40.00", day0.AddDate(0, 0, 10))
	void := insertOrder(t, "cancelled", "50.00", day0)

	ids := func(srcs []invoice.Source) []string {
		out := []string{}
		for _, s := range srcs {
			out = append(out, s.OrderID)
		}
		return out
	}

	all, err := repo.List(ctx, invoice.Query{}, now, terms)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{paid, overdue1, overdue2, pending, void}, ids(all))

	tests := []struct {
		status string
		want   []string
	}{
		{invoice.StatusPaid, []string{paid}},
		{invoice.StatusOverdue, []string{overdue2, overdue1}},
		{invoice.StatusPending, []string{pending}},
		{invoice.StatusVoid, []string{void}},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got, err := repo.List(ctx, invoice.Query{Status: tt.status}, now, terms)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
			for _, s := range got {
				assert.Equal(t, tt.status, invoice.FromSource(s, terms, now).Status)
			}
		})
	}

	page, err := repo.List(ctx, invoice.Query{Status: invoice.StatusOverdue, Limit: 1, Offset: 1}, now, terms)
	require.NoError(t, err)
	assert.Equal(t, []string{overdue1}, ids(page))

	ranged, err := repo.List(ctx, invoice.Query{From: day0.AddDate(0, 0, 5)}, now, terms)
	require.NoError(t, err)
	assert.Equal(t, []string{pending}, ids(ranged))

	totals, err := repo.Totals(ctx, time.Time{}, time.Time{}, now, terms)
	require.NoError(t, err)
	st := invoice.ComputeStats(totals)
	assert.Equal(t, 4, st.Count)
	assert.Equal(t, 2, st.OverdueCount)
	assert.Equal(t, "65", st.Overdue.String())
	assert.Equal(t, "125", st.TotalInvoiced.String())
}
