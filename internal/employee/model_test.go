package employee

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRequest_ValidateCreate(t *testing.T) {
	tests := []struct {
		name    string
		req     EmployeeRequest
		wantErr string
	}{
		{"missing names", EmployeeRequest{Email: "a@b.co", Role: RoleChef}, "first_name and last_name are required"},
		{"missing email", EmployeeRequest{FirstName: "A", LastName: "B", Role: RoleChef}, "email is required"},
		{"bad role", EmployeeRequest{FirstName: "A", LastName: "B", Email: "a@b.co", Role: "pilot"}, "role must be one of manager, cashier, waiter, chef, host"},
		{"bad rate", EmployeeRequest{FirstName: "A", LastName: "B", Email: "a@b.co", Role: RoleChef, HourlyRate: "-3"}, "hourly_rate must be a non-negative decimal"},
		{"bad date", EmployeeRequest{FirstName: "A", LastName: "B", Email: "a@b.co", Role: RoleChef, HiredAt: "15/01/2026"}, "hired_at must be YYYY-MM-DD"},
		{"ok", EmployeeRequest{FirstName: "A", LastName: "B", Email: "A@B.co", Role: RoleChef, HourlyRate: "12.5", HiredAt: "2026-01-15"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := tt.req.ValidateCreate()
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a@b.co", e.Email)
			assert.True(t, e.Active)
			assert.Equal(t, "12.50", e.HourlyRate.StringFixed(2))
			assert.Equal(t, 2026, e.HiredAt.Year())
			assert.Equal(t, "A B", e.FullName())
		})
	}
}

func TestTargetRequest_Validate(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	_, err := TargetRequest{PeriodStart: start, PeriodEnd: start, Amount: "10"}.Validate("e1")
	assert.EqualError(t, err, "period_end must be after period_start")

	_, err = TargetRequest{PeriodStart: start, PeriodEnd: start.AddDate(0, 1, 0), Amount: "0"}.Validate("e1")
	assert.EqualError(t, err, "amount must be greater than zero")

	tg, err := TargetRequest{PeriodStart: start, PeriodEnd: start.AddDate(0, 1, 0), Amount: "5000"}.Validate("e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", tg.EmployeeID)
}

func TestComputeProgress(t *testing.T) {
	tg := Target{Amount: decimal.RequireFromString("2000")}

	p := ComputeProgress(tg, decimal.RequireFromString("500"))
	assert.Equal(t, "25", p.Percent.String())
	assert.Equal(t, "1500", p.Remaining.String())
	assert.False(t, p.Met)

	p = ComputeProgress(tg, decimal.RequireFromString("2500"))
	assert.Equal(t, "125", p.Percent.String())
	assert.True(t, p.Remaining.IsZero())
	assert.True(t, p.Met)
}
