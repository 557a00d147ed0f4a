package employee

import (
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

const (
	RoleManager = "manager"
	RoleCashier = "cashier"
	RoleWaiter  = "waiter"
	RoleChef    = "chef"
	RoleHost    = "host"
)

func ValidRole(r string) bool {
	switch r {
	case RoleManager, RoleCashier, RoleWaiter, RoleChef, RoleHost:
		return true
	}
	return false
}

type Employee struct {
	ID         string          `json:"id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone,omitempty"`
	Role       string          `json:"role"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	HiredAt    time.Time       `json:"hired_at"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Target is a sales goal for one employee over [PeriodStart, PeriodEnd).
type Target struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Progress struct {
	Target   Target          `json:"target"`
	Achieved decimal.Decimal `json:"achieved"`
	// Percent may exceed 100 when the target is beaten.
	Percent   decimal.Decimal `json:"percent"`
	Remaining decimal.Decimal `json:"remaining"`
	Met       bool            `json:"met"`
}

func ComputeProgress(t Target, achieved decimal.Decimal) Progress {
	p := Progress{Target: t, Achieved: achieved}
	if t.Amount.IsPositive() {
		p.Percent = achieved.Div(t.Amount).Mul(decimal.NewFromInt(100)).Round(2)
	}
	p.Remaining = t.Amount.Sub(achieved)
	if p.Remaining.IsNegative() {
		p.Remaining = decimal.Zero
	}
	p.Met = achieved.GreaterThanOrEqual(t.Amount)
	return p
}

// EmployeeRequest payload of creation and partial update.
// swagger:model EmployeeRequest
type EmployeeRequest struct {
	FirstName  string `json:"first_name"  example:"Luis"`
	LastName   string `json:"last_name"   example:"Pérez"`
	Email      string `json:"email"       example:"luis@restaurant.test"`
	Phone      string `json:"phone"`
	Role       string `json:"role"        example:"waiter"`
	HourlyRate string `json:"hourly_rate" example:"12.50"`
	HiredAt    string `json:"hired_at"    example:"2026-01-15"`
	Active     *bool  `json:"active"`
}

func (r EmployeeRequest) ValidateCreate() (*Employee, error) {
	e := &Employee{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:     r.Phone,
		Role:      r.Role,
		Active:    true,
		HiredAt:   time.Now().UTC().Truncate(24 * time.Hour),
	}
	if e.FirstName == "" || e.LastName == "" {
		return nil, apperr.Validation("first_name and last_name are required")
	}
	if e.Email == "" {
		return nil, apperr.Validation("email is required")
	}
	if err := r.fill(e); err != nil {
		return nil, err
	}
	if !ValidRole(e.Role) {
		return nil, apperr.Validation("role must be one of manager, cashier, waiter, chef, host")
	}
	return e, nil
}

func (r EmployeeRequest) ValidateUpdate(id string) (*Employee, error) {
	e := &Employee{
		ID:        id,
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:     r.Phone,
		Role:      r.Role,
		Active:    true,
	}
	if e.Role != "" && !ValidRole(e.Role) {
		return nil, apperr.Validation("role must be one of manager, cashier, waiter, chef, host")
	}
	return e, r.fill(e)
}

func (r EmployeeRequest) fill(e *Employee) error {
	if e.Email != "" {
		if _, err := mail.ParseAddress(e.Email); err != nil {
			return apperr.Validation("email is not valid")
		}
	}
	if r.HourlyRate != "" {
		rate, err := decimal.NewFromString(r.HourlyRate)
		if err != nil || rate.IsNegative() {
			return apperr.Validation("hourly_rate must be a non-negative decimal")
		}
		e.HourlyRate = rate.Round(2)
	}
	if r.HiredAt != "" {
		d, err := time.Parse(time.DateOnly, r.HiredAt)
		if err != nil {
			return apperr.Validation("hired_at must be YYYY-MM-DD")
		}
		e.HiredAt = d
	}
	if r.Active != nil {
		e.Active = *r.Active
	}
	return nil
}

// TargetRequest payload of target creation.
// swagger:model TargetRequest
type TargetRequest struct {
	PeriodStart time.Time `json:"period_start" example:"2026-10-01T00:00:00Z"`
	PeriodEnd   time.Time `json:"period_end"   example:"2026-11-01T00:00:00Z"`
	Amount      string    `json:"amount"       example:"5000.00"`
}

func (r TargetRequest) Validate(employeeID string) (*Target, error) {
	if r.PeriodStart.IsZero() || r.PeriodEnd.IsZero() {
		return nil, apperr.Validation("period_start and period_end are required")
	}
	if !r.PeriodEnd.After(r.PeriodStart) {
		return nil, apperr.Validation("period_end must be after period_start")
	}
	amt, err := decimal.NewFromString(r.Amount)
	if err != nil || !amt.IsPositive() {
		return nil, apperr.Validation("amount must be greater than zero")
	}
	return &Target{
		EmployeeID:  employeeID,
		PeriodStart: r.PeriodStart.UTC(),
		PeriodEnd:   r.PeriodEnd.UTC(),
		Amount:      amt.Round(2),
	}, nil
}
