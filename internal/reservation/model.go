package reservation

import (
	"strings"
	"time"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusSeated    = "seated"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"

	DefaultDuration = 90
	MaxPartySize    = 20
)

var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusSeated, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusSeated, StatusCancelled, StatusNoShow},
	StatusSeated:    {StatusCompleted},
}

// Active reservations hold their table.
func Active(status string) bool {
	return status == StatusPending || status == StatusConfirmed || status == StatusSeated
}

func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID              string    `json:"id"`
	CustomerID      *string   `json:"customer_id,omitempty"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone,omitempty"`
	PartySize       int       `json:"party_size"`
	TableNumber     string    `json:"table_number"`
	ReservedAt      time.Time `json:"reserved_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (r Reservation) End() time.Time {
	return r.ReservedAt.Add(time.Duration(r.DurationMinutes) * time.Minute)
}

// Overlaps reports whether both reservations hold the same table at the
// same time. Back-to-back slots do not overlap.
func (r Reservation) Overlaps(o Reservation) bool {
	if r.TableNumber != o.TableNumber {
		return false
	}
	return r.ReservedAt.Before(o.End()) && o.ReservedAt.Before(r.End())
}

// ReservationRequest payload of creation and update.
// swagger:model ReservationRequest
type ReservationRequest struct {
	CustomerID      string    `json:"customer_id"`
	Name            string    `json:"name"             example:"García"`
	Phone           string    `json:"phone"`
	PartySize       int       `json:"party_size"       example:"4"`
	TableNumber     string    `json:"table_number"     example:"12"`
	ReservedAt      time.Time `json:"reserved_at"      example:"2026-10-20T20:30:00Z"`
	DurationMinutes int       `json:"duration_minutes" example:"90"`
	Notes           string    `json:"notes"`
}

// StatusRequest payload of status change.
// swagger:model ReservationStatusRequest
type StatusRequest struct {
	Status string `json:"status" example:"confirmed"`
}

func (req ReservationRequest) Validate(now time.Time) (*Reservation, error) {
	r := &Reservation{
		Name:            strings.TrimSpace(req.Name),
		Phone:           strings.TrimSpace(req.Phone),
		PartySize:       req.PartySize,
		TableNumber:     strings.TrimSpace(req.TableNumber),
		ReservedAt:      req.ReservedAt.UTC(),
		DurationMinutes: req.DurationMinutes,
		Status:          StatusPending,
		Notes:           req.Notes,
	}
	if req.CustomerID != "" {
		id := req.CustomerID
		r.CustomerID = &id
	}
	if r.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	if r.TableNumber == "" {
		return nil, apperr.Validation("table_number is required")
	}
	if r.PartySize < 1 || r.PartySize > MaxPartySize {
		return nil, apperr.Validation("party_size must be between 1 and 20")
	}
	if r.DurationMinutes == 0 {
		r.DurationMinutes = DefaultDuration
	}
	if r.DurationMinutes < 15 || r.DurationMinutes > 360 {
		return nil, apperr.Validation("duration_minutes must be between 15 and 360")
	}
	if r.ReservedAt.IsZero() {
		return nil, apperr.Validation("reserved_at is required")
	}
	if !r.ReservedAt.After(now) {
		return nil, apperr.Validation("reserved_at must be in the future")
	}
	return r, nil
}
