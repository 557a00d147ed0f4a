package customer

import (
	"net/mail"
	"strings"
	"time"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

type Customer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         *string   `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	LoyaltyPoints int       `json:"loyalty_points"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CustomerRequest is used for both create and partial update.
// swagger:model CustomerRequest
type CustomerRequest struct {
	Name  string `json:"name"  example:"Ana Torres"`
	Email string `json:"email" example:"ana@example.com"`
	Phone string `json:"phone" example:"+34 600 000 000"`
	Notes string `json:"notes" example:"Prefers terrace"`
}

func (r CustomerRequest) normalize() (CustomerRequest, error) {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			return r, apperr.Validation("email is not valid")
		}
	}
	return r, nil
}

func (r CustomerRequest) ValidateCreate() (*Customer, error) {
	r, err := r.normalize()
	if err != nil {
		return nil, err
	}
	if r.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	c := &Customer{Name: r.Name, Phone: r.Phone, Notes: r.Notes}
	if r.Email != "" {
		c.Email = &r.Email
	}
	return c, nil
}

func (r CustomerRequest) ValidateUpdate(id string) (*Customer, error) {
	r, err := r.normalize()
	if err != nil {
		return nil, err
	}
	c := &Customer{ID: id, Name: r.Name, Phone: r.Phone, Notes: r.Notes}
	if r.Email != "" {
		c.Email = &r.Email
	}
	return c, nil
}
