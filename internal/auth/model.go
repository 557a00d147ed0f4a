// Package auth owns staff profiles and their sign-in sessions, served over
// gRPC to the POS service.
package auth

import (
	"net/mail"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

const minPasswordLen = 8

func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleStaff
}

type Profile struct {
	ID           string
	Email        string
	FullName     string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Session struct {
	Token     string
	ProfileID string
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

var (
	dummyOnce sync.Once
	dummy     string
)

// dummyHash is compared against when the email is unknown so a miss costs
// the same bcrypt round as a wrong password.
func dummyHash() string {
	dummyOnce.Do(func() {
		dummy, _ = HashPassword("not-a-real-password")
	})
	return dummy
}

func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

type SignUpInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// Validate normalizes the input; an empty role becomes staff.
func (in *SignUpInput) Validate() error {
	in.Email = NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if in.Email == "" || in.Password == "" {
		return apperr.Validation("email and password are required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return apperr.Validation("email is not valid")
	}
	if len(in.Password) < minPasswordLen {
		return apperr.Validation("password must be at least 8 characters")
	}
	if in.Role == "" {
		in.Role = RoleStaff
	}
	if !ValidRole(in.Role) {
		return apperr.Validation("role must be admin, manager or staff")
	}
	return nil
}
