package httpx

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

// Principal is the signed-in staff profile behind a request.
type Principal struct {
	ProfileID string `json:"profile_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
}

type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*Principal, error)
}

const principalKey = "principal"

func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireSession rejects requests without a valid bearer token.
func RequireSession(v SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := BearerToken(c)
		if tok == "" {
			Error(c, apperr.Unauthorized("missing bearer token"))
			c.Abort()
			return
		}
		p, err := v.ValidateSession(c.Request.Context(), tok)
		if err != nil {
			Error(c, err)
			c.Abort()
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireRole must run after RequireSession.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := CurrentPrincipal(c)
		if p == nil {
			Error(c, apperr.Unauthorized("not signed in"))
			c.Abort()
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		Error(c, apperr.Forbidden("insufficient role"))
		c.Abort()
	}
}

func CurrentPrincipal(c *gin.Context) *Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*Principal)
	return p
}
