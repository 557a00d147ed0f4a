package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
	"github.com/MikeMC777/restaurant-pos/internal/httpx"
)

// timeParam reads an optional RFC3339 timestamp or YYYY-MM-DD date from
// the query string. Dates are midnight in the server's zone.
func timeParam(c *gin.Context, key string) (time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, v, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, apperr.Validation(key + " must be RFC3339 or YYYY-MM-DD")
}

func rangeParams(c *gin.Context) (from, to time.Time, err error) {
	if from, err = timeParam(c, "from"); err != nil {
		return
	}
	to, err = timeParam(c, "to")
	return
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readyHandler reports offline when the database cannot be reached.
func readyHandler(db pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "offline"})
			return
		}
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "offline", "error": apperr.UserMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "online"})
	}
}

// SignInRequest payload of sign in.
// swagger:model SignInRequest
type SignInRequest struct {
	Email    string `json:"email"    example:"manager@restaurant.test"`
	Password string `json:"password" example:"secret-pass"`
}

// @Summary  Sign in
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body  body      SignInRequest  true  "credentials"
// @Success  200   {object}  auth.SignInResult
// @Failure  401   {object}  httpx.HTTPError
// @Router   /auth/sign-in [post]
func signInHandler(a authAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		if req.Email == "" || req.Password == "" {
			httpx.BadRequest(c, "email and password are required")
			return
		}
		res, err := a.SignIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary  Sign out
// @Tags     auth
// @Security BearerAuth
// @Success  204
// @Router   /auth/sign-out [post]
func signOutHandler(a authAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.SignOut(c.Request.Context(), httpx.BearerToken(c)); err != nil {
			httpx.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
