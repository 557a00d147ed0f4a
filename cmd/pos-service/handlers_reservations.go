package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
	"github.com/MikeMC777/restaurant-pos/internal/httpx"
	"github.com/MikeMC777/restaurant-pos/internal/reservation"
)

// @Summary  List reservations
// @Tags     reservations
// @Produce  json
// @Param    date    query  string  false  "single day, YYYY-MM-DD"
// @Param    from    query  string  false  "from"
// @Param    to      query  string  false  "to"
// @Param    status  query  string  false  "status"
// @Router   /reservations [get]
func listReservationsHandler(repo reservation.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := httpx.Page(c)
		q := reservation.Query{Status: c.Query("status"), Limit: limit, Offset: offset}
		if day := c.Query("date"); day != "" {
			d, err := time.ParseInLocation(time.DateOnly, day, time.Local)
			if err != nil {
				httpx.BadRequest(c, "date must be YYYY-MM-DD")
				return
			}
			q.From, q.To = d, d.AddDate(0, 0, 1)
		} else {
			from, to, err := rangeParams(c)
			if err != nil {
				httpx.Error(c, err)
				return
			}
			q.From, q.To = from, to
		}
		list, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.List(c, "", limit, offset, list)
	}
}

func getReservationHandler(repo reservation.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// @Summary  Book a table
// @Tags     reservations
// @Accept   json
// @Produce  json
// @Param    body  body      reservation.ReservationRequest  true  "booking"
// @Success  201   {object}  reservation.Reservation
// @Failure  409   {object}  httpx.HTTPError
// @Router   /reservations [post]
func createReservationHandler(repo reservation.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reservation.ReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		r, err := req.Validate(time.Now())
		if err != nil {
			httpx.Error(c, err)
			return
		}
		r.ID = uuid.NewString()
		if err := repo.Create(c.Request.Context(), r); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

func updateReservationHandler(repo reservation.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reservation.ReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		cur, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if !reservation.Active(cur.Status) {
			httpx.Error(c, apperr.Validation("only pending, confirmed or seated reservations can be changed"))
			return
		}
		r, err := req.Validate(time.Now())
		if err != nil {
			httpx.Error(c, err)
			return
		}
		r.ID, r.Status, r.CreatedAt = cur.ID, cur.Status, cur.CreatedAt
		if err := repo.Update(c.Request.Context(), r); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func reservationStatusHandler(repo reservation.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reservation.StatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
			httpx.BadRequest(c, "status is required")
			return
		}
		cur, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if !reservation.CanTransition(cur.Status, req.Status) {
			httpx.Error(c, apperr.Validation("cannot change status from "+cur.Status+" to "+req.Status))
			return
		}
		if err := repo.UpdateStatus(c.Request.Context(), cur.ID, req.Status); err != nil {
			httpx.Error(c, err)
			return
		}
		cur.Status = req.Status
		c.JSON(http.StatusOK, cur)
	}
}

func deleteReservationHandler(repo reservation.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if !ok {
			httpx.Error(c, reservation.ErrNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
