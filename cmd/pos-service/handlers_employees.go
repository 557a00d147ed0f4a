package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/restaurant-pos/internal/employee"
	"github.com/MikeMC777/restaurant-pos/internal/httpx"
)

func listEmployeesHandler(repo employee.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := httpx.Page(c)
		q := employee.Query{
			Q:          strings.TrimSpace(c.Query("q")),
			Role:       c.Query("role"),
			ActiveOnly: c.Query("active") == "true",
			Limit:      limit,
			Offset:     offset,
		}
		if q.Role != "" && !employee.ValidRole(q.Role) {
			httpx.BadRequest(c, "invalid role")
			return
		}
		list, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		httpx.List(c, q.Q, limit, offset, list)
	}
}

func getEmployeeHandler(repo employee.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

// @Summary  Create employee
// @Tags     employees
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body  body      employee.EmployeeRequest  true  "employee"
// @Success  201   {object}  employee.Employee
// @Failure  403   {object}  httpx.HTTPError
// @Failure  409   {object}  httpx.HTTPError
// @Router   /employees [post]
func createEmployeeHandler(repo employee.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req employee.EmployeeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		e, err := req.ValidateCreate()
		if err != nil {
			httpx.Error(c, err)
			return
		}
		e.ID = uuid.NewString()
		if err := repo.Create(c.Request.Context(), e); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, e)
	}
}

func updateEmployeeHandler(repo employee.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req employee.EmployeeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		e, err := req.ValidateUpdate(c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if err := repo.Update(c.Request.Context(), e, req.Active != nil); err != nil {
			httpx.Error(c, err)
			return
		}
		out, err := repo.GetByID(c.Request.Context(), e.ID)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func deleteEmployeeHandler(repo employee.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if !ok {
			httpx.Error(c, employee.ErrNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listTargetsHandler(repo employee.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if _, err := repo.GetByID(c.Request.Context(), id); err != nil {
			httpx.Error(c, err)
			return
		}
		ts, err := repo.ListTargets(c.Request.Context(), id)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if ts == nil {
			ts = []employee.Target{}
		}
		c.JSON(http.StatusOK, gin.H{"items": ts})
	}
}

func createTargetHandler(repo employee.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req employee.TargetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		t, err := req.Validate(c.Param("id"))
		if err != nil {
			httpx.Error(c, err)
			return
		}
		t.ID = uuid.NewString()
		if err := repo.CreateTarget(c.Request.Context(), t); err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

// @Summary  Progress against sales targets
// @Tags     employees
// @Produce  json
// @Param    id  path  string  true  "employee id"
// @Router   /employees/{id}/targets/progress [get]
func targetProgressHandler(repo employee.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("id")
		if _, err := repo.GetByID(ctx, id); err != nil {
			httpx.Error(c, err)
			return
		}
		ts, err := repo.ListTargets(ctx, id)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		out := make([]employee.Progress, 0, len(ts))
		for _, t := range ts {
			achieved, err := repo.SalesBetween(ctx, id, t.PeriodStart, t.PeriodEnd)
			if err != nil {
				httpx.Error(c, err)
				return
			}
			out = append(out, employee.ComputeProgress(t, achieved))
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}
