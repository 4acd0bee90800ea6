package executor

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainexecutor "github.com/mvolkov/dispatch/internal/domain/executor"
	portexecutor "github.com/mvolkov/dispatch/internal/port/executor"
	distributorsvc "github.com/mvolkov/dispatch/internal/service/distributor"
	executorsvc "github.com/mvolkov/dispatch/internal/service/executor"
)

func Register(rg *gin.RouterGroup, svc *executorsvc.Service, dist *distributorsvc.Service) {
	rg.POST("", createExecutor(svc))
	rg.GET("", listExecutors(svc))
	rg.GET("/:id", getExecutor(svc))
	rg.PATCH("/:id", updateExecutor(svc))
	rg.DELETE("/:id", deleteExecutor(svc))
	rg.POST("/:id/pull", pullNext(dist))
}

type createExecutorReq struct {
	Name   string            `json:"name" binding:"required"`
	Params map[string]string `json:"parameters"`
}

func createExecutor(svc *executorsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createExecutorReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		e, err := svc.Create(c.Request.Context(), req.Name, req.Params)
		if err != nil {
			if errors.Is(err, portexecutor.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, e)
	}
}

func listExecutors(svc *executorsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filters domainexecutor.ListFilters

		if v := c.Query("active"); v != "" {
			active, err := strconv.ParseBool(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid active"})
				return
			}
			filters.IsActive = &active
		}

		executors, err := svc.List(c.Request.Context(), filters)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if executors == nil {
			executors = []domainexecutor.Executor{}
		}
		c.JSON(http.StatusOK, executors)
	}
}

func getExecutor(svc *executorsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		e, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, portexecutor.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

type updateExecutorReq struct {
	Name     *string            `json:"name"`
	Params   *map[string]string `json:"parameters"`
	IsActive *bool              `json:"is_active"`
}

func updateExecutor(svc *executorsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req updateExecutorReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		e, err := svc.Update(c.Request.Context(), id, domainexecutor.Update{
			Name:     req.Name,
			Params:   req.Params,
			IsActive: req.IsActive,
		})
		if err != nil {
			switch {
			case errors.Is(err, portexecutor.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, portexecutor.ErrAlreadyExists):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

func deleteExecutor(svc *executorsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, portexecutor.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// pullNext returns 200 with the assigned request, or 204 when the executor is
// unknown, inactive, or the queue has nothing for it.
func pullNext(dist *distributorsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		r, err := dist.PullNext(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if r == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}
