package distribution

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	distributorsvc "github.com/mvolkov/dispatch/internal/service/distributor"
)

func Register(rg *gin.RouterGroup, dist *distributorsvc.Service) {
	rg.POST("/auto", autoDistribute(dist))
	rg.GET("/least-loaded", leastLoaded(dist))
	rg.GET("/stats", stats(dist))
}

type autoDistributeReq struct {
	RequestIDs []uuid.UUID `json:"request_ids" binding:"required"`
}

func autoDistribute(dist *distributorsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req autoDistributeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		assigned, err := dist.AutoDistribute(c.Request.Context(), req.RequestIDs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"assigned": assigned})
	}
}

func leastLoaded(dist *distributorsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, err := dist.PickLeastLoaded(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if e == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

func stats(dist *distributorsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := dist.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, s)
	}
}
