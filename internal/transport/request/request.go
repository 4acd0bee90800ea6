package request

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mvolkov/dispatch/internal/adapter/xlsx"
	domainrequest "github.com/mvolkov/dispatch/internal/domain/request"
	portrequest "github.com/mvolkov/dispatch/internal/port/request"
	requestsvc "github.com/mvolkov/dispatch/internal/service/request"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100

	idempotencyHeader = "Idempotency-Key"
)

func Register(rg *gin.RouterGroup, svc *requestsvc.Service) {
	rg.POST("", createRequest(svc))
	rg.POST("/bulk", bulkCreate(svc))
	rg.POST("/upload", uploadSpreadsheet(svc))
	rg.GET("/recent", listRecent(svc))
	rg.GET("/:id", getRequest(svc))
	rg.POST("/:id/complete", completeRequest(svc))
}

// createRequest stores the whole JSON body as the request's params document.
func createRequest(svc *requestsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params domainrequest.Params
		if err := c.ShouldBindJSON(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		r, err := svc.Create(c.Request.Context(), params)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

type bulkCreateReq struct {
	Requests []domainrequest.Params `json:"requests" binding:"required,min=1"`
}

func bulkCreate(svc *requestsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bulkCreateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, replayed, err := svc.CreateBatch(c.Request.Context(), req.Requests, c.GetHeader(idempotencyHeader))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if replayed {
			c.JSON(http.StatusOK, result)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func uploadSpreadsheet(svc *requestsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()

		batch, err := xlsx.Parse(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(batch) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no data rows in spreadsheet"})
			return
		}

		result, replayed, err := svc.CreateBatch(c.Request.Context(), batch, c.GetHeader(idempotencyHeader))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if replayed {
			c.JSON(http.StatusOK, result)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func listRecent(svc *requestsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultRecentLimit
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = n
		}
		if limit > maxRecentLimit {
			limit = maxRecentLimit
		}

		requests, err := svc.ListRecent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if requests == nil {
			requests = []domainrequest.Request{}
		}
		c.JSON(http.StatusOK, requests)
	}
}

func getRequest(svc *requestsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		r, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, portrequest.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func completeRequest(svc *requestsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		r, err := svc.Complete(c.Request.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, portrequest.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, portrequest.ErrNotAssigned):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, r)
	}
}
