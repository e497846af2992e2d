package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/kerbside-backend-go/internal/models"
	"github.com/jengzang/kerbside-backend-go/internal/service"
	"github.com/jengzang/kerbside-backend-go/pkg/response"
)

// QueryHandler handles destination and nearest-bay requests
type QueryHandler struct {
	service *service.QueryService
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(service *service.QueryService) *QueryHandler {
	return &QueryHandler{service: service}
}

type destinationQuery struct {
	Q string `form:"q" binding:"required"`
}

// GetDestination handles GET /api/v1/destination
func (h *QueryHandler) GetDestination(c *gin.Context) {
	var q destinationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	res, err := h.service.QueryDestination(c.Request.Context(), q.Q)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, res)
}

// GetNearest handles GET /api/v1/nearest
func (h *QueryHandler) GetNearest(c *gin.Context) {
	var q models.PointQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	nearest, capturedAt, err := h.service.Nearest(q.Point())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{
		"nearest":              nearest,
		"snapshot_captured_at": capturedAt,
	})
}
