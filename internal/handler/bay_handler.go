package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/kerbside-backend-go/internal/models"
	"github.com/jengzang/kerbside-backend-go/internal/service"
	"github.com/jengzang/kerbside-backend-go/pkg/response"
)

// BayHandler handles bay listing and snapshot status
type BayHandler struct {
	service *service.BayService
}

// NewBayHandler creates a new bay handler
func NewBayHandler(service *service.BayService) *BayHandler {
	return &BayHandler{service: service}
}

// ListBays handles GET /api/v1/bays
func (h *BayHandler) ListBays(c *gin.Context) {
	var filter models.BayFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	list, err := h.service.List(filter)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, list)
}

// GetSnapshot handles GET /api/v1/snapshot
func (h *BayHandler) GetSnapshot(c *gin.Context) {
	response.Success(c, h.service.Status())
}

// Health handles GET /health. It reports 503 until the first snapshot is loaded.
func (h *BayHandler) Health(c *gin.Context) {
	st := h.service.Status()
	if !st.Loaded {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "starting",
			"message": "waiting for first bay snapshot",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"bays":    st.Total,
		"updated": st.Updated,
	})
}
