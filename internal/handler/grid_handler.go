package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/kerbside-backend-go/internal/grid"
	"github.com/jengzang/kerbside-backend-go/internal/models"
	"github.com/jengzang/kerbside-backend-go/internal/service"
	"github.com/jengzang/kerbside-backend-go/pkg/response"
)

// GridHandler handles HTTP requests for availability grids
type GridHandler struct {
	service *service.QueryService
}

// NewGridHandler creates a new grid handler
func NewGridHandler(service *service.QueryService) *GridHandler {
	return &GridHandler{service: service}
}

// GetGrid handles GET /api/v1/grid
func (h *GridHandler) GetGrid(c *gin.Context) {
	center, opts, ok := h.bind(c)
	if !ok {
		return
	}

	cells, _, err := h.service.Grid(center, opts)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"cells": cells,
		"count": len(cells),
	})
}

// GetGridGeoJSON handles GET /api/v1/grid.geojson.
// The body is a bare FeatureCollection so map libraries can load it directly.
// Cells and the nearest bay come from the same snapshot.
func (h *GridHandler) GetGridGeoJSON(c *gin.Context) {
	center, opts, ok := h.bind(c)
	if !ok {
		return
	}

	res, err := h.service.Evaluate(center, opts)
	if err != nil {
		writeError(c, err)
		return
	}

	data, err := grid.FeatureCollection(res.Grid, &res.Destination, &res.Nearest).MarshalJSON()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to render grid", err)
		return
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}

func (h *GridHandler) bind(c *gin.Context) (models.GeoPoint, grid.Options, bool) {
	var q models.GridQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return models.GeoPoint{}, grid.Options{}, false
	}

	opts := h.service.GridOptions()
	if q.CellSize != nil {
		opts.CellSizeMeters = *q.CellSize
	}
	if q.Radius != nil {
		opts.RadiusCells = *q.Radius
	}
	return q.Point(), opts, true
}
