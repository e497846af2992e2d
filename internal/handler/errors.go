package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/kerbside-backend-go/internal/models"
	"github.com/jengzang/kerbside-backend-go/pkg/response"
)

// writeError maps a service error onto a status code
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, models.ErrDestinationNotResolved):
		response.Error(c, http.StatusNotFound, models.ErrDestinationNotResolved.Error(), err)
	case errors.Is(err, models.ErrNoSnapshot):
		response.Error(c, http.StatusServiceUnavailable, "bay data is still loading", err)
	default:
		response.Error(c, http.StatusInternalServerError, "internal error", err)
	}
}
