package handlers

import (
	"errors"
	"net/http"

	"battery-arbitrage/internal/api/models"
	"battery-arbitrage/internal/data"
	"battery-arbitrage/internal/model"
	"battery-arbitrage/internal/strategy"

	"github.com/gin-gonic/gin"
)

var errNotFound = errors.New("not found")

func abortWithError(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}

// writeError maps domain errors onto the API error envelope.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidPrices):
		abortWithError(c, http.StatusBadRequest, "INVALID_PRICES", err)
	case errors.Is(err, model.ErrInvalidDevice):
		abortWithError(c, http.StatusBadRequest, "INVALID_DEVICE", err)
	case errors.Is(err, strategy.ErrInvalidSchedule):
		abortWithError(c, http.StatusBadRequest, "INVALID_SCHEDULE", err)
	case errors.Is(err, data.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, "INVALID_CSV", err)
	case errors.Is(err, errNotFound):
		abortWithError(c, http.StatusNotFound, "NOT_FOUND", err)
	default:
		abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err)
	}
}
