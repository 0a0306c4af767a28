package middleware

import (
	"fmt"
	"io"
	"net/http"

	"battery-arbitrage/internal/api/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrorHandler middleware recovers panics into the API error envelope.
// String and error panic values are surfaced as the message.
func ErrorHandler(log *zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered interface{}) {
		message := "An unexpected error occurred"
		switch v := recovered.(type) {
		case string:
			message = v
		case error:
			message = v.Error()
		}
		log.Error().
			Str("path", c.Request.URL.Path).
			Str("panic", fmt.Sprint(recovered)).
			Msg("recovered panic")

		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
	})
}
