package handlers

import (
	"net/http"

	"battery-arbitrage/internal/api/models"
	"battery-arbitrage/internal/data"
	"battery-arbitrage/internal/strategy"

	"github.com/gin-gonic/gin"
)

// StrategyHandler handles strategy-related requests
type StrategyHandler struct {
	defaultEfficiency float64
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(defaultEfficiency float64) *StrategyHandler {
	return &StrategyHandler{defaultEfficiency: defaultEfficiency}
}

// ListStrategies handles GET /api/v1/strategies
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	strategies := []models.StrategyInfo{
		{
			Name: strategy.NewArbitrageStrategy(strategy.Schedule{}).Name(),
			Description: "Charges in the cheapest hours and discharges in the dearest, " +
				"dropping pairs whose charge price exceeds the efficiency-derated discharge price.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "efficiency",
					Type:        "float",
					Description: "Round-trip efficiency in (0, 1]",
					Default:     h.defaultEfficiency,
				},
				{
					Name:        "charge_budget",
					Type:        "int",
					Description: "Candidate charging hours before pruning (fixed)",
					Default:     strategy.ChargeBudget,
				},
				{
					Name:        "discharge_budget",
					Type:        "int",
					Description: "Candidate discharging hours before pruning (fixed)",
					Default:     strategy.DischargeBudget,
				},
				{
					Name:        "default_price",
					Type:        "float",
					Description: "Price used for hours missing from an uploaded CSV",
					Default:     data.DefaultPrice,
				},
			},
		},
	}

	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}
