package handlers

import (
	"net/http"

	"battery-arbitrage/internal/api/models"
	"battery-arbitrage/internal/config"
	"battery-arbitrage/internal/logger"

	"github.com/gin-gonic/gin"
)

// DeviceHandler handles device preset requests
type DeviceHandler struct {
	deviceDir string
	log       logger.Logger
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(deviceDir string, log logger.Logger) *DeviceHandler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &DeviceHandler{deviceDir: deviceDir, log: log}
}

// ListDevices handles GET /api/v1/devices
func (h *DeviceHandler) ListDevices(c *gin.Context) {
	devices := []models.DeviceInfo{}

	presets, skipped, err := config.ListDevices(h.deviceDir)
	if err != nil {
		// A missing presets directory is not an error for clients.
		h.log.Warnf("device directory %s unreadable: %v", h.deviceDir, err)
		c.JSON(http.StatusOK, gin.H{"devices": devices})
		return
	}
	for name, err := range skipped {
		h.log.Warnf("skipping device file %s: %v", name, err)
	}

	for _, p := range presets {
		devices = append(devices, models.DeviceInfo{
			ID:           p.ID,
			Name:         p.Device.Name,
			File:         p.File,
			CapacityMWh:  p.Device.CapacityMWh,
			PowerLimitMW: p.Device.PowerLimitMW,
			Efficiency:   p.Device.Efficiency,
		})
	}
	c.JSON(http.StatusOK, gin.H{"devices": devices})
}
