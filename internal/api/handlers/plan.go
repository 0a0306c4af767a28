package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"battery-arbitrage/internal/analysis"
	"battery-arbitrage/internal/api/models"
	"battery-arbitrage/internal/config"
	"battery-arbitrage/internal/data"
	"battery-arbitrage/internal/logger"
	"battery-arbitrage/internal/model"
	"battery-arbitrage/internal/planner"

	"github.com/gin-gonic/gin"
)

// PlanHandler handles plan-related requests
type PlanHandler struct {
	planner   *planner.Planner
	store     *data.Store[*planner.Plan]
	device    config.DeviceConfig
	deviceDir string
	seed      int64
	log       logger.Logger
}

// PlanHandlerConfig bundles the dependencies of a PlanHandler
type PlanHandlerConfig struct {
	Planner   *planner.Planner
	Store     *data.Store[*planner.Plan]
	Device    config.DeviceConfig
	DeviceDir string
	Seed      int64 // default seed for random prices; 0 = time based
	Logger    logger.Logger
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(cfg PlanHandlerConfig) *PlanHandler {
	log := cfg.Logger
	if log == nil {
		log = logger.NopLogger{}
	}
	p := cfg.Planner
	if p == nil {
		p = planner.New(log)
	}
	return &PlanHandler{
		planner:   p,
		store:     cfg.Store,
		device:    cfg.Device,
		deviceDir: cfg.DeviceDir,
		seed:      cfg.Seed,
		log:       log,
	}
}

// CreatePlan handles POST /api/v1/plan
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	device, err := h.resolveDevice(req.DeviceID, req.Device, req.Efficiency)
	if err != nil {
		writeError(c, err)
		return
	}

	h.respond(c, toSeries(req.Prices), device, nil)
}

// UploadPlan handles POST /api/v1/plan/upload (multipart field "file")
func (h *PlanHandler) UploadPlan(c *gin.Context) {
	var form models.UploadForm
	if err := c.ShouldBind(&form); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FILE", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FILE", err)
		return
	}
	defer f.Close()

	imported, err := data.ImportPricesCSV(f, data.ImportOptions{Strict: form.Strict})
	if err != nil {
		h.log.Warnf("upload %s rejected: %v", fh.Filename, err)
		writeError(c, err)
		return
	}
	if len(imported.Backfilled) > 0 {
		h.log.Infof("upload %s: backfilled hours %v with %.0f", fh.Filename, imported.Backfilled, data.DefaultPrice)
	}

	device, err := h.resolveDevice(form.DeviceID, nil, form.Efficiency)
	if err != nil {
		writeError(c, err)
		return
	}

	h.respond(c, imported.Series, device, &models.ImportSummary{
		Backfilled:   nonNil(imported.Backfilled),
		Skipped:      imported.Skipped,
		DefaultPrice: data.DefaultPrice,
	})
}

// RandomPlan handles GET /api/v1/plan/random
func (h *PlanHandler) RandomPlan(c *gin.Context) {
	var req models.RandomPlanRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	device, err := h.resolveDevice(req.DeviceID, nil, req.Efficiency)
	if err != nil {
		writeError(c, err)
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = h.seed
	}
	// one generator per request; Generator is not goroutine-safe
	prices := data.NewGenerator(seed).Generate()
	h.respond(c, prices, device, nil)
}

// GetPlan handles GET /api/v1/plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	id := c.Param("id")
	plan, ok := h.store.Get(id)
	if !ok {
		writeError(c, fmt.Errorf("plan %q: %w", id, errNotFound))
		return
	}
	c.JSON(http.StatusOK, buildPlanResponse(plan, nil))
}

// Sweep handles POST /api/v1/sweep
func (h *PlanHandler) Sweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	device, err := h.resolveDevice(req.DeviceID, req.Device, nil)
	if err != nil {
		writeError(c, err)
		return
	}

	points, err := analysis.SweepEfficiency(h.planner, toSeries(req.Prices), device, req.Efficiencies)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := models.SweepResponse{Points: make([]models.SweepPoint, len(points))}
	for i, p := range points {
		resp.Points[i] = models.SweepPoint{
			Efficiency:       p.Efficiency,
			ChargingHours:    nonNil(p.ChargingHours),
			DischargingHours: nonNil(p.DischargingHours),
			Pruned:           p.Pruned,
			NetRevenue:       p.NetRevenue,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Helper methods

func (h *PlanHandler) respond(c *gin.Context, prices model.PriceSeries, device model.DeviceSpec, imp *models.ImportSummary) {
	plan, err := h.planner.Run(prices, device)
	if err != nil {
		writeError(c, err)
		return
	}
	h.store.Set(plan.ID, plan)
	c.JSON(http.StatusOK, buildPlanResponse(plan, imp))
}

// resolveDevice layers: configured default < preset file < request device fields < efficiency.
func (h *PlanHandler) resolveDevice(deviceID string, override *models.DeviceConfig, efficiency *float64) (model.DeviceSpec, error) {
	dc := h.device
	if deviceID != "" {
		loaded, err := config.LoadPreset(h.deviceDir, deviceID)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return model.DeviceSpec{}, fmt.Errorf("device %q: %w", deviceID, errNotFound)
			}
			return model.DeviceSpec{}, err
		}
		dc = config.MergeDevice(dc, loaded)
	}
	device := applyOverride(dc.ToModel(), override)
	if efficiency != nil {
		device = device.WithEfficiency(*efficiency)
	}
	return device, device.Validate()
}

// applyOverride copies every field the request set, zero values included,
// so that Validate rejects them instead of them being ignored.
func applyOverride(d model.DeviceSpec, o *models.DeviceConfig) model.DeviceSpec {
	if o == nil {
		return d
	}
	if o.Name != "" {
		d.Name = o.Name
	}
	if o.CapacityMWh != nil {
		d.CapacityMWh = *o.CapacityMWh
	}
	if o.PowerLimitMW != nil {
		d.PowerLimitMW = *o.PowerLimitMW
	}
	if o.Efficiency != nil {
		d.Efficiency = *o.Efficiency
	}
	return d
}

func toSeries(points []models.PricePoint) model.PriceSeries {
	out := make(model.PriceSeries, len(points))
	for i, p := range points {
		out[i] = model.PricePoint{Hour: p.Hour, Price: p.Price}
	}
	return out
}

func buildPlanResponse(plan *planner.Plan, imp *models.ImportSummary) models.PlanResponse {
	res := plan.Result
	status := "scheduled"
	if plan.Schedule.Empty() {
		status = "no_arbitrage"
	}

	pruned := make([]models.PrunedPair, len(plan.Pruned))
	for i, p := range plan.Pruned {
		pruned[i] = models.PrunedPair{
			ChargingHour:     p.ChargingHour,
			DischargingHour:  p.DischargingHour,
			ChargingCost:     p.ChargingCost,
			DischargingValue: p.DischargingValue,
		}
	}

	sum := analysis.Summarize(plan.Prices)
	return models.PlanResponse{
		ID:        plan.ID,
		Status:    status,
		CreatedAt: plan.CreatedAt,
		Device: models.DeviceInfo{
			Name:         plan.Device.Name,
			CapacityMWh:  plan.Device.CapacityMWh,
			PowerLimitMW: plan.Device.PowerLimitMW,
			Efficiency:   plan.Device.Efficiency,
		},
		Schedule: models.Schedule{
			ChargingHours:    nonNil(plan.Schedule.ChargingHours),
			DischargingHours: nonNil(plan.Schedule.DischargingHours),
		},
		Pruned: pruned,
		Summary: models.PlanSummary{
			TotalChargingCost:       res.TotalChargingCost,
			TotalDischargingRevenue: res.TotalDischargingRevenue,
			NetRevenue:              res.NetRevenue,
			EnergyChargedMWh:        res.EnergyChargedMWh,
			EnergyDischargedMWh:     res.EnergyDischargedMWh,
			FinalSOCPercent:         res.FinalSOCPercent,
		},
		Prices: models.PriceSummary{
			Min:    sum.Min,
			Max:    sum.Max,
			Mean:   sum.Mean,
			StdDev: sum.StdDev,
			P05:    sum.P05,
			P95:    sum.P95,
			Spread: sum.Spread,
		},
		Trajectory: convertTrajectory(plan),
		Import:     imp,
	}
}

func convertTrajectory(plan *planner.Plan) []models.HourlyState {
	out := make([]models.HourlyState, len(plan.Result.Trajectory))
	for i, row := range plan.Result.Trajectory {
		out[i] = models.HourlyState{
			Hour:              row.Hour,
			Price:             row.Price,
			Action:            string(row.Action),
			PowerMW:           row.PowerMW,
			EnergyFromGridMWh: row.EnergyFromGridMWh,
			EnergyToGridMWh:   row.EnergyToGridMWh,
			SOCMWh:            row.SOCEndMWh,
			SOCPercent:        row.SOCPercent,
			CumRevenue:        row.CumRevenue,
		}
	}
	return out
}

func nonNil(xs []int) []int {
	if xs == nil {
		return []int{}
	}
	return xs
}
