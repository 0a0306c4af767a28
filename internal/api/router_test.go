package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battery-arbitrage/internal/api/models"
	"battery-arbitrage/internal/config"
	"battery-arbitrage/internal/data"
	"battery-arbitrage/internal/logger"
	"battery-arbitrage/internal/planner"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Server.StaticDir = ""
	cfg.Server.DeviceDir = "../../examples/devices"

	store := data.NewStore[*planner.Plan](time.Hour, time.Minute)
	t.Cleanup(store.Close)

	return NewRouter(Deps{
		Config: cfg,
		Store:  store,
		Logger: logger.NewWithWriter("api", io.Discard),
	})
}

func peakPrices() []models.PricePoint {
	out := make([]models.PricePoint, 24)
	for h := range out {
		price := 50.0
		switch {
		case h <= 4:
			price = 10
		case h == 20:
			price = 100
		}
		out[h] = models.PricePoint{Hour: h, Price: price}
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func flatPrices(price float64) []models.PricePoint {
	out := make([]models.PricePoint, 24)
	for h := range out {
		out[h] = models.PricePoint{Hour: h, Price: price}
	}
	return out
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreatePlan(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/plan", models.PlanRequest{Prices: peakPrices()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.PlanResponse](t, w)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "scheduled", resp.Status)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, resp.Schedule.ChargingHours)
	assert.Equal(t, []int{20, 21, 22, 23}, resp.Schedule.DischargingHours)
	assert.Empty(t, resp.Pruned)
	assert.InDelta(t, 50, resp.Summary.TotalChargingCost, 1e-9)
	assert.InDelta(t, 250, resp.Summary.TotalDischargingRevenue, 1e-9)
	assert.InDelta(t, 200, resp.Summary.NetRevenue, 1e-9)
	assert.InDelta(t, 0, resp.Summary.FinalSOCPercent, 1e-9)
	assert.Len(t, resp.Trajectory, 24)
	assert.Equal(t, "CHARGING", resp.Trajectory[0].Action)
	assert.Equal(t, "DISCHARGING", resp.Trajectory[20].Action)
	assert.Equal(t, 0.8, resp.Device.Efficiency)
	assert.Nil(t, resp.Import)
}

func TestCreatePlan_NoArbitrage(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/plan", models.PlanRequest{Prices: flatPrices(50)})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[models.PlanResponse](t, w)
	assert.Equal(t, "no_arbitrage", resp.Status)
	assert.Equal(t, []int{}, resp.Schedule.ChargingHours)
	assert.Equal(t, []int{}, resp.Schedule.DischargingHours)
	require.Len(t, resp.Pruned, 5)
	assert.Equal(t, -1, resp.Pruned[4].DischargingHour)
	assert.Zero(t, resp.Summary.NetRevenue)
}

func TestCreatePlan_EfficiencyAndDeviceOverrides(t *testing.T) {
	r := newTestRouter(t)

	eff := 1.0
	w := doJSON(t, r, http.MethodPost, "/api/v1/plan", models.PlanRequest{
		Prices:     flatPrices(50),
		Efficiency: &eff,
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.PlanResponse](t, w)
	assert.Equal(t, "scheduled", resp.Status)
	assert.Empty(t, resp.Pruned)

	w = doJSON(t, r, http.MethodPost, "/api/v1/plan", models.PlanRequest{
		Prices:   peakPrices(),
		DeviceID: "2_utility_4h",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = decode[models.PlanResponse](t, w)
	assert.Equal(t, 200.0, resp.Device.CapacityMWh)
	assert.Equal(t, 50.0, resp.Device.PowerLimitMW)
	assert.Equal(t, 0.85, resp.Device.Efficiency)

	w = doJSON(t, r, http.MethodPost, "/api/v1/plan", models.PlanRequest{
		Prices: peakPrices(),
		Device: &models.DeviceConfig{CapacityMWh: ptr(2.0)},
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[models.PlanResponse](t, w)
	assert.Equal(t, 2.0, resp.Device.CapacityMWh)
	assert.Equal(t, 1.0, resp.Device.PowerLimitMW)
	assert.Equal(t, 0.8, resp.Device.Efficiency)
}

func TestCreatePlan_ExplicitZeroDeviceFieldsAreRejected(t *testing.T) {
	r := newTestRouter(t)

	for name, dev := range map[string]*models.DeviceConfig{
		"efficiency":  {Efficiency: ptr(0.0)},
		"capacity":    {CapacityMWh: ptr(0.0)},
		"power limit": {PowerLimitMW: ptr(0.0)},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/plan", models.PlanRequest{Prices: peakPrices(), Device: dev})
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
		assert.Equal(t, "INVALID_DEVICE", decode[models.ErrorResponse](t, w).Error.Code, name)
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/sweep", map[string]any{
		"prices":       peakPrices(),
		"efficiencies": []float64{0.8},
		"device":       map[string]any{"efficiency": 0},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePlan_Errors(t *testing.T) {
	r := newTestRouter(t)
	badEff := 1.5

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"malformed", "not an object", http.StatusBadRequest, "INVALID_REQUEST"},
		{"short day", models.PlanRequest{Prices: peakPrices()[:23]}, http.StatusBadRequest, "INVALID_PRICES"},
		{"efficiency", models.PlanRequest{Prices: peakPrices(), Efficiency: &badEff}, http.StatusBadRequest, "INVALID_DEVICE"},
		{"unknown preset", models.PlanRequest{Prices: peakPrices(), DeviceID: "nope"}, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/v1/plan", tt.body)
			assert.Equal(t, tt.status, w.Code)
			resp := decode[models.ErrorResponse](t, w)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func uploadRequest(t *testing.T, csv string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", "prices.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, csv)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plan/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func partialCSV() string {
	var b strings.Builder
	b.WriteString("Hour Ending,LMP ($/MWh)\n")
	for h := 0; h < 22; h++ {
		price := 50
		if h <= 4 {
			price = 10
		}
		if h == 20 {
			price = 100
		}
		fmt.Fprintf(&b, "%d,%d\n", h, price)
	}
	b.WriteString("late,75\n")
	return b.String()
}

func TestUploadPlan_Backfills(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, partialCSV(), map[string]string{"efficiency": "0.8"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.PlanResponse](t, w)
	require.NotNil(t, resp.Import)
	assert.Equal(t, []int{22, 23}, resp.Import.Backfilled)
	assert.Equal(t, 1, resp.Import.Skipped)
	assert.Equal(t, data.DefaultPrice, resp.Import.DefaultPrice)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, resp.Schedule.ChargingHours)
	assert.Contains(t, resp.Schedule.DischargingHours, 20)
}

func TestUploadPlan_Errors(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, partialCSV(), map[string]string{"strict": "true"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_CSV", decode[models.ErrorResponse](t, w).Error.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "a,b\n1,2\n", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_CSV", decode[models.ErrorResponse](t, w).Error.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/plan/upload", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRandomPlan_SeedIsReproducible(t *testing.T) {
	r := newTestRouter(t)

	first := decode[models.PlanResponse](t, doJSON(t, r, http.MethodGet, "/api/v1/plan/random?seed=7", nil))
	second := decode[models.PlanResponse](t, doJSON(t, r, http.MethodGet, "/api/v1/plan/random?seed=7", nil))

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Schedule, second.Schedule)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Prices, second.Prices)
	assert.GreaterOrEqual(t, first.Summary.NetRevenue, 0.0)

	w := doJSON(t, r, http.MethodGet, "/api/v1/plan/random?efficiency=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPlan(t *testing.T) {
	r := newTestRouter(t)

	created := decode[models.PlanResponse](t, doJSON(t, r, http.MethodPost, "/api/v1/plan", models.PlanRequest{Prices: peakPrices()}))

	w := doJSON(t, r, http.MethodGet, "/api/v1/plans/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.PlanResponse](t, w)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Schedule, got.Schedule)
	assert.Equal(t, created.Summary, got.Summary)

	w = doJSON(t, r, http.MethodGet, "/api/v1/plans/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[models.ErrorResponse](t, w).Error.Code)
}

func TestSweep(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/sweep", models.SweepRequest{
		Prices:       peakPrices(),
		Efficiencies: []float64{0.5, 0.8, 1.0},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.SweepResponse](t, w)
	require.Len(t, resp.Points, 3)
	assert.InDelta(t, 125, resp.Points[0].NetRevenue, 1e-9)
	assert.InDelta(t, 200, resp.Points[1].NetRevenue, 1e-9)
	assert.InDelta(t, 200, resp.Points[2].NetRevenue, 1e-9)
	for _, p := range resp.Points {
		assert.Len(t, p.ChargingHours, 5)
		assert.Len(t, p.DischargingHours, 4)
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/sweep", models.SweepRequest{
		Prices:       peakPrices(),
		Efficiencies: []float64{0.8, 1.1},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DEVICE", decode[models.ErrorResponse](t, w).Error.Code)
}

func TestListDevices(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/devices", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Devices []models.DeviceInfo `json:"devices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Devices, 3)
	assert.Equal(t, "1_explainer_4h", resp.Devices[0].ID)
	assert.Equal(t, 4.0, resp.Devices[0].CapacityMWh)
}

func TestListStrategies(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/strategies", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Strategies []models.StrategyInfo `json:"strategies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Strategies, 1)
	assert.Equal(t, "arbitrage", resp.Strategies[0].Name)
	assert.Equal(t, "efficiency", resp.Strategies[0].Parameters[0].Name)
	assert.Equal(t, 0.8, resp.Strategies[0].Parameters[0].Default)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/api/v1/plan", models.PlanRequest{Prices: peakPrices()})

	w := doJSON(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "arbitrage_runs_total")
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/plan", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPanicRecovery(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := doJSON(t, r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.Equal(t, "boom", resp.Error.Message)
}
