package api

import (
	"net/http"
	"os"
	"strings"

	"battery-arbitrage/internal/api/handlers"
	"battery-arbitrage/internal/api/middleware"
	"battery-arbitrage/internal/config"
	"battery-arbitrage/internal/data"
	"battery-arbitrage/internal/logger"
	"battery-arbitrage/internal/metrics"
	"battery-arbitrage/internal/planner"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config *config.Config
	Store  *data.Store[*planner.Plan]
	Logger *logger.ZerologLogger
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	log := d.Logger
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(log.Zerolog()))
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(log.Zerolog()))

	metrics.MustRegister(nil)

	planHandler := handlers.NewPlanHandler(handlers.PlanHandlerConfig{
		Planner:   planner.New(log),
		Store:     d.Store,
		Device:    cfg.Device,
		DeviceDir: cfg.Server.DeviceDir,
		Seed:      cfg.Generator.Seed,
		Logger:    log,
	})
	deviceHandler := handlers.NewDeviceHandler(cfg.Server.DeviceDir, log)
	strategyHandler := handlers.NewStrategyHandler(cfg.Device.Efficiency)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/plan", planHandler.CreatePlan)
		api.POST("/plan/upload", planHandler.UploadPlan)
		api.GET("/plan/random", planHandler.RandomPlan)
		api.GET("/plans/:id", planHandler.GetPlan)
		api.POST("/sweep", planHandler.Sweep)

		api.GET("/devices", deviceHandler.ListDevices)
		api.GET("/strategies", strategyHandler.ListStrategies)
	}

	serveStatic(router, cfg.Server.StaticDir, log)
	return router
}

// serveStatic serves the chart front-end from staticDir (if it exists).
func serveStatic(router *gin.Engine, staticDir string, log logger.Logger) {
	if staticDir == "" {
		return
	}
	if _, err := os.Stat(staticDir); err != nil {
		log.Infof("Static directory %s not found, skipping static file serving", staticDir)
		return
	}

	router.Static("/assets", staticDir+"/assets")
	router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")

	// Serve index.html for all non-API routes (SPA routing)
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
			return
		}
		c.File(staticDir + "/index.html")
	})
	log.Infof("Serving static files from %s", staticDir)
}
