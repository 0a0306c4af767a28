package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"battery-arbitrage/internal/api"
	"battery-arbitrage/internal/config"
	"battery-arbitrage/internal/data"
	"battery-arbitrage/internal/logger"
	"battery-arbitrage/internal/planner"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG"), "path to config YAML (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}
	logger.SetLevel(cfg.Logging.Level)
	log := logger.New("api")

	if wd, err := os.Getwd(); err == nil {
		log.Infof("Working directory: %s", wd)
	}
	if info, err := os.Stat(cfg.Server.DeviceDir); err != nil || !info.IsDir() {
		log.Warnf("Device directory not found at: %s", cfg.Server.DeviceDir)
	}

	store := data.NewStore[*planner.Plan](cfg.Store.TTL, 0)
	defer store.Close()

	router := api.NewRouter(api.Deps{Config: cfg, Store: store, Logger: log})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("Starting API server on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Failed to start server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Shutdown: %v", err)
	}
}
