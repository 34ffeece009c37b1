package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"fuelguard/internal/platform/config"
	"fuelguard/internal/platform/logger"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/compliance.
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		logger.New("error").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	log.Info("initializing fuelguard",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"quality_jurisdiction", cfg.Quality.Jurisdiction,
		"run_deadline", cfg.RunDeadline,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := build(cfg, log, reg)
	if err != nil {
		log.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
		// A validation run may take up to the run deadline.
		WriteTimeout: cfg.RunDeadline + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunDeadline+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	// In-flight runs have finished, so every queued event is flushed here.
	if err := a.Close(); err != nil {
		log.Error("failed to close event pipeline", "error", err)
	}

	log.Info("server stopped")
}
