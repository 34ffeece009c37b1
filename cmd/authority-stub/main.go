// Command authority-stub serves canned responses for every regulatory
// authority the compliance engine consults, for local runs and e2e tests.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fuelguard/internal/platform/logger"
)

const (
	defaultPort      = "9100"
	defaultLatencyMs = "50"
)

func main() {
	log := logger.New(getEnv("LOG_LEVEL", "info"))

	latency, err := strconv.Atoi(getEnv("LATENCY_MS", defaultLatencyMs))
	if err != nil || latency < 0 {
		log.Error("invalid LATENCY_MS", "value", os.Getenv("LATENCY_MS"))
		os.Exit(1)
	}

	stub := newStub(stubConfig{
		APIKey:  os.Getenv("API_KEY"),
		Latency: time.Duration(latency) * time.Millisecond,
	}, log)

	srv := &http.Server{
		Addr:              ":" + getEnv("PORT", defaultPort),
		Handler:           stub.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("authority stub starting", "addr", srv.Addr, "latency_ms", latency, "api_key_required", stub.cfg.APIKey != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("authority stub error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("authority stub shutdown error", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
