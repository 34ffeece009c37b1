package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// HealthChecker dials the configured brokers for readiness probes.
type HealthChecker struct {
	brokers []string
	timeout time.Duration
}

func NewHealthChecker(brokers []string) *HealthChecker {
	return &HealthChecker{brokers: brokers, timeout: 2 * time.Second}
}

// Check succeeds when at least one broker accepts a TCP connection.
func (h *HealthChecker) Check(ctx context.Context) error {
	if len(h.brokers) == 0 {
		return errors.New("kafka brokers not configured")
	}

	var lastErr error
	dialer := net.Dialer{Timeout: h.timeout}
	for _, broker := range h.brokers {
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		_ = conn.Close()
		return nil
	}
	return fmt.Errorf("no kafka brokers reachable: %w", lastErr)
}

func (h *HealthChecker) Name() string {
	return "kafka"
}
