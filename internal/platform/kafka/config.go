package kafka

import (
	"strings"
	"time"
)

// ProducerConfig configures the compliance event producer.
type ProducerConfig struct {
	Brokers         []string
	Acks            string
	Retries         int
	DeliveryTimeout time.Duration
	ClientID        string
}

func DefaultProducerConfig() ProducerConfig {
	return ProducerConfig{
		Acks:            "all",
		Retries:         3,
		DeliveryTimeout: 10 * time.Second,
		ClientID:        "fuelguard",
	}
}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
