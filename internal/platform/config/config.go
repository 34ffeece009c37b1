package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Authority captures connection settings for one external authority.
type Authority struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
	// FailOpenScore is the score reported when an advisory authority is
	// unreachable. Ignored for fail-closed authorities.
	FailOpenScore int `mapstructure:"fail_open_score"`
}

// Tax carries the externally configurable parts of the levy schedule.
type Tax struct {
	PriceStabilizationRate string `mapstructure:"price_stabilization_rate"`
	SubsidyLevyPerLitre    string `mapstructure:"subsidy_levy_per_litre"`
}

// Quality selects the in-process standards table.
type Quality struct {
	Jurisdiction  string        `mapstructure:"jurisdiction"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FailOpenScore int           `mapstructure:"fail_open_score"`
}

// Events configures the validation-completed event stream.
type Events struct {
	KafkaBrokers string `mapstructure:"kafka_brokers"`
	Topic        string `mapstructure:"topic"`
	BufferSize   int    `mapstructure:"buffer_size"`
}

// Breaker configures the per-authority circuit breakers.
type Breaker struct {
	FailureThreshold int           `mapstructure:"failure_threshold"`
	Cooldown         time.Duration `mapstructure:"cooldown"`
}

// Tracing configures span export. Disabled tracing uses a no-op tracer.
type Tracing struct {
	Enabled    bool    `mapstructure:"enabled"`
	Endpoint   string  `mapstructure:"endpoint"`
	Insecure   bool    `mapstructure:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Server captures process level configuration.
type Server struct {
	Addr        string        `mapstructure:"addr"`
	Environment string        `mapstructure:"environment"`
	LogLevel    string        `mapstructure:"log_level"`
	RunDeadline time.Duration `mapstructure:"run_deadline"`
	Tracing     Tracing       `mapstructure:"tracing"`

	Permit        Authority `mapstructure:"permit"`
	Customs       Authority `mapstructure:"customs"`
	Environmental Authority `mapstructure:"environmental"`
	Subsidy       Authority `mapstructure:"subsidy"`
	Quality       Quality   `mapstructure:"quality"`
	Tax           Tax       `mapstructure:"tax"`
	Events        Events    `mapstructure:"events"`
	Breaker       Breaker   `mapstructure:"breaker"`
}

// Defaults mirror the authority timeouts and fail-open scores the engine is
// certified with; the run deadline sits just above the slowest client.
var defaults = map[string]any{
	"addr":         ":8080",
	"environment":  "development",
	"log_level":    "info",
	"run_deadline": "35s",

	"tracing.enabled":     false,
	"tracing.endpoint":    "localhost:4317",
	"tracing.insecure":    true,
	"tracing.sample_rate": 1.0,

	"permit.base_url":  "http://localhost:9101",
	"permit.timeout":   "30s",
	"customs.base_url": "http://localhost:9102",
	"customs.timeout":  "30s",

	"environmental.base_url":        "http://localhost:9103",
	"environmental.timeout":         "15s",
	"environmental.fail_open_score": 70,
	"subsidy.base_url":              "http://localhost:9104",
	"subsidy.timeout":               "15s",
	"subsidy.fail_open_score":       70,

	"quality.jurisdiction":    "GH",
	"quality.timeout":         "15s",
	"quality.fail_open_score": 75,

	"tax.price_stabilization_rate": "0",
	"tax.subsidy_levy_per_litre":   "0.16",

	"events.topic":       "compliance.validation.completed",
	"events.buffer_size": 256,

	"breaker.failure_threshold": 5,
	"breaker.cooldown":          "30s",
}

// Load reads configuration from FUELGUARD_* environment variables and an
// optional .env file in dir. Nested keys use underscores, e.g.
// FUELGUARD_PERMIT_BASE_URL or FUELGUARD_EVENTS_KAFKA_BROKERS.
func Load(dir string) (Server, error) {
	v := viper.New()
	v.SetEnvPrefix("FUELGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{
		"permit.api_key", "customs.api_key", "environmental.api_key", "subsidy.api_key",
		"permit.fail_open_score", "customs.fail_open_score", "events.kafka_brokers",
	} {
		_ = v.BindEnv(key)
	}

	if dir != "" {
		v.AddConfigPath(dir)
		v.SetConfigName(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return Server{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return Server{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (c Server) validate() error {
	slowest := c.Permit.Timeout
	for _, t := range []time.Duration{c.Customs.Timeout, c.Environmental.Timeout, c.Subsidy.Timeout, c.Quality.Timeout} {
		if t > slowest {
			slowest = t
		}
	}
	if c.RunDeadline <= slowest {
		return fmt.Errorf("run_deadline %s must exceed the slowest authority timeout %s", c.RunDeadline, slowest)
	}
	for _, fo := range []struct {
		name  string
		score int
	}{
		{"environmental", c.Environmental.FailOpenScore},
		{"subsidy", c.Subsidy.FailOpenScore},
		{"quality", c.Quality.FailOpenScore},
	} {
		if fo.score < 0 || fo.score > 100 {
			return fmt.Errorf("%s fail_open_score %d out of range 0-100", fo.name, fo.score)
		}
	}
	return nil
}
