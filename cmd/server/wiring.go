package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"fuelguard/internal/compliance/aggregator"
	"fuelguard/internal/compliance/authorities"
	"fuelguard/internal/compliance/authorities/adapters"
	"fuelguard/internal/compliance/authorities/customs"
	"fuelguard/internal/compliance/authorities/environmental"
	"fuelguard/internal/compliance/authorities/permit"
	"fuelguard/internal/compliance/authorities/quality"
	"fuelguard/internal/compliance/authorities/subsidy"
	"fuelguard/internal/compliance/events"
	"fuelguard/internal/compliance/handler"
	cmetrics "fuelguard/internal/compliance/metrics"
	"fuelguard/internal/compliance/models"
	"fuelguard/internal/compliance/taxrules"
	"fuelguard/internal/platform/config"
	"fuelguard/internal/platform/health"
	"fuelguard/internal/platform/kafka"
	"fuelguard/internal/platform/kafka/producer"
	"fuelguard/internal/platform/metrics"
	"fuelguard/internal/platform/middleware"
	"fuelguard/internal/platform/tracer"
	"fuelguard/pkg/platform/circuit"
)

// app holds what main needs to serve and shut down.
type app struct {
	router    http.Handler
	service   *aggregator.Service
	publisher *events.Publisher
	producer  *producer.Producer
	traces    *sdktrace.TracerProvider
}

// Close drains queued events before the producer goes away, then flushes
// buffered spans.
func (a *app) Close() error {
	a.publisher.Close()
	var errs []error
	if a.producer != nil {
		errs = append(errs, a.producer.Close())
	}
	if a.traces != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, a.traces.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// build wires the compliance engine and its HTTP surface from cfg.
func build(cfg config.Server, log *slog.Logger, reg *prometheus.Registry) (*app, error) {
	complianceMetrics := cmetrics.New(reg)
	httpMetrics := metrics.New(reg)

	breaker := func(name string) *circuit.Breaker {
		return circuit.New(name,
			circuit.WithFailureThreshold(cfg.Breaker.FailureThreshold),
			circuit.WithCooldown(cfg.Breaker.Cooldown),
			circuit.WithStateChange(func(name string, from, to circuit.State) {
				log.Warn("authority circuit breaker state changed",
					"authority", name,
					"from", from.String(),
					"to", to.String(),
				)
				complianceMetrics.RecordBreakerTransition(name, to.String())
			}),
		)
	}
	client := func(name string, a config.Authority) *adapters.Client {
		return adapters.New(adapters.Config{
			Authority: name,
			BaseURL:   a.BaseURL,
			APIKey:    a.APIKey,
			Timeout:   a.Timeout,
			Breaker:   breaker(name),
		})
	}

	permitHTTP := client("permit", cfg.Permit)
	customsHTTP := client("customs", cfg.Customs)
	environmentalHTTP := client("environmental", cfg.Environmental)
	subsidyHTTP := client("subsidy", cfg.Subsidy)

	qualityEvaluator, err := quality.NewDefault(cfg.Quality.Jurisdiction)
	if err != nil {
		return nil, fmt.Errorf("load quality standards: %w", err)
	}

	schedule, err := taxSchedule(cfg.Tax)
	if err != nil {
		return nil, err
	}

	policies := authorities.DefaultPolicies()
	policies.Permit.Timeout = cfg.Permit.Timeout
	policies.Customs.Timeout = cfg.Customs.Timeout
	policies.Environmental.Timeout = cfg.Environmental.Timeout
	policies.Environmental.DefaultScore = cfg.Environmental.FailOpenScore
	policies.Subsidy.Timeout = cfg.Subsidy.Timeout
	policies.Subsidy.DefaultScore = cfg.Subsidy.FailOpenScore
	policies.Quality.Timeout = cfg.Quality.Timeout
	policies.Quality.DefaultScore = cfg.Quality.FailOpenScore

	probes := health.New(cfg.Environment)
	for name, c := range map[string]*adapters.Client{
		"permit":        permitHTTP,
		"customs":       customsHTTP,
		"environmental": environmentalHTTP,
		"subsidy":       subsidyHTTP,
	} {
		probes.RegisterCheck(name, c.Health)
	}

	var tr tracer.Tracer = tracer.NewNoop()
	var tp *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tp, err = tracer.NewProvider(context.Background(), tracer.ProviderConfig{
			ServiceName: "fuelguard",
			Environment: cfg.Environment,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
			SampleRate:  cfg.Tracing.SampleRate,
		})
		if err != nil {
			return nil, fmt.Errorf("start tracing: %w", err)
		}
		tr = tracer.NewOTel()
	}

	var (
		sink events.Sink = events.NewLogSink(log)
		prod *producer.Producer
	)
	if brokers := kafka.ParseBrokers(cfg.Events.KafkaBrokers); len(brokers) > 0 {
		pcfg := kafka.DefaultProducerConfig()
		pcfg.Brokers = brokers
		prod, err = producer.New(pcfg, log)
		if err != nil {
			if tp != nil {
				_ = tp.Shutdown(context.Background())
			}
			return nil, fmt.Errorf("create kafka producer: %w", err)
		}
		sink = events.NewKafkaSink(prod, cfg.Events.Topic)
		probes.RegisterCheck("kafka", kafka.NewHealthChecker(brokers).Check)
		probes.RegisterCheck("kafka_producer", prod.Ping)
	} else {
		log.Warn("no kafka brokers configured, validation events will be logged only")
	}
	publisher := events.NewPublisher(sink,
		events.WithAsyncBuffer(cfg.Events.BufferSize),
		events.WithLogger(log),
		events.WithMetrics(complianceMetrics),
	)

	service := aggregator.New(
		aggregator.Authorities{
			Permit:        permit.New(permitHTTP),
			Customs:       customs.New(customsHTTP),
			Environmental: environmental.New(environmentalHTTP),
			Quality:       qualityEvaluator,
			Subsidy:       subsidy.New(subsidyHTTP),
		},
		taxrules.New(taxrules.WithSchedule(schedule)),
		aggregator.WithPolicies(policies),
		aggregator.WithRunDeadline(cfg.RunDeadline),
		aggregator.WithPublisher(publisher),
		aggregator.WithMetrics(complianceMetrics),
		aggregator.WithLogger(log),
		aggregator.WithTracer(tr),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log, httpMetrics))

	probes.Register(r)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		handler.New(service, log).Register(r)
	})

	return &app{
		router:    r,
		service:   service,
		publisher: publisher,
		producer:  prod,
		traces:    tp,
	}, nil
}

// taxSchedule applies the configurable rates to the statutory schedule.
func taxSchedule(cfg config.Tax) (taxrules.Schedule, error) {
	stabilization, err := decimal.NewFromString(cfg.PriceStabilizationRate)
	if err != nil {
		return taxrules.Schedule{}, fmt.Errorf("tax.price_stabilization_rate: %w", err)
	}
	subsidyLevy, err := decimal.NewFromString(cfg.SubsidyLevyPerLitre)
	if err != nil {
		return taxrules.Schedule{}, fmt.Errorf("tax.subsidy_levy_per_litre: %w", err)
	}
	if stabilization.IsNegative() || subsidyLevy.IsNegative() {
		return taxrules.Schedule{}, errors.New("tax rates must not be negative")
	}
	return taxrules.DefaultSchedule().
		WithRate(models.TaxPriceStabilization, stabilization).
		WithRate(models.TaxSubsidyLevy, subsidyLevy), nil
}
