package otel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Exporter selects where spans and metrics are sent.
type Exporter string

const (
	ExporterStdout Exporter = "stdout"
	ExporterOTLP   Exporter = "otlp"
	// ExporterNone keeps the providers but exports nothing.
	ExporterNone Exporter = "none"
)

// ParseExporter validates s as an Exporter.
func ParseExporter(s string) (Exporter, error) {
	switch e := Exporter(s); e {
	case ExporterStdout, ExporterOTLP, ExporterNone:
		return e, nil
	}
	return "", fmt.Errorf("unsupported exporter %q (use %q, %q or %q)", s, ExporterStdout, ExporterOTLP, ExporterNone)
}

const (
	defaultSampleRatio    = 1.0
	defaultMetricInterval = time.Minute
)

// Config holds OpenTelemetry provider configuration. Zero SampleRatio and
// MetricInterval fall back to their defaults in Setup.
type Config struct {
	ServiceName    string        `env:"OTEL_SERVICE_NAME" envDefault:"growspace"`
	ServiceVersion string        `env:"OTEL_SERVICE_VERSION" envDefault:"0.1.0"`
	Environment    string        `env:"OTEL_ENVIRONMENT" envDefault:"development"`
	Exporter       Exporter      `env:"OTEL_EXPORTER" envDefault:"stdout"`
	Insecure       bool          `env:"OTEL_INSECURE"` // plain HTTP to the OTLP collector
	SampleRatio    float64       `env:"OTEL_TRACE_SAMPLE_RATIO" envDefault:"1"`
	MetricInterval time.Duration `env:"OTEL_METRIC_INTERVAL" envDefault:"1m"`
}

// ConfigFromEnv reads Config from the environment and validates it.
// Development always talks plain HTTP to the collector.
func ConfigFromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parsing otel config: %w", err)
	}
	if _, err := ParseExporter(string(cfg.Exporter)); err != nil {
		return Config{}, err
	}
	if cfg.SampleRatio <= 0 || cfg.SampleRatio > 1 {
		return Config{}, fmt.Errorf("OTEL_TRACE_SAMPLE_RATIO must be in (0, 1], got %v", cfg.SampleRatio)
	}
	if cfg.MetricInterval <= 0 {
		return Config{}, fmt.Errorf("OTEL_METRIC_INTERVAL must be positive, got %v", cfg.MetricInterval)
	}
	if cfg.Environment == "development" {
		cfg.Insecure = true
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	if c.SampleRatio <= 0 {
		c.SampleRatio = defaultSampleRatio
	}
	if c.MetricInterval <= 0 {
		c.MetricInterval = defaultMetricInterval
	}
	return c
}

// Providers holds the registered providers. Shutdown flushes pending
// telemetry and must be called on exit.
type Providers struct {
	Shutdown func(ctx context.Context) error
}

// Setup builds the tracer and meter providers for cfg and installs them,
// together with W3C trace-context and baggage propagation, as the globals.
func Setup(ctx context.Context, cfg Config) (*Providers, error) {
	cfg = cfg.withDefaults()
	if _, err := ParseExporter(string(cfg.Exporter)); err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating otel resource: %w", err)
	}

	exp, err := newExporters(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tracerOpts := []trace.TracerProviderOption{
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(cfg.SampleRatio))),
	}
	if exp.spans != nil {
		tracerOpts = append(tracerOpts, trace.WithBatcher(exp.spans))
	}
	tp := trace.NewTracerProvider(tracerOpts...)

	meterOpts := []metric.Option{metric.WithResource(res)}
	if exp.metrics != nil {
		meterOpts = append(meterOpts, metric.WithReader(
			metric.NewPeriodicReader(exp.metrics, metric.WithInterval(cfg.MetricInterval)),
		))
	}
	mp := metric.NewMeterProvider(meterOpts...)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Providers{Shutdown: func(ctx context.Context) error {
		var errs []error
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		return errors.Join(errs...)
	}}, nil
}

// exporters pairs the span and metric exporters of one backend. Both are
// nil for ExporterNone.
type exporters struct {
	spans   trace.SpanExporter
	metrics metric.Exporter
}

func newExporters(ctx context.Context, cfg Config) (exporters, error) {
	switch cfg.Exporter {
	case ExporterNone:
		return exporters{}, nil

	case ExporterStdout:
		spans, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return exporters{}, fmt.Errorf("creating stdout span exporter: %w", err)
		}
		metrics, err := stdoutmetric.New()
		if err != nil {
			return exporters{}, fmt.Errorf("creating stdout metric exporter: %w", err)
		}
		return exporters{spans: spans, metrics: metrics}, nil

	case ExporterOTLP:
		var (
			traceOpts  []otlptracehttp.Option
			metricOpts []otlpmetrichttp.Option
		)
		if cfg.Insecure {
			traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
			metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
		}
		spans, err := otlptracehttp.New(ctx, traceOpts...)
		if err != nil {
			return exporters{}, fmt.Errorf("creating otlp span exporter: %w", err)
		}
		metrics, err := otlpmetrichttp.New(ctx, metricOpts...)
		if err != nil {
			_ = spans.Shutdown(ctx)
			return exporters{}, fmt.Errorf("creating otlp metric exporter: %w", err)
		}
		return exporters{spans: spans, metrics: metrics}, nil
	}
	return exporters{}, fmt.Errorf("unsupported exporter %q", cfg.Exporter)
}
