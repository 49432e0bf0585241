// Package observability sets up OpenTelemetry tracing for the service.
//
// Tracing is opt-in through config. SetupOTel wires an OTLP/gRPC span
// exporter, a ratio sampler that honors incoming parent decisions, and W3C
// trace-context propagation, and hands back the provider shutdown so main can
// flush spans on exit.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"google.golang.org/grpc/credentials"

	"github.com/tbourn/go-bookfeed-backend/internal/config"
)

// Seam variables so tests can substitute the exporter and resource
// constructors without a collector listening.
var (
	otlpClientFn      = otlptracegrpc.NewClient
	traceExporterFn   = otlptrace.New
	serviceResourceFn = buildServiceResource
)

// buildServiceResource layers the service identity attributes over the SDK
// defaults (host, telemetry.sdk.*), so spans stay attributable when several
// deployments share one collector.
func buildServiceResource(ctx context.Context, serviceName, version string) (*resource.Resource, error) {
	ident, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, err
	}
	return resource.Merge(resource.Default(), ident)
}

// exporterOptions translates the config into OTLP/gRPC dial options. TLS with
// the host root pool is the default; Insecure is for local collectors only.
func exporterOptions(cfg config.OTELConfig) []otlptracegrpc.Option {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		return append(opts, otlptracegrpc.WithInsecure())
	}
	return append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
}

// SetupOTel configures OpenTelemetry tracing and returns a shutdown function.
// When tracing is disabled the returned shutdown is a no-op. On any error the
// global tracer provider and propagator are left untouched.
func SetupOTel(ctx context.Context, cfg config.OTELConfig, version string) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	exp, err := traceExporterFn(ctx, otlpClientFn(exporterOptions(cfg)...))
	if err != nil {
		return nil, err
	}
	res, err := serviceResourceFn(ctx, cfg.ServiceName, version)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown, nil
}
