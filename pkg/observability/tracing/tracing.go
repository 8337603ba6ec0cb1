// Package tracing configures OpenTelemetry tracing for one run of the CLI.
//
// Spans are exported as JSON lines to a local file; there is no collector
// and no network exporter. With tracing off the global provider stays the
// OpenTelemetry no-op, so instrumented code pays almost nothing.
//
//	shutdown, err := tracing.Init(ctx, tracing.Config{Path: "trace.json"}, logger)
//	if err != nil {
//	    return err
//	}
//	defer tracing.ShutdownWithTimeout(ctx, shutdown, logger)
package tracing

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/domespec/pkg/errors"
)

// DefaultServiceName is the service.name resource attribute.
const DefaultServiceName = "domespec"

// shutdownTimeout bounds the final span flush.
const shutdownTimeout = 5 * time.Second

// Config governs how tracing is initialised.
type Config struct {
	Path        string  // file receiving spans; tracing is off when empty
	ServiceName string  // defaults to DefaultServiceName
	SampleRatio float64 // fraction of root spans kept; 0 means 1
}

// Init installs a tracer provider exporting to cfg.Path and returns the
// function that flushes it and closes the file.
func Init(ctx context.Context, cfg Config, logger *log.Logger) (func(context.Context) error, error) {
	if cfg.Path == "" {
		return func(context.Context) error { return nil }, nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}
	if cfg.SampleRatio <= 0 || cfg.SampleRatio > 1 {
		cfg.SampleRatio = 1
	}

	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create trace file %s", cfg.Path)
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		f.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create span exporter")
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", cfg.ServiceName),
	))
	if err != nil {
		f.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create trace resource")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	if logger != nil {
		logger.Debug("tracing enabled", "path", cfg.Path, "sample_ratio", cfg.SampleRatio)
	}

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}, nil
}

// ShutdownWithTimeout runs shutdown with a bounded timeout and logs, rather
// than returns, its failure.
func ShutdownWithTimeout(ctx context.Context, shutdown func(context.Context) error, logger *log.Logger) {
	if shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil && logger != nil {
		logger.Warn("tracing shutdown failed", "err", err)
	}
}

// Start opens a span on the global tracer named after the calling package.
func Start(ctx context.Context, tracerName, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// End records err on span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errors.UserMessage(err))
		if code := errors.GetCode(err); code != "" {
			span.SetAttributes(attribute.String("error.code", string(code)))
		}
	}
	span.End()
}
