package tracing

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"

	"github.com/d60-Lab/blog-admin/config"
	"github.com/d60-Lab/blog-admin/pkg/logger"
)

// Shutdown 释放 tracer/sentry 资源
type Shutdown func(context.Context) error

// Init 初始化 OTLP tracer 与 Sentry；均未开启时返回空操作
func Init(ctx context.Context, cfg *config.Config) (Shutdown, error) {
	var shutdowns []Shutdown

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			return nil, fmt.Errorf("sentry init: %w", err)
		}
		shutdowns = append(shutdowns, func(context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		})
		logger.Info("sentry enabled", zap.String("environment", cfg.Sentry.Environment))
	}

	if cfg.Tracing.Enabled {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Tracing.Endpoint)}
		if cfg.Tracing.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("otlp exporter: %w", err)
		}
		res := resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(cfg.Tracing.ServiceName))
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
		shutdowns = append(shutdowns, tp.Shutdown)
		logger.Info("tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))
	}

	return func(ctx context.Context) error {
		var first error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			if err := shutdowns[i](ctx); err != nil && first == nil {
				first = err
			}
		}
		return first
	}, nil
}
