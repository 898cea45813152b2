package telemetry

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTELHook adds trace and span IDs to every log entry
type OTELHook struct{}

func (h OTELHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return
	}

	e.Str("trace_id", span.SpanContext().TraceID().String())
	e.Str("span_id", span.SpanContext().SpanID().String())

	if level == zerolog.ErrorLevel {
		span.SetStatus(codes.Error, msg)
	}
}

// Logger wraps zerolog with OTEL integration
type Logger struct {
	zerolog.Logger
}

// NewLogger creates a new logger with OTEL hooks
func NewLogger(service string) *Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", service).
		Logger().
		Hook(OTELHook{})

	return &Logger{Logger: logger}
}

// WithContext returns a logger with context (for trace propagation)
func (l *Logger) WithContext(ctx context.Context) *zerolog.Logger {
	logger := l.Logger.With().Ctx(ctx).Logger()
	return &logger
}

// Convenience methods for scan orchestration

func (l *Logger) LogRegionScanStart(ctx context.Context, region string, resourceTypes []string) {
	l.WithContext(ctx).Info().
		Str("region", region).
		Strs("resource_types", resourceTypes).
		Msg("starting region scan")
}

func (l *Logger) LogRegionScanComplete(ctx context.Context, region string, resources, violations int, duration time.Duration) {
	l.WithContext(ctx).Info().
		Str("region", region).
		Int("resources", resources).
		Int("violations", violations).
		Dur("duration", duration).
		Msg("region scan complete")
}

func (l *Logger) LogRegionScanFailed(ctx context.Context, region string, err error, attempts int) {
	l.WithContext(ctx).Error().
		Err(err).
		Str("region", region).
		Int("attempts", attempts).
		Msg("region scan failed")
}

func (l *Logger) LogRetry(ctx context.Context, region string, attempt int, delay time.Duration, err error) {
	l.WithContext(ctx).Warn().
		Err(err).
		Str("region", region).
		Int("attempt", attempt).
		Dur("backoff", delay).
		Msg("transient failure, retrying region scan")
}

func (l *Logger) LogDiscoveryFallback(ctx context.Context, fallbackRegion string, err error) {
	l.WithContext(ctx).Warn().
		Err(err).
		Str("fallback_region", fallbackRegion).
		Msg("region discovery failed, falling back to single region")
}
