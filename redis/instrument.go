package redis

import (
	"context"
	stderrors "errors"
	"net"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/rediskit/logger"
	"github.com/kbukum/rediskit/observability"
)

// Metric names emitted by Instrumentation.
const (
	MetricCommands        = "redis.commands"
	MetricCommandDuration = "redis.command.duration"
)

// InstrumentationOption configures NewInstrumentation.
type InstrumentationOption func(*instrumentationConfig)

type instrumentationConfig struct {
	tp  trace.TracerProvider
	mp  metric.MeterProvider
	log *logger.Logger
	db  int
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) InstrumentationOption {
	return func(c *instrumentationConfig) { c.tp = tp }
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) InstrumentationOption {
	return func(c *instrumentationConfig) { c.mp = mp }
}

// WithLogger sets the logger used for failed commands (debug level).
func WithLogger(log *logger.Logger) InstrumentationOption {
	return func(c *instrumentationConfig) { c.log = log }
}

// WithDatabaseIndex records db as the database index span attribute.
func WithDatabaseIndex(db int) InstrumentationOption {
	return func(c *instrumentationConfig) { c.db = db }
}

// Instrumentation is a go-redis hook that traces commands and pipelines and
// records a command counter and duration histogram. A nil reply is not an
// error.
type Instrumentation struct {
	tracer   trace.Tracer
	log      *logger.Logger
	attrs    []attribute.KeyValue
	count    metric.Int64Counter
	duration metric.Float64Histogram
}

var _ goredis.Hook = (*Instrumentation)(nil)

// NewInstrumentation creates the hook. Install it with Connector.Hooks or
// go-redis's AddHook.
func NewInstrumentation(opts ...InstrumentationOption) (*Instrumentation, error) {
	cfg := instrumentationConfig{
		tp: otel.GetTracerProvider(),
		mp: otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logger.Nop()
	}

	meter := cfg.mp.Meter(observability.InstrumentationName)
	count, err := meter.Int64Counter(MetricCommands,
		metric.WithDescription("Redis commands issued"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(MetricCommandDuration,
		metric.WithDescription("Redis command round-trip time"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Instrumentation{
		tracer: cfg.tp.Tracer(observability.InstrumentationName),
		log:    cfg.log.WithComponent("redis"),
		attrs: []attribute.KeyValue{
			attribute.String(observability.AttrDBSystem, "redis"),
			attribute.Int(observability.AttrDBIndex, cfg.db),
		},
		count:    count,
		duration: duration,
	}, nil
}

// DialHook passes dials through untouched.
func (in *Instrumentation) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

// ProcessHook wraps a single command.
func (in *Instrumentation) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		name := cmd.Name()
		ctx, span := in.tracer.Start(ctx, "redis."+name,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(in.attrs...),
			trace.WithAttributes(attribute.String(observability.AttrDBOperation, name)),
		)
		start := time.Now()

		err := next(ctx, cmd)

		in.finish(ctx, span, name, start, err)
		return err
	}
}

// ProcessPipelineHook wraps a pipeline as one span.
func (in *Instrumentation) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		names := make([]string, len(cmds))
		for i, cmd := range cmds {
			names[i] = cmd.Name()
		}
		ctx, span := in.tracer.Start(ctx, "redis.pipeline",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(in.attrs...),
			trace.WithAttributes(
				attribute.String(observability.AttrDBOperation, strings.Join(names, " ")),
				attribute.Int(observability.AttrPipelineSize, len(cmds)),
			),
		)
		start := time.Now()

		err := next(ctx, cmds)

		in.finish(ctx, span, "pipeline", start, err)
		return err
	}
}

func (in *Instrumentation) finish(ctx context.Context, span trace.Span, command string, start time.Time, err error) {
	elapsed := time.Since(start)
	status := "ok"
	if err != nil && !stderrors.Is(err, goredis.Nil) {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		in.log.Debug("Redis command failed", logger.Fields(
			logger.FieldCommand, command,
			logger.FieldError, err.Error(),
			logger.FieldDuration, elapsed.Milliseconds(),
		))
	}
	span.End()

	attrs := metric.WithAttributes(
		attribute.String(observability.AttrCommand, command),
		attribute.String(observability.AttrStatus, status),
	)
	in.count.Add(ctx, 1, attrs)
	in.duration.Record(ctx, elapsed.Seconds(), attrs)
}
