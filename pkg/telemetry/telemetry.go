// pkg/telemetry/telemetry.go
package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	cerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	mu        sync.RWMutex
	tracer    trace.Tracer = noop.NewTracerProvider().Tracer("pwgen")
	generated metric.Int64Counter
)

// Init configures OpenTelemetry; call this early in main(). Spans are
// exported as JSONL to a file only when PWGEN_TELEMETRY=1, otherwise a noop
// provider is installed. The returned func flushes and closes the exporter.
func Init(service string) (func(context.Context) error, error) {
	if !IsEnabled() {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		setTracer(tp.Tracer(service))
		return func(context.Context) error { return nil }, initMeter(service)
	}

	dir := Dir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, cerr.Wrap(err, "failed to create telemetry directory")
	}

	file, err := os.OpenFile(filepath.Join(dir, "telemetry.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, cerr.Wrap(err, "failed to open telemetry file")
	}

	exp, err := stdouttrace.New(
		stdouttrace.WithWriter(file),
		stdouttrace.WithoutTimestamps(),
	)
	if err != nil {
		file.Close()
		return nil, cerr.Wrap(err, "failed to create file exporter")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(
			sdkresource.NewWithAttributes(
				semconv.SchemaURL,
				attribute.String("service.name", service),
				attribute.String("host.name", hostname()),
			),
		),
	)

	otel.SetTracerProvider(tp)
	setTracer(tp.Tracer(service))

	shutdown := func(ctx context.Context) error {
		defer file.Close()
		return tp.Shutdown(ctx)
	}
	return shutdown, initMeter(service)
}

func initMeter(service string) error {
	counter, err := otel.Meter(service).Int64Counter(
		"pwgen.passwords.generated",
		metric.WithDescription("Number of passwords generated"),
		metric.WithUnit("{password}"),
	)
	if err != nil {
		return cerr.Wrap(err, "failed to create password counter")
	}
	mu.Lock()
	generated = counter
	mu.Unlock()
	return nil
}

func setTracer(t trace.Tracer) {
	mu.Lock()
	tracer = t
	mu.Unlock()
}

// Start a telemetry span with optional attributes.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	mu.RLock()
	t := tracer
	mu.RUnlock()
	return t.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordGenerated adds n to the generated-password counter.
func RecordGenerated(ctx context.Context, n int, attrs ...attribute.KeyValue) {
	mu.RLock()
	c := generated
	mu.RUnlock()
	if c == nil || n <= 0 {
		return
	}
	c.Add(ctx, int64(n), metric.WithAttributes(attrs...))
}

// IsEnabled reports whether span export was opted into.
func IsEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("PWGEN_TELEMETRY")))
	return v == "1" || v == "true" || v == "on"
}

// Dir is where telemetry files are written.
func Dir() string {
	if d := os.Getenv("PWGEN_TELEMETRY_DIR"); d != "" {
		return d
	}
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "pwgen", "telemetry")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state", "pwgen", "telemetry")
}

func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}

func CommandCategory(cmd string) string {
	switch {
	case strings.HasPrefix(cmd, "generate"):
		return "generate"
	case strings.HasPrefix(cmd, "popup"):
		return "interactive"
	default:
		return "general"
	}
}
