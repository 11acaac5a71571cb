// pkg/pw_io/context.go

package pw_io

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_err"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

type RuntimeContext struct {
	Ctx        context.Context
	Log        *zap.Logger
	Timestamp  time.Time
	Span       trace.Span
	Command    string
	RunID      string
	Attributes map[string]string

	cancel context.CancelFunc
}

// NewContext sets up tracing, logging and interrupt cancellation for one
// command run.
func NewContext(parent context.Context, cmdName string) *RuntimeContext {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	ctx, span := telemetry.Start(ctx, cmdName)

	runID := uuid.New().String()
	log := logger.GetLogger().With(
		zap.String("command", cmdName),
		zap.String("run_id", runID),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	).Named(cmdName)

	return &RuntimeContext{
		Ctx:        ctx,
		Span:       span,
		Log:        log,
		Timestamp:  time.Now(),
		Command:    cmdName,
		RunID:      runID,
		Attributes: make(map[string]string),
		cancel:     cancel,
	}
}

// NewExtendedContext is NewContext with a deadline, for steps that talk to
// remote backends.
func NewExtendedContext(parent context.Context, cmdName string, timeout time.Duration) *RuntimeContext {
	rc := NewContext(parent, cmdName)
	ctx, cancel := context.WithTimeout(rc.Ctx, timeout)
	outer := rc.cancel
	rc.Ctx = ctx
	rc.cancel = func() {
		cancel()
		outer()
	}
	return rc
}

// End logs outcome, records the span attributes and releases the context.
func (rc *RuntimeContext) End(errPtr *error) {
	defer rc.cancel()
	defer rc.Span.End()

	var err error
	if errPtr != nil {
		err = *errPtr
	}
	duration := time.Since(rc.Timestamp)
	success := err == nil

	if success {
		rc.Log.Info("Command completed", zap.Duration("duration", duration))
	} else if pw_err.IsExpectedUserError(err) {
		rc.Log.Warn("Command rejected input", zap.Duration("duration", duration), zap.Error(err))
	} else {
		rc.Log.Error("Command failed", zap.Duration("duration", duration), zap.Error(err))
	}

	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
		attribute.Int64("duration_ms", duration.Milliseconds()),
		attribute.String("os", runtime.GOOS),
		attribute.String("version", Version),
		attribute.String("run_id", rc.RunID),
		attribute.String("category", telemetry.CommandCategory(rc.Command)),
		attribute.String("error_type", classifyError(err)),
	}
	for k, v := range rc.Attributes {
		attrs = append(attrs, attribute.String(k, v))
	}
	rc.Span.SetAttributes(attrs...)
}

func classifyError(err error) string {
	if err == nil {
		return ""
	}
	if pw_err.IsExpectedUserError(err) {
		return "user"
	}
	return strings.ToLower(pw_err.CategoryOf(err).String())
}
