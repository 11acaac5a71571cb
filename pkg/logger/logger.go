// pkg/logger/logger.go

package logger

import (
	"fmt"
	"os"
	"sync"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

var (
	mu       sync.Mutex
	log      *zap.Logger
	fileCore zapcore.Core
)

// InitializeWithFallback builds the global logger: a console core on stderr
// plus a JSON file core when a writable log path exists. Stdout is left for
// command output.
func InitializeWithFallback() {
	mu.Lock()
	defer mu.Unlock()

	level := ParseLogLevel(os.Getenv("LOG_LEVEL"))
	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig(term.IsTerminal(int(os.Stderr.Fd())))),
		zapcore.Lock(os.Stderr),
		level,
	)

	fileCore = nil
	path, err := FindWritableLogPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, "pwgen: no writable log path found, logging to console only")
	} else if writer, werr := GetLogFileWriter(path); werr != nil {
		fmt.Fprintln(os.Stderr, "pwgen: could not open log file, logging to console only:", werr)
	} else {
		jsonCfg := zap.NewProductionEncoderConfig()
		jsonCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		jsonCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		fileCore = zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), writer, level)
	}

	core := console
	if fileCore != nil {
		core = zapcore.NewTee(console, fileCore)
	}
	replace(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))

	log.Debug("Logger initialized",
		zap.String("log_level", level.String()),
		zap.String("log_path", path))
}

// FileOnly drops the console core, for full-screen terminal UIs that own
// the terminal. With no log file the logger becomes a no-op.
func FileOnly() {
	mu.Lock()
	defer mu.Unlock()

	if fileCore == nil {
		replace(zap.NewNop())
		return
	}
	replace(zap.New(fileCore, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
}

// UseLogger installs l as the global logger. Mainly for tests.
func UseLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	replace(l)
}

func replace(l *zap.Logger) {
	log = l
	zap.ReplaceGlobals(l)
	otelzap.ReplaceGlobals(otelzap.New(l))
}

// L returns the global logger, initialising it on first use.
func L() *zap.Logger {
	mu.Lock()
	l := log
	mu.Unlock()
	if l == nil {
		InitializeWithFallback()
		return GetLogger()
	}
	return l
}

// GetLogger returns the global logger without initialising it.
func GetLogger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// Sync flushes any buffered log entries.
func Sync() error {
	mu.Lock()
	l := log
	mu.Unlock()
	if l == nil {
		return nil
	}
	return l.Sync()
}
