// pkg/logger/paths.go

package logger

import (
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
)

const logFileName = "pwgen.log"

// PlatformLogPaths lists candidate log files in order of preference.
func PlatformLogPaths() []string {
	var paths []string
	if p := os.Getenv("PWGEN_LOG_PATH"); p != "" {
		paths = append(paths, p)
	}
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		paths = append(paths, filepath.Join(state, "pwgen", logFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".local", "state", "pwgen", logFileName))
	}
	return paths
}

// ResolveLogPath returns the first candidate path, or "" if none.
func ResolveLogPath() string {
	paths := PlatformLogPaths()
	if len(paths) == 0 {
		return ""
	}
	return paths[0]
}

// FindWritableLogPath returns the first candidate whose directory can be
// created and whose file can be opened for appending.
func FindWritableLogPath() (string, error) {
	for _, path := range PlatformLogPaths() {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			continue
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			continue
		}
		_ = f.Close()
		return path, nil
	}
	return "", errors.New("no writable log path")
}

// GetLogFileWriter opens path for appending as a zap sink.
func GetLogFileWriter(path string) (zapcore.WriteSyncer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(f), nil
}
