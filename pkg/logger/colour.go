// pkg/logger/colour.go

package logger

import (
	zapcore "go.uber.org/zap/zapcore"
)

// SGR prefixes per level; every level above error prints as FATAL.
var levelColours = map[zapcore.Level]struct{ sgr, label string }{
	zapcore.DebugLevel: {"90", "DEBUG"},
	zapcore.InfoLevel:  {"32", "INFO"},
	zapcore.WarnLevel:  {"33", "WARN"},
	zapcore.ErrorLevel: {"31", "ERROR"},
}

// ColouredLevel is the ANSI-coloured level label used on a terminal.
func ColouredLevel(level zapcore.Level) string {
	if level > zapcore.ErrorLevel && level <= zapcore.FatalLevel {
		return "\033[1;31mFATAL\033[0m"
	}
	c, ok := levelColours[level]
	if !ok {
		return level.CapitalString()
	}
	return "\033[" + c.sgr + "m" + c.label + "\033[0m"
}

func colouredLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(ColouredLevel(level))
}
