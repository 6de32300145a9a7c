// Package logger holds the process-wide structured logger of the
// generator.
package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvDebug enables debug logging when set to anything but "false" or
// "disable".
const EnvDebug = "SIMPLEORM_DEBUG"

var (
	mu     sync.RWMutex
	logger = zap.NewNop().Sugar()
)

// Init builds the global logger. Debug builds a development logger; the
// EnvDebug variable has the same effect.
func Init(debug bool) error {
	if !debug {
		if env := strings.ToLower(os.Getenv(EnvDebug)); env != "" && env != "disable" && env != "false" {
			debug = true
		}
	}
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	l, err := config.Build()
	if err != nil {
		return err
	}
	Set(l)
	return nil
}

// Set replaces the global logger.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	zap.ReplaceGlobals(l)
	logger = l.Sugar()
}

// Sync flushes buffered log entries.
func Sync() {
	_ = get().Sync()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debugw(msg string, keysAndValues ...any) {
	get().Debugw(msg, keysAndValues...)
}

func Debugf(template string, args ...any) {
	get().Debugf(template, args...)
}

func Infow(msg string, keysAndValues ...any) {
	get().Infow(msg, keysAndValues...)
}

func Warnw(msg string, keysAndValues ...any) {
	get().Warnw(msg, keysAndValues...)
}

func Errorw(msg string, keysAndValues ...any) {
	get().Errorw(msg, keysAndValues...)
}
