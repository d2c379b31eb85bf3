// Package log holds the process-wide zap logger.
//
// The library logs nothing until a caller installs a logger; the CLI builds
// one from its configuration with New and installs it with SetGlobalLogger.
package log

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var _default atomic.Pointer[zap.SugaredLogger]

func init() {
	_default.Store(zap.NewNop().Sugar())
}

// SetGlobalLogger sets the global logger. A nil logger discards everything.
func SetGlobalLogger(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	_default.Store(l)
}

// Default returns the default global logger.
func Default() *zap.SugaredLogger {
	return _default.Load()
}

// Fatalf uses fmt.Sprintf to log a templated message, then calls os.Exit.
func Fatalf(template string, args ...interface{}) {
	Default().Fatalf(template, args...)
}
