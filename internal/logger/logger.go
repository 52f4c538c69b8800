package logger

import (
	"go.uber.org/zap"
)

// Log is the engine-wide logger. It is a no-op until Init is called so that
// packages used as a library (and their tests) stay quiet.
var Log = zap.NewNop()

// Init replaces Log with a production or development logger.
func Init(development bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Set installs an existing logger, mostly used by tests with zaptest.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Log = l
}

// Named returns a child of Log scoped to a subsystem.
func Named(name string) *zap.Logger {
	return Log.Named(name)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Log.Sync()
}
