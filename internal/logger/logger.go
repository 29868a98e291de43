// Package logger provides the process-wide structured logger used across the
// raytracer core, mirroring the package-level zap logger convention used
// throughout the teacher engine's internal packages.
package logger

import "go.uber.org/zap"

// Log is the package-level structured logger. It defaults to a production
// configuration; call Init to swap it (e.g. for a development/console
// encoder in tests or CLI tools).
var Log = mustNop()

func mustNop() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Init replaces the package logger, returning a flush func the caller should
// defer. Safe to call more than once (e.g. once per cmd entrypoint).
func Init(development bool) func() {
	var l *zap.Logger
	var err error
	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		l = zap.NewNop()
	}
	Log = l
	return func() { _ = Log.Sync() }
}
