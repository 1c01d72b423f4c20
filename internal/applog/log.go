// Package applog provides the process-wide structured logger, grounded
// on orbas1-Synnergy's logrus usage (walletserver/middleware/logger.go,
// cmd/dexserver/main.go). One logger instance is shared across the
// server; call sites attach structured fields (cache_key, size, error)
// rather than formatting them into the message.
package applog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLevel parses level (e.g. "debug", "info", "warn", "error") and
// applies it to the process-wide logger. An unrecognized level is
// ignored and the current level is kept.
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return
	}
	logger.SetLevel(lvl)
}

// L returns the process-wide logger.
func L() *logrus.Logger { return logger }

// WithFields is a shorthand for L().WithFields, the call site's usual
// entry point.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return logger.WithFields(fields)
}
