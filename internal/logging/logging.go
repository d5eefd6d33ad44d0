// Package logging wraps logrus with leveled, structured output and
// level-name parsing that accepts the common short names plus any other
// name logrus.ParseLevel recognizes.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds a *logrus.Logger for the given level name ("debug", "info",
// "warn"/"warning", "error", or ""), defaulting to Info on an empty or
// unrecognized name.
func New(levelName string) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(parseLevel(levelName))
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Discard returns a logger that writes nowhere. Sessions that did not set
// a level do not use it; they log at Info.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func parseLevel(name string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "trace":
		return logrus.TraceLevel
	case "info", "":
		return logrus.InfoLevel
	default:
		if lvl, err := logrus.ParseLevel(name); err == nil {
			return lvl
		}
		return logrus.InfoLevel
	}
}
