// Package logger configures the standard logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init sets the level and the formatter of the standard logger. format is "json"
// or "text". An unknown level falls back to info.
func Init(level, format string) {
	Configure(logrus.StandardLogger(), os.Stderr, level, format)
}

// Configure sets up l to write to out.
func Configure(l *logrus.Logger, out io.Writer, level, format string) {
	l.SetOutput(out)
	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.SetLevel(logrus.InfoLevel)
		l.WithField("level", level).Warn("unknown log level, using info")
		return
	}
	l.SetLevel(lvl)
}
