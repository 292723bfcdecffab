// Package logging wraps charmbracelet/log with the small surface the
// service needs: leveled, key-value structured output on stderr.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the service-wide structured logger.
type Logger struct {
	*log.Logger
}

// New builds a logger at the given level ("debug", "info", "warn",
// "error"; anything else means info). Setting DEPOT_DEBUG=1 forces
// debug with caller reporting, which is handy when chasing a bad batch.
func New(level string) *Logger {
	base := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "depot",
	})

	if os.Getenv("DEPOT_DEBUG") == "1" {
		base.SetLevel(log.DebugLevel)
		base.SetReportCaller(true)
		return &Logger{Logger: base}
	}

	switch level {
	case "debug":
		base.SetLevel(log.DebugLevel)
	case "warn":
		base.SetLevel(log.WarnLevel)
	case "error":
		base.SetLevel(log.ErrorLevel)
	default:
		base.SetLevel(log.InfoLevel)
	}
	return &Logger{Logger: base}
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *Logger {
	base := log.New(os.Stderr)
	base.SetLevel(log.FatalLevel + 1)
	return &Logger{Logger: base}
}
