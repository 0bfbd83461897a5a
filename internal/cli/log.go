// Package cli implements the circuit-analyzer command-line interface.
//
// Commands:
//   - analyze: build and solve the MNA system of a netlist at one value of s
//   - sweep: AC frequency sweep or element value sweep
//   - render: draw the circuit topology as SVG or DOT
//   - serve: run the HTTP service
//
// Every command accepts --config (TOML) and --verbose. The logger and the
// loaded configuration travel through the command context.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/edp1096/circuit-analyzer/internal/config"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type ctxKey int

const (
	loggerKey ctxKey = iota
	configKey
)

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext falls back to log.Default() when no logger is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}
