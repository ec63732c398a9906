package cli

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lumipallolabs/spacemap/internal/config"
	"github.com/lumipallolabs/spacemap/internal/logging"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	configKey
)

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or a discarding one
func loggerFromContext(ctx context.Context) *log.Logger {
	l, _ := ctx.Value(loggerKey).(*log.Logger)
	return logging.OrDiscard(l)
}

func withConfig(ctx context.Context, c config.Config) context.Context {
	return context.WithValue(ctx, configKey, c)
}

// configFromContext returns the loaded configuration. Commands always run
// after the root pre-run, which stores it.
func configFromContext(ctx context.Context) config.Config {
	c, _ := ctx.Value(configKey).(config.Config)
	return c
}
