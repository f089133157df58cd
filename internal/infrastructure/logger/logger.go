package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pulsr-ai/lingua/internal/config"
)

// New builds the service logger. Production emits JSON lines to stdout;
// every other environment gets the human-readable console writer.
func New(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.Environment != "production" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(parseLevel(cfg.LogLevel)).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Logger()
}

func parseLevel(raw string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
