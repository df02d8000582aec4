package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"pharmacy-backend/internal/config"
)

// New builds the process logger from config. Console output for local
// development, JSON everywhere else.
func New(cfg *config.Config) zerolog.Logger {
	var w = zerolog.New(os.Stdout)
	if strings.EqualFold(cfg.Log.Format, "console") || cfg.Environment.Name == "development" {
		w = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	return w.With().Timestamp().Logger().Level(level)
}
