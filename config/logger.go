package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger builds the application logger: JSON to stdout in production,
// human-readable console output otherwise, plus a rotated file when configured.
// It also replaces the global zerolog logger.
func SetupLogger(cfg *Config) zerolog.Logger {
	var console io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	if cfg.IsProduction() {
		console = os.Stdout
	}

	writers := []io.Writer{console}
	if cfg.Log.File != "" {
		_ = os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755)
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	lvl, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}
