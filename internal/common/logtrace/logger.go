// Package logtrace provides logging and tracing utilities for the application.
// It integrates with zerolog for structured logging and tags calls with trace ids.
package logtrace

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerOptions configures the global logger.
type LoggerOptions struct {
	Level      string // zerolog level name, "info" when empty
	File       string // rotate logs into this file instead of stderr
	MaxSizeMB  int
	MaxBackups int
	Console    bool // human readable output on stderr
}

// InitLogger initializes the global logger with Unix timestamp format.
// An unknown level name is returned as an error and leaves the logger untouched.
func InitLogger(opts LoggerOptions) error {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return err
		}
		level = lvl
	}

	var out io.Writer = os.Stderr
	switch {
	case opts.File != "":
		out = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 3),
		}
	case opts.Console:
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
