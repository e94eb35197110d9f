// Package logging provides the zerolog loggers used across cef.
//
// The default logger writes to stderr: human-readable console output when
// stderr is a terminal, JSON otherwise. The TUI redirects logging to a file
// so log lines never land on the alternate screen.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var defaultLogger = createDefaultLogger()

// Nop discards everything.
var Nop = zerolog.Nop()

// Config selects level, format and destination of the default logger.
type Config struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // auto, console, json
	File   string `mapstructure:"file"`
}

func createDefaultLogger() zerolog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	var w io.Writer = os.Stderr
	if isTerminal() && os.Getenv("LOG_FORMAT") != "json" {
		w = consoleWriter(os.Stderr)
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
}

// Configure builds a logger from cfg and installs it as the default.
// The returned closer releases the log file, if one was opened.
func Configure(cfg Config) (zerolog.Logger, io.Closer, error) {
	level := parseLevel(cfg.Level)

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return Nop, closer, err
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return Nop, closer, err
		}
		out, closer = f, f
	}

	switch strings.ToLower(cfg.Format) {
	case "console":
		out = consoleWriter(out)
	case "json":
	default:
		if cfg.File == "" && isTerminal() {
			out = consoleWriter(out)
		}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	SetDefault(logger)
	return logger, closer, nil
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

func parseLevel(s string) zerolog.Level {
	if s == "" {
		if os.Getenv("DEBUG") != "" {
			return zerolog.DebugLevel
		}
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func isTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
