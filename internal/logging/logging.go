// Package logging builds the zerolog logger shared by promptdeck components.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects where log lines go.
type Options struct {
	// Path is the JSON log file. Ignored when Console is set.
	Path string
	// Level is a zerolog level name; empty means info.
	Level string
	// Console, when non-nil, receives human readable output instead of the file.
	Console io.Writer
}

// Setup returns a configured logger and a func that releases the log file.
// It also installs the logger as the zerolog global.
func Setup(opts Options) (zerolog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	zerolog.TimeFieldFormat = time.RFC3339

	var (
		out     io.Writer
		closeFn = func() error { return nil }
	)
	if opts.Console != nil {
		out = zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.Kitchen}
	} else {
		if strings.TrimSpace(opts.Path) == "" {
			return zerolog.Nop(), nil, fmt.Errorf("log path is empty")
		}
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return logger, closeFn, nil
}

// ParseLevel accepts zerolog level names case-insensitively; empty is info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parse log level: %w", err)
	}
	return level, nil
}
