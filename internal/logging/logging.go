// Package logging builds the zerolog logger shared by every wanreader
// package. The TUI owns the terminal, so records go to a file that the
// in-app log view tails.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// TimeFormat is the timestamp layout written at the start of each line.
const TimeFormat = "2006-01-02 15:04:05"

// New returns a logger that writes plain console-style lines to w:
//
//	2026-10-19 09:12:44 INFO  request done component=wan path=article/list/0/json
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: TimeFormat,
	}
	output.FormatLevel = func(i interface{}) string {
		level, _ := i.(string)
		return fmt.Sprintf("%-5s", strings.ToUpper(level))
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Open creates (or appends to) the log file at path and returns a logger
// writing to it along with the file so the caller can close it on exit.
func Open(path string, debug bool) (zerolog.Logger, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return zerolog.Nop(), nil, fmt.Errorf("log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log: %w", err)
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return New(file, level), file, nil
}

// Component tags every record of log with the given component name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
