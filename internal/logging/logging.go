// Package logging builds the structured logger shared by the commands.
//
// Logs go to a rotating file rather than stdout: the terminal UI draws on
// stdout and the MCP server speaks its protocol over it.
package logging

import (
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a text logger writing to file at the given level
// ("debug", "info", "warn", "error"). An empty file discards all output.
// The returned closer releases the log file.
func New(file, level string) (*slog.Logger, io.Closer, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	if file == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil), nil
	}

	w := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), w, nil
}
