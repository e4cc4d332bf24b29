/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package logging sets up the structured logger carried in the context.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chainguard-dev/clog"
	charmlog "github.com/charmbracelet/log"
	slogmulti "github.com/samber/slog-multi"
)

// Options controls where logs go
type Options struct {
	// Verbose enables debug output on the terminal; otherwise only warnings show
	Verbose bool
	// File receives every record as JSON when set
	File string
	// Output is the terminal writer, stderr when nil
	Output io.Writer
}

// Setup installs a logger in the context and as the slog default. The returned
// function closes the log file.
func Setup(ctx context.Context, opts Options) (context.Context, func() error, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := charmlog.WarnLevel
	if opts.Verbose {
		level = charmlog.DebugLevel
	}
	terminal := charmlog.NewWithOptions(out, charmlog.Options{
		Level:           level,
		ReportTimestamp: opts.Verbose,
		TimeFormat:      time.TimeOnly,
	})

	handlers := []slog.Handler{terminal}
	closeFile := func() error { return nil }

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return ctx, closeFile, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return ctx, closeFile, fmt.Errorf("failed to open log file %s: %w", opts.File, err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closeFile = f.Close
	}

	logger := clog.New(slogmulti.Fanout(handlers...))
	ctx = clog.WithLogger(ctx, logger)
	slog.SetDefault(&logger.Logger)

	return ctx, closeFile, nil
}
