// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package logging provides the structured, leveled logger used across the
// daemon and its tooling.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Level mirrors slog's levels under names the rest of the codebase logs
// against, independent of which backend formats the record.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config controls how a Logger formats and routes records.
type Config struct {
	// Output is where formatted records are written. Defaults to os.Stderr.
	Output io.Writer
	// Level is the minimum level that is emitted.
	Level Level
	// JSON selects JSON-lines output instead of the default text handler.
	JSON bool
}

// Logger is a thin, component-scoped wrapper over *slog.Logger.
type Logger struct {
	base *slog.Logger
}

// New constructs a Logger from Config.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level.slogLevel()}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return &Logger{base: slog.New(handler)}
}

var defaultLogger atomic.Pointer[Logger]

// SetDefault replaces the package-level default logger returned by
// WithComponent when no explicit Logger has been constructed.
func SetDefault(l *Logger) {
	defaultLogger.Store(l)
}

func defaultOrNew() *Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l := New(Config{Level: LevelInfo})
	defaultLogger.CompareAndSwap(nil, l)
	return defaultLogger.Load()
}

// WithComponent returns a Logger scoped to the given component name,
// attached to every record it emits as a "component" attribute.
func WithComponent(name string) *Logger {
	return defaultOrNew().With("component", name)
}

// With returns a Logger with the given key/value pairs attached to every
// record it emits afterward.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{base: l.base.With(kv...)}
}

func (l *Logger) Debug(msg string, kv ...any) { l.base.Debug(msg, kv...) }
func (l *Logger) Info(msg string, kv ...any)  { l.base.Info(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.base.Warn(msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.base.Error(msg, kv...) }

// DebugContext/InfoContext/WarnContext/ErrorContext thread a context through
// to slog's handler, for call sites that carry request-scoped attributes.
func (l *Logger) DebugContext(ctx context.Context, msg string, kv ...any) {
	l.base.DebugContext(ctx, msg, kv...)
}
func (l *Logger) InfoContext(ctx context.Context, msg string, kv ...any) {
	l.base.InfoContext(ctx, msg, kv...)
}
func (l *Logger) WarnContext(ctx context.Context, msg string, kv ...any) {
	l.base.WarnContext(ctx, msg, kv...)
}
func (l *Logger) ErrorContext(ctx context.Context, msg string, kv ...any) {
	l.base.ErrorContext(ctx, msg, kv...)
}
