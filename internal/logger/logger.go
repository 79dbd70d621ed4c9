// Package logger provides the structured logging used throughout the
// engine. Unlike the reference this was adapted from, it holds no
// process-global state: each Client owns its own *Logger, so multiple
// client handles can run in one process with independent log
// configuration (see spec §9, "no global singleton state").
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Level represents log levels
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func toSlogLevel(l Level) slog.Level {
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

// Config holds logger configuration, matching the ifc.Config fields
// log_enabled / log_level (spec §6).
type Config struct {
	Enabled bool
	Level   string // DEBUG, INFO, WARN, ERROR
	Format  string // text, json
	Output  string // stdout, stderr, or file path
}

// Logger is a single client instance's logging handle.
type Logger struct {
	level   atomic.Int32
	enabled atomic.Bool
	slogger *slog.Logger
}

// New builds a Logger from Config. A disabled logger silently discards
// everything, so call sites never need to branch on Config.Enabled.
func New(cfg Config) (*Logger, error) {
	l := &Logger{}
	l.enabled.Store(cfg.Enabled)

	level := LevelInfo
	switch strings.ToUpper(cfg.Level) {
	case "DEBUG":
		level = LevelDebug
	case "WARN":
		level = LevelWarn
	case "ERROR":
		level = LevelError
	}
	l.level.Store(int32(level))

	var output io.Writer
	useColor := false
	switch strings.ToLower(cfg.Output) {
	case "stdout", "":
		output = os.Stdout
		useColor = isTerminal(os.Stdout.Fd())
	case "stderr":
		output = os.Stderr
		useColor = isTerminal(os.Stderr.Fd())
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file %q: %w", cfg.Output, err)
		}
		output = f
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(toSlogLevel(level))
	opts := &slog.HandlerOptions{Level: levelVar}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = NewColorTextHandler(output, opts, useColor)
	}

	l.slogger = slog.New(handler)
	return l, nil
}

// NewDiscard returns a Logger that drops everything, for tests and for
// embedders that never set log_enabled.
func NewDiscard() *Logger {
	l := &Logger{slogger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	l.enabled.Store(false)
	return l
}

func (l *Logger) enabledAt(level Level) bool {
	return l != nil && l.enabled.Load() && level >= Level(l.level.Load())
}

func (l *Logger) Debug(msg string, args ...any) {
	if l.enabledAt(LevelDebug) {
		l.slogger.Debug(msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l.enabledAt(LevelInfo) {
		l.slogger.Info(msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	if l.enabledAt(LevelWarn) {
		l.slogger.Warn(msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...any) {
	if l.enabledAt(LevelError) {
		l.slogger.Error(msg, args...)
	}
}

// DebugCtx/InfoCtx/WarnCtx/ErrorCtx inject the ambient LogContext (trace
// id, session, name, command id) ahead of the call-site args.

func (l *Logger) DebugCtx(ctx context.Context, msg string, args ...any) {
	if l.enabledAt(LevelDebug) {
		l.slogger.Debug(msg, appendContextFields(ctx, args)...)
	}
}

func (l *Logger) InfoCtx(ctx context.Context, msg string, args ...any) {
	if l.enabledAt(LevelInfo) {
		l.slogger.Info(msg, appendContextFields(ctx, args)...)
	}
}

func (l *Logger) WarnCtx(ctx context.Context, msg string, args ...any) {
	if l.enabledAt(LevelWarn) {
		l.slogger.Warn(msg, appendContextFields(ctx, args)...)
	}
}

func (l *Logger) ErrorCtx(ctx context.Context, msg string, args ...any) {
	if l.enabledAt(LevelError) {
		l.slogger.Error(msg, appendContextFields(ctx, args)...)
	}
}

// With returns a new slog.Logger carrying pre-bound attributes, for the
// rare call site that wants to build up a chain of fields.
func (l *Logger) With(args ...any) *slog.Logger {
	return l.slogger.With(args...)
}

func appendContextFields(ctx context.Context, args []any) []any {
	lc := FromContext(ctx)
	if lc == nil {
		return args
	}
	ctxArgs := make([]any, 0, 8+len(args))
	if lc.TraceID != "" {
		ctxArgs = append(ctxArgs, KeyTraceID, lc.TraceID)
	}
	if lc.SpanID != "" {
		ctxArgs = append(ctxArgs, KeySpanID, lc.SpanID)
	}
	if lc.Session != "" {
		ctxArgs = append(ctxArgs, KeySession, lc.Session)
	}
	if lc.Name != "" {
		ctxArgs = append(ctxArgs, KeyName, lc.Name)
	}
	if lc.CommandID != 0 {
		ctxArgs = append(ctxArgs, KeyCommandID, lc.CommandID)
	}
	ctxArgs = append(ctxArgs, args...)
	return ctxArgs
}

// Duration returns the elapsed time since start in milliseconds, for the
// KeyDuration field.
func Duration(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
