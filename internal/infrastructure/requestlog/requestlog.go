package requestlog

import (
	"context"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/nerrad567/heizung-bridge/internal/infrastructure/config"
)

// Log is the request log sink.
//
// A nil *Log is valid and discards everything, so callers never need to
// check whether the request log is enabled.
type Log struct {
	logger *slog.Logger
	closer io.Closer
}

// Open creates the request log described by cfg.
//
// Returns nil when the request log is disabled.
func Open(cfg config.RequestLogConfig) *Log {
	if !cfg.Enabled {
		return nil
	}

	file := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	return &Log{
		logger: newLineLogger(file),
		closer: file,
	}
}

// New creates a request log writing JSON lines to w.
func New(w io.Writer) *Log {
	return &Log{logger: newLineLogger(w)}
}

func newLineLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Request records one inbound slash command.
//
// The shared-secret token is never written.
func (l *Log) Request(ctx context.Context, command, channel, user, text string) {
	if l == nil {
		return
	}
	l.logger.InfoContext(ctx, "request",
		"command", command,
		"channel", channel,
		"user", user,
		"text", text,
	)
}

// Response records a successful downstream response body.
func (l *Log) Response(ctx context.Context, method, path string, body []byte) {
	if l == nil {
		return
	}
	l.logger.InfoContext(ctx, "response",
		"method", method,
		"path", path,
		"body", string(body),
	)
}

// Close closes the underlying file, if any.
func (l *Log) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
