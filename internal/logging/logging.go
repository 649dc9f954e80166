// Package logging builds the process logger. Records at error level are
// also forwarded to Rollbar when a token is configured.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rollbar/rollbar-go"

	"github.com/Semicile17/Campus-Connect/internal/config"
)

func New(cfg config.Config) *slog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

func NewWithWriter(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	if cfg.RollbarToken != "" {
		rollbar.SetToken(cfg.RollbarToken)
		rollbar.SetEnvironment(cfg.Env)
		rollbar.SetEnabled(true)
		handler = &rollbarHandler{next: handler, report: reportToRollbar}
	}
	return slog.New(handler)
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type rollbarHandler struct {
	next   slog.Handler
	attrs  []slog.Attr
	report func(msg string, fields map[string]interface{})
}

func (h *rollbarHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *rollbarHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelError {
		fields := make(map[string]interface{}, len(h.attrs)+record.NumAttrs())
		for _, attr := range h.attrs {
			fields[attr.Key] = attr.Value.Any()
		}
		record.Attrs(func(attr slog.Attr) bool {
			fields[attr.Key] = attr.Value.Any()
			return true
		})
		h.report(record.Message, fields)
	}
	return h.next.Handle(ctx, record)
}

func (h *rollbarHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &rollbarHandler{next: h.next.WithAttrs(attrs), attrs: merged, report: h.report}
}

func (h *rollbarHandler) WithGroup(name string) slog.Handler {
	return &rollbarHandler{next: h.next.WithGroup(name), attrs: h.attrs, report: h.report}
}

func reportToRollbar(msg string, fields map[string]interface{}) {
	rollbar.Error(msg, fields)
}
