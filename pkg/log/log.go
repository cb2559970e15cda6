// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package log configures the process wide slog logger.
package log

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

type ctxKey string

const (
	slogFields      ctxKey = "slog_fields"
	logLevelDefault        = slog.LevelDebug

	formatText = "text"
)

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

type contextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler
func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the context handler in front of derived handlers.
func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the context handler in front of derived handlers.
func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// AppendCtx adds an slog attribute to the provided context so that it will be
// included in any Record created with such context
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	existing, _ := parent.Value(slogFields).([]slog.Attr)
	attrs := make([]slog.Attr, len(existing), len(existing)+1)
	copy(attrs, existing)
	return context.WithValue(parent, slogFields, append(attrs, attr))
}

// parseLevel maps LOG_LEVEL to a level; unknown values log everything.
func parseLevel(raw string) slog.Level {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return l
	}
	return logLevelDefault
}

// newHandler builds the JSON handler, or tint for the text format.
func newHandler(format string, w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if format == formatText {
		return tint.NewHandler(w, &tint.Options{
			Level:     opts.Level,
			AddSource: opts.AddSource,
		})
	}
	return slog.NewJSONHandler(w, opts)
}

// InitStructureLogConfig sets the structured log behavior from LOG_LEVEL,
// LOG_ADD_SOURCE and LOG_FORMAT.
func InitStructureLogConfig() {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(os.Getenv("LOG_LEVEL")),
		AddSource: os.Getenv("LOG_ADD_SOURCE") == "true",
	}
	format := os.Getenv("LOG_FORMAT")

	// text output goes to stderr so it never mixes with command output
	var out io.Writer = os.Stdout
	if format == formatText {
		out = os.Stderr
	}

	log.SetFlags(log.Llongfile)
	slog.SetDefault(slog.New(contextHandler{newHandler(format, out, opts)}))

	slog.Debug("log config",
		"level", opts.Level,
		"add_source", opts.AddSource,
		"format", format,
	)
}
