package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/sagarc03/tomato/config"
)

// setupLogging installs the default logger. With logPath set, records are
// also appended to that file, always without colours.
func setupLogging(cfg config.LoggingSettings, logPath string) (io.Closer, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var (
		file   io.Writer
		closer io.Closer
	)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		closer = f
	}

	tty := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	logger := slog.New(buildLogHandler(os.Stderr, file, cfg.Format, level, tty))
	slog.SetDefault(logger)

	log.SetFlags(0)
	log.SetOutput(
		slog.NewLogLogger(
			slog.Default().Handler(),
			slog.LevelInfo,
		).Writer(),
	)

	return closer, nil
}

// buildLogHandler returns the console handler and, when file is not nil, a
// second handler for the file that never sees a terminal.
func buildLogHandler(console, file io.Writer, format string, level slog.Level, tty bool) slog.Handler {
	h := newLogHandler(console, format, level, tty)
	if file == nil {
		return h
	}
	return fanoutHandler{h, newLogHandler(file, format, level, false)}
}

// newLogHandler picks the handler for format. "auto" means tint on a
// terminal and JSON everywhere else; "text" is tint without colours unless
// tty is set.
func newLogHandler(w io.Writer, format string, level slog.Level, tty bool) slog.Handler {
	switch {
	case format == "json", format != "text" && !tty:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: false,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339Nano))
				}
				return a
			},
		})
	default:
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  tty,
			TimeFormat: "15:04:05.000",
			NoColor:    !tty,
		})
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// fanoutHandler passes every record to each of its handlers.
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// deferredLogger logs through whatever slog.Default() is at the time of
// the call, so components built before setupLogging pick up its handler.
func deferredLogger() *slog.Logger {
	return slog.New(deferredHandler{})
}

type deferredHandler struct {
	wrap func(slog.Handler) slog.Handler
}

func (h deferredHandler) handler() slog.Handler {
	inner := slog.Default().Handler()
	if h.wrap != nil {
		inner = h.wrap(inner)
	}
	return inner
}

func (h deferredHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler().Enabled(ctx, level)
}

func (h deferredHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.handler().Handle(ctx, r)
}

func (h deferredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.chain(func(inner slog.Handler) slog.Handler { return inner.WithAttrs(attrs) })
}

func (h deferredHandler) WithGroup(name string) slog.Handler {
	return h.chain(func(inner slog.Handler) slog.Handler { return inner.WithGroup(name) })
}

func (h deferredHandler) chain(next func(slog.Handler) slog.Handler) deferredHandler {
	prev := h.wrap
	return deferredHandler{wrap: func(inner slog.Handler) slog.Handler {
		if prev != nil {
			inner = prev(inner)
		}
		return next(inner)
	}}
}
