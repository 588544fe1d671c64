// Public domain.

// Package logging builds the run logger: a text handler on the terminal
// and, when a log file is configured, a JSON handler on a rotating file.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/soniakeys/dstar/internal/config"
)

// ParseLevel maps a configured level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
}

// New returns a logger writing text to term and, if cfg.File is set, JSON
// to a rotating file.  The returned closer closes the file.
func New(cfg config.Logging, term io.Writer) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	opt := &slog.HandlerOptions{Level: lvl}
	h := slog.Handler(slog.NewTextHandler(term, opt))
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		w := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		h = tee{h, slog.NewJSONHandler(w, opt)}
		closer = w
	}
	l := slog.New(h)
	if cfg.File != "" {
		start(l)
	}
	return l, closer, nil
}

// start records the run and the build in the log.
func start(l *slog.Logger) {
	attrs := []any{slog.Time("start", time.Now())}
	if bi, ok := debug.ReadBuildInfo(); ok {
		attrs = append(attrs,
			slog.String("go", bi.GoVersion),
			slog.String("module", bi.Main.Path),
			slog.String("version", bi.Main.Version))
	}
	l.Debug("run started", attrs...)
}

// Component returns a logger tagged with a component name.  A nil logger
// discards.
func Component(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l.With("component", name)
}

// Discard returns a logger that writes nothing.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// tee sends records to both handlers.
type tee [2]slog.Handler

func (t tee) Enabled(ctx context.Context, lvl slog.Level) bool {
	return t[0].Enabled(ctx, lvl) || t[1].Enabled(ctx, lvl)
}

func (t tee) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t tee) WithAttrs(as []slog.Attr) slog.Handler {
	return tee{t[0].WithAttrs(as), t[1].WithAttrs(as)}
}

func (t tee) WithGroup(name string) slog.Handler {
	return tee{t[0].WithGroup(name), t[1].WithGroup(name)}
}
