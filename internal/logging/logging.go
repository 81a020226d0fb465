// Package logging builds the slog logger used for diagnostics. Status lines
// meant for the user go through output.Printer instead.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Environment variables read by OptionsFromEnv.
const (
	EnvLogFile       = "EASYTAG_LOG_FILE"
	EnvLogMaxSize    = "EASYTAG_LOG_MAX_SIZE"
	EnvLogMaxBackups = "EASYTAG_LOG_MAX_BACKUPS"
)

// Verbosity controls how much is written to the console.
type Verbosity int

const (
	VerbosityQuiet Verbosity = iota
	VerbosityInfo
	VerbosityDebug
)

func (v Verbosity) String() string {
	switch v {
	case VerbosityQuiet:
		return "quiet"
	case VerbosityInfo:
		return "info"
	case VerbosityDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseVerbosity converts a verbosity name. The empty string means info.
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quiet":
		return VerbosityQuiet, nil
	case "", "info", "normal":
		return VerbosityInfo, nil
	case "debug", "verbose":
		return VerbosityDebug, nil
	default:
		return VerbosityInfo, fmt.Errorf("unknown verbosity %q (use quiet, info or debug)", s)
	}
}

// Options controls logger construction.
type Options struct {
	Verbosity Verbosity

	// Console receives debug output. Defaults to os.Stderr.
	Console io.Writer

	// File enables a rotating JSON log at this path.
	File       string
	MaxSize    int // megabytes
	MaxBackups int
}

// OptionsFromEnv fills the file sink settings from the environment.
func OptionsFromEnv(verbosity Verbosity) Options {
	opts := Options{
		Verbosity:  verbosity,
		File:       os.Getenv(EnvLogFile),
		MaxSize:    1,
		MaxBackups: 2,
	}
	if n, err := strconv.Atoi(os.Getenv(EnvLogMaxSize)); err == nil && n > 0 {
		opts.MaxSize = n
	}
	if n, err := strconv.Atoi(os.Getenv(EnvLogMaxBackups)); err == nil && n >= 0 {
		opts.MaxBackups = n
	}
	return opts
}

// New returns the logger described by opts and a function that releases
// the log file, if any.
func New(opts Options) (*slog.Logger, func() error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var handlers []slog.Handler
	if opts.Verbosity >= VerbosityDebug {
		handlers = append(handlers, &consoleHandler{w: console})
	}

	closeFn := func() error { return nil }
	if strings.TrimSpace(opts.File) != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     30,
		}
		handlers = append(handlers, slog.NewJSONHandler(lj, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closeFn = lj.Close
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.DiscardHandler), closeFn
	case 1:
		return slog.New(handlers[0]), closeFn
	default:
		return slog.New(&multiHandler{hs: handlers}), closeFn
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// consoleHandler writes "level: message key=value ..." lines without
// timestamps.
type consoleHandler struct {
	w     io.Writer
	attrs []slog.Attr
	group string
}

func (h *consoleHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	b := &strings.Builder{}
	b.WriteString(strings.ToLower(r.Level.String()))
	b.WriteString(": ")
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(b, h.group, a)
		return true
	})
	b.WriteByte('\n')
	_, err := io.WriteString(h.w, b.String())
	return err
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	b.WriteByte(' ')
	if group != "" {
		b.WriteString(group)
		b.WriteByte('.')
	}
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(a.Value.Resolve().String())
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &consoleHandler{w: h.w, group: h.group}
	next.attrs = append(append(next.attrs, h.attrs...), attrs...)
	return next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	g := name
	if h.group != "" {
		g = h.group + "." + name
	}
	return &consoleHandler{w: h.w, attrs: h.attrs, group: g}
}

// multiHandler fans out log records to multiple handlers.
type multiHandler struct{ hs []slog.Handler }

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m.hs {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{hs: res}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithGroup(name)
	}
	return &multiHandler{hs: res}
}
