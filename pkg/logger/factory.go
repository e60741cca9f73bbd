package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config describes the process logger. It is filled from the environment
// by pkg/config.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	File   string `env:"LOG_FILE"`
}

// Option configures New.
type Option func(*options)

type options struct {
	writer     io.Writer
	level      slog.Leveler
	format     string
	extractors []ContextExtractor
}

// WithWriter sets the log destination. The default is stderr since stdout
// carries the response in CGI mode.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// WithLevel sets the minimum level.
func WithLevel(l slog.Leveler) Option {
	return func(o *options) { o.level = l }
}

// WithFormat selects "json" or "text" output.
func WithFormat(format string) Option {
	return func(o *options) { o.format = strings.ToLower(format) }
}

// WithExtractors adds context extractors applied to every record.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) { o.extractors = append(o.extractors, extractors...) }
}

func newOptions(opts []Option) options {
	o := options{writer: os.Stderr, level: slog.LevelInfo, format: "json"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) handler() slog.Handler {
	ho := &slog.HandlerOptions{Level: o.level}
	if o.format == "text" {
		return slog.NewTextHandler(o.writer, ho)
	}
	return slog.NewJSONHandler(o.writer, ho)
}

// New creates a structured logger. Without options it writes JSON at info
// level to stderr.
func New(opts ...Option) *slog.Logger {
	o := newOptions(opts)
	return slog.New(NewLogHandlerDecorator(o.handler(), o.extractors...))
}

// ParseLevel accepts slog level names ("debug", "info", "warn", "error"),
// optionally with an offset like "info+2".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("logger: invalid level %q: %w", s, err)
	}
	return l, nil
}

// OpenFile opens path for appending log lines, creating it if needed.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logger: open log file: %w", err)
	}
	return f, nil
}

// FromConfig builds a logger from cfg. When cfg.File is set the returned
// closer releases the file; otherwise it is a no-op.
func FromConfig(cfg Config, extractors ...ContextExtractor) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	opts := []Option{WithLevel(level), WithFormat(cfg.Format), WithExtractors(extractors...)}
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		f, err := OpenFile(cfg.File)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, WithWriter(f))
		closer = f
	}
	return New(opts...), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
