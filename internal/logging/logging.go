package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Log output formats accepted by WithFormat.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type Option func(*config) error

type config struct {
	writers          []io.Writer
	closers          []io.Closer
	useDefaultWriter bool
	level            slog.Level
	format           string
}

// Diagnostics go to stderr so command output on stdout stays clean.
func defaultConfig() *config {
	return &config{
		writers:          []io.Writer{os.Stderr},
		useDefaultWriter: true,
		level:            slog.LevelInfo,
		format:           FormatText,
	}
}

func WithWriter(w io.Writer) Option {
	return func(cfg *config) error {
		if w == nil {
			return errors.New("writer cannot be nil")
		}
		cfg.writers = append(cfg.writers, w)
		return nil
	}
}

func WithFile(path string) Option {
	return func(cfg *config) error {
		if strings.TrimSpace(path) == "" {
			return errors.New("file path cannot be empty")
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return err
		}
		cfg.writers = append(cfg.writers, f)
		cfg.closers = append(cfg.closers, f)
		return nil
	}
}

func WithoutStderr() Option {
	return func(cfg *config) error {
		cfg.useDefaultWriter = false
		filtered := cfg.writers[:0]
		for _, w := range cfg.writers {
			if w == os.Stderr {
				continue
			}
			filtered = append(filtered, w)
		}
		cfg.writers = filtered
		return nil
	}
}

func WithLevel(level slog.Level) Option {
	return func(cfg *config) error {
		cfg.level = level
		return nil
	}
}

func WithFormat(format string) Option {
	return func(cfg *config) error {
		switch f := strings.ToLower(strings.TrimSpace(format)); f {
		case FormatText, FormatJSON:
			cfg.format = f
			return nil
		case "":
			return nil
		default:
			return fmt.Errorf("unsupported log format %q", format)
		}
	}
}

// Logger is a component-scoped slog logger that owns any files it writes to.
type Logger struct {
	*slog.Logger

	base        *slog.Logger
	mu          *sync.Mutex
	closers     *[]io.Closer
	ownsClosers bool
}

// New builds a logger tagged with component. By default it writes text to stderr.
func New(component string, opts ...Option) (*Logger, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			for _, closer := range cfg.closers {
				_ = closer.Close()
			}
			return nil, err
		}
	}
	if len(cfg.writers) == 0 {
		return nil, errors.New("no writers configured for logger")
	}

	writer := io.MultiWriter(cfg.writers...)
	handlerOpts := &slog.HandlerOptions{Level: cfg.level}
	var handler slog.Handler
	if cfg.format == FormatJSON {
		handler = slog.NewJSONHandler(writer, handlerOpts)
	} else {
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	base := slog.New(handler)
	closers := cfg.closers
	return &Logger{
		Logger:      base.With("component", component),
		base:        base,
		mu:          &sync.Mutex{},
		closers:     &closers,
		ownsClosers: true,
	}, nil
}

// WithComponent returns a logger sharing the same outputs under another component
// name. Only the original logger closes the outputs.
func (l *Logger) WithComponent(component string) *Logger {
	if l == nil || l.base == nil {
		return nil
	}
	return &Logger{
		Logger:      l.base.With("component", component),
		base:        l.base,
		mu:          l.mu,
		closers:     l.closers,
		ownsClosers: false,
	}
}

func (l *Logger) Close() error {
	if l == nil || !l.ownsClosers || l.closers == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	var firstErr error
	for _, closer := range *l.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	*l.closers = nil
	return firstErr
}

// ParseLevel maps a configured level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}
