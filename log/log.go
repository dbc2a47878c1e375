// Copyright 2026 The Nova Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log is Nova's ambient structured-logging layer: a thin,
// pluggable wrapper over log/slog offering a JSON handler, a text
// handler, and a colored console handler for local development,
// selected by HandlerType.
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// HandlerType selects the slog.Handler backing a Logger.
type HandlerType string

const (
	// JSONHandler emits structured JSON, the default for production.
	JSONHandler HandlerType = "json"
	// TextHandler emits slog's key=value text format.
	TextHandler HandlerType = "text"
	// ConsoleHandler emits colored, human-oriented lines for local runs.
	ConsoleHandler HandlerType = "console"
)

// Level aliases slog.Level so callers need not import log/slog directly.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	// ErrNilLogger is returned when WithCustomLogger(nil) is used.
	ErrNilLogger = errors.New("log: custom logger cannot be nil")
	// ErrCannotChangeLevel is returned by SetLevel on a custom logger,
	// whose handler Nova does not own.
	ErrCannotChangeLevel = errors.New("log: cannot change level of a custom logger")
)

// Logger is a structured logger. *Config implements it; so does
// *slog.Logger by virtue of having the same method set shape — code
// that only needs logging, not reconfiguration, should depend on this
// interface rather than the concrete Config type.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var bgCtx = context.Background()

// Config is Nova's logger: a reconfigurable wrapper over an slog.Logger
// selected by HandlerType. The zero value is not usable; build one with
// New.
type Config struct {
	handlerType HandlerType
	output      io.Writer
	level       Level
	addSource   bool

	serviceName    string
	serviceVersion string
	environment    string

	customLogger *slog.Logger
	useCustom    bool

	logger atomic.Pointer[slog.Logger]
	mu     sync.Mutex
}

// Option configures a Config.
type Option func(*Config)

func defaultConfig() *Config {
	return &Config{
		handlerType:    JSONHandler,
		output:         os.Stdout,
		level:          LevelInfo,
		serviceName:    "nova",
		serviceVersion: "unknown",
		environment:    "development",
	}
}

// New builds a Config from opts and initializes its handler.
func New(opts ...Option) (*Config, error) {
	c := defaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("log: invalid configuration: %w", err)
	}
	if err := c.initializeHandler(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNew is New, panicking on error — for use at process startup.
func MustNew(opts ...Option) *Config {
	c, err := New(opts...)
	if err != nil {
		panic("log: initialization failed: " + err.Error())
	}
	return c
}

func (c *Config) validate() error {
	if c.output == nil {
		return errors.New("output writer cannot be nil")
	}
	if c.serviceName == "" {
		return errors.New("service name cannot be empty")
	}
	if c.useCustom && c.customLogger == nil {
		return ErrNilLogger
	}
	return nil
}

func (c *Config) initializeHandler() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.useCustom {
		c.logger.Store(c.customLogger)
		return nil
	}

	opts := &slog.HandlerOptions{
		Level:       c.level,
		AddSource:   c.addSource,
		ReplaceAttr: redactSensitive,
	}

	var h slog.Handler
	switch c.handlerType {
	case JSONHandler:
		h = slog.NewJSONHandler(c.output, opts)
	case TextHandler:
		h = slog.NewTextHandler(c.output, opts)
	case ConsoleHandler:
		h = newConsoleHandler(c.output, opts)
	default:
		return fmt.Errorf("unknown handler type %q", c.handlerType)
	}

	c.logger.Store(slog.New(h).With(
		"service", c.serviceName,
		"version", c.serviceVersion,
		"env", c.environment,
	))
	return nil
}

// redactSensitive masks common secret-bearing attribute keys regardless
// of which handler is in use.
func redactSensitive(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case "password", "token", "secret", "api_key", "authorization":
		return slog.String(a.Key, "***REDACTED***")
	}
	return a
}

// Logger returns the current *slog.Logger. Safe for concurrent use.
func (c *Config) Logger() *slog.Logger { return c.logger.Load() }

// With returns a derived *slog.Logger carrying the given attributes.
func (c *Config) With(args ...any) *slog.Logger { return c.Logger().With(args...) }

func (c *Config) Debug(msg string, args ...any) { c.Logger().Log(bgCtx, LevelDebug, msg, args...) }
func (c *Config) Info(msg string, args ...any)  { c.Logger().Log(bgCtx, LevelInfo, msg, args...) }
func (c *Config) Warn(msg string, args ...any)  { c.Logger().Log(bgCtx, LevelWarn, msg, args...) }
func (c *Config) Error(msg string, args ...any) { c.Logger().Log(bgCtx, LevelError, msg, args...) }

// SetLevel dynamically changes the minimum level. Not supported on a
// custom logger, since Nova does not own its handler.
func (c *Config) SetLevel(level Level) error {
	c.mu.Lock()
	if c.useCustom {
		c.mu.Unlock()
		return ErrCannotChangeLevel
	}
	c.mu.Unlock()

	c.mu.Lock()
	old := c.level
	c.level = level
	c.mu.Unlock()

	if err := c.initializeHandler(); err != nil {
		c.mu.Lock()
		c.level = old
		c.mu.Unlock()
		return err
	}
	return nil
}

// Functional options.

func WithHandlerType(t HandlerType) Option { return func(c *Config) { c.handlerType = t } }
func WithJSONHandler() Option              { return WithHandlerType(JSONHandler) }
func WithTextHandler() Option              { return WithHandlerType(TextHandler) }
func WithConsoleHandler() Option           { return WithHandlerType(ConsoleHandler) }
func WithOutput(w io.Writer) Option        { return func(c *Config) { c.output = w } }
func WithLevel(l Level) Option             { return func(c *Config) { c.level = l } }
func WithSource(enabled bool) Option       { return func(c *Config) { c.addSource = enabled } }

func WithServiceName(name string) Option {
	return func(c *Config) {
		if name != "" {
			c.serviceName = name
		}
	}
}

func WithServiceVersion(v string) Option {
	return func(c *Config) {
		if v != "" {
			c.serviceVersion = v
		}
	}
}

func WithEnvironment(env string) Option {
	return func(c *Config) {
		if env != "" {
			c.environment = env
		}
	}
}

// WithCustomLogger installs a caller-supplied *slog.Logger, bypassing
// handler selection entirely (useful when embedding Nova in a larger
// binary that already owns its logging setup).
func WithCustomLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.customLogger = l
		c.useCustom = true
	}
}

// NewTestLogger returns a Config writing JSON to an in-memory buffer,
// for assertions in tests.
func NewTestLogger(w io.Writer) *Config {
	return MustNew(WithJSONHandler(), WithOutput(w), WithLevel(LevelDebug))
}
