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

// Package nova wires the uri, media, router, fairing, shutdown, nerr,
// log, config, and metrics packages into one HTTP routing and dispatch
// core: a declaration surface for routes and catchers, the request
// preprocessing and dispatch loop of §4.8–§4.9, fairing interposition,
// and a cooperative graceful-shutdown server lifecycle.
package nova

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nova-dev/nova/config"
	"github.com/nova-dev/nova/fairing"
	"github.com/nova-dev/nova/log"
	"github.com/nova-dev/nova/metrics"
	"github.com/nova-dev/nova/router"
	"github.com/nova-dev/nova/shutdown"
)

// App is the top-level application: the route/catcher declaration
// surface, the attached fairing set, and the subsystems (config,
// logging, metrics) the dispatch loop and server lifecycle lean on.
//
// App itself implements fairing.Builder (during ignite) and
// fairing.Orbit (once running): it already owns the router and a
// mutable side-config map, so there is no need for a separate wrapper
// type.
type App struct {
	router   *router.Router
	fairings *fairing.Set

	cfgSrc   *config.Config
	settings *config.Settings

	logger  *log.Config
	metrics *metrics.Recorder
	tracer  trace.Tracer

	wire *shutdown.TripWire

	mu      sync.RWMutex
	cfgMap  map[string]any
	addr    string // set once the listener has bound
	running bool
}

// Option configures an App during New.
type Option func(*App) error

// WithConfigSource registers an additional raw configuration source,
// forwarded to config.New (e.g. config.NewEnvSource, config.NewFileSource).
func WithConfigSource(s config.Source) Option {
	return func(a *App) error {
		if a.cfgSrc == nil {
			var err error
			if a.cfgSrc, err = config.New(); err != nil {
				return err
			}
		}
		return config.WithSource(s)(a.cfgSrc)
	}
}

// WithProfile selects the active configuration profile.
func WithProfile(name string) Option {
	return func(a *App) error {
		if a.cfgSrc == nil {
			var err error
			if a.cfgSrc, err = config.New(); err != nil {
				return err
			}
		}
		return config.WithProfile(name)(a.cfgSrc)
	}
}

// WithLogger installs a preconfigured logger instead of the one New
// would otherwise build from the loaded log_level/cli_colors settings.
func WithLogger(l *log.Config) Option {
	return func(a *App) error {
		a.logger = l
		return nil
	}
}

// WithMetrics installs a metrics.Recorder. Omit to run with metrics
// disabled (every Recorder method is then a no-op on a nil receiver).
func WithMetrics(r *metrics.Recorder) Option {
	return func(a *App) error {
		a.metrics = r
		return nil
	}
}

// WithTracer installs an OpenTelemetry tracer used to wrap dispatch
// with a span per request. Omit to run with tracing disabled
// (noop.NewTracerProvider's tracer is used by default).
func WithTracer(t trace.Tracer) Option {
	return func(a *App) error {
		a.tracer = t
		return nil
	}
}

// New builds an App: an empty, not-yet-finalized router, an empty
// fairing set, and the bound configuration (environment/file sources
// supplied via options, falling back to defaults if none were given).
func New(opts ...Option) (*App, error) {
	a := &App{
		router:   router.NewRouter(),
		fairings: &fairing.Set{},
		cfgMap:   make(map[string]any),
		wire:     shutdown.New(),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, fmt.Errorf("nova: option: %w", err)
		}
	}

	if a.cfgSrc == nil {
		var err error
		if a.cfgSrc, err = config.New(); err != nil {
			return nil, err
		}
	}
	settings, err := a.cfgSrc.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("nova: load config: %w", err)
	}
	a.settings = settings

	if a.logger == nil {
		a.logger, err = log.New(
			log.WithLevel(slogLevel(settings.LogLevel)),
			log.WithHandlerType(handlerTypeFor(settings)),
		)
		if err != nil {
			return nil, fmt.Errorf("nova: build logger: %w", err)
		}
	}

	if a.tracer == nil {
		a.tracer = noop.NewTracerProvider().Tracer("nova")
	}

	return a, nil
}

func slogLevel(l config.LogLevel) log.Level {
	switch l {
	case config.LogDebug:
		return log.LevelDebug
	case config.LogCritical:
		return log.LevelError
	case config.LogOff:
		return log.LevelError + 4 // above Error: initializeHandler's filter silences everything
	default:
		return log.LevelInfo
	}
}

func handlerTypeFor(s *config.Settings) log.HandlerType {
	if s.CLIColors {
		return log.ConsoleHandler
	}
	return log.JSONHandler
}

// Settings returns the configuration this App was built from.
func (a *App) Settings() config.Settings {
	return *a.settings
}

// Router returns the underlying router for advanced use (e.g. calling
// Finalize directly in tests without starting a server).
func (a *App) Router() *router.Router {
	return a.router
}

// Logger returns the application's base logger, for use outside a
// request (startup/shutdown messages, background work).
func (a *App) Logger() *slog.Logger {
	return a.logger.Logger()
}

// Metrics returns the configured metrics.Recorder, or nil if metrics
// are disabled.
func (a *App) Metrics() *metrics.Recorder {
	return a.metrics
}

// Attach adds f to the application's fairing set (spec.md §4.10).
func (a *App) Attach(f fairing.Fairing) {
	a.fairings.Attach(f)
}

// Mount registers a route directly from a method/pattern/handler,
// satisfying fairing.Builder. Most callers prefer the Get/Post/...
// shortcuts below.
func (a *App) Mount(method, pattern string, h router.Handler) error {
	r, err := router.NewRoute(method, pattern, h)
	if err != nil {
		return fmt.Errorf("nova: mount %s %s: %w", method, pattern, err)
	}
	a.router.AddRoute(r)
	return nil
}

// Catch registers an error catcher, satisfying fairing.Builder. code is
// a status code or router.DefaultCatcherCode for the code-agnostic
// default.
func (a *App) Catch(code int, base string, h router.CatcherHandler) error {
	c, err := router.NewCatcher(code, base, h)
	if err != nil {
		return fmt.Errorf("nova: catch(%d, %q): %w", code, base, err)
	}
	a.router.AddCatcher(c)
	return nil
}

// Config returns the fairing-visible side-config map, satisfying both
// fairing.Builder and fairing.Orbit.
func (a *App) Config() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[string]any, len(a.cfgMap))
	for k, v := range a.cfgMap {
		out[k] = v
	}
	return out
}

// SetConfig sets a key in the fairing-visible side-config map,
// satisfying fairing.Builder.
func (a *App) SetConfig(key string, value any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfgMap[key] = value
}

// Address returns the bound listen address once the server is running,
// satisfying fairing.Orbit. Empty before Start.
func (a *App) Address() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.addr
}

func (a *App) route(method, pattern string, h router.HandlerFunc, opts ...router.RouteOption) error {
	r, err := router.NewRoute(method, pattern, h, opts...)
	if err != nil {
		return fmt.Errorf("nova: %s %s: %w", method, pattern, err)
	}
	a.router.AddRoute(r)
	return nil
}

// Get registers a GET route.
func (a *App) Get(pattern string, h router.HandlerFunc, opts ...router.RouteOption) error {
	return a.route(http.MethodGet, pattern, h, opts...)
}

// Post registers a POST route.
func (a *App) Post(pattern string, h router.HandlerFunc, opts ...router.RouteOption) error {
	return a.route(http.MethodPost, pattern, h, opts...)
}

// Put registers a PUT route.
func (a *App) Put(pattern string, h router.HandlerFunc, opts ...router.RouteOption) error {
	return a.route(http.MethodPut, pattern, h, opts...)
}

// Patch registers a PATCH route.
func (a *App) Patch(pattern string, h router.HandlerFunc, opts ...router.RouteOption) error {
	return a.route(http.MethodPatch, pattern, h, opts...)
}

// Delete registers a DELETE route.
func (a *App) Delete(pattern string, h router.HandlerFunc, opts ...router.RouteOption) error {
	return a.route(http.MethodDelete, pattern, h, opts...)
}

// Head registers a HEAD route. Most applications never need this
// directly — the dispatch loop already falls back to the matching GET
// route when no HEAD route exists (spec.md §4.9 step 2c, property 7).
func (a *App) Head(pattern string, h router.HandlerFunc, opts ...router.RouteOption) error {
	return a.route(http.MethodHead, pattern, h, opts...)
}

// Options registers an OPTIONS route.
func (a *App) Options(pattern string, h router.HandlerFunc, opts ...router.RouteOption) error {
	return a.route(http.MethodOptions, pattern, h, opts...)
}
