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

package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"reflect"
	"strings"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// Option configures a Config during New.
type Option func(*Config) error

// Config loads and merges spec.md §6's recognized keys from one or
// more Sources, applies a profile overlay, and binds the result into
// a Settings struct.
type Config struct {
	sources []Source
	profile string

	mu     sync.RWMutex
	values map[string]any
	bound  Settings
}

// WithSource registers an additional raw configuration Source. Later
// sources override earlier ones.
func WithSource(s Source) Option {
	return func(c *Config) error {
		if s == nil {
			return errors.New("config: source cannot be nil")
		}
		c.sources = append(c.sources, s)
		return nil
	}
}

// WithEnv registers an EnvSource with the given prefix, e.g. "NOVA_".
func WithEnv(prefix string) Option {
	return WithSource(NewEnvSource(prefix))
}

// WithFile registers a YAML FileSource.
func WithFile(path string) Option {
	return WithSource(NewFileSource(path))
}

// WithProfile selects the named profile overlay ("debug", "release",
// or a user-defined name). Profile values live under a top-level
// "profiles.<name>" map and override the default/global values for
// that key only (spec.md §6).
func WithProfile(name string) Option {
	return func(c *Config) error {
		c.profile = name
		return nil
	}
}

// New builds a Config from opts without loading it yet.
func New(opts ...Option) (*Config, error) {
	c := &Config{}
	var errs error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return c, errs
}

// Load reads every source in order, merges them (later overrides
// earlier), applies the active profile overlay, and binds the result
// into a Settings. Load is safe to call again to reload.
func (c *Config) Load(ctx context.Context) (*Settings, error) {
	merged := make(map[string]any)
	for i, src := range c.sources {
		raw, err := src.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("config: source[%d]: %w", i, err)
		}
		if raw == nil {
			continue
		}
		if err := mergo.Map(&merged, raw, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("config: source[%d] merge: %w", i, err)
		}
	}

	if c.profile != "" {
		if profiles, ok := merged["profiles"].(map[string]any); ok {
			if overlay, ok := profiles[strings.ToLower(c.profile)].(map[string]any); ok {
				if err := mergo.Map(&merged, overlay, mergo.WithOverride); err != nil {
					return nil, fmt.Errorf("config: profile overlay: %w", err)
				}
			}
		}
	}

	var bound Settings
	applyDefaults(&bound)
	if err := decode(merged, &bound); err != nil {
		return nil, fmt.Errorf("config: bind: %w", err)
	}
	if err := bound.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.values = merged
	c.bound = bound
	c.mu.Unlock()

	return &bound, nil
}

// MustLoad is Load, panicking on error.
func (c *Config) MustLoad(ctx context.Context) *Settings {
	s, err := c.Load(ctx)
	if err != nil {
		panic(err)
	}
	return s
}

// Settings returns the most recently bound Settings.
func (c *Config) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bound
}

// Get returns the raw value at a dotted key path, or nil.
func (c *Config) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cur := any(c.values)
	for _, part := range strings.Split(strings.ToLower(key), ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[part]
		if !ok {
			return nil
		}
	}
	return cur
}

// StringOr returns key as a string, or def if absent.
func (c *Config) StringOr(key, def string) string {
	if v := c.Get(key); v != nil {
		return cast.ToString(v)
	}
	return def
}

func decodeIdentHook(f, t reflect.Type, data any) (any, error) {
	if t != reflect.TypeOf(Ident{}) {
		return data, nil
	}
	switch f.Kind() {
	case reflect.Bool:
		b := data.(bool)
		if !b {
			return Ident{Disabled: true}, nil
		}
		return Ident{}, nil
	case reflect.String:
		return Ident{Value: data.(string)}, nil
	}
	return data, nil
}

func decodeByteSizeHook(f, t reflect.Type, data any) (any, error) {
	if t != reflect.TypeOf(ByteSize(0)) || f.Kind() != reflect.String {
		return data, nil
	}
	return ParseByteSize(data.(string))
}

func decodeIPHook(f, t reflect.Type, data any) (any, error) {
	if t != reflect.TypeOf(net.IP{}) || f.Kind() != reflect.String {
		return data, nil
	}
	ip := net.ParseIP(data.(string))
	if ip == nil {
		return nil, fmt.Errorf("config: invalid IP address %q", data)
	}
	return ip, nil
}

func decode(values map[string]any, out *Settings) error {
	cfg := &mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			decodeIdentHook,
			decodeByteSizeHook,
			decodeIPHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	}
	dec, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return dec.Decode(values)
}

// applyDefaults seeds out with the `default:"..."` tag values before
// decoding overwrites them — mirroring rivaas.dev/config's default-tag
// convention, scoped to the fixed Settings shape rather than arbitrary
// user structs.
func applyDefaults(out *Settings) {
	out.Address = net.IPv4(0, 0, 0, 0)
	out.Port = 8000
	out.KeepAlive = 5
	out.TempDir = "/tmp"
	out.LogLevel = LogNormal
	out.CLIColors = true
	out.Shutdown = ShutdownSettings{
		CtrlC:   true,
		Signals: []string{"term", "int"},
		Grace:   2 * time.Second,
		Mercy:   3 * time.Second,
	}
}
