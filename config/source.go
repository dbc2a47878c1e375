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

// Package config binds the recognized configuration keys (spec.md §6)
// from environment variables and an optional YAML file, with a
// debug/release/named profile overlay.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source loads a raw configuration map. Later sources in a Config's
// source list override earlier ones, key for key.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// EnvSource loads configuration from environment variables with the
// given prefix. A variable name has its prefix stripped, is
// lowercased, and its remaining underscore-separated parts become a
// dotted key path — NOVA_SHUTDOWN_GRACE becomes shutdown.grace. The
// multi-word top-level keys keep_alive, temp_dir, log_level, and
// cli_colors are kept whole (NOVA_LOG_LEVEL becomes log_level).
type EnvSource struct {
	prefix string
}

// NewEnvSource returns an EnvSource reading only variables starting
// with prefix.
func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{prefix: prefix}
}

func (e *EnvSource) Load(_ context.Context) (map[string]any, error) {
	out := make(map[string]any)
	for _, kv := range os.Environ() {
		pair := strings.SplitN(kv, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], e.prefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(pair[0], e.prefix))
		switch key {
		case "keep_alive", "temp_dir", "log_level", "cli_colors":
			out[key] = strings.TrimSpace(pair[1])
			continue
		}
		parts := splitNonEmpty(key)
		if len(parts) == 0 {
			continue
		}
		setNested(out, parts, strings.TrimSpace(pair[1]))
	}
	return out, nil
}

func splitNonEmpty(key string) []string {
	raw := strings.Split(key, "_")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// setNested writes value at the dotted path described by parts,
// creating intermediate maps as needed, overwriting non-map
// collisions along the way.
func setNested(m map[string]any, parts []string, value any) {
	cur := m
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

// FileSource loads configuration from a YAML file on disk.
type FileSource struct {
	path string
}

// NewFileSource returns a FileSource reading the YAML file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Load(_ context.Context) (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", f.path, err)
	}
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", f.path, err)
	}
	return normalizeKeys(out), nil
}

// normalizeKeys lowercases map keys recursively so file-sourced and
// env-sourced keys merge under the same casing.
func normalizeKeys(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		lk := strings.ToLower(k)
		if nested, ok := v.(map[string]any); ok {
			out[lk] = normalizeKeys(nested)
			continue
		}
		out[lk] = v
	}
	return out
}
