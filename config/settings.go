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
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// LogLevel is one of the four levels the core recognizes.
type LogLevel string

const (
	LogOff      LogLevel = "off"
	LogCritical LogLevel = "critical"
	LogNormal   LogLevel = "normal"
	LogDebug    LogLevel = "debug"
)

// Ident is the value of the Server response header: either a literal
// string, or disabled entirely (the `ident = false` form in spec.md
// §6).
type Ident struct {
	Value    string
	Disabled bool
}

func (i Ident) String() string {
	if i.Disabled {
		return ""
	}
	return i.Value
}

// ByteSize is a byte count parsed from strings like "2MiB", "512KB",
// or a bare integer (bytes).
type ByteSize int64

var byteSizeUnits = map[string]int64{
	"b":   1,
	"kb":  1000,
	"mb":  1000 * 1000,
	"gb":  1000 * 1000 * 1000,
	"kib": 1024,
	"mib": 1024 * 1024,
	"gib": 1024 * 1024 * 1024,
}

// ParseByteSize parses a bytesize string per spec.md §6's
// `limits.<name>` key type. No byte-size parsing library appears
// anywhere in the retrieved corpus, so this is a small hand-rolled
// parser rather than a dependency substitution.
func ParseByteSize(s string) (ByteSize, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("config: empty bytesize")
	}
	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	numPart, unitPart := s[:i], strings.ToLower(strings.TrimSpace(s[i:]))
	if numPart == "" {
		return 0, fmt.Errorf("config: invalid bytesize %q", s)
	}
	n, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid bytesize %q: %w", s, err)
	}
	if unitPart == "" {
		return ByteSize(n), nil
	}
	mult, ok := byteSizeUnits[unitPart]
	if !ok {
		return 0, fmt.Errorf("config: unknown bytesize unit %q in %q", unitPart, s)
	}
	return ByteSize(n * float64(mult)), nil
}

// ShutdownSettings is the `shutdown.*` key group of spec.md §6.
type ShutdownSettings struct {
	CtrlC   bool          `config:"ctrlc" default:"true"`
	Signals []string      `config:"signals" default:"term,int"`
	Grace   time.Duration `config:"grace" default:"2s"`
	Mercy   time.Duration `config:"mercy" default:"3s"`
}

// Settings is the fully bound, typed form of spec.md §6's recognized
// configuration keys.
type Settings struct {
	Address  net.IP            `config:"address" default:"0.0.0.0"`
	Port     uint16            `config:"port" default:"8000"`
	Workers  uint              `config:"workers"`
	KeepAlive uint32           `config:"keep_alive" default:"5"`
	Ident    Ident             `config:"ident"`
	Limits   map[string]ByteSize `config:"limits"`
	TempDir  string            `config:"temp_dir" default:"/tmp"`
	Shutdown ShutdownSettings  `config:"shutdown"`
	LogLevel LogLevel          `config:"log_level" default:"normal"`
	CLIColors bool             `config:"cli_colors" default:"true"`
}

// Validate reports configuration values that are structurally invalid
// (spec.md §6 gives types, not explicit range constraints, so this
// only rejects values that cannot be acted on at all).
func (s *Settings) Validate() error {
	switch s.LogLevel {
	case LogOff, LogCritical, LogNormal, LogDebug:
	default:
		return fmt.Errorf("config: invalid log_level %q", s.LogLevel)
	}
	if s.Port == 0 {
		return fmt.Errorf("config: port must be nonzero")
	}
	return nil
}
