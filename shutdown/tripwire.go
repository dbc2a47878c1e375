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

// Package shutdown implements the cooperative graceful-shutdown
// primitives of spec.md §4.11: a TripWire broadcast and a CancellableIo
// connection wrapper that enforces the grace/mercy phases.
package shutdown

import (
	"sync"
	"time"
)

// TripWire is a single-set, multi-observer broadcast: once Trip is
// called, every observer's Done channel closes and every call to
// Tripped/TrippedAt reflects the trip from then on. It is cloneable by
// value-sharing a pointer and safe for concurrent use; Trip is
// idempotent (spec.md §5).
type TripWire struct {
	mu      sync.Mutex
	tripped bool
	at      time.Time
	ch      chan struct{}
}

// New returns an untripped TripWire.
func New() *TripWire {
	return &TripWire{ch: make(chan struct{})}
}

// Trip trips the wire. Returns true if this call was the one that
// tripped it, false if it was already tripped (callers use this to log
// "shutdown already in progress" on subsequent signals, spec.md §4.11).
func (t *TripWire) Trip() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tripped {
		return false
	}
	t.tripped = true
	t.at = time.Now()
	close(t.ch)
	return true
}

// Tripped reports whether the wire has been tripped.
func (t *TripWire) Tripped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tripped
}

// TrippedAt returns the time Trip first succeeded, and whether it has
// tripped at all.
func (t *TripWire) TrippedAt() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.at, t.tripped
}

// Done returns a channel that closes when the wire trips. Every
// observer receives the same close event (broadcast).
func (t *TripWire) Done() <-chan struct{} {
	return t.ch
}

// ElapsedSinceTrip returns how long it has been since the wire tripped,
// and false if it has not tripped yet.
func (t *TripWire) ElapsedSinceTrip() (time.Duration, bool) {
	at, tripped := t.TrippedAt()
	if !tripped {
		return 0, false
	}
	return time.Since(at), true
}
