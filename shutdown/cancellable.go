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

package shutdown

import (
	"errors"
	"net"
	"sync"
	"time"
)

// ErrCancelled is returned by CancellableIo once the grace+mercy window
// has fully elapsed (spec.md §4.11, "any further I/O returns a
// cancelled-error").
var ErrCancelled = errors.New("shutdown: connection cancelled after grace+mercy")

// Phase is the CancellableIo connection's position in the shutdown
// window, relative to when the shared TripWire tripped.
type Phase uint8

const (
	// PhaseLive: the wire has not tripped. Transparent passthrough.
	PhaseLive Phase = iota
	// PhaseGrace: trip+0..+grace. Transparent passthrough; the listener
	// (not this type) is responsible for refusing new connections.
	PhaseGrace
	// PhaseMercy: trip+grace..+grace+mercy. A graceful half-close is
	// injected once; reads/writes continue to be polled.
	PhaseMercy
	// PhaseDead: trip+grace+mercy onward. All I/O fails with
	// ErrCancelled.
	PhaseDead
)

// halfCloser is satisfied by connections that support a graceful
// half-close, e.g. *net.TCPConn's CloseWrite.
type halfCloser interface {
	CloseWrite() error
}

// CancellableIo wraps a net.Conn so that reads and writes respect the
// shared shutdown TripWire and its grace/mercy phases
// (spec.md §4.11). Every accepted connection is wrapped in one of
// these.
type CancellableIo struct {
	net.Conn
	wire  *TripWire
	grace time.Duration
	mercy time.Duration

	mercyOnce sync.Once
}

// Wrap returns conn wrapped in a CancellableIo parameterized by the
// shared wire and the configured grace/mercy durations.
func Wrap(conn net.Conn, wire *TripWire, grace, mercy time.Duration) *CancellableIo {
	return &CancellableIo{Conn: conn, wire: wire, grace: grace, mercy: mercy}
}

// CurrentPhase reports which shutdown phase the connection is in right
// now, relative to the shared wire's trip time.
func (c *CancellableIo) CurrentPhase() Phase {
	elapsed, tripped := c.wire.ElapsedSinceTrip()
	if !tripped {
		return PhaseLive
	}
	switch {
	case elapsed < c.grace:
		return PhaseGrace
	case elapsed < c.grace+c.mercy:
		return PhaseMercy
	default:
		return PhaseDead
	}
}

// Read implements net.Conn, enforcing the shutdown phases.
func (c *CancellableIo) Read(b []byte) (int, error) {
	if err := c.enforce(); err != nil {
		return 0, err
	}
	return c.Conn.Read(b)
}

// Write implements net.Conn, enforcing the shutdown phases.
func (c *CancellableIo) Write(b []byte) (int, error) {
	if err := c.enforce(); err != nil {
		return 0, err
	}
	return c.Conn.Write(b)
}

// Close closes the underlying connection directly, in every phase; it
// does not consult the TripWire.
func (c *CancellableIo) Close() error {
	return c.Conn.Close()
}

// enforce checks the current phase before delegating a read or write:
// it injects the one-time graceful half-close on entering mercy, and
// refuses all I/O once dead.
func (c *CancellableIo) enforce() error {
	switch c.CurrentPhase() {
	case PhaseDead:
		return ErrCancelled
	case PhaseMercy:
		c.mercyOnce.Do(func() {
			if hc, ok := c.Conn.(halfCloser); ok {
				_ = hc.CloseWrite()
			}
		})
	}
	return nil
}
