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

// Package fairing implements the interposition points of spec.md §4.10:
// ignite, liftoff, request, response, and shutdown hooks, attached in a
// fixed order with singleton-replacement semantics.
//
// The name and shape follow the source's "fairing" concept directly —
// a named, kinded callback bundle attached to the running application —
// generalized to Go capability interfaces instead of boxed trait
// objects (spec.md §9, Design Notes).
package fairing

import (
	"context"
	"reflect"
	"sync"

	"github.com/nova-dev/nova/router"
)

// Kind is a bitset describing which lifecycle points a Fairing
// participates in, plus the Singleton modifier.
type Kind uint8

const (
	Ignite Kind = 1 << iota
	Liftoff
	Request
	Response
	Shutdown
	// Singleton marks a fairing as replacing any previously-attached
	// fairing of the same concrete type (spec.md §4.10).
	Singleton
)

// Has reports whether k includes bit.
func (k Kind) Has(bit Kind) bool { return k&bit != 0 }

// Info describes a fairing: its participation kinds and a human name
// used in diagnostics.
type Info struct {
	Name string
	Kind Kind
}

// Fairing is the base capability every attached fairing implements.
// Which lifecycle methods actually run depends on which of the
// sub-interfaces below the concrete fairing also implements — Info.Kind
// must agree, and is what the code checks before attempting a call.
type Fairing interface {
	Info() Info
}

// Builder is the capability surface an ignite fairing can observe and
// mutate: the pre-launch configuration and route/catcher registration
// surface. It deliberately does not expose the frozen Router — routes
// are still being assembled during ignite.
type Builder interface {
	Mount(method, pattern string, h router.Handler) error
	Catch(code int, base string, h router.CatcherHandler) error
	Config() map[string]any
	SetConfig(key string, value any)
}

// Orbit is the capability surface liftoff and shutdown fairings
// observe: the application in its running state.
type Orbit interface {
	Address() string
	Config() map[string]any
}

// IgniteFairing runs once, sequentially, in attachment order, before the
// listener binds. Any failure aborts startup, but every attached ignite
// fairing still runs so failures can be reported together.
type IgniteFairing interface {
	Fairing
	OnIgnite(ctx context.Context, b Builder) error
}

// LiftoffFairing runs once, concurrently with its siblings, after the
// listener has bound but before it accepts connections.
type LiftoffFairing interface {
	Fairing
	OnLiftoff(ctx context.Context, o Orbit)
}

// RequestFairing runs sequentially, in attachment order, for every
// request, after preprocessing and before routing.
type RequestFairing interface {
	Fairing
	OnRequest(r *router.Request, d *router.Data)
}

// ResponseFairing runs sequentially, in attachment order, for every
// request, after dispatch and before the response is written.
type ResponseFairing interface {
	Fairing
	OnResponse(r *router.Request, resp *router.Response)
}

// ShutdownFairing runs once, concurrently with its siblings, when
// shutdown is first triggered. Its completion does not extend the
// grace/mercy window.
type ShutdownFairing interface {
	Fairing
	OnShutdown(ctx context.Context, o Orbit)
}

// Set is an ordered collection of attached fairings with singleton
// replacement, per spec.md §9's "(type_id, instance)" design note: Go
// has no boxed trait-object identity, so we key replacement on the
// attached value's reflect.Type instead.
type Set struct {
	mu      sync.Mutex
	entries []entry
}

type entry struct {
	typ reflect.Type
	f   Fairing
}

// Attach adds f to the set. If f's Info().Kind includes Singleton, any
// previously-attached fairing of the same concrete type is removed
// first, so the new instance takes its slot in attachment order.
func (s *Set) Attach(f Fairing) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := reflect.TypeOf(f)
	if f.Info().Kind.Has(Singleton) {
		for i, e := range s.entries {
			if e.typ == t {
				s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
				break
			}
		}
	}
	s.entries = append(s.entries, entry{typ: t, f: f})
}

// All returns every attached fairing, in attachment order.
func (s *Set) All() []Fairing {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Fairing, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.f
	}
	return out
}

// RunIgnite runs every attached IgniteFairing sequentially, in
// attachment order. Every fairing runs even after an earlier one fails;
// all errors are returned together.
func (s *Set) RunIgnite(ctx context.Context, b Builder) []error {
	var errs []error
	for _, f := range s.All() {
		if !f.Info().Kind.Has(Ignite) {
			continue
		}
		ig, ok := f.(IgniteFairing)
		if !ok {
			continue
		}
		if err := ig.OnIgnite(ctx, b); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// RunLiftoff runs every attached LiftoffFairing concurrently and waits
// for all to finish.
func (s *Set) RunLiftoff(ctx context.Context, o Orbit) {
	var wg sync.WaitGroup
	for _, f := range s.All() {
		if !f.Info().Kind.Has(Liftoff) {
			continue
		}
		lo, ok := f.(LiftoffFairing)
		if !ok {
			continue
		}
		wg.Add(1)
		go func(lo LiftoffFairing) {
			defer wg.Done()
			lo.OnLiftoff(ctx, o)
		}(lo)
	}
	wg.Wait()
}

// RunRequest runs every attached RequestFairing sequentially, in
// attachment order.
func (s *Set) RunRequest(r *router.Request, d *router.Data) {
	for _, f := range s.All() {
		if !f.Info().Kind.Has(Request) {
			continue
		}
		if rf, ok := f.(RequestFairing); ok {
			rf.OnRequest(r, d)
		}
	}
}

// RunResponse runs every attached ResponseFairing sequentially, in
// attachment order.
func (s *Set) RunResponse(r *router.Request, resp *router.Response) {
	for _, f := range s.All() {
		if !f.Info().Kind.Has(Response) {
			continue
		}
		if rf, ok := f.(ResponseFairing); ok {
			rf.OnResponse(r, resp)
		}
	}
}

// RunShutdown runs every attached ShutdownFairing concurrently and
// returns immediately after starting them; shutdown does not wait on
// their completion to proceed with its grace/mercy timers (spec.md
// §4.11 step 2).
func (s *Set) RunShutdown(ctx context.Context, o Orbit) {
	for _, f := range s.All() {
		if !f.Info().Kind.Has(Shutdown) {
			continue
		}
		if sf, ok := f.(ShutdownFairing); ok {
			go sf.OnShutdown(ctx, o)
		}
	}
}
