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

// Package nerr holds the small, typed error kinds of spec.md §7, in the
// style of rivaas.dev/errors' Simple formatter: plain structs that
// implement error, rather than a hierarchy of wrapped sentinels.
// router.CollisionError (§7's CollisionError kind) lives in the router
// package instead, next to the Finalize call that produces it.
package nerr

import (
	"fmt"
	"time"
)

// RouteOutcomeFailure wraps a handler's terminal Failure(status)
// outcome as it propagates into the error path.
type RouteOutcomeFailure struct {
	Status int
}

func (e *RouteOutcomeFailure) Error() string {
	return fmt.Sprintf("nova: handler returned failure(%d)", e.Status)
}

// Code identifies the error kind for structured logging/metrics.
func (e *RouteOutcomeFailure) Code() string { return "route_outcome_failure" }

// NotFound is raised when candidate iteration exhausts with no match.
type NotFound struct {
	Method string
	Path   string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("nova: no route matched %s %s", e.Method, e.Path)
}

func (e *NotFound) Code() string { return "not_found" }

// HandlerPanic wraps a recovered handler panic.
type HandlerPanic struct {
	Recovered any
	Stack     []byte
}

func (e *HandlerPanic) Error() string {
	return fmt.Sprintf("nova: handler panicked: %v", e.Recovered)
}

func (e *HandlerPanic) Code() string { return "handler_panic" }

// CatcherFailure is raised when a selected catcher itself fails to
// produce a response (spec.md §4.9 step 2.d, §7).
type CatcherFailure struct {
	Status int // the status the catcher was asked to handle
}

func (e *CatcherFailure) Error() string {
	return fmt.Sprintf("nova: catcher for status %d failed", e.Status)
}

func (e *CatcherFailure) Code() string { return "catcher_failure" }

// BadRequest is raised when the transport layer could not produce a
// well-formed Request at all (spec.md §7).
type BadRequest struct {
	Reason string
}

func (e *BadRequest) Error() string {
	return fmt.Sprintf("nova: bad request: %s", e.Reason)
}

func (e *BadRequest) Code() string { return "bad_request" }

// ShutdownTimeout is raised when grace+mercy elapses with outstanding
// references to shared server state still live (spec.md §4.11 step 5,
// §7).
type ShutdownTimeout struct {
	Elapsed time.Duration
	// State retains a handle to the still-shared state, so callers can
	// inspect what was still outstanding.
	State any
}

func (e *ShutdownTimeout) Error() string {
	return fmt.Sprintf("nova: shutdown did not complete within %s", e.Elapsed)
}

func (e *ShutdownTimeout) Code() string { return "shutdown_timeout" }
