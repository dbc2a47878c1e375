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

package router

import (
	"net/http"
	"testing"

	"github.com/nova-dev/nova/media"
	"github.com/stretchr/testify/require"
)

func mustRoute(t *testing.T, method, pattern string, opts ...RouteOption) *Route {
	t.Helper()
	r, err := NewRoute(method, pattern, HandlerFunc(noopHandler), opts...)
	require.NoError(t, err)
	return r
}

// Property 1: collision symmetry.
func TestCollisionSymmetry(t *testing.T) {
	a := mustRoute(t, http.MethodGet, "/a/<x>")
	b := mustRoute(t, http.MethodGet, "/a/b")
	require.Equal(t, RoutesCollide(a, b), RoutesCollide(b, a))
}

// Property 2: reflexivity modulo rank (same instance always shares
// method/rank with itself).
func TestCollisionReflexive(t *testing.T) {
	a := mustRoute(t, http.MethodGet, "/a/<x>")
	require.True(t, RoutesCollide(a, a))
}

func TestPathCollideStaticMismatch(t *testing.T) {
	a := mustRoute(t, http.MethodGet, "/a")
	b := mustRoute(t, http.MethodGet, "/b")
	require.False(t, RoutesCollide(a, b))
}

func TestPathCollideDynamicAlwaysProceeds(t *testing.T) {
	a := mustRoute(t, http.MethodGet, "/<x>")
	b := mustRoute(t, http.MethodGet, "/a")
	// a is wild and b is static => default rank differs, so routes don't
	// collide by rank even though paths would. Force equal rank to
	// isolate the path-collision rule.
	a.Rank = 0
	b.Rank = 0
	require.True(t, RoutesCollide(a, b))
}

func TestPathCollideTrailingAlwaysCollides(t *testing.T) {
	a := mustRoute(t, http.MethodGet, "/<rest..>")
	b := mustRoute(t, http.MethodGet, "/foo/bar/baz")
	a.Rank = 0
	b.Rank = 0
	require.True(t, RoutesCollide(a, b))
}

func TestPathCollideLengthMismatchNoTrailing(t *testing.T) {
	a := mustRoute(t, http.MethodGet, "/a/<x>")
	b := mustRoute(t, http.MethodGet, "/a/<x>/<y>")
	a.Rank = 0
	b.Rank = 0
	require.False(t, RoutesCollide(a, b))
}

func TestDifferentRankNeverCollide(t *testing.T) {
	a := mustRoute(t, http.MethodGet, "/a", WithRank(1))
	b := mustRoute(t, http.MethodGet, "/a", WithRank(2))
	require.False(t, RoutesCollide(a, b))
}

func TestFormatCollisionNonPayloadMethodAlwaysCollides(t *testing.T) {
	jsonT := media.Type{Type: "application", Sub: "json"}
	xmlT := media.Type{Type: "application", Sub: "xml"}
	a := mustRoute(t, http.MethodGet, "/u", WithFormat(jsonT))
	b := mustRoute(t, http.MethodGet, "/u", WithFormat(xmlT))
	require.True(t, RoutesCollide(a, b))
}

func TestFormatCollisionPayloadMethod(t *testing.T) {
	jsonT := media.Type{Type: "application", Sub: "json"}
	person := media.Type{Type: "application", Sub: "x-person"}
	a := mustRoute(t, http.MethodPost, "/u", WithFormat(jsonT))
	b := mustRoute(t, http.MethodPost, "/u", WithFormat(person))
	require.False(t, RoutesCollide(a, b))

	c := mustRoute(t, http.MethodPost, "/u", WithFormat(jsonT))
	require.True(t, RoutesCollide(a, c)) // identical method/rank/path/format
	require.True(t, RoutesCollide(a, a))
}

func TestFormatCollisionOneUnspecified(t *testing.T) {
	jsonT := media.Type{Type: "application", Sub: "json"}
	a := mustRoute(t, http.MethodPost, "/u", WithFormat(jsonT))
	b := mustRoute(t, http.MethodPost, "/u")
	a.Rank = 0
	b.Rank = 0
	require.True(t, RoutesCollide(a, b))
}

func TestCatchersCollide(t *testing.T) {
	c1, err := NewCatcher(404, "/api", CatcherHandlerFunc(func(int, *Request) *Response { return nil }))
	require.NoError(t, err)
	c2, err := NewCatcher(404, "/api", CatcherHandlerFunc(func(int, *Request) *Response { return nil }))
	require.NoError(t, err)
	c3, err := NewCatcher(500, "/api", CatcherHandlerFunc(func(int, *Request) *Response { return nil }))
	require.NoError(t, err)
	c4, err := NewCatcher(404, "/api/v2", CatcherHandlerFunc(func(int, *Request) *Response { return nil }))
	require.NoError(t, err)

	require.True(t, CatchersCollide(c1, c2))
	require.False(t, CatchersCollide(c1, c3))
	require.False(t, CatchersCollide(c1, c4))
}
