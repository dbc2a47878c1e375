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
	"github.com/nova-dev/nova/uri"
	"github.com/stretchr/testify/require"
)

func reqFor(t *testing.T, method, origin string, headers map[string]string) *Request {
	t.Helper()
	o, ok := uri.Parse(origin)
	require.True(t, ok)
	h := make(http.Header)
	for k, v := range headers {
		h.Set(k, v)
	}
	return NewRequest(method, o, h, ConnMeta{})
}

// S1: static route wins over a same-rank-class dynamic route via rank,
// and the dynamic route still matches what the static one doesn't.
func TestScenarioS1(t *testing.T) {
	rt := NewRouter()
	static := mustRoute(t, http.MethodGet, "/a")
	dyn := mustRoute(t, http.MethodGet, "/<x>")
	rt.AddRoute(static)
	rt.AddRoute(dyn)
	require.NoError(t, rt.Finalize())

	reqA := reqFor(t, http.MethodGet, "/a", nil)
	var got *Route
	for r := range rt.Candidates(reqA) {
		got = r
		break
	}
	require.Same(t, static, got)

	reqB := reqFor(t, http.MethodGet, "/b", nil)
	got = nil
	for r := range rt.Candidates(reqB) {
		got = r
		break
	}
	require.Same(t, dyn, got)
	b := Bind(dyn, reqB)
	require.Equal(t, "b", b.Path["x"])
}

// S2: trailing wildcard semantics, including matching "/" with zero
// bound segments (Open Question in spec.md §9).
func TestScenarioS2(t *testing.T) {
	rt := NewRouter()
	trailing := mustRoute(t, http.MethodGet, "/<a..>")
	foo := mustRoute(t, http.MethodGet, "/foo")
	rt.AddRoute(trailing)
	rt.AddRoute(foo)
	require.NoError(t, rt.Finalize())

	pick := func(path string) *Route {
		req := reqFor(t, http.MethodGet, path, nil)
		for r := range rt.Candidates(req) {
			return r
		}
		return nil
	}

	require.Same(t, foo, pick("/foo"))

	r := pick("/foo/bar/baz")
	require.Same(t, trailing, r)
	b := Bind(trailing, reqFor(t, http.MethodGet, "/foo/bar/baz", nil))
	require.Equal(t, []string{"foo", "bar", "baz"}, b.TrailingPath)

	r = pick("/")
	require.Same(t, trailing, r)
	b = Bind(trailing, reqFor(t, http.MethodGet, "/", nil))
	require.Empty(t, b.TrailingPath)
}

// S3: format-constrained routes select on Content-Type specificity.
func TestScenarioS3(t *testing.T) {
	jsonT := media.Type{Type: "application", Sub: "json"}
	personT := media.Type{Type: "application", Sub: "x-person"}
	rt := NewRouter()
	rJSON := mustRoute(t, http.MethodPost, "/u", WithFormat(jsonT))
	rPerson := mustRoute(t, http.MethodPost, "/u", WithFormat(personT))
	rt.AddRoute(rJSON)
	rt.AddRoute(rPerson)
	// same default rank & path & method; the two formats do not collide
	// on a payload method, so Finalize would accept equal ranks too. The
	// distinct ranks only fix the candidate order explicitly.
	rPerson.Rank = rJSON.Rank + 1
	require.NoError(t, rt.Finalize())

	pick := func(ct string) *Route {
		req := reqFor(t, http.MethodPost, "/u", map[string]string{"Content-Type": ct})
		for r := range rt.Candidates(req) {
			return r
		}
		return nil
	}

	require.Same(t, rJSON, pick("application/json"))
	require.Same(t, rPerson, pick("application/x-person"))
	require.Nil(t, pick("text/plain"))
}

// S4: query matching — static fields required, dynamic fields optional.
func TestScenarioS4(t *testing.T) {
	rt := NewRouter()
	r := mustRoute(t, http.MethodGet, "/q?<a>&b=1")
	rt.AddRoute(r)
	require.NoError(t, rt.Finalize())

	req1 := reqFor(t, http.MethodGet, "/q?a=2&b=1", nil)
	var got *Route
	for c := range rt.Candidates(req1) {
		got = c
	}
	require.Same(t, r, got)
	require.Equal(t, "2", Bind(r, req1).Query["a"])

	req2 := reqFor(t, http.MethodGet, "/q?a=2", nil)
	got = nil
	for c := range rt.Candidates(req2) {
		got = c
	}
	require.Nil(t, got)

	req3 := reqFor(t, http.MethodGet, "/q?b=1", nil)
	got = nil
	for c := range rt.Candidates(req3) {
		got = c
	}
	require.Same(t, r, got)
	_, ok := Bind(r, req3).Query["a"]
	require.False(t, ok)
}

// S5 + property 5: catcher depth preference, ties to explicit.
func TestScenarioS5(t *testing.T) {
	rt := NewRouter()
	explicit, err := NewCatcher(404, "/api", CatcherHandlerFunc(func(int, *Request) *Response { return nil }))
	require.NoError(t, err)
	def, err := NewCatcher(DefaultCatcherCode, "/api/v2", CatcherHandlerFunc(func(int, *Request) *Response { return nil }))
	require.NoError(t, err)
	rt.AddCatcher(explicit)
	rt.AddCatcher(def)
	require.NoError(t, rt.Finalize())

	deep := reqFor(t, http.MethodGet, "/api/v2/users", nil)
	require.Same(t, def, rt.SelectCatcher(404, deep))

	shallow := reqFor(t, http.MethodGet, "/api/users", nil)
	require.Same(t, explicit, rt.SelectCatcher(404, shallow))
}

func TestCatcherSelectionTieGoesToExplicit(t *testing.T) {
	rt := NewRouter()
	explicit, _ := NewCatcher(404, "/api", CatcherHandlerFunc(func(int, *Request) *Response { return nil }))
	def, _ := NewCatcher(DefaultCatcherCode, "/api", CatcherHandlerFunc(func(int, *Request) *Response { return nil }))
	rt.AddCatcher(explicit)
	rt.AddCatcher(def)
	require.NoError(t, rt.Finalize())

	req := reqFor(t, http.MethodGet, "/api/users", nil)
	require.Same(t, explicit, rt.SelectCatcher(404, req))
}

// Property 4: rank ordering determinism with stable insertion-order
// tie-break.
func TestCandidatesAscendingRankStableTieBreak(t *testing.T) {
	rt := NewRouter()
	first := mustRoute(t, http.MethodGet, "/x", WithRank(0))
	second := mustRoute(t, http.MethodGet, "/<y>", WithRank(0))
	rt.AddRoute(first)
	rt.AddRoute(second)

	req := reqFor(t, http.MethodGet, "/x", nil)
	var order []*Route
	for r := range rt.Candidates(req) {
		order = append(order, r)
	}
	require.Equal(t, []*Route{first, second}, order)
}

// Property 3: match entails collide, for same (method, rank).
func TestMatchEntailsCollide(t *testing.T) {
	a := mustRoute(t, http.MethodGet, "/a")
	b := mustRoute(t, http.MethodGet, "/<x>")
	a.Rank = 0
	b.Rank = 0
	req := reqFor(t, http.MethodGet, "/a", nil)
	require.True(t, Matches(a, req))
	require.True(t, Matches(b, req))
	require.True(t, RoutesCollide(a, b))
}
