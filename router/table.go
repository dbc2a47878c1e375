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
	"fmt"
	"iter"
	"sort"
)

// Conflict describes one pair of colliding routes or catchers, surfaced
// by Finalize so authors can see exactly what shadows what.
type Conflict struct {
	A, B string // String() of the two colliding items
}

// CollisionError is returned by Finalize when any routes or catchers
// collide; the caller must not transition to the running state
// (spec.md §4.7, §7 "CollisionError").
type CollisionError struct {
	RouteConflicts   []Conflict
	CatcherConflicts []Conflict
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("router: %d route collision(s), %d catcher collision(s)",
		len(e.RouteConflicts), len(e.CatcherConflicts))
}

// Router holds the two tables of spec.md §3: routes bucketed by method
// and sorted by rank, and catchers bucketed by status and sorted by
// base depth. Once Finalize succeeds the table is immutable for the
// server's running lifetime ("orbit").
type Router struct {
	routes   map[string][]*Route
	catchers map[int][]*Catcher

	nextSeq  int
	final    bool
	notFound int // always 404; the dispatch loop uses http.StatusNotFound and does not read this

	shadowWarnings []string
}

// NewRouter returns an empty, not-yet-finalized Router.
func NewRouter() *Router {
	return &Router{
		routes:   make(map[string][]*Route),
		catchers: make(map[int][]*Catcher),
		notFound: 404,
	}
}

// AddRoute inserts r into routes[r.Method], then stable-sorts that
// bucket ascending by rank (spec.md §4.5). Panics if called after
// Finalize, since the table is immutable once running.
func (rt *Router) AddRoute(r *Route) {
	if rt.final {
		panic("router: AddRoute called after Finalize")
	}
	r.seq = rt.nextSeq
	rt.nextSeq++
	rt.routes[r.Method] = append(rt.routes[r.Method], r)
	bucket := rt.routes[r.Method]
	sort.SliceStable(bucket, func(i, j int) bool { return bucket[i].Rank < bucket[j].Rank })
}

// AddCatcher inserts c into catchers[c.Code], then sorts that bucket by
// descending base-segment count (spec.md §4.5).
func (rt *Router) AddCatcher(c *Catcher) {
	if rt.final {
		panic("router: AddCatcher called after Finalize")
	}
	c.seq = rt.nextSeq
	rt.nextSeq++
	rt.catchers[c.Code] = append(rt.catchers[c.Code], c)
	bucket := rt.catchers[c.Code]
	sort.SliceStable(bucket, func(i, j int) bool { return bucket[i].BaseDepth() > bucket[j].BaseDepth() })
}

// Finalize computes all pairwise collisions among routes and among
// catchers (spec.md §4.7). It is O(n^2) on route count by design — the
// route count is small and this runs once, at startup.
func (rt *Router) Finalize() error {
	var ce CollisionError
	for _, bucket := range rt.routes {
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				if RoutesCollide(bucket[i], bucket[j]) {
					ce.RouteConflicts = append(ce.RouteConflicts, Conflict{
						A: bucket[i].String(), B: bucket[j].String(),
					})
				} else if wouldCollideIgnoringRank(bucket[i], bucket[j]) {
					rt.shadowWarnings = append(rt.shadowWarnings, fmt.Sprintf(
						"%s (rank %d) and %s (rank %d) would collide but for rank: one shadows the other",
						bucket[i].String(), bucket[i].Rank, bucket[j].String(), bucket[j].Rank))
				}
			}
		}
	}
	for _, bucket := range rt.catchers {
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				if CatchersCollide(bucket[i], bucket[j]) {
					ce.CatcherConflicts = append(ce.CatcherConflicts, Conflict{
						A: fmt.Sprintf("catcher(%d, %s)", bucket[i].Code, bucket[i].Base.Path()),
						B: fmt.Sprintf("catcher(%d, %s)", bucket[j].Code, bucket[j].Base.Path()),
					})
				}
			}
		}
	}
	if len(ce.RouteConflicts) > 0 || len(ce.CatcherConflicts) > 0 {
		return &ce
	}
	rt.final = true
	return nil
}

// Candidates returns a lazy, ascending-rank sequence of the routes in
// routes[method] that match req, per §4.5: "a lazy sequence; the
// dispatcher stops early on Success/Failure."
func (rt *Router) Candidates(req *Request) iter.Seq[*Route] {
	bucket := rt.routes[req.Method]
	return func(yield func(*Route) bool) {
		for _, r := range bucket {
			if Matches(r, req) {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// HasMethod reports whether any route is registered for method at all,
// used only for diagnostics (it does not affect matching).
func (rt *Router) HasMethod(method string) bool {
	return len(rt.routes[method]) > 0
}

// Warnings returns the non-fatal shadowing diagnostics collected during
// Finalize: pairs of routes that share a method and whose paths and
// formats collide, so they would collide but for a differing rank (spec.md §9 — rank is the
// author's deliberate tie-breaker, but a careless choice silently
// shadows one route behind another). Empty before Finalize runs.
func (rt *Router) Warnings() []string {
	return rt.shadowWarnings
}
