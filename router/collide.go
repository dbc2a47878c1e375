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
	"slices"

	"github.com/nova-dev/nova/media"
)

// payloadMethods carries a request body whose Content-Type can be
// negotiated; for other methods formats always collide (spec.md §4.3).
var payloadMethods = map[string]bool{
	http.MethodPost:  true,
	http.MethodPut:   true,
	http.MethodPatch: true,
}

// hasPayload reports whether method typically carries a request body.
func hasPayload(method string) bool {
	return payloadMethods[method]
}

// RoutesCollide implements §4.3's route collision predicate: two routes
// collide iff they share method and rank, and both their paths and their
// formats collide.
func RoutesCollide(a, b *Route) bool {
	if a.Method != b.Method {
		return false
	}
	if a.Rank != b.Rank {
		return false
	}
	if !PathsCollide(a.Path, b.Path) {
		return false
	}
	return formatsCollide(a.Method, a.Format, b.Format)
}

// PathsCollide implements §4.3's left-to-right path collision walk over
// two segment vectors.
func PathsCollide(a, b []Segment) bool {
	i := 0
	for i < len(a) && i < len(b) {
		as, bs := a[i], b[i]
		if as.Kind == SegTrailing || bs.Kind == SegTrailing {
			return true
		}
		if as.Kind == SegStatic && bs.Kind == SegStatic {
			if as.Text != bs.Text {
				return false
			}
		}
		// at least one side is (non-trailing) dynamic: any value matches,
		// proceed to the next position.
		i++
	}
	if len(a) == len(b) {
		return true
	}
	longer := a
	if len(b) > len(a) {
		longer = b
	}
	return longer[i].Kind == SegTrailing
}

// formatsCollide implements §4.3's format-collision rule.
func formatsCollide(method string, a, b *media.Type) bool {
	if !hasPayload(method) {
		return true
	}
	if a != nil && b != nil {
		return media.Collides(*a, *b)
	}
	return true
}

// CatchersCollide implements §4.3: two catchers collide iff they share a
// code and their base paths have the identical segment sequence.
func CatchersCollide(a, b *Catcher) bool {
	if a.Code != b.Code {
		return false
	}
	return slices.Equal(a.baseSegs, b.baseSegs)
}

// wouldCollideIgnoringRank reports whether a and b collide by every
// §4.3 criterion except rank — i.e. they are the same shadowing hazard
// RoutesCollide checks for, but a rank difference is what's keeping them
// from being reported as an outright collision.
func wouldCollideIgnoringRank(a, b *Route) bool {
	if a.Method != b.Method {
		return false
	}
	if a.Rank == b.Rank {
		return false // already caught as a real collision, not a shadow
	}
	if !PathsCollide(a.Path, b.Path) {
		return false
	}
	return formatsCollide(a.Method, a.Format, b.Format)
}
