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
	"strings"

	"github.com/nova-dev/nova/media"
)

// Matches implements §4.4: a route matches a request iff methods are
// equal, and the path, query, and format all match.
func Matches(r *Route, req *Request) bool {
	if r.Method != req.Method {
		return false
	}
	if !pathMatches(r, req.URI.PathSegments()) {
		return false
	}
	if !queryMatches(r, req.URI.QuerySegments()) {
		return false
	}
	return formatMatches(r.Method, r.Format, req)
}

func pathMatches(r *Route, q []string) bool {
	R := r.Path
	if r.Meta.TrailingPath {
		if len(q) < len(R)-1 {
			return false
		}
	} else if len(q) != len(R) {
		return false
	}
	if r.Meta.PathColor == ColorWild {
		return true
	}
	for i, rs := range R {
		if rs.Kind == SegTrailing {
			return true
		}
		if rs.Kind == SegStatic && rs.Text != q[i] {
			return false
		}
	}
	return true
}

func queryMatches(r *Route, q []string) bool {
	if r.Meta.QueryColor == QueryColorNone || r.Meta.QueryColor == QueryColorWild {
		return true
	}
	for _, kv := range r.Meta.StaticQueryFields {
		want := kv.Key + "=" + kv.Value
		if !slicesContains(q, want) {
			return false
		}
	}
	return true
}

func slicesContains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func formatMatches(method string, format *media.Type, req *Request) bool {
	if hasPayload(method) {
		ctRaw, ok := req.ContentType()
		ct, parsed := media.Type{}, false
		if ok {
			ct, parsed = media.Parse(ctRaw)
		}
		fullySpecific := ok && parsed && media.Specificity(ct) == 2
		if format == nil {
			return fullySpecific
		}
		return fullySpecific && media.Collides(ct, *format)
	}
	if format == nil {
		return true
	}
	acceptRaw, ok := req.Accept()
	if !ok {
		return true
	}
	return acceptCollidesWith(acceptRaw, *format)
}

// acceptCollidesWith reports whether any comma-separated entry of an
// Accept header value collides with t.
func acceptCollidesWith(accept string, t media.Type) bool {
	for _, part := range strings.Split(accept, ",") {
		at, ok := media.Parse(strings.TrimSpace(part))
		if !ok {
			continue
		}
		if media.Collides(at, t) {
			return true
		}
	}
	return false
}

// Bindings extracts the dynamic-segment and dynamic-query-field values a
// matched route binds for this request. It is computed lazily, on
// demand, rather than during matching, since most candidates tried
// during dispatch are never the one that succeeds.
type Bindings struct {
	Path  map[string]string
	Query map[string]string
	// TrailingPath holds the segments consumed by a trailing path
	// segment, if the route has one.
	TrailingPath []string
	// TrailingQuery holds the raw query items consumed by a trailing
	// query field, if the route has one.
	TrailingQuery []string
}

// Bind computes Bindings for r against req. Callers should only call
// this for the route that actually won candidate iteration.
func Bind(r *Route, req *Request) Bindings {
	b := Bindings{Path: map[string]string{}, Query: map[string]string{}}
	q := req.URI.PathSegments()
	for i, seg := range r.Path {
		switch seg.Kind {
		case SegDynamic:
			if !seg.Ignored() && i < len(q) {
				b.Path[seg.Name] = q[i]
			}
		case SegTrailing:
			if i < len(q) {
				b.TrailingPath = append(b.TrailingPath, q[i:]...)
			}
		}
	}

	items := req.URI.QuerySegments()
	consumed := make([]bool, len(items))
	for _, f := range r.Query {
		if f.Kind != QueryStatic {
			continue
		}
		want := f.Key + "=" + f.Value
		for i, it := range items {
			if !consumed[i] && it == want {
				consumed[i] = true
				break
			}
		}
	}
	for _, f := range r.Query {
		if f.Kind != QueryDynamic {
			continue
		}
		for i, it := range items {
			if consumed[i] {
				continue
			}
			key, value, hasEq := strings.Cut(it, "=")
			if key == f.Name {
				consumed[i] = true
				if hasEq {
					b.Query[f.Name] = value
				} else {
					b.Query[f.Name] = ""
				}
				break
			}
		}
	}
	for _, f := range r.Query {
		if f.Kind != QueryTrailing {
			continue
		}
		for i, it := range items {
			if !consumed[i] {
				consumed[i] = true
				b.TrailingQuery = append(b.TrailingQuery, it)
			}
		}
		_ = f
	}
	return b
}
