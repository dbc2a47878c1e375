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
	"strings"

	"github.com/nova-dev/nova/media"
)

// Color classifies how dynamic a path (or, reused, a query field list)
// pattern is: Static (no dynamic segments), Partial (a mix), or Wild
// (no static segments at all).
type Color uint8

const (
	ColorStatic Color = iota
	ColorPartial
	ColorWild
)

// QueryColor adds the "no query fields at all" case on top of Color.
type QueryColor uint8

const (
	QueryColorNone QueryColor = iota
	QueryColorStatic
	QueryColorPartial
	QueryColorWild
)

// KV is a required literal "key=value" query pair.
type KV struct {
	Key   string
	Value string
}

// PathSegMeta is the precomputed per-segment flags §3 calls for.
type PathSegMeta struct {
	Dynamic  bool
	Trailing bool
	Value    string // literal text, meaningful only if !Dynamic
	Name     string // bound name, meaningful only if Dynamic
}

// Metadata is the precomputed shape of a route's pattern (spec.md §3,
// "Route metadata (precomputed)").
type Metadata struct {
	PathSegs          []PathSegMeta
	TrailingPath      bool
	PathColor         Color
	QueryColor        QueryColor
	StaticQueryFields []KV
}

// Route is a single registered endpoint: a method, a URI pattern, an
// optional rank and format constraint, and a handler.
type Route struct {
	Method  string
	Path    []Segment
	Query   []QueryField
	Rank    int
	HasRank bool // true if Rank was supplied explicitly rather than defaulted
	Format  *media.Type
	Handler Handler

	Meta Metadata

	// seq records insertion order. The stable tie-break of §4.5/§8-4
	// comes from AddRoute's stable sort, which does not read seq.
	seq int
}

// ParsePattern parses a route pattern of the form "/a/<b>/<c..>?<d>&e=1"
// into path segments and query fields.
func ParsePattern(pattern string) ([]Segment, []QueryField, error) {
	path := pattern
	queryPart := ""
	hasQuery := false
	if i := strings.IndexByte(pattern, '?'); i >= 0 {
		path = pattern[:i]
		queryPart = pattern[i+1:]
		hasQuery = true
	}

	rawSegs := splitNonEmpty(path, '/')
	segs := make([]Segment, 0, len(rawSegs))
	names := map[string]bool{}
	for i, raw := range rawSegs {
		seg, err := ParseSegment(raw)
		if err != nil {
			return nil, nil, err
		}
		if seg.Kind == SegTrailing && i != len(rawSegs)-1 {
			return nil, nil, fmt.Errorf("router: trailing segment %q must be last in %q", raw, pattern)
		}
		if seg.Kind != SegStatic && !seg.Ignored() {
			if names[seg.Name] {
				return nil, nil, fmt.Errorf("router: duplicate segment name %q in %q", seg.Name, pattern)
			}
			names[seg.Name] = true
		}
		segs = append(segs, seg)
	}

	var fields []QueryField
	if hasQuery && queryPart != "" {
		for _, raw := range splitNonEmpty(queryPart, '&') {
			f, err := ParseQueryField(raw)
			if err != nil {
				return nil, nil, err
			}
			fields = append(fields, f)
		}
	}
	return segs, fields, nil
}

func splitNonEmpty(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// computeMetadata derives Metadata from path segments and query fields,
// per spec.md §3's "Route metadata (precomputed)".
func computeMetadata(path []Segment, query []QueryField) Metadata {
	m := Metadata{PathSegs: make([]PathSegMeta, len(path))}

	staticCount, dynamicCount := 0, 0
	for i, s := range path {
		meta := PathSegMeta{}
		switch s.Kind {
		case SegStatic:
			meta.Value = s.Text
			staticCount++
		case SegDynamic:
			meta.Dynamic = true
			meta.Name = s.Name
			dynamicCount++
		case SegTrailing:
			meta.Dynamic = true
			meta.Trailing = true
			meta.Name = s.Name
			dynamicCount++
			if i == len(path)-1 {
				m.TrailingPath = true
			}
		}
		m.PathSegs[i] = meta
	}
	m.PathColor = colorOf(staticCount, dynamicCount)

	qStatic, qDynamic := 0, 0
	var staticFields []KV
	for _, f := range query {
		switch f.Kind {
		case QueryStatic:
			qStatic++
			staticFields = append(staticFields, KV{Key: f.Key, Value: f.Value})
		case QueryDynamic, QueryTrailing:
			qDynamic++
		}
	}
	m.StaticQueryFields = staticFields
	switch {
	case len(query) == 0:
		m.QueryColor = QueryColorNone
	default:
		m.QueryColor = QueryColor(colorOf(qStatic, qDynamic)) + 1 // shift past QueryColorNone
	}
	return m
}

func colorOf(staticCount, dynamicCount int) Color {
	switch {
	case dynamicCount == 0:
		return ColorStatic
	case staticCount == 0:
		return ColorWild
	default:
		return ColorPartial
	}
}

// Default rank schedule (spec.md §3 & §9): more-specific patterns get
// smaller (preferred) default ranks. Static-only paths are split further
// by query color so "?b=1" routes rank ahead of wide-open ones with the
// same path.
const (
	rankStaticQueryNone    = -12
	rankStaticQueryStatic  = -12
	rankStaticQueryPartial = -11
	rankStaticQueryWild    = -10

	rankPartialQueryNone    = -8
	rankPartialQueryStatic  = -8
	rankPartialQueryPartial = -7
	rankPartialQueryWild    = -6

	rankWildQueryNone    = -4
	rankWildQueryStatic  = -4
	rankWildQueryPartial = -3
	rankWildQueryWild    = -2
)

// DefaultRank computes the rank schedule of spec.md §3/§9 from a route's
// precomputed color. Two patterns of equal color only collide if their
// paths also collide — the schedule is documented so that stays true.
func DefaultRank(pathColor Color, queryColor QueryColor) int {
	switch pathColor {
	case ColorStatic:
		switch queryColor {
		case QueryColorNone:
			return rankStaticQueryNone
		case QueryColorStatic:
			return rankStaticQueryStatic
		case QueryColorPartial:
			return rankStaticQueryPartial
		default:
			return rankStaticQueryWild
		}
	case ColorPartial:
		switch queryColor {
		case QueryColorNone:
			return rankPartialQueryNone
		case QueryColorStatic:
			return rankPartialQueryStatic
		case QueryColorPartial:
			return rankPartialQueryPartial
		default:
			return rankPartialQueryWild
		}
	default: // ColorWild
		switch queryColor {
		case QueryColorNone:
			return rankWildQueryNone
		case QueryColorStatic:
			return rankWildQueryStatic
		case QueryColorPartial:
			return rankWildQueryPartial
		default:
			return rankWildQueryWild
		}
	}
}

// NewRoute builds a Route from a method, a pattern string, and a
// handler. Rank defaults from the pattern's color unless overridden
// with opts; format defaults to unconstrained.
func NewRoute(method, pattern string, handler Handler, opts ...RouteOption) (*Route, error) {
	path, query, err := ParsePattern(pattern)
	if err != nil {
		return nil, err
	}
	meta := computeMetadata(path, query)

	r := &Route{
		Method:  strings.ToUpper(method),
		Path:    path,
		Query:   query,
		Handler: handler,
		Meta:    meta,
		Rank:    DefaultRank(meta.PathColor, meta.QueryColor),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RouteOption configures a Route at construction time.
type RouteOption func(*Route)

// WithRank overrides the route's default rank.
func WithRank(rank int) RouteOption {
	return func(r *Route) {
		r.Rank = rank
		r.HasRank = true
	}
}

// WithFormat constrains the route to a specific media type.
func WithFormat(t media.Type) RouteOption {
	return func(r *Route) {
		r.Format = &t
	}
}

// String renders the route's method and pattern for diagnostics.
func (r *Route) String() string {
	var b strings.Builder
	b.WriteString(r.Method)
	b.WriteByte(' ')
	for _, s := range r.Path {
		b.WriteByte('/')
		b.WriteString(s.String())
	}
	if len(r.Path) == 0 {
		b.WriteByte('/')
	}
	if len(r.Query) > 0 {
		b.WriteByte('?')
		parts := make([]string, len(r.Query))
		for i, f := range r.Query {
			switch f.Kind {
			case QueryStatic:
				parts[i] = f.Key + "=" + f.Value
			case QueryDynamic:
				parts[i] = "<" + f.Name + ">"
			case QueryTrailing:
				parts[i] = "<" + f.Name + "..>"
			}
		}
		b.WriteString(strings.Join(parts, "&"))
	}
	return b.String()
}
