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
)

// SegmentKind distinguishes the three path-segment forms a route pattern
// can contain (spec.md §3).
type SegmentKind uint8

const (
	// SegStatic matches only its literal byte sequence.
	SegStatic SegmentKind = iota
	// SegDynamic matches exactly one non-empty segment.
	SegDynamic
	// SegTrailing matches zero or more remaining segments; must be last.
	SegTrailing
)

// Segment is one component of a route's path pattern.
type Segment struct {
	Kind SegmentKind
	Text string // literal text, for SegStatic
	Name string // bound name, for SegDynamic/SegTrailing; "" means Ignored ("_")
}

// Ignored reports whether a dynamic segment carries no bound name.
func (s Segment) Ignored() bool {
	return s.Kind != SegStatic && s.Name == ""
}

// String renders the segment back to pattern syntax: "name", "<name>",
// "<name..>", or "<_>"/"<_..>" for ignored segments.
func (s Segment) String() string {
	switch s.Kind {
	case SegStatic:
		return s.Text
	case SegDynamic:
		if s.Name == "" {
			return "<_>"
		}
		return "<" + s.Name + ">"
	case SegTrailing:
		if s.Name == "" {
			return "<_..>"
		}
		return "<" + s.Name + "..>"
	}
	return ""
}

// ParseSegment parses one '/'-separated path-pattern component.
func ParseSegment(raw string) (Segment, error) {
	if !strings.HasPrefix(raw, "<") || !strings.HasSuffix(raw, ">") {
		return Segment{Kind: SegStatic, Text: raw}, nil
	}
	inner := raw[1 : len(raw)-1]
	if inner == "" {
		return Segment{}, fmt.Errorf("router: empty dynamic segment %q", raw)
	}
	name := inner
	kind := SegDynamic
	if strings.HasSuffix(inner, "..") {
		kind = SegTrailing
		name = inner[:len(inner)-2]
	}
	if name == "_" {
		name = ""
	}
	return Segment{Kind: kind, Name: name}, nil
}

// QueryKind distinguishes the three query-field forms (spec.md §3).
type QueryKind uint8

const (
	// QueryStatic requires the literal "key=value" pair to appear.
	QueryStatic QueryKind = iota
	// QueryDynamic binds the value of one matching key.
	QueryDynamic
	// QueryTrailing binds any remaining unmatched query items.
	QueryTrailing
)

// QueryField is one '&'-separated component of a route's query pattern.
type QueryField struct {
	Kind  QueryKind
	Key   string // for QueryStatic
	Value string // for QueryStatic
	Name  string // for QueryDynamic/QueryTrailing
}

// ParseQueryField parses one '&'-separated query-pattern component, e.g.
// "b=1", "<a>", "<rest..>".
func ParseQueryField(raw string) (QueryField, error) {
	if strings.HasPrefix(raw, "<") && strings.HasSuffix(raw, ">") {
		inner := raw[1 : len(raw)-1]
		if inner == "" {
			return QueryField{}, fmt.Errorf("router: empty dynamic query field %q", raw)
		}
		if strings.HasSuffix(inner, "..") {
			return QueryField{Kind: QueryTrailing, Name: inner[:len(inner)-2]}, nil
		}
		return QueryField{Kind: QueryDynamic, Name: inner}, nil
	}
	if i := strings.IndexByte(raw, '='); i >= 0 {
		return QueryField{Kind: QueryStatic, Key: raw[:i], Value: raw[i+1:]}, nil
	}
	return QueryField{}, fmt.Errorf("router: static query field %q missing '='", raw)
}
