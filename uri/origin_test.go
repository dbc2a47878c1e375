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

package uri

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	o, ok := Parse("/a/b?x=1&y")
	require.True(t, ok)
	require.Equal(t, "/a/b", o.Path())
	require.True(t, o.HasQuery())
	require.Equal(t, "x=1&y", o.RawQuery())

	_, ok = Parse("no-leading-slash")
	require.False(t, ok)
}

func TestPathSegmentsElideEmpty(t *testing.T) {
	o, ok := Parse("//a//b/")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, o.PathSegments())
	require.Equal(t, 2, o.NumPathSegments())
}

func TestQuerySegments(t *testing.T) {
	o, _ := Parse("/q?a=1&&b=2&")
	require.Equal(t, []string{"a=1", "b=2"}, o.QuerySegments())
}

func TestHasPrefixSegments(t *testing.T) {
	base, _ := Parse("/api/v2")
	under, _ := Parse("/api/v2/users")
	sibling, _ := Parse("/api/users")
	empty, _ := Parse("/")

	require.True(t, under.HasPrefixSegments(base))
	require.False(t, sibling.HasPrefixSegments(base))
	require.True(t, under.HasPrefixSegments(empty))
	require.True(t, empty.HasPrefixSegments(empty))
}

func TestNormalizeIdempotent(t *testing.T) {
	cases := []string{"/", "//a//b//", "/a/b/", "/a/b", ""}
	for _, c := range cases {
		n1 := Normalize(c)
		n2 := Normalize(n1)
		require.Equal(t, n1, n2, "normalize not idempotent for %q", c)
		require.True(t, IsNormalized(n1), "normalize(%q) = %q not normalized", c, n1)
	}
}

func TestIsNormalized(t *testing.T) {
	require.True(t, IsNormalized("/"))
	require.True(t, IsNormalized("/a/b"))
	require.False(t, IsNormalized("a/b"))
	require.False(t, IsNormalized("/a//b"))
	require.False(t, IsNormalized("/a/b/"))
}

func TestEqualLiteral(t *testing.T) {
	a, _ := Parse("/a?x=1")
	b, _ := Parse("/a?x=1")
	c, _ := Parse("/a?x=2")
	require.True(t, Equal(a, b))
	require.False(t, Equal(a, c))
}
