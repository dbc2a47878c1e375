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

package media

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	ty, ok := Parse("application/json; charset=utf-8")
	require.True(t, ok)
	require.Equal(t, Type{"application", "json"}, ty)

	_, ok = Parse("not-a-media-type")
	require.False(t, ok)
}

func TestCollides(t *testing.T) {
	json := Type{"application", "json"}
	anySub := Type{"application", "*"}
	anyAny := Type{"*", "*"}
	text := Type{"text", "plain"}

	require.True(t, Collides(json, json))
	require.True(t, Collides(json, anySub))
	require.True(t, Collides(json, anyAny))
	require.False(t, Collides(json, text))
	require.True(t, Collides(anyAny, text))
}

func TestCollidesSymmetric(t *testing.T) {
	a := Type{"application", "*"}
	b := Type{"*", "json"}
	require.Equal(t, Collides(a, b), Collides(b, a))
}

func TestSpecificity(t *testing.T) {
	require.Equal(t, 2, Specificity(Type{"application", "json"}))
	require.Equal(t, 1, Specificity(Type{"application", "*"}))
	require.Equal(t, 0, Specificity(Type{"*", "*"}))
}
