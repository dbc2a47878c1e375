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

import "github.com/nova-dev/nova/uri"

// DefaultCatcherCode marks a catcher as the default (code-agnostic)
// fallback, spec.md §3's "None = default catcher".
const DefaultCatcherCode = -1

// Catcher is a prefix-scoped, optionally status-specific error handler.
type Catcher struct {
	Code    int // DefaultCatcherCode for the default catcher
	Base    uri.Origin
	Handler CatcherHandler

	baseSegs []string // cached, normalized
	seq      int
}

// NewCatcher builds a Catcher for the given status code (or
// DefaultCatcherCode) scoped under base.
func NewCatcher(code int, base string, handler CatcherHandler) (*Catcher, error) {
	normalized := uri.Normalize(base)
	origin, ok := uri.Parse(normalized)
	if !ok {
		origin = uri.Origin{}
	}
	return &Catcher{
		Code:     code,
		Base:     origin,
		Handler:  handler,
		baseSegs: origin.PathSegments(),
	}, nil
}

// IsDefault reports whether c is the code-agnostic default catcher.
func (c *Catcher) IsDefault() bool { return c.Code == DefaultCatcherCode }

// BaseDepth returns the number of segments in the catcher's base path,
// used to sort catchers by descending specificity (spec.md §4.5).
func (c *Catcher) BaseDepth() int { return len(c.baseSegs) }

// IsPrefixOf reports whether c's base is a prefix of path's segments,
// per §4.6's "prefix of" definition (element-wise on normalized
// sequences; an empty base is a prefix of anything).
func (c *Catcher) IsPrefixOf(path uri.Origin) bool {
	return path.HasPrefixSegments(c.Base)
}
