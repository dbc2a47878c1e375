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

// SelectCatcher implements §4.6's catcher-selection rule: given a
// status and a request, pick the deepest-base catcher among the
// explicit (status-specific) and default buckets, preferring the
// explicit one on a tie. Returns nil if neither bucket has a
// prefix-matching catcher, in which case the caller falls back to the
// built-in default handler (§7).
func (rt *Router) SelectCatcher(status int, req *Request) *Catcher {
	segs := req.URI.PathSegments()
	explicit := firstPrefixMatch(rt.catchers[status], segs)
	def := firstPrefixMatch(rt.catchers[DefaultCatcherCode], segs)

	switch {
	case explicit == nil:
		return def
	case def == nil:
		return explicit
	case def.BaseDepth() > explicit.BaseDepth():
		return def
	default:
		return explicit
	}
}

func firstPrefixMatch(bucket []*Catcher, segs []string) *Catcher {
	for _, c := range bucket {
		if segmentsPrefix(c.baseSegs, segs) {
			return c
		}
	}
	return nil
}

func segmentsPrefix(prefix, segs []string) bool {
	if len(prefix) > len(segs) {
		return false
	}
	for i, p := range prefix {
		if segs[i] != p {
			return false
		}
	}
	return true
}
