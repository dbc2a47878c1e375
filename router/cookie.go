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

import "net/http"

// CookieJar accumulates cookie mutations made while handling one
// request. It is reset before catcher invocation (spec.md §8, property
// 10: "on an error response, only cookies added by the catcher appear"),
// then the remaining delta is attached as Set-Cookie headers.
//
// The jar uses no locking: it is scoped to a single request and never
// shared across goroutines (spec.md §5).
type CookieJar struct {
	added   []*http.Cookie
	removed map[string]bool
}

// NewCookieJar returns an empty jar.
func NewCookieJar() *CookieJar {
	return &CookieJar{removed: make(map[string]bool)}
}

// Add queues c to be sent as a Set-Cookie header.
func (j *CookieJar) Add(c *http.Cookie) {
	j.added = append(j.added, c)
}

// Remove queues an expiring cookie named name, clearing it client-side.
func (j *CookieJar) Remove(name string) {
	j.removed[name] = true
	j.added = append(j.added, &http.Cookie{Name: name, Value: "", MaxAge: -1})
}

// Reset discards all queued mutations, matching the jar-reset-before-
// catcher-invocation rule of property 10.
func (j *CookieJar) Reset() {
	j.added = nil
	j.removed = make(map[string]bool)
}

// Delta returns the cookies queued so far, in queue order.
func (j *CookieJar) Delta() []*http.Cookie {
	return j.added
}
