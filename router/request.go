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
	"crypto/x509"
	"net/http"

	"github.com/nova-dev/nova/uri"
)

// ConnMeta carries optional connection-level metadata that has nothing
// to do with routing but that handlers occasionally need.
type ConnMeta struct {
	RemoteAddr string
	PeerCerts  []*x509.Certificate
}

// Request is the runtime, per-request view the matcher and handlers
// operate on. One Request is owned by exactly one in-flight request and
// is never shared across goroutines (spec.md §5).
type Request struct {
	Method  string
	URI     uri.Origin
	Header  http.Header
	Conn    ConnMeta
	Route   *Route // set by the matcher; readable by the handler
	Cookies *CookieJar

	local map[string]any
}

// NewRequest builds a Request from transport-level fields.
func NewRequest(method string, origin uri.Origin, header http.Header, conn ConnMeta) *Request {
	return &Request{
		Method:  method,
		URI:     origin,
		Header:  header,
		Conn:    conn,
		Cookies: NewCookieJar(),
	}
}

// Local retrieves a request-local value previously stored under tag.
// Request-local storage is a stand-in for the source framework's
// type-id-keyed store (spec.md §9, Design Notes): Go has no ergonomic
// trait-object downcast, so callers key by a stable string tag instead.
func (r *Request) Local(tag string) (any, bool) {
	if r.local == nil {
		return nil, false
	}
	v, ok := r.local[tag]
	return v, ok
}

// SetLocal stores v under tag for the lifetime of the request. Insert
// semantics are "insert once, read many" in typical use, but SetLocal
// itself does not enforce that — callers that need insert-once should
// check Local first.
func (r *Request) SetLocal(tag string, v any) {
	if r.local == nil {
		r.local = make(map[string]any)
	}
	r.local[tag] = v
}

// ContentType returns the raw Content-Type header value, if present.
// It is not parsed here; callers check specificity themselves.
func (r *Request) ContentType() (mediaType string, ok bool) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return "", false
	}
	return ct, true
}

// Accept returns the raw Accept header value, if present.
func (r *Request) Accept() (string, bool) {
	a := r.Header.Get("Accept")
	if a == "" {
		return "", false
	}
	return a, true
}
