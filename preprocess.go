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

package nova

import (
	"net/http"
	"strings"

	"github.com/nova-dev/nova/router"
)

// overridableMethods are the method names method-override sources may
// rewrite a request to.
var overridableMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// formMethodOverridePeek is how many bytes of a form body are peeked
// looking for "_method=<VALUE>" (spec.md §4.8: "peek up to ~14 bytes").
const formMethodOverridePeek = 14

// preprocess implements spec.md §4.8: method override, then request
// fairings, both before candidate iteration begins.
func (a *App) preprocess(req *router.Request, d *router.Data) {
	if m, ok := methodOverrideFromHeader(req, "X-HTTP-Method-Override"); ok {
		req.Method = m
	} else if m, ok := methodOverrideFromForm(req, d); ok {
		req.Method = m
	} else if m, ok := methodOverrideFromHeader(req, "X-HTTP-Method"); ok {
		req.Method = m
	}

	a.fairings.RunRequest(req, d)
}

func methodOverrideFromHeader(req *router.Request, name string) (string, bool) {
	v := req.Header.Get(name)
	if v == "" {
		return "", false
	}
	m := strings.ToUpper(strings.TrimSpace(v))
	if overridableMethods[m] {
		return m, true
	}
	return "", false
}

// isFormContentType reports whether ct names a urlencoded form body —
// the only body shape §4.8's "_method" sniff applies to.
func isFormContentType(ct string) bool {
	ct, _, _ = strings.Cut(ct, ";")
	return strings.TrimSpace(ct) == "application/x-www-form-urlencoded"
}

// methodOverrideFromForm peeks the first formMethodOverridePeek bytes
// of a POST body and, if they begin "_method=<value>", returns the
// recognized method named by value. The peek window leaves room for six
// letters after the prefix, so a longer value is truncated: OPTIONS
// (seven letters) reads as "OPTION" and is not recognized here.
func methodOverrideFromForm(req *router.Request, d *router.Data) (string, bool) {
	if req.Method != http.MethodPost {
		return "", false
	}
	ct, ok := req.ContentType()
	if !ok || !isFormContentType(ct) {
		return "", false
	}

	buf, _ := d.Peek(formMethodOverridePeek)
	const prefix = "_method="
	s := string(buf)
	if !strings.HasPrefix(s, prefix) {
		return "", false
	}
	rest := s[len(prefix):]
	end := 0
	for end < len(rest) && isASCIILetter(rest[end]) {
		end++
	}
	m := strings.ToUpper(rest[:end])
	if overridableMethods[m] {
		return m, true
	}
	return "", false
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
