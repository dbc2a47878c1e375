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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nova-dev/nova/router"
	"github.com/nova-dev/nova/uri"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New()
	require.NoError(t, err)
	return a
}

func newPostRequest(t *testing.T, body string, contentType string) (*router.Request, *router.Data) {
	t.Helper()
	origin, ok := uri.Parse("/widgets")
	require.True(t, ok)
	h := make(http.Header)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	req := router.NewRequest(http.MethodPost, origin, h, router.ConnMeta{})
	d := router.NewData(strings.NewReader(body), 0)
	return req, d
}

func TestPreprocessMethodOverrideViaHeaderBeatsForm(t *testing.T) {
	a := newTestApp(t)
	req, d := newPostRequest(t, "_method=DELETE", "application/x-www-form-urlencoded")
	req.Header.Set("X-HTTP-Method-Override", "PUT")

	a.preprocess(req, d)

	require.Equal(t, http.MethodPut, req.Method)
}

func TestPreprocessMethodOverrideViaFormField(t *testing.T) {
	a := newTestApp(t)
	req, d := newPostRequest(t, "_method=DELETE", "application/x-www-form-urlencoded")

	a.preprocess(req, d)

	require.Equal(t, http.MethodDelete, req.Method)
	// the peeked bytes must still be readable by a later full read.
	buf := make([]byte, 64)
	n, _ := d.Read(buf)
	require.Equal(t, "_method=DELETE", string(buf[:n]))
}

func TestPreprocessIgnoresFormOverrideOnNonFormContentType(t *testing.T) {
	a := newTestApp(t)
	req, d := newPostRequest(t, "_method=DELETE", "application/json")

	a.preprocess(req, d)

	require.Equal(t, http.MethodPost, req.Method)
}

func TestPreprocessFallsBackToXHTTPMethodHeader(t *testing.T) {
	a := newTestApp(t)
	req, d := newPostRequest(t, "", "")
	req.Header.Set("X-HTTP-Method", "patch")

	a.preprocess(req, d)

	require.Equal(t, http.MethodPatch, req.Method)
}

func TestPreprocessRejectsUnrecognizedOverrideMethod(t *testing.T) {
	a := newTestApp(t)
	req, d := newPostRequest(t, "", "")
	req.Header.Set("X-HTTP-Method-Override", "TRACE")

	a.preprocess(req, d)

	require.Equal(t, http.MethodPost, req.Method)
}

func TestPreprocessRunsAttachedRequestFairings(t *testing.T) {
	a := newTestApp(t)
	ran := false
	a.Attach(&funcRequestFairing{fn: func(r *router.Request, d *router.Data) { ran = true }})

	req, d := newPostRequest(t, "", "")
	a.preprocess(req, d)

	require.True(t, ran)
}
