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
	"bytes"
	"io"
	"net/http"
)

// Response is what a handler or catcher produces. Body is a stream so
// large responses need not be buffered in memory; NewBytesResponse is a
// convenience for the common small-body case.
type Response struct {
	Status        int
	Header        http.Header
	Body          io.Reader
	ContentLength int64 // -1 if unknown
}

// NewResponse creates an empty response with the given status.
func NewResponse(status int) *Response {
	return &Response{Status: status, Header: make(http.Header), ContentLength: -1}
}

// NewBytesResponse creates a response with a fixed, fully-buffered body.
func NewBytesResponse(status int, contentType string, body []byte) *Response {
	r := NewResponse(status)
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	r.Body = bytes.NewReader(body)
	r.ContentLength = int64(len(body))
	return r
}

// StripBody removes the body but leaves Content-Length intact, used by
// HEAD auto-handling (spec.md §4.9 step 5).
func (r *Response) StripBody() {
	r.Body = nil
}
