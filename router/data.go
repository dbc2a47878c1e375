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

import "io"

// Data is the streaming request body handle passed alongside a Request.
// It is deliberately thin: the core does not decode bodies (form
// decoding, JSON/MessagePack, etc. are out of scope per spec.md §1) —
// it only hands the stream through, under a configured size limit.
type Data struct {
	Reader io.Reader
	Limit  int64 // maximum bytes the handler may read, 0 = unlimited
	peeked []byte
}

// NewData wraps r as a Data handle with the given byte limit: a positive
// limit caps the stream at that many bytes, 0 leaves it unlimited.
func NewData(r io.Reader, limit int64) *Data {
	if limit > 0 {
		r = io.LimitReader(r, limit)
	}
	return &Data{Reader: r, Limit: limit}
}

// Peek returns up to n bytes from the front of the stream without
// consuming them from the perspective of a subsequent full Read: the
// peeked bytes are buffered and prepended to the next Read. Used by
// method-override sniffing (spec.md §4.8).
func (d *Data) Peek(n int) ([]byte, error) {
	if len(d.peeked) >= n {
		return d.peeked[:n], nil
	}
	need := n - len(d.peeked)
	buf := make([]byte, need)
	read, err := io.ReadFull(d.Reader, buf)
	d.peeked = append(d.peeked, buf[:read]...)
	if read == need {
		return d.peeked, nil
	}
	return d.peeked, err
}

// Read implements io.Reader, draining any peeked bytes first.
func (d *Data) Read(p []byte) (int, error) {
	if len(d.peeked) > 0 {
		n := copy(p, d.peeked)
		d.peeked = d.peeked[n:]
		return n, nil
	}
	return d.Reader.Read(p)
}
