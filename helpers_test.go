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
	"github.com/nova-dev/nova/fairing"
	"github.com/nova-dev/nova/router"
)

// funcRequestFairing adapts a plain func to fairing.RequestFairing, for
// tests that only care whether the hook ran.
type funcRequestFairing struct {
	fn func(r *router.Request, d *router.Data)
}

func (f *funcRequestFairing) Info() fairing.Info {
	return fairing.Info{Name: "func-request", Kind: fairing.Request}
}

func (f *funcRequestFairing) OnRequest(r *router.Request, d *router.Data) { f.fn(r, d) }

// funcResponseFairing adapts a plain func to fairing.ResponseFairing.
type funcResponseFairing struct {
	fn func(r *router.Request, resp *router.Response)
}

func (f *funcResponseFairing) Info() fairing.Info {
	return fairing.Info{Name: "func-response", Kind: fairing.Response}
}

func (f *funcResponseFairing) OnResponse(r *router.Request, resp *router.Response) {
	f.fn(r, resp)
}
