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

// OutcomeKind is the discriminant of Outcome, the three-valued result a
// Handler returns (spec.md §3, §GLOSSARY "Outcome").
type OutcomeKind uint8

const (
	// OutcomeSuccess is terminal: reply with the carried Response.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeFailure is terminal: route to the error catcher for Status.
	OutcomeFailure
	// OutcomeForward is non-terminal: retry with the next candidate route.
	OutcomeForward
)

// Outcome is the sum type a Handler or CatcherHandler returns.
type Outcome struct {
	Kind     OutcomeKind
	Response *Response // set iff Kind == OutcomeSuccess
	Status   int       // set iff Kind == OutcomeFailure
	Data     *Data     // set iff Kind == OutcomeForward; replaces the data handle
}

// Success builds a terminal Success outcome.
func Success(resp *Response) Outcome {
	return Outcome{Kind: OutcomeSuccess, Response: resp}
}

// Failure builds a terminal Failure outcome for the given status.
func Failure(status int) Outcome {
	return Outcome{Kind: OutcomeFailure, Status: status}
}

// Forward builds a non-terminal Forward outcome, handing d to the next
// candidate route.
func Forward(d *Data) Outcome {
	return Outcome{Kind: OutcomeForward, Data: d}
}
