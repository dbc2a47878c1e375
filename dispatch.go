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
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nova-dev/nova/nerr"
	"github.com/nova-dev/nova/router"
)

// Dispatch runs spec.md §4.9's full dispatch loop for one request: it
// assumes preprocess has already run. Handlers are never invoked
// outside this call, so a panic anywhere below is always recovered
// before it reaches the caller.
func (a *App) Dispatch(ctx context.Context, req *router.Request, d *router.Data) *router.Response {
	start := time.Now()
	wasHead := req.Method == http.MethodHead

	ctx, span := a.tracer.Start(ctx, "nova.dispatch",
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.target", req.URI.String()),
		))
	defer span.End()

	resp := a.routeAndProcess(ctx, req, d)

	if ident := a.settings.Ident.String(); ident != "" && resp.Header.Get("Server") == "" {
		resp.Header.Set("Server", ident)
	}

	a.fairings.RunResponse(req, resp)

	if wasHead {
		resp.StripBody()
	}
	for _, c := range req.Cookies.Delta() {
		resp.Header.Add("Set-Cookie", c.String())
	}

	routeName := "unmatched"
	if req.Route != nil {
		routeName = req.Route.String()
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.Status))
	if resp.Status >= 500 {
		span.SetStatus(codes.Error, http.StatusText(resp.Status))
	}
	a.metrics.RecordDispatch(ctx, routeName, resp.Status, time.Since(start))

	return resp
}

// routeAndProcess implements §4.9 step 2: candidate iteration with
// HEAD→GET autohandling on exhaustion, falling through to the error
// path on a final miss.
func (a *App) routeAndProcess(ctx context.Context, req *router.Request, d *router.Data) *router.Response {
	wasHead := req.Method == http.MethodHead

	if resp, matched := a.iterateCandidates(ctx, req, d); matched {
		return resp
	}

	if wasHead {
		req.Method = http.MethodGet
		if resp, matched := a.iterateCandidates(ctx, req, d); matched {
			return resp
		}
		req.Method = http.MethodHead
	}

	a.logger.Debug("no route matched",
		"method", req.Method, "path", (&nerr.NotFound{Method: req.Method, Path: req.URI.Path()}).Error())
	return a.errorPath(ctx, req, http.StatusNotFound)
}

// iterateCandidates walks the lazy candidate sequence of §4.5,
// invoking each in rank order until one terminates with Success or
// Failure. Forward hands d' to the next candidate.
func (a *App) iterateCandidates(ctx context.Context, req *router.Request, d *router.Data) (*router.Response, bool) {
	for r := range a.router.Candidates(req) {
		req.Route = r
		outcome := a.invokeHandler(ctx, r, req, d)

		switch outcome.Kind {
		case router.OutcomeSuccess:
			return outcome.Response, true
		case router.OutcomeFailure:
			a.logger.Debug("handler returned failure outcome",
				"route", r.String(), "error", (&nerr.RouteOutcomeFailure{Status: outcome.Status}).Error())
			return a.errorPath(ctx, req, outcome.Status), true
		case router.OutcomeForward:
			d = outcome.Data
		}
	}
	return nil, false
}

// invokeHandler calls r.Handler.Handle under panic recovery (spec.md
// §4.9's panic policy): a panic becomes Failure(500) with a logged
// diagnostic, and never unwinds into the dispatcher.
func (a *App) invokeHandler(ctx context.Context, r *router.Route, req *router.Request, d *router.Data) (outcome router.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			stack := debug.Stack()
			a.metrics.RecordPanic(ctx)
			a.logger.Error("handler panic recovered",
				"route", r.String(), "error", (&nerr.HandlerPanic{Recovered: rec, Stack: stack}).Error(),
				"stack", string(stack))
			outcome = router.Failure(http.StatusInternalServerError)
		}
	}()
	return r.Handler.Handle(req, d)
}

// errorPath implements §4.9 step 2.d: select a catcher by §4.6,
// resetting the cookie jar first (property 10). With no matching
// catcher, the built-in default answers for status; on catcher failure,
// escalate to the 500 catcher once, then fall back to the infallible
// built-in default for 500.
func (a *App) errorPath(ctx context.Context, req *router.Request, status int) *router.Response {
	req.Cookies.Reset()
	a.metrics.RecordCatcher(ctx, status)

	if a.router.SelectCatcher(status, req) == nil {
		return defaultCatcherResponse(status)
	}
	if resp, ok := a.tryCatcher(ctx, req, status); ok {
		return resp
	}

	if status != http.StatusInternalServerError {
		a.logger.Debug("catcher failed, escalating to 500",
			"error", (&nerr.CatcherFailure{Status: status}).Error())
		if resp, ok := a.tryCatcher(ctx, req, http.StatusInternalServerError); ok {
			return resp
		}
	}

	return defaultCatcherResponse(http.StatusInternalServerError)
}

// tryCatcher selects a catcher for status via the router and invokes
// it, recovering a panicking catcher the same way a panicking handler
// is recovered. ok is false if no catcher was selected, or the
// selected one failed (returned nil, or panicked).
func (a *App) tryCatcher(ctx context.Context, req *router.Request, status int) (resp *router.Response, ok bool) {
	c := a.router.SelectCatcher(status, req)
	if c == nil {
		return nil, false
	}

	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Error("catcher panic recovered",
				"status", status, "error", fmt.Sprintf("%v", rec))
			resp, ok = nil, false
		}
	}()

	resp = c.Handler.Handle(status, req)
	return resp, resp != nil
}

// defaultCatcherResponse is the built-in, infallible default catcher of
// spec.md §6: a body containing the status code and reason phrase, no
// cookies (the jar was already reset by errorPath).
func defaultCatcherResponse(status int) *router.Response {
	reason := http.StatusText(status)
	if reason == "" {
		reason = "Error"
	}
	body := fmt.Sprintf(
		"<!DOCTYPE html><html><head><title>%d %s</title></head>"+
			"<body><h1>%d %s</h1></body></html>",
		status, reason, status, reason)
	return router.NewBytesResponse(status, "text/html; charset=utf-8", []byte(body))
}
