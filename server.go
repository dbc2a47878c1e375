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
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/nova-dev/nova/nerr"
	"github.com/nova-dev/nova/router"
	"github.com/nova-dev/nova/shutdown"
	"github.com/nova-dev/nova/uri"
)

// namedSignals maps spec.md §6's shutdown.signals entries to the
// os.Signal they monitor.
var namedSignals = map[string]os.Signal{
	"int":  os.Interrupt,
	"term": syscall.SIGTERM,
	"hup":  syscall.SIGHUP,
	"quit": syscall.SIGQUIT,
}

// Server wraps an http.Server bound to an App's router and dispatch
// loop, adding the graceful-shutdown coordinator of spec.md §4.11.
type Server struct {
	app  *App
	http *http.Server

	mu       sync.Mutex
	listener net.Listener
	servedAt time.Time
}

// NewServer finalizes app's router (the "point of no return": no more
// routes or catchers may be added afterward) and builds a Server ready
// to Start.
func NewServer(app *App) (*Server, error) {
	if err := app.router.Finalize(); err != nil {
		return nil, fmt.Errorf("nova: finalize router: %w", err)
	}
	for _, w := range app.router.Warnings() {
		app.logger.Warn("route shadowing risk", "detail", w)
	}

	s := &Server{app: app}

	h2s := &http2.Server{}
	s.http = &http.Server{
		Handler:     h2c.NewHandler(http.HandlerFunc(s.serveHTTP), h2s),
		Addr:        fmt.Sprintf("%s:%d", app.settings.Address, app.settings.Port),
		IdleTimeout: keepAliveTimeout(app.settings.KeepAlive),
	}
	return s, nil
}

func keepAliveTimeout(seconds uint32) time.Duration {
	if seconds == 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// serveHTTP adapts a net/http request into a router.Request, runs
// preprocessing and dispatch, and writes the resulting router.Response
// back out. A request the transport layer cannot turn into a
// well-formed Request at all synthesizes a 400 through the default
// catcher, per spec.md §7's BadRequest kind.
func (s *Server) serveHTTP(w http.ResponseWriter, hr *http.Request) {
	req, data, err := s.buildRequest(hr)
	if err != nil {
		s.app.logger.Error("bad request", "error", (&nerr.BadRequest{Reason: err.Error()}).Error())
		writeResponse(w, defaultCatcherResponse(http.StatusBadRequest))
		return
	}

	resp := s.app.Dispatch(hr.Context(), req, data)
	writeResponse(w, resp)
}

func (s *Server) buildRequest(hr *http.Request) (*router.Request, *router.Data, error) {
	target := hr.URL.Path
	if target == "" {
		target = "/"
	}
	if hr.URL.RawQuery != "" {
		target += "?" + hr.URL.RawQuery
	}
	origin, ok := uri.Parse(target)
	if !ok {
		return nil, nil, fmt.Errorf("nova: request-target %q is not origin-form", target)
	}

	conn := router.ConnMeta{RemoteAddr: hr.RemoteAddr}
	if hr.TLS != nil {
		conn.PeerCerts = hr.TLS.PeerCertificates
	}

	req := router.NewRequest(strings.ToUpper(hr.Method), origin, hr.Header, conn)

	var limit int64
	if l, ok := s.app.settings.Limits["default"]; ok {
		limit = int64(l)
	}
	data := router.NewData(hr.Body, limit)

	s.app.preprocess(req, data)

	return req, data, nil
}

func writeResponse(w http.ResponseWriter, resp *router.Response) {
	header := w.Header()
	for k, vs := range resp.Header {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	if resp.ContentLength >= 0 {
		header.Set("Content-Length", fmt.Sprintf("%d", resp.ContentLength))
	}
	w.WriteHeader(resp.Status)
	if resp.Body != nil {
		_, _ = io.Copy(w, resp.Body)
	}
}

// Start runs ignite fairings, binds the listener, runs liftoff
// fairings, begins serving, wires signal handling, and blocks until
// either the server errors out or shutdown completes (spec.md
// §4.9–§4.11).
func (s *Server) Start(ctx context.Context) error {
	b := s.app
	if errs := b.fairings.RunIgnite(ctx, b); len(errs) > 0 {
		return fmt.Errorf("nova: %d ignite fairing(s) failed: %w", len(errs), errors.Join(errs...))
	}

	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("nova: listen %s: %w", s.http.Addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.servedAt = time.Now()
	s.mu.Unlock()

	b.mu.Lock()
	b.addr = ln.Addr().String()
	b.running = true
	b.mu.Unlock()

	b.fairings.RunLiftoff(ctx, b)

	grace := b.settings.Shutdown.Grace
	mercy := b.settings.Shutdown.Mercy
	wrapped := &gracefulListener{Listener: ln, wire: b.wire, grace: grace, mercy: mercy}

	errCh := make(chan error, 1)
	go func() { errCh <- s.http.Serve(wrapped) }()

	stopSignals := s.watchSignals(b.settings.Shutdown.CtrlC, b.settings.Shutdown.Signals)
	if stopSignals != nil {
		defer stopSignals()
	}

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-b.wire.Done():
		return s.shutdown()
	case <-ctx.Done():
		b.wire.Trip()
		return s.shutdown()
	}
}

// watchSignals starts a goroutine that trips the shared wire on the
// first configured signal, and logs (but otherwise ignores) any signal
// received thereafter (spec.md §4.11: "subsequent receipts only log").
// It returns a stop function, or nil if no signals are configured.
func (s *Server) watchSignals(ctrlc bool, names []string) func() {
	sigSet := map[os.Signal]bool{}
	for _, n := range names {
		if sig, ok := namedSignals[strings.ToLower(n)]; ok {
			sigSet[sig] = true
		}
	}
	if ctrlc {
		sigSet[os.Interrupt] = true
	}
	if len(sigSet) == 0 {
		return nil
	}

	sigs := make([]os.Signal, 0, len(sigSet))
	for sig := range sigSet {
		sigs = append(sigs, sig)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				if s.app.wire.Trip() {
					s.app.logger.Info("shutdown signal received")
				} else {
					s.app.logger.Info("shutdown already in progress")
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}

// shutdown drives spec.md §4.11's shutdown sequence once the wire has
// tripped: stop accepting, let in-flight requests run to completion
// bounded by CancellableIo, and bound the whole phase by grace+mercy+1.
func (s *Server) shutdown() error {
	start := time.Now()

	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln != nil {
		_ = ln.Close() // refuse new connections immediately (grace phase)
	}

	orbit := s.app
	orbit.fairings.RunShutdown(context.Background(), orbit)

	grace := orbit.settings.Shutdown.Grace
	mercy := orbit.settings.Shutdown.Mercy
	hardDeadline := grace + mercy + time.Second

	shutdownCtx, cancel := context.WithTimeout(context.Background(), hardDeadline)
	defer cancel()

	err := s.http.Shutdown(shutdownCtx)

	orbit.mu.Lock()
	orbit.running = false
	orbit.mu.Unlock()

	if errors.Is(err, context.DeadlineExceeded) {
		orbit.metrics.RecordShutdownPhase(context.Background(), "dead", time.Since(start))
		timeoutErr := &nerr.ShutdownTimeout{Elapsed: time.Since(start), State: s.http}
		orbit.logger.Error("shutdown did not complete in time", "error", timeoutErr.Error())
		return timeoutErr
	}

	orbit.metrics.RecordShutdownPhase(context.Background(), "complete", time.Since(start))
	return err
}

// Trip triggers shutdown programmatically, e.g. from a handler or
// liftoff fairing (spec.md §4.11: "a handler or liftoff fairing calls
// shutdown.trip()").
func (a *App) Trip() bool {
	return a.wire.Trip()
}

// gracefulListener wraps every accepted connection in a
// shutdown.CancellableIo parameterized by the shared wire, so accepted
// connections are transparently cut over to the grace/mercy/dead phases
// of spec.md §4.11 without the HTTP server itself knowing about it.
type gracefulListener struct {
	net.Listener
	wire         *shutdown.TripWire
	grace, mercy time.Duration
}

func (l *gracefulListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return shutdown.Wrap(conn, l.wire, l.grace, l.mercy), nil
}
