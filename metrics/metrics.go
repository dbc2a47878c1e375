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

// Package metrics is Nova's optional observability layer: an
// OpenTelemetry-backed Recorder counting dispatch outcomes, catcher
// invocations, recovered panics, and shutdown-phase durations. A nil
// *Recorder is a valid no-op, so wiring it through the dispatch loop
// never requires a feature-flag branch.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultDurationBuckets are histogram boundaries for dispatch
// duration, in seconds.
var DefaultDurationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// Recorder holds the OpenTelemetry instruments backing Nova's
// dispatch-loop metrics. The zero value is not usable; build one with
// New. A nil *Recorder is safe to call every method on — each is a
// no-op — so components can hold an optional Recorder without
// branching on whether metrics are enabled.
type Recorder struct {
	provider *sdkmetric.MeterProvider
	handler  http.Handler

	serviceNameAttr attribute.KeyValue

	requestDuration    metric.Float64Histogram
	requestsTotal      metric.Int64Counter
	catcherInvocations metric.Int64Counter
	panicsRecovered    metric.Int64Counter
	shutdownPhase      metric.Float64Histogram
}

// Option configures a Recorder.
type Option func(*config)

type config struct {
	serviceName     string
	durationBuckets []float64
}

// WithServiceName attaches a service.name attribute to every metric.
func WithServiceName(name string) Option {
	return func(c *config) { c.serviceName = name }
}

// WithDurationBuckets overrides DefaultDurationBuckets.
func WithDurationBuckets(buckets ...float64) Option {
	return func(c *config) { c.durationBuckets = buckets }
}

// New builds a Recorder backed by a Prometheus exporter reachable via
// Handler(). Every instrument is registered against a fresh
// sdkmetric.MeterProvider — Nova never calls otel.SetMeterProvider,
// so multiple Recorders can coexist in one process.
func New(opts ...Option) (*Recorder, error) {
	cfg := &config{serviceName: "nova", durationBuckets: DefaultDurationBuckets}
	for _, opt := range opts {
		opt(cfg)
	}

	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("metrics: create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "nova.dispatch.duration"},
			sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
				Boundaries: cfg.durationBuckets,
			}},
		)),
	)
	meter := provider.Meter("nova")

	r := &Recorder{
		provider:        provider,
		serviceNameAttr: attribute.String("service.name", cfg.serviceName),
	}

	if r.requestDuration, err = meter.Float64Histogram("nova.dispatch.duration",
		metric.WithDescription("Duration of request dispatch in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if r.requestsTotal, err = meter.Int64Counter("nova.dispatch.requests",
		metric.WithDescription("Total requests dispatched"),
	); err != nil {
		return nil, err
	}
	if r.catcherInvocations, err = meter.Int64Counter("nova.catcher.invocations",
		metric.WithDescription("Total error-catcher invocations"),
	); err != nil {
		return nil, err
	}
	if r.panicsRecovered, err = meter.Int64Counter("nova.handler.panics",
		metric.WithDescription("Total handler panics recovered"),
	); err != nil {
		return nil, err
	}
	if r.shutdownPhase, err = meter.Float64Histogram("nova.shutdown.phase_duration",
		metric.WithDescription("Duration of each graceful-shutdown phase in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	r.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return r, nil
}

// MustNew is New, panicking on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic("metrics: initialization failed: " + err.Error())
	}
	return r
}

// Handler returns the Prometheus scrape handler.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return r.handler
}

// RecordDispatch records one completed dispatch: its route (or
// "unmatched"), its final status, and how long it took.
func (r *Recorder) RecordDispatch(ctx context.Context, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(
		r.serviceNameAttr,
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	r.requestDuration.Record(ctx, d.Seconds(), attrs)
	r.requestsTotal.Add(ctx, 1, attrs)
}

// RecordCatcher records one catcher invocation for the given status.
func (r *Recorder) RecordCatcher(ctx context.Context, status int) {
	if r == nil {
		return
	}
	r.catcherInvocations.Add(ctx, 1, metric.WithAttributes(
		r.serviceNameAttr, attribute.Int("status", status),
	))
}

// RecordPanic records one recovered handler panic.
func (r *Recorder) RecordPanic(ctx context.Context) {
	if r == nil {
		return
	}
	r.panicsRecovered.Add(ctx, 1, metric.WithAttributes(r.serviceNameAttr))
}

// RecordShutdownPhase records how long a named shutdown phase took. The
// server records "complete" for a shutdown that finished in time and
// "dead" for one that hit the hard deadline.
func (r *Recorder) RecordShutdownPhase(ctx context.Context, phase string, d time.Duration) {
	if r == nil {
		return
	}
	r.shutdownPhase.Record(ctx, d.Seconds(), metric.WithAttributes(
		r.serviceNameAttr, attribute.String("phase", phase),
	))
}

// Shutdown flushes and stops the underlying meter provider.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	return r.provider.Shutdown(ctx)
}
