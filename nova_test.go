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
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nova-dev/nova/config"
	"github.com/nova-dev/nova/log"
	"github.com/nova-dev/nova/router"
)

type mapSource map[string]any

func (m mapSource) Load(context.Context) (map[string]any, error) { return map[string]any(m), nil }

func TestNewAppliesConfigDefaults(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	require.Equal(t, uint16(8000), a.Settings().Port)
	require.NotNil(t, a.Router())
	require.NotNil(t, a.Logger())
}

func TestWithConfigSourceOverridesPort(t *testing.T) {
	a, err := New(WithConfigSource(mapSource{"port": "9999"}))
	require.NoError(t, err)
	require.Equal(t, uint16(9999), a.Settings().Port)
}

func TestWithLoggerIsUsedInsteadOfBuildingOne(t *testing.T) {
	custom := log.MustNew(log.WithJSONHandler())
	a, err := New(WithLogger(custom))
	require.NoError(t, err)
	require.Same(t, custom, a.logger)
}

func TestWithTracerOverridesDefaultNoop(t *testing.T) {
	tp := noop.NewTracerProvider()
	tr := tp.Tracer("test")
	a, err := New(WithTracer(tr))
	require.NoError(t, err)
	require.Equal(t, tr, a.tracer)
}

func TestGetRegistersAGETRoute(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	require.NoError(t, a.Get("/widgets/<id>", func(r *router.Request, d *router.Data) router.Outcome {
		return router.Success(router.NewResponse(http.StatusOK))
	}))
	require.True(t, a.Router().HasMethod(http.MethodGet))
}

func TestAppSatisfiesFairingBuilderAndOrbit(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	require.NoError(t, a.Mount(http.MethodGet, "/x", router.HandlerFunc(
		func(r *router.Request, d *router.Data) router.Outcome {
			return router.Success(router.NewResponse(http.StatusOK))
		})))
	require.NoError(t, a.Catch(404, "/", router.CatcherHandlerFunc(
		func(status int, r *router.Request) *router.Response {
			return router.NewResponse(status)
		})))

	a.SetConfig("feature_flag", true)
	require.Equal(t, true, a.Config()["feature_flag"])
	require.Empty(t, a.Address()) // not running yet
}

func TestSlogLevelMapsConfigLevels(t *testing.T) {
	require.Equal(t, log.LevelDebug, slogLevel(config.LogDebug))
	require.Equal(t, log.LevelInfo, slogLevel(config.LogNormal))
	require.Equal(t, log.LevelError, slogLevel(config.LogCritical))
	require.Greater(t, slogLevel(config.LogOff), log.LevelError)
}
