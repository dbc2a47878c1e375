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

package shutdown

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTripWireBroadcastsOnce(t *testing.T) {
	w := New()
	require.False(t, w.Tripped())

	done1 := w.Done()
	done2 := w.Done()

	first := w.Trip()
	require.True(t, first)

	select {
	case <-done1:
	case <-time.After(time.Second):
		t.Fatal("observer 1 did not see trip")
	}
	select {
	case <-done2:
	case <-time.After(time.Second):
		t.Fatal("observer 2 did not see trip")
	}

	second := w.Trip()
	require.False(t, second, "second trip must be a no-op")
}

func TestCancellableIoPhases(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	w := New()
	grace := 30 * time.Millisecond
	mercy := 30 * time.Millisecond
	cio := Wrap(server, w, grace, mercy)

	require.Equal(t, PhaseLive, cio.CurrentPhase())

	w.Trip()
	require.Equal(t, PhaseGrace, cio.CurrentPhase())

	time.Sleep(grace + 10*time.Millisecond)
	require.Equal(t, PhaseMercy, cio.CurrentPhase())

	time.Sleep(mercy + 10*time.Millisecond)
	require.Equal(t, PhaseDead, cio.CurrentPhase())

	_, err := cio.Write([]byte("x"))
	require.ErrorIs(t, err, ErrCancelled)
	_, err = cio.Read(make([]byte, 1))
	require.ErrorIs(t, err, ErrCancelled)
}

func TestCancellableIoPassthroughWhileLive(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	w := New()
	cio := Wrap(server, w, time.Second, time.Second)

	go func() {
		_, _ = client.Write([]byte("hi"))
	}()

	buf := make([]byte, 2)
	n, err := cio.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "hi", string(buf))
}
