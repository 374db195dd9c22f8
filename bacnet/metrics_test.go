// Copyright 2025 Edgeo SCADA
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

package bacnet

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsObserveOutcomeSuccess(t *testing.T) {
	m := NewMetrics(nil)
	m.observeOutcome("ReadPropertyMultiple", 10*time.Millisecond, nil)
	require.Equal(t, float64(1), testutil.ToFloat64(m.requestsSucceeded.WithLabelValues("ReadPropertyMultiple")))
}

func TestMetricsObserveOutcomeTimeout(t *testing.T) {
	m := NewMetrics(nil)
	m.observeOutcome("WriteProperty", 10*time.Millisecond, &ConnectionError{Reason: "receive timeout", Err: ErrTimeout})
	require.Equal(t, float64(1), testutil.ToFloat64(m.requestsTimedOut.WithLabelValues("WriteProperty")))
}

func TestMetricsObserveOutcomeFailure(t *testing.T) {
	m := NewMetrics(nil)
	m.observeOutcome("WriteProperty", 10*time.Millisecond, &DecodingError{Reason: "bad tag"})
	require.Equal(t, float64(1), testutil.ToFloat64(m.requestsFailed.WithLabelValues("WriteProperty")))
}

func TestMetricsObserveSentAddsBytes(t *testing.T) {
	m := NewMetrics(nil)
	m.observeSent("ReadPropertyMultiple", 42)
	require.Equal(t, float64(42), testutil.ToFloat64(m.bytesSent))
	require.Equal(t, float64(1), testutil.ToFloat64(m.requestsSent.WithLabelValues("ReadPropertyMultiple")))
}

func TestMetricsObserveSegment(t *testing.T) {
	m := NewMetrics(nil)
	m.observeSegment()
	m.observeSegment()
	require.Equal(t, float64(2), testutil.ToFloat64(m.segmentsReceived))
}
