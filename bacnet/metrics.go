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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors a Client reports request,
// segment and byte counts through. Construct one with NewMetrics and pass
// it to NewClient via WithMetrics; if none is given, a Client uses a
// private, unregistered Metrics so instrumentation calls are always safe.
type Metrics struct {
	requestsSent      *prometheus.CounterVec
	requestsSucceeded *prometheus.CounterVec
	requestsFailed    *prometheus.CounterVec
	requestsTimedOut  *prometheus.CounterVec
	segmentsReceived  prometheus.Counter
	bytesSent         prometheus.Counter
	bytesReceived     prometheus.Counter
	requestLatency    *prometheus.HistogramVec
}

// NewMetrics registers the client's collectors with reg. Pass nil to get a
// Metrics backed by its own private registry, useful for tests and for
// callers that don't run a /metrics endpoint.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		requestsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bacnet",
			Name:      "requests_sent_total",
			Help:      "Confirmed service requests sent, by service choice name.",
		}, []string{"service"}),
		requestsSucceeded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bacnet",
			Name:      "requests_succeeded_total",
			Help:      "Confirmed service requests that completed with a matching ack.",
		}, []string{"service"}),
		requestsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bacnet",
			Name:      "requests_failed_total",
			Help:      "Confirmed service requests that failed (decoding or connection error).",
		}, []string{"service"}),
		requestsTimedOut: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bacnet",
			Name:      "requests_timed_out_total",
			Help:      "Confirmed service requests abandoned after a receive timeout.",
		}, []string{"service"}),
		segmentsReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "bacnet",
			Name:      "segments_received_total",
			Help:      "Complex-Ack segments received across all segmented replies.",
		}),
		bytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "bacnet",
			Name:      "bytes_sent_total",
			Help:      "UDP datagram bytes sent.",
		}),
		bytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "bacnet",
			Name:      "bytes_received_total",
			Help:      "UDP datagram bytes received.",
		}),
		requestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bacnet",
			Name:      "request_latency_seconds",
			Help:      "End-to-end latency of a confirmed request, from first send to final ack.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service"}),
	}
}

func (m *Metrics) observeSent(service string, n int) {
	m.requestsSent.WithLabelValues(service).Inc()
	m.bytesSent.Add(float64(n))
}

func (m *Metrics) observeReceived(n int) {
	m.bytesReceived.Add(float64(n))
}

func (m *Metrics) observeSegment() {
	m.segmentsReceived.Inc()
}

func (m *Metrics) observeOutcome(service string, d time.Duration, err error) {
	m.requestLatency.WithLabelValues(service).Observe(d.Seconds())
	switch {
	case err == nil:
		m.requestsSucceeded.WithLabelValues(service).Inc()
	case isTimeoutErr(err):
		m.requestsTimedOut.WithLabelValues(service).Inc()
	default:
		m.requestsFailed.WithLabelValues(service).Inc()
	}
}
