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
	"log/slog"
	"time"
)

// clientOptions holds configuration for a Client.
type clientOptions struct {
	timeout time.Duration
	metrics *Metrics
	tracer  Tracer
	logger  *slog.Logger
}

// defaultOptions returns the default client options.
func defaultOptions() *clientOptions {
	return &clientOptions{
		timeout: 1 * time.Second,
		logger:  slog.Default(),
	}
}

// Option is a functional option for configuring a Client.
type Option func(*clientOptions)

// WithTimeout sets how long a single send or receive may block when the
// request's context carries no deadline of its own (a context deadline is
// used in its place). A receive that runs out of time fails with a
// ConnectionError wrapping ErrTimeout; a send that runs out of time fails
// with a ConnectionError wrapping the socket error. It applies
// independently to every datagram exchanged in a segmented reassembly, not
// to the request as a whole.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithMetrics attaches a Metrics instance the client reports request,
// segment and byte counts through. Without this option the client builds
// its own unregistered Metrics.
func WithMetrics(m *Metrics) Option {
	return func(o *clientOptions) {
		o.metrics = m
	}
}

// WithTracer attaches a Tracer that observes every datagram sent and
// received. Typically constructed once at startup from the DEBUG
// environment variable (see NewHexDumpTracer) and never consulted again
// for the lifetime of the process.
func WithTracer(t Tracer) Option {
	return func(o *clientOptions) {
		o.tracer = t
	}
}

// WithLogger sets the logger stored on the Client. The Client itself writes
// no log records to it; failures are reported only through returned errors
// and Metrics. It is independent of Tracer, which handles the DEBUG
// hex-dump feed.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}
