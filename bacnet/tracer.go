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
	"encoding/hex"
	"log/slog"
)

// Tracer observes raw datagrams crossing the wire. It exists so the DEBUG
// hex-dump behavior can be wired in by the caller (typically read once
// from os.Getenv("DEBUG") at client construction) instead of being read
// from inside the codec on every packet.
type Tracer interface {
	TraceSent(data []byte)
	TraceReceived(data []byte)
}

// NoopTracer discards everything. It is the default when no tracer is
// configured.
type NoopTracer struct{}

func (NoopTracer) TraceSent([]byte)     {}
func (NoopTracer) TraceReceived([]byte) {}

// HexDumpTracer logs every sent/received datagram as a hex string via the
// given logger, at debug level.
type HexDumpTracer struct {
	Logger *slog.Logger
}

// NewHexDumpTracer returns a Tracer that hex-dumps traffic through logger.
func NewHexDumpTracer(logger *slog.Logger) *HexDumpTracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &HexDumpTracer{Logger: logger}
}

func (t *HexDumpTracer) TraceSent(data []byte) {
	t.Logger.Debug(">>> datagram", "hex", hex.EncodeToString(data), "bytes", len(data))
}

func (t *HexDumpTracer) TraceReceived(data []byte) {
	t.Logger.Debug("<<< datagram", "hex", hex.EncodeToString(data), "bytes", len(data))
}
