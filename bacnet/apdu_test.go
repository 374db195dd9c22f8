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

	"github.com/stretchr/testify/require"
)

func TestParseSimpleAckSuccess(t *testing.T) {
	apdu := []byte{byte(PDUTypeSimpleAck), staticInvokeID, byte(ServiceWriteProperty)}
	require.NoError(t, ParseSimpleAck(apdu, staticInvokeID, ServiceWriteProperty))
}

func TestParseSimpleAckWrongInvokeID(t *testing.T) {
	apdu := []byte{byte(PDUTypeSimpleAck), staticInvokeID + 1, byte(ServiceWriteProperty)}
	err := ParseSimpleAck(apdu, staticInvokeID, ServiceWriteProperty)
	require.Error(t, err)
}

func TestParseSimpleAckWrongService(t *testing.T) {
	apdu := []byte{byte(PDUTypeSimpleAck), staticInvokeID, byte(ServiceReadPropertyMultiple)}
	err := ParseSimpleAck(apdu, staticInvokeID, ServiceWriteProperty)
	require.Error(t, err)
}

func TestParseComplexAckFirstSegmentUnsegmented(t *testing.T) {
	payload := []byte{0xAA, 0xBB}
	apdu := append([]byte{byte(PDUTypeComplexAck), staticInvokeID, byte(ServiceReadPropertyMultiple)}, payload...)

	header, segmented, err := parseComplexAckFirstSegment(apdu)
	require.NoError(t, err)
	require.False(t, segmented)
	require.Equal(t, staticInvokeID, header.InvokeID)
	require.Equal(t, payload, header.Payload)
}

func TestParseComplexAckFirstSegmentSegmented(t *testing.T) {
	flags := byte(PDUTypeComplexAck) | apduFlagSegmented | apduFlagMoreFollows
	payload := []byte{0x01, 0x02, 0x03}
	apdu := append([]byte{flags, staticInvokeID, 0, 5, byte(ServiceReadPropertyMultiple)}, payload...)

	header, segmented, err := parseComplexAckFirstSegment(apdu)
	require.NoError(t, err)
	require.True(t, segmented)
	require.True(t, header.MoreFollows)
	require.Equal(t, uint8(0), header.SequenceNumber)
	require.Equal(t, uint8(5), header.WindowSize)
	require.Equal(t, payload, header.Payload)
}

func TestParseComplexAckSubsequentSegmentFinal(t *testing.T) {
	flags := byte(PDUTypeComplexAck) // MoreFollows cleared: final segment
	payload := []byte{0x04, 0x05}
	apdu := append([]byte{flags, staticInvokeID, 1, 5}, payload...)

	seg, err := parseComplexAckSubsequentSegment(apdu)
	require.NoError(t, err)
	require.False(t, seg.MoreFollows)
	require.Equal(t, uint8(1), seg.SequenceNumber)
	require.Equal(t, payload, seg.Payload)
}

func TestEncodeSegmentAck(t *testing.T) {
	ack := EncodeSegmentAck(staticInvokeID, 2, 5)
	require.Equal(t, []byte{byte(PDUTypeSegmentAck), staticInvokeID, 2, 5}, ack)
}

func TestPDUTypeOfEmptyAPDU(t *testing.T) {
	require.Equal(t, PDUType(0xFF), PDUTypeOf(nil))
}
