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

import "fmt"

// APDU flag bits, as carried in byte 0 of a Confirmed-Request or
// Complex-Ack PDU alongside the 4-bit PDU type in the high nibble.
const (
	apduFlagSegmented                 = 0x08
	apduFlagMoreFollows               = 0x04
	apduFlagSegmentedResponseAccepted = 0x02
)

// staticInvokeID is the single invoke ID this client ever uses. Because the
// device is only ever asked for one outstanding confirmed request at a
// time (see Client), a fixed invoke ID needs no allocator and no
// per-endpoint bookkeeping — it simply must be rejected if an arriving
// reply doesn't carry it.
const staticInvokeID uint8 = 1

// PDUTypeOf extracts the 4-bit PDU type from an APDU's first byte.
func PDUTypeOf(apdu []byte) PDUType {
	if len(apdu) == 0 {
		return 0xFF
	}
	return PDUType(apdu[0] & 0xF0)
}

// EncodeConfirmedRequest encodes a non-segmented confirmed-service request
// APDU. This client never sends a segmented request — RPM/WriteProperty
// requests to a single thermostat always fit in one APDU — only replies
// may arrive segmented.
func EncodeConfirmedRequest(invokeID uint8, service ConfirmedServiceChoice, data []byte, maxSegments, maxAPDU uint8) []byte {
	buf := make([]byte, 0, 4+len(data))
	buf = append(buf, byte(PDUTypeConfirmedRequest)|apduFlagSegmentedResponseAccepted)
	buf = append(buf, (maxSegments<<4)|maxAPDU)
	buf = append(buf, invokeID)
	buf = append(buf, byte(service))
	buf = append(buf, data...)
	return buf
}

// EncodeSegmentAck encodes the SegmentAck this client sends after
// accepting each segment of a segmented Complex-Ack.
func EncodeSegmentAck(invokeID, sequenceNumber, windowSize uint8) []byte {
	return []byte{byte(PDUTypeSegmentAck), invokeID, sequenceNumber, windowSize}
}

// ParseSimpleAck parses a Simple-Ack APDU (the WriteProperty
// acknowledgment), validating that it matches the invoke ID and service
// choice of the outstanding request.
func ParseSimpleAck(apdu []byte, wantInvokeID uint8, wantService ConfirmedServiceChoice) error {
	if len(apdu) < 3 {
		return &DecodingError{Reason: "Simple-Ack APDU truncated", Data: apdu, Err: ErrInvalidAPDU}
	}
	if PDUTypeOf(apdu) != PDUTypeSimpleAck {
		return &DecodingError{Reason: fmt.Sprintf("expected Simple-Ack, got PDU type 0x%02x", apdu[0]&0xF0), Data: apdu}
	}
	if apdu[1] != wantInvokeID {
		return &DecodingError{Reason: fmt.Sprintf("Simple-Ack invoke ID %d does not match request %d", apdu[1], wantInvokeID), Data: apdu}
	}
	if apdu[2] != byte(wantService) {
		return &DecodingError{Reason: fmt.Sprintf("Simple-Ack service choice %d does not match request %d", apdu[2], wantService), Data: apdu}
	}
	return nil
}

// complexAckHeader is the parsed fixed portion of one Complex-Ack segment
// (or the whole APDU, for an unsegmented reply).
type complexAckHeader struct {
	InvokeID       uint8
	SequenceNumber uint8
	WindowSize     uint8
	ServiceChoice  uint8
	MoreFollows    bool
	Payload        []byte
}

// parseComplexAckFirstSegment parses the first datagram of a Complex-Ack,
// segmented or not. A segmented first segment carries sequence number,
// window size and the service choice; a non-segmented reply is delivered
// whole and carries only invoke ID, service choice and payload.
func parseComplexAckFirstSegment(apdu []byte) (complexAckHeader, bool, error) {
	if len(apdu) < 3 {
		return complexAckHeader{}, false, &DecodingError{Reason: "Complex-Ack APDU truncated", Data: apdu, Err: ErrInvalidAPDU}
	}
	if PDUTypeOf(apdu) != PDUTypeComplexAck {
		return complexAckHeader{}, false, &DecodingError{Reason: fmt.Sprintf("expected Complex-Ack, got PDU type 0x%02x", apdu[0]&0xF0), Data: apdu}
	}

	segmented := apdu[0]&apduFlagSegmented != 0
	h := complexAckHeader{InvokeID: apdu[1]}

	if !segmented {
		h.ServiceChoice = apdu[2]
		h.Payload = apdu[3:]
		return h, false, nil
	}

	if len(apdu) < 5 {
		return complexAckHeader{}, false, &DecodingError{Reason: "segmented Complex-Ack first segment truncated", Data: apdu, Err: ErrInvalidAPDU}
	}
	h.SequenceNumber = apdu[2]
	h.WindowSize = apdu[3]
	h.ServiceChoice = apdu[4]
	h.MoreFollows = apdu[0]&apduFlagMoreFollows != 0
	h.Payload = apdu[5:]
	return h, true, nil
}

// parseComplexAckSubsequentSegment parses the 2nd and later datagrams of a
// segmented Complex-Ack, which repeat the PDU-type/flags byte and invoke ID
// but omit the service choice (it was only sent once, in the first
// segment).
func parseComplexAckSubsequentSegment(apdu []byte) (complexAckHeader, error) {
	if len(apdu) < 4 {
		return complexAckHeader{}, &DecodingError{Reason: "segmented Complex-Ack continuation truncated", Data: apdu, Err: ErrInvalidAPDU}
	}
	if PDUTypeOf(apdu) != PDUTypeComplexAck {
		return complexAckHeader{}, &DecodingError{Reason: fmt.Sprintf("expected Complex-Ack continuation, got PDU type 0x%02x", apdu[0]&0xF0), Data: apdu}
	}
	return complexAckHeader{
		InvokeID:       apdu[1],
		SequenceNumber: apdu[2],
		WindowSize:     apdu[3],
		MoreFollows:    apdu[0]&apduFlagMoreFollows != 0,
		Payload:        apdu[4:],
	}, nil
}
