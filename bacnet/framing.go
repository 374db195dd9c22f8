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
	"encoding/binary"
	"fmt"
)

// BVLCHeader is the 4-byte BACnet Virtual Link Control header.
type BVLCHeader struct {
	Type     BVLCType
	Function BVLCFunction
	Length   uint16
}

// EncodeBVLC encodes a BVLC header for a payload of npduLength bytes
// (NPDU header plus APDU).
func EncodeBVLC(function BVLCFunction, npduLength int) []byte {
	totalLength := 4 + npduLength
	buf := make([]byte, 4)
	buf[0] = byte(BVLCTypeBACnetIP)
	buf[1] = byte(function)
	binary.BigEndian.PutUint16(buf[2:], uint16(totalLength))
	return buf
}

// DecodeBVLC decodes a BVLC header, rejecting anything that is not a
// BACnet/IP Original-Unicast-NPDU (the only function this client expects
// to receive).
func DecodeBVLC(data []byte) (*BVLCHeader, error) {
	if len(data) < 4 {
		return nil, &DecodingError{Reason: "BVLC header truncated", Data: data, Err: ErrInvalidBVLC}
	}
	h := &BVLCHeader{
		Type:     BVLCType(data[0]),
		Function: BVLCFunction(data[1]),
		Length:   binary.BigEndian.Uint16(data[2:4]),
	}
	if h.Type != BVLCTypeBACnetIP {
		return nil, &DecodingError{Reason: fmt.Sprintf("unexpected BVLC type 0x%02x", data[0]), Data: data, Err: ErrInvalidBVLC}
	}
	if h.Function != BVLCOriginalUnicastNPDU {
		return nil, &DecodingError{Reason: fmt.Sprintf("unexpected BVLC function 0x%02x", data[1]), Data: data, Err: ErrInvalidBVLC}
	}
	if int(h.Length) != len(data) {
		return nil, &DecodingError{Reason: fmt.Sprintf("BVLC length %d does not match datagram size %d", h.Length, len(data)), Data: data, Err: ErrInvalidBVLC}
	}
	return h, nil
}

// NPDU is the 2-byte, no-routing Network Protocol Data Unit header this
// client emits and expects: version 1, no destination/source specifiers,
// no network-layer message.
type NPDU struct {
	Version uint8
	Control NPDUControl
}

// EncodeNPDU encodes a directly-addressed NPDU.
func EncodeNPDU(expectingReply bool, priority NPDUControl) []byte {
	control := priority
	if expectingReply {
		control |= NPDUControlExpectingReply
	}
	return []byte{0x01, byte(control)}
}

const (
	npduBitNetworkLayerMessage = 0x80
	npduBitDestSpecifier       = 0x20
	npduBitSourceSpecifier     = 0x08
)

// DecodeNPDU decodes the fixed 2-byte NPDU header and returns it along with
// the byte offset where the APDU begins. Any routing bit (destination or
// source specifier, network-layer message) is rejected: this client only
// ever talks to a single directly-addressed device and never acts as or
// expects to see a router.
func DecodeNPDU(data []byte) (*NPDU, int, error) {
	if len(data) < 2 {
		return nil, 0, &DecodingError{Reason: "NPDU header truncated", Data: data, Err: ErrInvalidNPDU}
	}
	n := &NPDU{Version: data[0], Control: NPDUControl(data[1])}
	if n.Version != 0x01 {
		return nil, 0, &DecodingError{Reason: fmt.Sprintf("unsupported NPDU version %d", n.Version), Data: data, Err: ErrInvalidNPDU}
	}
	if byte(n.Control)&(npduBitNetworkLayerMessage|npduBitDestSpecifier|npduBitSourceSpecifier) != 0 {
		return nil, 0, &DecodingError{Reason: "NPDU carries routing fields, which this client does not support", Data: data, Err: ErrInvalidNPDU}
	}
	return n, 2, nil
}

// WrapAPDU frames an APDU payload in a fresh BVLC+NPDU datagram ready to
// send over UDP.
func WrapAPDU(apdu []byte, expectingReply bool) []byte {
	npdu := EncodeNPDU(expectingReply, NPDUControlPriorityNormal)
	bvlc := EncodeBVLC(BVLCOriginalUnicastNPDU, len(npdu)+len(apdu))
	out := make([]byte, 0, len(bvlc)+len(npdu)+len(apdu))
	out = append(out, bvlc...)
	out = append(out, npdu...)
	out = append(out, apdu...)
	return out
}

// UnwrapAPDU decodes a received datagram's BVLC and NPDU headers and
// returns the remaining APDU bytes.
func UnwrapAPDU(datagram []byte) ([]byte, error) {
	if _, err := DecodeBVLC(datagram); err != nil {
		return nil, err
	}
	_, offset, err := DecodeNPDU(datagram[4:])
	if err != nil {
		return nil, err
	}
	return datagram[4+offset:], nil
}
