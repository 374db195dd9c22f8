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

// buildRPMAckPayload hand-assembles one ReadPropertyMultiple-Ack object
// element: object id, an opening ctx-1, one property/value pair, a closing
// ctx-1.
func buildRPMAckPayload(oid ObjectIdentifier, propID PropertyIdentifier, value []byte) []byte {
	var buf []byte
	buf = append(buf, EncodeContextObjectIdentifier(ctxObjectIdentifier, oid)...)
	buf = append(buf, EncodeOpeningTag(ctxListOfResults)...)
	buf = append(buf, EncodeContextUnsigned(ctxPropertyID, uint32(propID))...)
	buf = append(buf, EncodeOpeningTag(ctxPropertyValue)...)
	buf = append(buf, value...)
	buf = append(buf, EncodeClosingTag(ctxPropertyValue)...)
	buf = append(buf, EncodeClosingTag(ctxListOfResults)...)
	return buf
}

func TestDecodeReadPropertyMultipleAckSingleValue(t *testing.T) {
	oid := NewObjectIdentifier(ObjectTypeAnalogValue, 1)
	payload := buildRPMAckPayload(oid, PropertyPresentValue, EncodeRealTag(21.5))

	state, err := DecodeReadPropertyMultipleAck(payload)
	require.NoError(t, err)

	results, ok := state[oid]
	require.True(t, ok)
	require.Len(t, results, 1)
	require.Equal(t, PropertyPresentValue, results[0].PropertyID)
	v, ok := results[0].Value.Real()
	require.True(t, ok)
	require.InDelta(t, 21.5, v, 0.0001)
}

func TestDecodeReadPropertyMultipleAckMultipleObjects(t *testing.T) {
	oid1 := NewObjectIdentifier(ObjectTypeAnalogValue, 1)
	oid2 := NewObjectIdentifier(ObjectTypeAnalogValue, 2)

	payload := append(
		buildRPMAckPayload(oid1, PropertyPresentValue, EncodeRealTag(1)),
		buildRPMAckPayload(oid2, PropertyPresentValue, EncodeRealTag(2))...,
	)

	state, err := DecodeReadPropertyMultipleAck(payload)
	require.NoError(t, err)
	require.Len(t, state, 2)
}

func TestDecodeReadPropertyMultipleAckAccessError(t *testing.T) {
	oid := NewObjectIdentifier(ObjectTypeAnalogValue, 99)

	var buf []byte
	buf = append(buf, EncodeContextObjectIdentifier(ctxObjectIdentifier, oid)...)
	buf = append(buf, EncodeOpeningTag(ctxListOfResults)...)
	buf = append(buf, EncodeContextUnsigned(ctxPropertyID, uint32(PropertyPresentValue))...)
	buf = append(buf, EncodeOpeningTag(ctxPropertyAccessErr)...)
	buf = append(buf, EncodeEnumeratedTag(uint32(ErrorClassObject))...)
	buf = append(buf, EncodeEnumeratedTag(uint32(ErrorCodeUnknownObject))...)
	buf = append(buf, EncodeClosingTag(ctxPropertyAccessErr)...)
	buf = append(buf, EncodeClosingTag(ctxListOfResults)...)

	state, err := DecodeReadPropertyMultipleAck(buf)
	require.NoError(t, err)

	results := state[oid]
	require.Len(t, results, 1)
	class, code, ok := results[0].Value.AccessError()
	require.True(t, ok)
	require.Equal(t, uint32(ErrorClassObject), class)
	require.Equal(t, uint32(ErrorCodeUnknownObject), code)
}

func TestDecodeReadPropertyMultipleAckPriorityArray(t *testing.T) {
	oid := NewObjectIdentifier(ObjectTypeAnalogOutput, 1)

	var slots []byte
	for i := 0; i < 16; i++ {
		if i == 7 {
			slots = append(slots, EncodeRealTag(72.0)...)
		} else {
			slots = append(slots, EncodeTag(uint8(TagNull), TagClassApplication, 0)...)
		}
	}
	payload := buildRPMAckPayload(oid, PropertyPriorityArray, slots)

	state, err := DecodeReadPropertyMultipleAck(payload)
	require.NoError(t, err)

	results := state[oid]
	require.Len(t, results, 1)
	array, ok := results[0].Value.PriorityArray()
	require.True(t, ok)
	v, ok := array[7].Real()
	require.True(t, ok)
	require.InDelta(t, 72.0, v, 0.0001)
	require.Equal(t, KindNull, array[0].Kind)
}

func TestDecodeReadPropertyMultipleAckTruncatedFails(t *testing.T) {
	oid := NewObjectIdentifier(ObjectTypeAnalogValue, 1)
	payload := buildRPMAckPayload(oid, PropertyPresentValue, EncodeRealTag(1))
	_, err := DecodeReadPropertyMultipleAck(payload[:len(payload)-3])
	require.Error(t, err)
}
