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

const (
	ctxObjectIdentifier  = 0
	ctxListOfResults     = 1
	ctxPropertyID        = 2
	ctxPropertyValue     = 4
	ctxPropertyAccessErr = 5
)

// PropertyResult pairs a requested property with its decoded value or
// access error. Results are kept in a slice, not a map, so that the order
// properties were requested in is preserved on read.
type PropertyResult struct {
	PropertyID PropertyIdentifier
	Value      Value
}

// DeviceState is the cache a facade.Device builds from one or more
// ReadPropertyMultiple exchanges: every requested (object, property) pair
// maps to exactly one result, a value or an AccessError.
type DeviceState map[ObjectIdentifier][]PropertyResult

// DecodeReadPropertyMultipleAck parses the service payload of a
// ReadPropertyMultiple-Ack (the part after PDU type/invoke-id/service
// choice have already been stripped) into a DeviceState.
func DecodeReadPropertyMultipleAck(payload []byte) (DeviceState, error) {
	d := NewDecoder(payload)
	state := DeviceState{}

	for !d.Eof() {
		objID, err := d.ReadContextObjectIdentifier(ctxObjectIdentifier)
		if err != nil {
			return nil, err
		}
		if err := d.ExpectOpen(ctxListOfResults); err != nil {
			return nil, err
		}

		var results []PropertyResult
		for !d.AtClose(ctxListOfResults) {
			propIDRaw, err := d.ReadContextUnsigned(ctxPropertyID)
			if err != nil {
				return nil, err
			}
			propID := PropertyIdentifier(propIDRaw)

			value, err := readPropertyResultValue(d, propID)
			if err != nil {
				return nil, err
			}
			results = append(results, PropertyResult{PropertyID: propID, Value: value})
		}

		if err := d.ExpectClose(ctxListOfResults); err != nil {
			return nil, err
		}
		state[objID] = results
	}

	return state, nil
}

// readPropertyResultValue reads the value (or access error) that follows a
// property identifier in a list-of-results element: either
// ctx4-OPEN{value}ctx4-CLOSE or ctx5-OPEN{access error}ctx5-CLOSE.
func readPropertyResultValue(d *Decoder, propID PropertyIdentifier) (Value, error) {
	h, err := d.PeekTag()
	if err != nil {
		return Value{}, err
	}

	switch {
	case h.isOpen() && h.Number == ctxPropertyValue:
		if err := d.ExpectOpen(ctxPropertyValue); err != nil {
			return Value{}, err
		}
		var value Value
		if propID == PropertyPriorityArray {
			value, err = parsePriorityArray(d)
		} else {
			value, err = d.ReadApplicationValue()
		}
		if err != nil {
			return Value{}, err
		}
		if err := d.ExpectClose(ctxPropertyValue); err != nil {
			return Value{}, err
		}
		return value, nil

	case h.isOpen() && h.Number == ctxPropertyAccessErr:
		return parseAccessError(d)

	default:
		return Value{}, &DecodingError{Reason: "expected property value (ctx-4) or access error (ctx-5)", Data: nil}
	}
}

// parsePriorityArray reads the 16 application-tagged primitives that make
// up a PriorityArray property value. There is no count on the wire — the
// loop runs until it sees the closing tag of the ctx-4 wrapper the caller
// already opened.
func parsePriorityArray(d *Decoder) (Value, error) {
	var slots [16]Value
	for i := 0; i < 16; i++ {
		if d.AtClose(ctxPropertyValue) {
			return Value{}, &DecodingError{Reason: fmt.Sprintf("priority array ended early, after %d of 16 slots", i), Data: nil}
		}
		v, err := d.ReadApplicationValue()
		if err != nil {
			return Value{}, err
		}
		slots[i] = v
	}
	if !d.AtClose(ctxPropertyValue) {
		return Value{}, &DecodingError{Reason: "priority array has more than 16 slots", Data: nil}
	}
	return PriorityArrayValue(slots), nil
}

// parseAccessError reads a property access-error: two enumerated
// application primitives, error-class then error-code, wrapped in a ctx-5
// open/close pair.
func parseAccessError(d *Decoder) (Value, error) {
	if err := d.ExpectOpen(ctxPropertyAccessErr); err != nil {
		return Value{}, err
	}
	classVal, err := d.ReadApplicationValue()
	if err != nil {
		return Value{}, err
	}
	class, ok := classVal.Unsigned()
	if !ok {
		return Value{}, &DecodingError{Reason: "access error class is not an enumerated value", Data: nil}
	}
	codeVal, err := d.ReadApplicationValue()
	if err != nil {
		return Value{}, err
	}
	code, ok := codeVal.Unsigned()
	if !ok {
		return Value{}, &DecodingError{Reason: "access error code is not an enumerated value", Data: nil}
	}
	if err := d.ExpectClose(ctxPropertyAccessErr); err != nil {
		return Value{}, err
	}
	return AccessErrorValue(class, code), nil
}
