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

// maxSegmentsNibble/maxAPDUNibble are the 4-bit enumeration values this
// client advertises in every confirmed request's second octet: "accepts up
// to 16 segments" / "up to 1024-octet APDUs" (the nibble values a real
// BACnet stack maps to those limits, not raw counts).
const (
	maxSegmentsNibble = 4
	maxAPDUNibble      = 4
)

const (
	rpmCtxObjectIdentifier = 0
	rpmCtxPropertyList     = 1
	rpmCtxPropertyRef      = 0

	wpCtxObjectIdentifier = 0
	wpCtxPropertyID       = 1
	wpCtxPropertyValue    = 3
	wpCtxPriority         = 4
)

// EncodeReadPropertyMultipleRequest encodes a ReadPropertyMultiple
// confirmed-request APDU asking for the listed properties of every
// descriptor. Descriptors with no explicit ReadProperties default to
// PresentValue.
func EncodeReadPropertyMultipleRequest(invokeID uint8, descriptors []PropertyDescriptor) []byte {
	var data []byte
	for _, desc := range descriptors {
		data = append(data, EncodeContextObjectIdentifier(rpmCtxObjectIdentifier, desc.ObjectID())...)
		data = append(data, EncodeOpeningTag(rpmCtxPropertyList)...)

		props := desc.ReadProperties
		if len(props) == 0 {
			props = []PropertyIdentifier{PropertyPresentValue}
		}
		for _, p := range props {
			data = append(data, EncodeContextUnsigned(rpmCtxPropertyRef, uint32(p))...)
		}

		data = append(data, EncodeClosingTag(rpmCtxPropertyList)...)
	}
	return EncodeConfirmedRequest(invokeID, ServiceReadPropertyMultiple, data, maxSegmentsNibble, maxAPDUNibble)
}

// EncodeWritePropertyRequest encodes a WriteProperty confirmed-request APDU
// writing value to the object's PresentValue property, optionally at a
// specific priority. The application tag used for the value is chosen from
// desc.ObjectType: analog-value objects write a Real, binary-value objects
// write an Enumerated, every other object type (analog-output and
// binary-output included) writes an UnsignedInt. A Null value encodes
// the zero-length Null primitive (priority relinquish).
func EncodeWritePropertyRequest(invokeID uint8, desc PropertyDescriptor, value Value) ([]byte, error) {
	encodedValue, err := encodeWriteValue(desc.ObjectType, value)
	if err != nil {
		return nil, err
	}

	data := EncodeContextObjectIdentifier(wpCtxObjectIdentifier, desc.ObjectID())
	data = append(data, EncodeContextUnsigned(wpCtxPropertyID, uint32(PropertyPresentValue))...)
	data = append(data, EncodeOpeningTag(wpCtxPropertyValue)...)
	data = append(data, encodedValue...)
	data = append(data, EncodeClosingTag(wpCtxPropertyValue)...)
	if desc.Priority != nil {
		data = append(data, EncodeContextUnsigned(wpCtxPriority, uint32(*desc.Priority))...)
	}

	return EncodeConfirmedRequest(invokeID, ServiceWriteProperty, data, maxSegmentsNibble, maxAPDUNibble), nil
}

func encodeWriteValue(objectType ObjectType, value Value) ([]byte, error) {
	if value.Kind == KindNull {
		return EncodeTag(uint8(TagNull), TagClassApplication, 0), nil
	}

	switch objectType {
	case ObjectTypeAnalogValue:
		real, ok := value.Real()
		if !ok {
			return nil, &UsageError{Reason: "analog-value objects require a Real value to write"}
		}
		return EncodeRealTag(real), nil

	case ObjectTypeBinaryValue:
		v, ok := value.Unsigned()
		if !ok {
			return nil, &UsageError{Reason: "binary-value objects require an Enumerated/UnsignedInt value to write"}
		}
		return EncodeEnumeratedTag(v), nil

	default:
		v, ok := value.Unsigned()
		if !ok {
			return nil, &UsageError{Reason: "this object type requires an UnsignedInt value to write"}
		}
		return EncodeUnsignedTag(v), nil
	}
}
