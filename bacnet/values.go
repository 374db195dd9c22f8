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

// ValueKind discriminates the variants of Value. Go has no algebraic union
// type, so Value is a closed tagged struct: Kind selects which field is
// meaningful, and the accessor methods below refuse to read the wrong one.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBoolean
	KindUnsignedInt
	KindSignedInt
	KindReal
	KindDouble
	KindCharString
	KindEnumerated
	KindObjectID
	KindPriorityArray
	KindAccessError
	KindUnknown
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindUnsignedInt:
		return "unsigned-int"
	case KindSignedInt:
		return "signed-int"
	case KindReal:
		return "real"
	case KindDouble:
		return "double"
	case KindCharString:
		return "character-string"
	case KindEnumerated:
		return "enumerated"
	case KindObjectID:
		return "object-identifier"
	case KindPriorityArray:
		return "priority-array"
	case KindAccessError:
		return "access-error"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("value-kind(%d)", uint8(k))
	}
}

// Value is the result of decoding one application-tagged primitive (or a
// PriorityArray / property-access-error, which are structured rather than
// primitive). Zero value is KindNull.
type Value struct {
	Kind ValueKind

	boolVal   bool
	uintVal   uint32
	intVal    int32
	realVal   float32
	doubleVal float64
	strVal    string
	objVal    ObjectIdentifier
	array     [16]Value
	errClass  uint32
	errCode   uint32
	unkTag    uint8
	unkRaw    []byte
}

// NullValue returns the Null variant.
func NullValue() Value { return Value{Kind: KindNull} }

// BooleanValue returns the Boolean variant.
func BooleanValue(v bool) Value { return Value{Kind: KindBoolean, boolVal: v} }

// UnsignedIntValue returns the UnsignedInt variant.
func UnsignedIntValue(v uint32) Value { return Value{Kind: KindUnsignedInt, uintVal: v} }

// SignedIntValue returns the SignedInt variant.
func SignedIntValue(v int32) Value { return Value{Kind: KindSignedInt, intVal: v} }

// RealValue returns the Real (IEEE 754 single precision) variant.
func RealValue(v float32) Value { return Value{Kind: KindReal, realVal: v} }

// DoubleValue returns the Double (IEEE 754 double precision) variant.
func DoubleValue(v float64) Value { return Value{Kind: KindDouble, doubleVal: v} }

// CharStringValue returns the CharacterString (UTF-8) variant.
func CharStringValue(v string) Value { return Value{Kind: KindCharString, strVal: v} }

// EnumeratedValue returns the Enumerated variant.
func EnumeratedValue(v uint32) Value { return Value{Kind: KindEnumerated, uintVal: v} }

// ObjectIDValue returns the ObjectIdentifier variant.
func ObjectIDValue(v ObjectIdentifier) Value { return Value{Kind: KindObjectID, objVal: v} }

// PriorityArrayValue returns the PriorityArray variant. Per BACnet, a
// priority array always carries exactly 16 slots.
func PriorityArrayValue(slots [16]Value) Value {
	return Value{Kind: KindPriorityArray, array: slots}
}

// AccessErrorValue returns the AccessError variant: the device refused to
// return a property's value, carrying a BACnet error-class/error-code pair
// instead.
func AccessErrorValue(class, code uint32) Value {
	return Value{Kind: KindAccessError, errClass: class, errCode: code}
}

// UnknownValue returns the Unknown variant for an application tag this
// decoder does not interpret; Raw holds the tag's undecoded content octets.
func UnknownValue(tag uint8, raw []byte) Value {
	return Value{Kind: KindUnknown, unkTag: tag, unkRaw: raw}
}

// Bool returns the boolean payload and whether Kind was Boolean.
func (v Value) Bool() (bool, bool) { return v.boolVal, v.Kind == KindBoolean }

// Unsigned returns the unsigned-integer payload and whether Kind was
// UnsignedInt or Enumerated (both are unsigned on the wire).
func (v Value) Unsigned() (uint32, bool) {
	return v.uintVal, v.Kind == KindUnsignedInt || v.Kind == KindEnumerated
}

// Signed returns the signed-integer payload and whether Kind was SignedInt.
func (v Value) Signed() (int32, bool) { return v.intVal, v.Kind == KindSignedInt }

// Real returns the float32 payload and whether Kind was Real.
func (v Value) Real() (float32, bool) { return v.realVal, v.Kind == KindReal }

// Double returns the float64 payload and whether Kind was Double.
func (v Value) Double() (float64, bool) { return v.doubleVal, v.Kind == KindDouble }

// CharacterString returns the character-string payload and whether Kind was
// CharString.
func (v Value) CharacterString() (string, bool) { return v.strVal, v.Kind == KindCharString }

// ObjectID returns the object-identifier payload and whether Kind was
// ObjectID.
func (v Value) ObjectID() (ObjectIdentifier, bool) { return v.objVal, v.Kind == KindObjectID }

// PriorityArray returns the 16-slot payload and whether Kind was
// PriorityArray.
func (v Value) PriorityArray() ([16]Value, bool) { return v.array, v.Kind == KindPriorityArray }

// AccessError returns the error class/code and whether Kind was AccessError.
func (v Value) AccessError() (class, code uint32, ok bool) {
	return v.errClass, v.errCode, v.Kind == KindAccessError
}

// Unknown returns the raw tag number and content and whether Kind was
// Unknown.
func (v Value) Unknown() (tag uint8, raw []byte, ok bool) {
	return v.unkTag, v.unkRaw, v.Kind == KindUnknown
}

func (v Value) GoString() string {
	switch v.Kind {
	case KindNull:
		return "Null"
	case KindBoolean:
		return fmt.Sprintf("Boolean(%v)", v.boolVal)
	case KindUnsignedInt:
		return fmt.Sprintf("UnsignedInt(%d)", v.uintVal)
	case KindSignedInt:
		return fmt.Sprintf("SignedInt(%d)", v.intVal)
	case KindReal:
		return fmt.Sprintf("Real(%v)", v.realVal)
	case KindDouble:
		return fmt.Sprintf("Double(%v)", v.doubleVal)
	case KindCharString:
		return fmt.Sprintf("CharString(%q)", v.strVal)
	case KindEnumerated:
		return fmt.Sprintf("Enumerated(%d)", v.uintVal)
	case KindObjectID:
		return fmt.Sprintf("ObjectID(%s)", v.objVal)
	case KindPriorityArray:
		return "PriorityArray(...)"
	case KindAccessError:
		return fmt.Sprintf("AccessError(class=%d, code=%d)", v.errClass, v.errCode)
	default:
		return fmt.Sprintf("Unknown(tag=%d, %d bytes)", v.unkTag, len(v.unkRaw))
	}
}
