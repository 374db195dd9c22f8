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

func TestEncodeReadPropertyMultipleRequestRoundTrip(t *testing.T) {
	desc := NewPropertyDescriptor(ObjectTypeAnalogValue, 1, PropertyPresentValue, PropertyDescription)
	apdu := EncodeReadPropertyMultipleRequest(staticInvokeID, []PropertyDescriptor{desc})

	require.Equal(t, PDUTypeConfirmedRequest, PDUTypeOf(apdu))
	require.Equal(t, staticInvokeID, apdu[2])
	require.Equal(t, byte(ServiceReadPropertyMultiple), apdu[3])

	d := NewDecoder(apdu[4:])
	oid, err := d.ReadContextObjectIdentifier(rpmCtxObjectIdentifier)
	require.NoError(t, err)
	require.Equal(t, desc.ObjectID(), oid)

	require.NoError(t, d.ExpectOpen(rpmCtxPropertyList))
	first, err := d.ReadContextUnsigned(rpmCtxPropertyRef)
	require.NoError(t, err)
	require.Equal(t, uint32(PropertyPresentValue), first)
	second, err := d.ReadContextUnsigned(rpmCtxPropertyRef)
	require.NoError(t, err)
	require.Equal(t, uint32(PropertyDescription), second)
	require.NoError(t, d.ExpectClose(rpmCtxPropertyList))
	require.True(t, d.Eof())
}

func TestNewPropertyDescriptorDefaultsToPresentValue(t *testing.T) {
	desc := NewPropertyDescriptor(ObjectTypeAnalogValue, 1)
	require.Equal(t, []PropertyIdentifier{PropertyPresentValue}, desc.ReadProperties)
}

func TestEncodeWritePropertyRequestAnalogValue(t *testing.T) {
	desc := NewPropertyDescriptor(ObjectTypeAnalogValue, 1)
	apdu, err := EncodeWritePropertyRequest(staticInvokeID, desc, RealValue(21.5))
	require.NoError(t, err)

	require.Equal(t, PDUTypeConfirmedRequest, PDUTypeOf(apdu))
	require.Equal(t, byte(ServiceWriteProperty), apdu[3])

	d := NewDecoder(apdu[4:])
	oid, err := d.ReadContextObjectIdentifier(wpCtxObjectIdentifier)
	require.NoError(t, err)
	require.Equal(t, desc.ObjectID(), oid)

	propID, err := d.ReadContextUnsigned(wpCtxPropertyID)
	require.NoError(t, err)
	require.Equal(t, uint32(PropertyPresentValue), propID)

	require.NoError(t, d.ExpectOpen(wpCtxPropertyValue))
	value, err := d.ReadApplicationValue()
	require.NoError(t, err)
	r, ok := value.Real()
	require.True(t, ok)
	require.InDelta(t, 21.5, r, 0.0001)
	require.NoError(t, d.ExpectClose(wpCtxPropertyValue))
	require.True(t, d.Eof())
}

func TestEncodeWritePropertyRequestWithPriority(t *testing.T) {
	desc := NewPropertyDescriptor(ObjectTypeBinaryOutput, 1).WithPriority(8)
	apdu, err := EncodeWritePropertyRequest(staticInvokeID, desc, EnumeratedValue(1))
	require.NoError(t, err)

	// last bytes are ctx-4 tag carrying the priority.
	d := NewDecoder(apdu[4:])
	_, err = d.ReadContextObjectIdentifier(wpCtxObjectIdentifier)
	require.NoError(t, err)
	_, err = d.ReadContextUnsigned(wpCtxPropertyID)
	require.NoError(t, err)
	require.NoError(t, d.ExpectOpen(wpCtxPropertyValue))
	_, err = d.ReadApplicationValue()
	require.NoError(t, err)
	require.NoError(t, d.ExpectClose(wpCtxPropertyValue))

	priority, err := d.ReadContextUnsigned(wpCtxPriority)
	require.NoError(t, err)
	require.Equal(t, uint32(8), priority)
}

func TestEncodeWritePropertyRequestNullRelinquish(t *testing.T) {
	desc := NewPropertyDescriptor(ObjectTypeAnalogOutput, 1).WithPriority(8)
	apdu, err := EncodeWritePropertyRequest(staticInvokeID, desc, NullValue())
	require.NoError(t, err)

	d := NewDecoder(apdu[4:])
	_, err = d.ReadContextObjectIdentifier(wpCtxObjectIdentifier)
	require.NoError(t, err)
	_, err = d.ReadContextUnsigned(wpCtxPropertyID)
	require.NoError(t, err)
	require.NoError(t, d.ExpectOpen(wpCtxPropertyValue))
	value, err := d.ReadApplicationValue()
	require.NoError(t, err)
	require.Equal(t, KindNull, value.Kind)
}

func TestEncodeWritePropertyRequestRejectsWrongKindForAnalog(t *testing.T) {
	desc := NewPropertyDescriptor(ObjectTypeAnalogValue, 1)
	_, err := EncodeWritePropertyRequest(staticInvokeID, desc, CharStringValue("nope"))
	require.Error(t, err)
	var usageErr *UsageError
	require.ErrorAs(t, err, &usageErr)
}

func TestEncodeWritePropertyRequestBinaryUsesEnumerated(t *testing.T) {
	desc := NewPropertyDescriptor(ObjectTypeBinaryValue, 1)
	apdu, err := EncodeWritePropertyRequest(staticInvokeID, desc, EnumeratedValue(1))
	require.NoError(t, err)

	d := NewDecoder(apdu[4:])
	_, _ = d.ReadContextObjectIdentifier(wpCtxObjectIdentifier)
	_, _ = d.ReadContextUnsigned(wpCtxPropertyID)
	require.NoError(t, d.ExpectOpen(wpCtxPropertyValue))
	value, err := d.ReadApplicationValue()
	require.NoError(t, err)
	require.Equal(t, KindEnumerated, value.Kind)
}
