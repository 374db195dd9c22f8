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

func TestEncodeTagShortForm(t *testing.T) {
	// tag number 4, application class, length 4 fits in one byte.
	got := EncodeTag(4, TagClassApplication, 4)
	require.Equal(t, []byte{0x44}, got)
}

func TestEncodeTagExtendedLength(t *testing.T) {
	data := make([]byte, 10)
	got := EncodeTag(2, TagClassContext, len(data))
	require.Equal(t, []byte{(2 << 4) | (1 << 3) | 0x05, 10}, got)
}

func TestEncodeTagExtendedLength16Bit(t *testing.T) {
	got := EncodeTag(2, TagClassApplication, 300)
	require.Equal(t, byte(0x05), got[0]&0x07)
	require.Equal(t, byte(254), got[1])
	require.Equal(t, uint16(300), uint16(got[2])<<8|uint16(got[3]))
}

func TestEncodeTagExtendedNumber(t *testing.T) {
	got := EncodeTag(20, TagClassContext, 1)
	require.Equal(t, byte(0xF9), got[0])
	require.Equal(t, byte(20), got[1])
}

func TestDecodeTagHeaderRoundTrip(t *testing.T) {
	encoded := EncodeTag(9, TagClassApplication, 1)
	h, err := decodeTagHeader(encoded)
	require.NoError(t, err)
	require.Equal(t, uint8(9), h.Number)
	require.Equal(t, TagClassApplication, h.Class)
	require.Equal(t, 1, h.Length)
	require.Equal(t, len(encoded), h.headerLen)
}

func TestDecodeTagHeaderOpenClose(t *testing.T) {
	open, err := decodeTagHeader(EncodeOpeningTag(1))
	require.NoError(t, err)
	require.True(t, open.isOpen())

	closeTag, err := decodeTagHeader(EncodeClosingTag(1))
	require.NoError(t, err)
	require.True(t, closeTag.isClose())
}

func TestDecodeTagHeaderTruncated(t *testing.T) {
	_, err := decodeTagHeader(nil)
	require.Error(t, err)
}

func TestPeekTagDoesNotAdvanceCursor(t *testing.T) {
	d := NewDecoder(EncodeUnsignedTag(7))
	before := d.Offset()
	_, err := d.PeekTag()
	require.NoError(t, err)
	require.Equal(t, before, d.Offset())
}

func TestReadApplicationValueUnsignedInt(t *testing.T) {
	d := NewDecoder(EncodeUnsignedTag(42))
	v, err := d.ReadApplicationValue()
	require.NoError(t, err)
	u, ok := v.Unsigned()
	require.True(t, ok)
	require.Equal(t, uint32(42), u)
	require.True(t, d.Eof())
}

func TestReadApplicationValueReal(t *testing.T) {
	d := NewDecoder(EncodeRealTag(21.5))
	v, err := d.ReadApplicationValue()
	require.NoError(t, err)
	r, ok := v.Real()
	require.True(t, ok)
	require.InDelta(t, 21.5, r, 0.0001)
}

func TestReadApplicationValueCharacterString(t *testing.T) {
	content := EncodeCharacterString("Room 101")
	tag := EncodeTag(uint8(TagCharacterString), TagClassApplication, len(content))
	d := NewDecoder(append(tag, content...))
	v, err := d.ReadApplicationValue()
	require.NoError(t, err)
	s, ok := v.CharacterString()
	require.True(t, ok)
	require.Equal(t, "Room 101", s)
}

func TestReadApplicationValueRejectsNonUTF8CharacterString(t *testing.T) {
	content := []byte{1, 'x'} // character set 1, not UTF-8
	tag := EncodeTag(uint8(TagCharacterString), TagClassApplication, len(content))
	d := NewDecoder(append(tag, content...))
	_, err := d.ReadApplicationValue()
	require.Error(t, err)
}

func TestReadApplicationValueUnknownTagDegradesGracefully(t *testing.T) {
	// application tag 15 isn't one this decoder interprets.
	raw := []byte{0xAB, 0xCD}
	tag := EncodeTag(15, TagClassApplication, len(raw))
	d := NewDecoder(append(tag, raw...))
	v, err := d.ReadApplicationValue()
	require.NoError(t, err)
	tagNum, data, ok := v.Unknown()
	require.True(t, ok)
	require.Equal(t, uint8(15), tagNum)
	require.Equal(t, raw, data)
}

func TestExpectOpenCloseMismatch(t *testing.T) {
	d := NewDecoder(EncodeClosingTag(1))
	err := d.ExpectOpen(1)
	require.Error(t, err)
}

func TestAtCloseDoesNotConsume(t *testing.T) {
	d := NewDecoder(EncodeClosingTag(3))
	require.True(t, d.AtClose(3))
	require.False(t, d.Eof())
}

func TestDecodeUnsignedAllWidths(t *testing.T) {
	require.Equal(t, uint32(0x12), DecodeUnsigned([]byte{0x12}))
	require.Equal(t, uint32(0x1234), DecodeUnsigned([]byte{0x12, 0x34}))
	require.Equal(t, uint32(0x123456), DecodeUnsigned([]byte{0x12, 0x34, 0x56}))
	require.Equal(t, uint32(0x12345678), DecodeUnsigned([]byte{0x12, 0x34, 0x56, 0x78}))
}

func TestDecodeSignedNegative(t *testing.T) {
	require.Equal(t, int32(-1), DecodeSigned([]byte{0xFF}))
	require.Equal(t, int32(-2), DecodeSigned([]byte{0xFF, 0xFE}))
}

func TestObjectIdentifierWireRoundTrip(t *testing.T) {
	oid := NewObjectIdentifier(ObjectTypeAnalogValue, 1)
	raw := EncodeObjectIdentifier(oid)
	require.Equal(t, oid, DecodeObjectIdentifierFromBytes(raw))
}
