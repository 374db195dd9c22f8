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
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeDevice is a minimal UDP peer standing in for the RDS110.R thermostat:
// it decodes one confirmed request and replies however the test tells it
// to, including splitting a ReadPropertyMultiple-Ack across two segments.
type fakeDevice struct {
	t    *testing.T
	conn *net.UDPConn
}

func newFakeDevice(t *testing.T) *fakeDevice {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	return &fakeDevice{t: t, conn: conn}
}

func (f *fakeDevice) addrPort() int {
	return f.conn.LocalAddr().(*net.UDPAddr).Port
}

func (f *fakeDevice) close() { f.conn.Close() }

// recvRequest reads one datagram and returns the unwrapped APDU and the
// peer address to reply to.
func (f *fakeDevice) recvRequest() ([]byte, *net.UDPAddr, error) {
	buf := make([]byte, 1500)
	f.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, addr, err := f.conn.ReadFromUDP(buf)
	if err != nil {
		return nil, nil, err
	}
	apdu, err := UnwrapAPDU(buf[:n])
	return apdu, addr, err
}

func (f *fakeDevice) send(addr *net.UDPAddr, apdu []byte) {
	_, err := f.conn.WriteToUDP(WrapAPDU(apdu, false), addr)
	require.NoError(f.t, err)
}

func TestClientReadPropertyMultipleSingleSegment(t *testing.T) {
	device := newFakeDevice(t)
	defer device.close()

	oid := NewObjectIdentifier(ObjectTypeAnalogValue, 1)
	ackPayload := buildRPMAckPayload(oid, PropertyPresentValue, EncodeRealTag(21.5))

	done := make(chan struct{})
	go func() {
		defer close(done)
		apdu, addr, err := device.recvRequest()
		require.NoError(t, err)
		require.Equal(t, PDUTypeConfirmedRequest, PDUTypeOf(apdu))
		require.Equal(t, byte(ServiceReadPropertyMultiple), apdu[3])

		reply := append([]byte{byte(PDUTypeComplexAck), staticInvokeID, byte(ServiceReadPropertyMultiple)}, ackPayload...)
		device.send(addr, reply)
	}()

	client, err := NewClient("127.0.0.1", device.addrPort(), WithTimeout(2*time.Second))
	require.NoError(t, err)

	state, err := client.ReadPropertyMultiple(context.Background(), []PropertyDescriptor{
		NewPropertyDescriptor(ObjectTypeAnalogValue, 1),
	})
	require.NoError(t, err)
	<-done

	results := state[oid]
	require.Len(t, results, 1)
	v, ok := results[0].Value.Real()
	require.True(t, ok)
	require.InDelta(t, 21.5, v, 0.0001)
}

func TestClientReadPropertyMultipleSegmentedReassembly(t *testing.T) {
	device := newFakeDevice(t)
	defer device.close()

	oid1 := NewObjectIdentifier(ObjectTypeAnalogValue, 1)
	oid2 := NewObjectIdentifier(ObjectTypeAnalogValue, 2)
	full := append(
		buildRPMAckPayload(oid1, PropertyPresentValue, EncodeRealTag(1)),
		buildRPMAckPayload(oid2, PropertyPresentValue, EncodeRealTag(2))...,
	)
	split := len(full) / 2
	seg1Payload, seg2Payload := full[:split], full[split:]

	done := make(chan struct{})
	go func() {
		defer close(done)
		apdu, addr, err := device.recvRequest()
		require.NoError(t, err)
		require.Equal(t, PDUTypeConfirmedRequest, PDUTypeOf(apdu))

		flags := byte(PDUTypeComplexAck) | apduFlagSegmented | apduFlagMoreFollows
		seg1 := append([]byte{flags, staticInvokeID, 0, 5, byte(ServiceReadPropertyMultiple)}, seg1Payload...)
		device.send(addr, seg1)

		ackAPDU, ackAddr, err := device.recvRequest()
		require.NoError(t, err)
		require.Equal(t, PDUTypeSegmentAck, PDUTypeOf(ackAPDU))
		require.Equal(t, staticInvokeID, ackAPDU[1])
		require.Equal(t, uint8(0), ackAPDU[2])

		flags2 := byte(PDUTypeComplexAck) | apduFlagSegmented
		seg2 := append([]byte{flags2, staticInvokeID, 1, 5}, seg2Payload...)
		device.send(ackAddr, seg2)
	}()

	client, err := NewClient("127.0.0.1", device.addrPort(), WithTimeout(2*time.Second))
	require.NoError(t, err)

	state, err := client.ReadPropertyMultiple(context.Background(), []PropertyDescriptor{
		NewPropertyDescriptor(ObjectTypeAnalogValue, 1),
		NewPropertyDescriptor(ObjectTypeAnalogValue, 2),
	})
	require.NoError(t, err)
	<-done

	require.Len(t, state, 2)
	v1, _ := state[oid1][0].Value.Real()
	v2, _ := state[oid2][0].Value.Real()
	require.InDelta(t, 1, v1, 0.0001)
	require.InDelta(t, 2, v2, 0.0001)
}

func TestClientWriteProperty(t *testing.T) {
	device := newFakeDevice(t)
	defer device.close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		apdu, addr, err := device.recvRequest()
		require.NoError(t, err)
		require.Equal(t, byte(ServiceWriteProperty), apdu[3])

		reply := []byte{byte(PDUTypeSimpleAck), staticInvokeID, byte(ServiceWriteProperty)}
		device.send(addr, reply)
	}()

	client, err := NewClient("127.0.0.1", device.addrPort(), WithTimeout(2*time.Second))
	require.NoError(t, err)

	desc := NewPropertyDescriptor(ObjectTypeAnalogValue, 1)
	err = client.WriteProperty(context.Background(), desc, RealValue(21.5))
	require.NoError(t, err)
	<-done
}

func TestClientReadPropertyMultipleRejectsMismatchedInvokeID(t *testing.T) {
	device := newFakeDevice(t)
	defer device.close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, addr, err := device.recvRequest()
		require.NoError(t, err)
		reply := []byte{byte(PDUTypeComplexAck), staticInvokeID + 1, byte(ServiceReadPropertyMultiple)}
		device.send(addr, reply)
	}()

	client, err := NewClient("127.0.0.1", device.addrPort(), WithTimeout(2*time.Second))
	require.NoError(t, err)

	_, err = client.ReadPropertyMultiple(context.Background(), []PropertyDescriptor{
		NewPropertyDescriptor(ObjectTypeAnalogValue, 1),
	})
	require.Error(t, err)
	<-done
}

func TestClientReadPropertyMultipleSurfacesErrorPDU(t *testing.T) {
	device := newFakeDevice(t)
	defer device.close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, addr, err := device.recvRequest()
		require.NoError(t, err)

		var body []byte
		body = append(body, EncodeEnumeratedTag(uint32(ErrorClassObject))...)
		body = append(body, EncodeEnumeratedTag(uint32(ErrorCodeUnknownObject))...)
		reply := append([]byte{byte(PDUTypeError), staticInvokeID, byte(ServiceReadPropertyMultiple)}, body...)
		device.send(addr, reply)
	}()

	client, err := NewClient("127.0.0.1", device.addrPort(), WithTimeout(2*time.Second))
	require.NoError(t, err)

	_, err = client.ReadPropertyMultiple(context.Background(), []PropertyDescriptor{
		NewPropertyDescriptor(ObjectTypeAnalogValue, 1),
	})
	require.Error(t, err)
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	<-done
}
