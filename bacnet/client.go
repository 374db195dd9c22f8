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
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/edgeo-scada/rds110bacnet/bacnet/internal/transport"
)

// Client talks to exactly one directly-addressed BACnet/IP device. Every
// ReadPropertyMultiple or WriteProperty call opens its own UDP socket, uses
// it for the lifetime of that one
// confirmed-service exchange, and closes it before returning — there is no
// shared connection state across requests, and no more than one request may
// be outstanding at a time (see staticInvokeID).
type Client struct {
	addr    *net.UDPAddr
	opts    *clientOptions
	metrics *Metrics
	logger  *slog.Logger
	tracer  Tracer
}

// NewClient builds a Client that talks to host:port (defaulting to
// DefaultPort when port is zero).
func NewClient(host string, port int, opts ...Option) (*Client, error) {
	if port == 0 {
		port = DefaultPort
	}
	addr, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("resolve device address: %w", err)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	metrics := options.metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	tracer := options.tracer
	if tracer == nil {
		tracer = NoopTracer{}
	}

	return &Client{
		addr:    addr,
		opts:    options,
		metrics: metrics,
		logger:  options.logger,
		tracer:  tracer,
	}, nil
}

// ReadPropertyMultiple reads the properties named by descriptors from the
// device, reassembling a segmented reply if the device sends one.
func (c *Client) ReadPropertyMultiple(ctx context.Context, descriptors []PropertyDescriptor) (DeviceState, error) {
	start := time.Now()
	req := EncodeReadPropertyMultipleRequest(staticInvokeID, descriptors)

	payload, err := c.doSegmented(ctx, ServiceReadPropertyMultiple, req)
	var state DeviceState
	if err == nil {
		state, err = DecodeReadPropertyMultipleAck(payload)
	}
	c.metrics.observeOutcome("ReadPropertyMultiple", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return state, nil
}

// WriteProperty writes value to desc's PresentValue property, at desc's
// priority if one is set.
func (c *Client) WriteProperty(ctx context.Context, desc PropertyDescriptor, value Value) error {
	start := time.Now()
	req, err := EncodeWritePropertyRequest(staticInvokeID, desc, value)
	if err != nil {
		return err
	}

	err = c.doSimple(ctx, ServiceWriteProperty, req)
	c.metrics.observeOutcome("WriteProperty", time.Since(start), err)
	return err
}

// doSimple sends a confirmed request and expects a Simple-Ack back: no
// payload, just invoke ID and service choice confirmation.
func (c *Client) doSimple(ctx context.Context, service ConfirmedServiceChoice, requestAPDU []byte) error {
	conn, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	c.metrics.requestsSent.WithLabelValues(service.String()).Inc()
	if err := c.send(ctx, conn, requestAPDU); err != nil {
		return err
	}

	apdu, err := c.receive(ctx, conn)
	if err != nil {
		return err
	}

	switch PDUTypeOf(apdu) {
	case PDUTypeSimpleAck:
		return ParseSimpleAck(apdu, staticInvokeID, service)
	case PDUTypeError, PDUTypeReject, PDUTypeAbort:
		return decodeFailureAPDU(apdu)
	default:
		return &DecodingError{Reason: fmt.Sprintf("expected Simple-Ack, got PDU type 0x%02x", apdu[0]&0xF0), Data: apdu}
	}
}

// doSegmented sends a confirmed request and returns the concatenated
// service payload of the Complex-Ack, transparently reassembling a
// segmented reply per the client's state machine: first reply inspected to
// decide Single vs Segmenting, then segments pulled and acknowledged one at
// a time until the final segment arrives.
func (c *Client) doSegmented(ctx context.Context, service ConfirmedServiceChoice, requestAPDU []byte) ([]byte, error) {
	conn, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	c.metrics.requestsSent.WithLabelValues(service.String()).Inc()
	if err := c.send(ctx, conn, requestAPDU); err != nil {
		return nil, err
	}

	apdu, err := c.receive(ctx, conn)
	if err != nil {
		return nil, err
	}

	switch PDUTypeOf(apdu) {
	case PDUTypeComplexAck:
		// fall through below
	case PDUTypeError, PDUTypeReject, PDUTypeAbort:
		return nil, decodeFailureAPDU(apdu)
	default:
		return nil, &DecodingError{Reason: fmt.Sprintf("expected Complex-Ack, got PDU type 0x%02x", apdu[0]&0xF0), Data: apdu}
	}

	header, segmented, err := parseComplexAckFirstSegment(apdu)
	if err != nil {
		return nil, err
	}
	if header.InvokeID != staticInvokeID {
		return nil, &DecodingError{Reason: fmt.Sprintf("Complex-Ack invoke ID %d does not match request %d", header.InvokeID, staticInvokeID), Data: apdu}
	}
	if header.ServiceChoice != uint8(service) {
		return nil, &DecodingError{Reason: fmt.Sprintf("Complex-Ack service choice %d does not match request %d", header.ServiceChoice, service), Data: apdu}
	}

	if !segmented {
		return header.Payload, nil
	}

	payload := append([]byte(nil), header.Payload...)
	seq := header.SequenceNumber
	moreFollows := header.MoreFollows
	c.metrics.observeSegment()

	if err := c.ack(ctx, conn, header.InvokeID, seq, header.WindowSize); err != nil {
		return nil, err
	}

	for moreFollows {
		segAPDU, err := c.receive(ctx, conn)
		if err != nil {
			return nil, err
		}
		if PDUTypeOf(segAPDU) != PDUTypeComplexAck {
			return nil, decodeFailureAPDU(segAPDU)
		}

		seg, err := parseComplexAckSubsequentSegment(segAPDU)
		if err != nil {
			return nil, err
		}
		if seg.InvokeID != staticInvokeID {
			return nil, &DecodingError{Reason: fmt.Sprintf("segment invoke ID %d does not match request %d", seg.InvokeID, staticInvokeID), Data: segAPDU}
		}

		payload = append(payload, seg.Payload...)
		seq = seg.SequenceNumber
		moreFollows = seg.MoreFollows
		c.metrics.observeSegment()

		if err := c.ack(ctx, conn, seg.InvokeID, seq, header.WindowSize); err != nil {
			return nil, err
		}
	}

	return payload, nil
}

func (c *Client) ack(ctx context.Context, conn *transport.UDPTransport, invokeID, seq, window uint8) error {
	ack := EncodeSegmentAck(invokeID, seq, window)
	return c.send(ctx, conn, ack)
}

func (c *Client) open(ctx context.Context) (*transport.UDPTransport, error) {
	conn := transport.NewUDPTransport("")
	conn.SetReadTimeout(c.opts.timeout)
	conn.SetWriteTimeout(c.opts.timeout)
	if err := conn.Open(ctx); err != nil {
		return nil, &ConnectionError{Reason: "open request socket", Err: err}
	}
	return conn, nil
}

func (c *Client) send(ctx context.Context, conn *transport.UDPTransport, apdu []byte) error {
	datagram := WrapAPDU(apdu, true)
	c.tracer.TraceSent(datagram)
	if err := conn.Send(ctx, c.addr, datagram); err != nil {
		return &ConnectionError{Reason: "send datagram", Err: err}
	}
	c.metrics.bytesSent.Add(float64(len(datagram)))
	return nil
}

func (c *Client) receive(ctx context.Context, conn *transport.UDPTransport) ([]byte, error) {
	datagram, _, err := conn.Receive(ctx)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, &ConnectionError{Reason: "receive timeout", Err: ErrTimeout}
		}
		return nil, &ConnectionError{Reason: "receive datagram", Err: err}
	}
	c.tracer.TraceReceived(datagram)
	c.metrics.observeReceived(len(datagram))

	apdu, err := UnwrapAPDU(datagram)
	if err != nil {
		return nil, err
	}
	return apdu, nil
}

// decodeFailureAPDU turns an Error/Reject/Abort APDU into a ConnectionError
// carrying a readable reason.
func decodeFailureAPDU(apdu []byte) error {
	switch PDUTypeOf(apdu) {
	case PDUTypeError:
		if len(apdu) < 3 {
			return &DecodingError{Reason: "Error APDU truncated", Data: apdu}
		}
		d := NewDecoder(apdu[3:])
		classVal, err1 := d.ReadApplicationValue()
		codeVal, err2 := d.ReadApplicationValue()
		if err1 != nil || err2 != nil {
			return &ConnectionError{Reason: "device returned an Error-PDU with an undecodable body"}
		}
		class, _ := classVal.Unsigned()
		code, _ := codeVal.Unsigned()
		return &ConnectionError{Reason: fmt.Sprintf("device returned Error-PDU: class=%s code=%s", ErrorClass(class), ErrorCode(code))}

	case PDUTypeReject:
		if len(apdu) < 3 {
			return &DecodingError{Reason: "Reject APDU truncated", Data: apdu}
		}
		return &ConnectionError{Reason: fmt.Sprintf("device rejected request: %s", RejectReason(apdu[2]))}

	case PDUTypeAbort:
		if len(apdu) < 3 {
			return &DecodingError{Reason: "Abort APDU truncated", Data: apdu}
		}
		return &ConnectionError{Reason: fmt.Sprintf("device aborted request: %s", AbortReason(apdu[2]))}

	default:
		return &DecodingError{Reason: fmt.Sprintf("unexpected PDU type 0x%02x", apdu[0]&0xF0), Data: apdu}
	}
}
