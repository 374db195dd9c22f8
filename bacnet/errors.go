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
	"encoding/hex"
	"errors"
	"fmt"
)

// Sentinel errors usable with errors.Is.
var (
	ErrTimeout          = errors.New("bacnet: request timeout")
	ErrConnectionClosed = errors.New("bacnet: connection closed")
	ErrInvalidAPDU      = errors.New("bacnet: invalid APDU")
	ErrInvalidNPDU      = errors.New("bacnet: invalid NPDU")
	ErrInvalidBVLC      = errors.New("bacnet: invalid BVLC header")
	ErrNotUpdated       = errors.New("bacnet: device state has never been updated")
)

// DecodingError reports malformed wire data: a bad BVLC/NPDU/APDU header, an
// unexpected tag, a truncated buffer, or a primitive whose length or
// encoding violates this client's (deliberately narrow) expectations. Data,
// when non-nil, is the payload being decoded at the point of failure, for
// hex-dump diagnostics.
type DecodingError struct {
	Reason string
	Data   []byte
	Err    error
}

func (e *DecodingError) Error() string {
	if e.Data == nil {
		return fmt.Sprintf("bacnet: decoding error: %s", e.Reason)
	}
	return fmt.Sprintf("bacnet: decoding error: %s (data: %s)", e.Reason, hex.EncodeToString(e.Data))
}

func (e *DecodingError) Unwrap() error { return e.Err }

func (e *DecodingError) Is(target error) bool {
	_, ok := target.(*DecodingError)
	return ok
}

// ConnectionError reports a UDP transport failure: send/receive timeout,
// an unreachable host, a premature close, or a protocol-level Error/Reject/
// Abort response in place of the expected acknowledgment.
type ConnectionError struct {
	Reason string
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bacnet: connection error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("bacnet: connection error: %s", e.Reason)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool {
	_, ok := target.(*ConnectionError)
	return ok
}

// UsageError reports a misuse of the client's API surface rather than a
// protocol failure: calling GetValue before Update has ever succeeded, or
// writing a value whose kind is incompatible with the target object's
// natural type.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string { return fmt.Sprintf("bacnet: usage error: %s", e.Reason) }

func (e *UsageError) Is(target error) bool {
	_, ok := target.(*UsageError)
	return ok
}

// isTimeoutErr reports whether err represents a request timeout, for
// metrics labeling purposes.
func isTimeoutErr(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// ErrorClass mirrors the BACnet standard error-class enumeration, used when
// formatting an Error-PDU or a property access-error into a readable
// message.
type ErrorClass uint8

const (
	ErrorClassDevice        ErrorClass = 0
	ErrorClassObject        ErrorClass = 1
	ErrorClassProperty      ErrorClass = 2
	ErrorClassResources     ErrorClass = 3
	ErrorClassSecurity      ErrorClass = 4
	ErrorClassServices      ErrorClass = 5
	ErrorClassVT            ErrorClass = 6
	ErrorClassCommunication ErrorClass = 7
)

func (e ErrorClass) String() string {
	names := map[ErrorClass]string{
		ErrorClassDevice:        "device",
		ErrorClassObject:        "object",
		ErrorClassProperty:      "property",
		ErrorClassResources:     "resources",
		ErrorClassSecurity:      "security",
		ErrorClassServices:      "services",
		ErrorClassVT:            "vt",
		ErrorClassCommunication: "communication",
	}
	if name, ok := names[e]; ok {
		return name
	}
	return fmt.Sprintf("error-class(%d)", e)
}

// ErrorCode mirrors (a useful subset of) the BACnet standard error-code
// enumeration.
type ErrorCode uint8

const (
	ErrorCodeOther                ErrorCode = 0
	ErrorCodeUnknownObject        ErrorCode = 31
	ErrorCodeUnknownProperty      ErrorCode = 32
	ErrorCodeReadAccessDenied     ErrorCode = 27
	ErrorCodeWriteAccessDenied    ErrorCode = 40
	ErrorCodeInvalidDataType      ErrorCode = 9
	ErrorCodeValueOutOfRange      ErrorCode = 37
	ErrorCodeInconsistentParameters ErrorCode = 7
)

func (e ErrorCode) String() string {
	names := map[ErrorCode]string{
		ErrorCodeOther:                  "other",
		ErrorCodeUnknownObject:          "unknown-object",
		ErrorCodeUnknownProperty:        "unknown-property",
		ErrorCodeReadAccessDenied:       "read-access-denied",
		ErrorCodeWriteAccessDenied:      "write-access-denied",
		ErrorCodeInvalidDataType:        "invalid-data-type",
		ErrorCodeValueOutOfRange:        "value-out-of-range",
		ErrorCodeInconsistentParameters: "inconsistent-parameters",
	}
	if name, ok := names[e]; ok {
		return name
	}
	return fmt.Sprintf("error-code(%d)", e)
}

// RejectReason mirrors the BACnet standard reject-reason enumeration.
type RejectReason uint8

func (r RejectReason) String() string { return fmt.Sprintf("reject-reason(%d)", uint8(r)) }

// AbortReason mirrors the BACnet standard abort-reason enumeration.
type AbortReason uint8

func (a AbortReason) String() string { return fmt.Sprintf("abort-reason(%d)", uint8(a)) }
