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

// PropertyDescriptor names one object and the properties a caller wants to
// read from it, plus (for writes) the priority slot to write at. The
// catalog of descriptors for a particular device is supplied by the
// caller; this package only consumes it.
type PropertyDescriptor struct {
	ObjectType     ObjectType
	InstanceID     uint32
	ReadProperties []PropertyIdentifier
	Priority       *uint8
}

// NewPropertyDescriptor builds a descriptor that reads PresentValue unless
// other properties are given explicitly.
func NewPropertyDescriptor(objectType ObjectType, instance uint32, props ...PropertyIdentifier) PropertyDescriptor {
	if len(props) == 0 {
		props = []PropertyIdentifier{PropertyPresentValue}
	}
	return PropertyDescriptor{ObjectType: objectType, InstanceID: instance, ReadProperties: props}
}

// WithPriority returns a copy of the descriptor that writes at the given
// BACnet priority (1-16, 1 highest). Out-of-range priorities are silently
// ignored, mirroring the teacher's WithPriority functional option.
func (p PropertyDescriptor) WithPriority(priority uint8) PropertyDescriptor {
	if priority >= 1 && priority <= 16 {
		p.Priority = &priority
	}
	return p
}

// ObjectID returns the wire object identifier this descriptor refers to.
func (p PropertyDescriptor) ObjectID() ObjectIdentifier {
	return ObjectIdentifier{Type: p.ObjectType, Instance: p.InstanceID}
}
