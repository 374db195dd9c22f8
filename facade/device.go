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

// Package facade exposes one BACnet device as a cache of property values,
// refreshed wholesale with Update and read without touching the network in
// GetValue.
package facade

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/edgeo-scada/rds110bacnet/bacnet"
)

// chunkSize is how many descriptors go into one ReadPropertyMultiple
// request. BACnet devices cap how many object/property references they'll
// accept in a single request APDU before it needs to segment on the way
// out too; staying well under that keeps the request itself unsegmented.
const chunkSize = 20

// Device is one BACnet/IP thermostat addressed over UDP. Its state is
// refreshed wholesale by Update and read without any network I/O by
// GetValue; SetValue writes a property and then refreshes state so the
// cache reflects what the device actually accepted.
type Device struct {
	client      *bacnet.Client
	deviceID    uint32
	descriptors []bacnet.PropertyDescriptor

	writeMu sync.Mutex // serializes confirmed requests: the client has one static invoke ID
	state   atomic.Pointer[bacnet.DeviceState]
}

// NewDevice builds a facade around client for the given device instance ID,
// tracking the given descriptors on every Update.
func NewDevice(client *bacnet.Client, deviceID uint32, descriptors []bacnet.PropertyDescriptor) *Device {
	return &Device{
		client:      client,
		deviceID:    deviceID,
		descriptors: descriptors,
	}
}

// deviceObjectDescriptor reads the device object's own ObjectName and
// Description, appended to every Update alongside the tracked descriptors.
func (d *Device) deviceObjectDescriptor() bacnet.PropertyDescriptor {
	return bacnet.NewPropertyDescriptor(bacnet.ObjectTypeDevice, d.deviceID,
		bacnet.PropertyObjectName, bacnet.PropertyDescription)
}

// Update refreshes the device's cached state. Descriptors are chunked into
// requests of chunkSize to keep each ReadPropertyMultiple request itself
// unsegmented, with the device object's name/description appended as a
// final chunk. On success the whole cache is swapped atomically, so
// concurrent GetValue calls never observe a partial merge of old and new
// state.
func (d *Device) Update(ctx context.Context) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	return d.update(ctx)
}

// update does the work of Update; the caller holds writeMu.
func (d *Device) update(ctx context.Context) error {
	all := append(append([]bacnet.PropertyDescriptor(nil), d.descriptors...), d.deviceObjectDescriptor())

	merged := bacnet.DeviceState{}
	for start := 0; start < len(all); start += chunkSize {
		end := start + chunkSize
		if end > len(all) {
			end = len(all)
		}
		chunk, err := d.client.ReadPropertyMultiple(ctx, all[start:end])
		if err != nil {
			return err
		}
		for oid, results := range chunk {
			merged[oid] = results
		}
	}

	d.state.Store(&merged)
	return nil
}

// GetValue looks up a property's cached value. It never touches the
// network; call Update first. Returns a UsageError if Update has never
// succeeded, or if the (object, property) pair was never part of a tracked
// descriptor.
func (d *Device) GetValue(desc bacnet.PropertyDescriptor, propertyID bacnet.PropertyIdentifier) (bacnet.Value, error) {
	state := d.state.Load()
	if state == nil {
		return bacnet.Value{}, &bacnet.UsageError{Reason: "device state has never been updated"}
	}

	results, ok := (*state)[desc.ObjectID()]
	if !ok {
		return bacnet.Value{}, &bacnet.UsageError{Reason: "object was not part of the last update"}
	}
	for _, r := range results {
		if r.PropertyID == propertyID {
			return r.Value, nil
		}
	}
	return bacnet.Value{}, &bacnet.UsageError{Reason: "property was not part of the last update"}
}

// SetValue writes value to desc's PresentValue property and refreshes the
// cache so subsequent GetValue calls see what the device actually
// accepted. Confirmed requests are serialized with a mutex: the client
// always uses the same invoke ID, so two writes in flight at once would be
// indistinguishable to the device.
func (d *Device) SetValue(ctx context.Context, desc bacnet.PropertyDescriptor, value bacnet.Value) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	if err := d.client.WriteProperty(ctx, desc, value); err != nil {
		return err
	}
	return d.update(ctx)
}
