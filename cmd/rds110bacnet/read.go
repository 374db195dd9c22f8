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

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edgeo-scada/rds110bacnet/bacnet"
)

var (
	readObject   string
	readProperty string
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read a property from an object on the thermostat",
	Long: `Read issues one ReadPropertyMultiple request for a single property.

Object types and properties can be given by name or number, e.g.:
  rds110bacnet read -H 10.0.0.20 -d 1234 -o analog-value:1 -p present-value
  rds110bacnet read -H 10.0.0.20 -d 1234 -o av:1 -p pv`,

	RunE: runRead,
}

func init() {
	readCmd.Flags().StringVarP(&readObject, "object", "o", "", "object type and instance (e.g., analog-value:1)")
	readCmd.Flags().StringVarP(&readProperty, "property", "p", "present-value", "property identifier")
	readCmd.MarkFlagRequired("object")
}

func runRead(cmd *cobra.Command, args []string) error {
	if host == "" {
		return fmt.Errorf("host is required (-H or --host)")
	}

	oid, err := parseObjectIdentifier(readObject)
	if err != nil {
		return fmt.Errorf("invalid object: %w", err)
	}
	propID, err := parsePropertyIdentifier(readProperty)
	if err != nil {
		return fmt.Errorf("invalid property: %w", err)
	}

	client, err := newClient()
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout*4)
	defer cancel()

	desc := bacnet.NewPropertyDescriptor(oid.Type, oid.Instance, propID)
	state, err := client.ReadPropertyMultiple(ctx, []bacnet.PropertyDescriptor{desc})
	if err != nil {
		return fmt.Errorf("read property: %w", err)
	}

	results, ok := state[oid]
	if !ok || len(results) == 0 {
		return fmt.Errorf("device returned no result for %s", oid)
	}

	fmt.Printf("Object:   %s\n", oid)
	fmt.Printf("Property: %s\n", propID)
	fmt.Printf("Value:    %s\n", formatValue(propID, results[0].Value))
	return nil
}

// formatValue renders a Units property as its engineering-unit symbol
// instead of the bare enumerated number.
func formatValue(propID bacnet.PropertyIdentifier, value bacnet.Value) string {
	if propID == bacnet.PropertyUnits {
		if raw, ok := value.Unsigned(); ok {
			return bacnet.EngineeringUnits(raw).String()
		}
	}
	return value.GoString()
}

func parseObjectIdentifier(s string) (bacnet.ObjectIdentifier, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return bacnet.ObjectIdentifier{}, fmt.Errorf("expected format type:instance (e.g., analog-value:1)")
	}

	instance, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return bacnet.ObjectIdentifier{}, fmt.Errorf("invalid instance number: %s", parts[1])
	}

	if typeNum, err := strconv.ParseUint(parts[0], 10, 16); err == nil {
		return bacnet.NewObjectIdentifier(bacnet.ObjectType(typeNum), uint32(instance)), nil
	}

	objType, ok := bacnet.ParseObjectType(strings.ToLower(parts[0]))
	if !ok {
		return bacnet.ObjectIdentifier{}, fmt.Errorf("unknown object type: %s", parts[0])
	}
	return bacnet.NewObjectIdentifier(objType, uint32(instance)), nil
}

func parsePropertyIdentifier(s string) (bacnet.PropertyIdentifier, error) {
	if propNum, err := strconv.ParseUint(s, 10, 32); err == nil {
		return bacnet.PropertyIdentifier(propNum), nil
	}
	prop, ok := bacnet.ParsePropertyIdentifier(strings.ToLower(s))
	if !ok {
		return 0, fmt.Errorf("unknown property: %s", s)
	}
	return prop, nil
}
