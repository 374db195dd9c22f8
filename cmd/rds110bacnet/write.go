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
	writeObject   string
	writeProperty string
	writeValue    string
	writePriority int
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write a property to an object on the thermostat",
	Long: `Write sends one WriteProperty request.

Value types are detected from the given string:
  - Numbers:  21.5, -10, 3
  - Booleans: true, false, active, inactive
  - Strings:  anything else, taken as a character string

Examples:
  rds110bacnet write -H 10.0.0.20 -d 1234 -o analog-value:1 -p present-value -V 21.5
  rds110bacnet write -H 10.0.0.20 -d 1234 -o binary-output:1 -p present-value -V 1 --priority 8`,

	RunE: runWrite,
}

func init() {
	writeCmd.Flags().StringVarP(&writeObject, "object", "o", "", "object type and instance (e.g., analog-value:1)")
	writeCmd.Flags().StringVarP(&writeProperty, "property", "p", "present-value", "property identifier")
	writeCmd.Flags().StringVarP(&writeValue, "value", "V", "", "value to write")
	writeCmd.Flags().IntVar(&writePriority, "priority", 0, "write priority (1-16, 0 for no priority)")

	writeCmd.MarkFlagRequired("object")
	writeCmd.MarkFlagRequired("value")
}

func runWrite(cmd *cobra.Command, args []string) error {
	if host == "" {
		return fmt.Errorf("host is required (-H or --host)")
	}

	oid, err := parseObjectIdentifier(writeObject)
	if err != nil {
		return fmt.Errorf("invalid object: %w", err)
	}
	propID, err := parsePropertyIdentifier(writeProperty)
	if err != nil {
		return fmt.Errorf("invalid property: %w", err)
	}
	value, err := parseValue(writeValue)
	if err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}

	client, err := newClient()
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	desc := bacnet.NewPropertyDescriptor(oid.Type, oid.Instance, propID)
	if writePriority > 0 && writePriority <= 16 {
		desc = desc.WithPriority(uint8(writePriority))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout*4)
	defer cancel()

	if err := client.WriteProperty(ctx, desc, value); err != nil {
		return fmt.Errorf("write property: %w", err)
	}

	fmt.Printf("Wrote %s to %s.%s\n", value.GoString(), oid, bacnet.PropertyPresentValue)
	return nil
}

// parseValue infers a wire type from a plain CLI string: true/false-ish
// tokens become Boolean, numbers with a decimal point become Real, other
// numbers become UnsignedInt (or SignedInt if negative), everything else is
// a CharacterString.
func parseValue(s string) (bacnet.Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return bacnet.Value{}, fmt.Errorf("value must not be empty")
	}

	switch strings.ToLower(s) {
	case "true", "active", "on":
		return bacnet.BooleanValue(true), nil
	case "false", "inactive", "off":
		return bacnet.BooleanValue(false), nil
	}

	if (strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`)) ||
		(strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'")) {
		return bacnet.CharStringValue(s[1 : len(s)-1]), nil
	}

	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 32); err == nil {
			return bacnet.RealValue(float32(f)), nil
		}
	}

	if i, err := strconv.ParseInt(s, 10, 32); err == nil {
		if i < 0 {
			return bacnet.SignedIntValue(int32(i)), nil
		}
		return bacnet.UnsignedIntValue(uint32(i)), nil
	}

	return bacnet.CharStringValue(s), nil
}
