// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package target enumerates the images and modes the loader can choose
// between. Names are stable: they are persisted in efi vars and state files.
package target

import (
	"fmt"
)

type Target int

const (
	//no rule matched. Never loaded; the orchestrator coerces it to Boot.
	Unknown Target = iota
	//normal OS
	Boot
	Recovery
	//flashing mode
	Fastboot
	//diagnostic image
	Test
	//power off instead of booting
	ColdOff
	//charging-only OS
	Charging
	//deep recovery, reached only after repeated failures
	DNX
)

var names = map[Target]string{
	Unknown:  "unknown",
	Boot:     "boot",
	Recovery: "recovery",
	Fastboot: "fastboot",
	Test:     "test",
	ColdOff:  "cold-off",
	Charging: "charging",
	DNX:      "dnx",
}

// All lists every target, Unknown first.
func All() []Target {
	return []Target{Unknown, Boot, Recovery, Fastboot, Test, ColdOff, Charging, DNX}
}

func (t Target) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("target(%d)", int(t))
}

// Parse maps a name from String() back to a Target.
func Parse(name string) (Target, error) {
	for t, n := range names {
		if n == name {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("unknown target name %q", name)
}

// Loadable reports whether t names an image (as opposed to Unknown or ColdOff).
func (t Target) Loadable() bool {
	_, known := names[t]
	return known && t != Unknown && t != ColdOff
}

func (t Target) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Target) UnmarshalText(b []byte) error {
	p, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = p
	return nil
}
