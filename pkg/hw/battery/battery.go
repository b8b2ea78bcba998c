// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package battery implements energy management policies: one reading the
// kernel's power_supply class, and a fake one for boards without a gauge.
package battery

import (
	"fmt"
	"os"
	fp "path/filepath"
	"strconv"
	"strings"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootlogic"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
)

const (
	PolicySysfs = "sysfs"
	PolicyFake  = "fake"
)

// Thresholds are battery capacities in percent.
type Thresholds struct {
	//at or above: full OS
	BootOS int `yaml:"boot_os"`
	//at or above: charging OS
	BootCharging int `yaml:"boot_charging"`
	//below, with no charger online: not even the charging OS can run
	Critical int `yaml:"critical"`
}

var DefaultThresholds = Thresholds{BootOS: 10, BootCharging: 3, Critical: 1}

// Sysfs reads /sys/class/power_supply.
type Sysfs struct {
	Dir string
	Thresholds
}

var _ bootlogic.EnergyManager = (*Sysfs)(nil)

func NewSysfs(dir string, th Thresholds) *Sysfs {
	if dir == "" {
		dir = "/sys/class/power_supply"
	}
	return &Sysfs{Dir: dir, Thresholds: th}
}

type supply struct {
	name     string
	kind     string
	online   bool
	present  bool
	capacity int
	capErr   error
}

func readAttr(dir, name string) (string, error) {
	b, err := os.ReadFile(fp.Join(dir, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *Sysfs) supplies() ([]supply, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, err
	}
	var out []supply
	for _, e := range entries {
		dir := fp.Join(s.Dir, e.Name())
		kind, err := readAttr(dir, "type")
		if err != nil {
			log.Debugf("power supply %s: %s", e.Name(), err)
			continue
		}
		sp := supply{name: e.Name(), kind: kind, present: true}
		if v, err := readAttr(dir, "online"); err == nil {
			sp.online = v == "1"
		}
		if v, err := readAttr(dir, "present"); err == nil {
			sp.present = v == "1"
		}
		if kind == "Battery" {
			v, err := readAttr(dir, "capacity")
			if err == nil {
				sp.capacity, err = strconv.Atoi(v)
			}
			sp.capErr = err
		}
		out = append(out, sp)
	}
	return out, nil
}

// first present battery, and whether any charger is online
func (s *Sysfs) state() (bat *supply, charger bool, err error) {
	sups, err := s.supplies()
	if err != nil {
		return nil, false, err
	}
	for i := range sups {
		sp := &sups[i]
		switch sp.kind {
		case "Battery":
			if bat == nil && sp.present {
				bat = sp
			}
		case "Mains", "USB", "USB_DCP", "USB_CDP", "USB_ACA", "USB_C", "USB_PD":
			charger = charger || sp.online
		}
	}
	return bat, charger, nil
}

func (s *Sysfs) BatteryLevel() bootlogic.BatteryLevel {
	bat, _, err := s.state()
	if err != nil {
		log.Errorf("reading power supplies: %s", err)
		return bootlogic.BatteryError
	}
	if bat == nil {
		//mains powered, nothing to protect
		return bootlogic.BatteryBootOS
	}
	if bat.capErr != nil {
		log.Errorf("battery %s capacity: %s", bat.name, bat.capErr)
		return bootlogic.BatteryError
	}
	return s.level(bat.capacity)
}

func (s *Sysfs) level(capacity int) bootlogic.BatteryLevel {
	switch {
	case capacity >= s.BootOS:
		return bootlogic.BatteryBootOS
	case capacity >= s.BootCharging:
		return bootlogic.BatteryBootCharging
	}
	return bootlogic.BatteryLow
}

func (s *Sysfs) BatteryOK() bool {
	bat, charger, err := s.state()
	if err != nil || bat == nil || bat.capErr != nil {
		//can't tell; don't refuse to boot
		return true
	}
	if bat.capacity < s.Critical && !charger {
		log.Logf("battery %s at %d%%, no charger", bat.name, bat.capacity)
		return false
	}
	return true
}

// Fake reports a fixed level and always OK.
type Fake struct {
	Level bootlogic.BatteryLevel
}

var _ bootlogic.EnergyManager = Fake{}

func (f Fake) BatteryLevel() bootlogic.BatteryLevel { return f.Level }
func (Fake) BatteryOK() bool                        { return true }

// New returns the named policy.
func New(policy, dir string, th Thresholds) (bootlogic.EnergyManager, error) {
	switch policy {
	case PolicySysfs, "":
		return NewSysfs(dir, th), nil
	case PolicyFake:
		return Fake{Level: bootlogic.BatteryBootOS}, nil
	}
	return nil, fmt.Errorf("unknown energy management policy %q", policy)
}
