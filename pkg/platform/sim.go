// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package platform

import (
	"errors"
	"fmt"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootlogic"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

// BootSpec scripts the signals seen by one boot. Names are those printed by
// the bootlogic and target String methods; empty fields take defaults.
type BootSpec struct {
	Name     string `yaml:"name"`
	Wake     string `yaml:"wake"`
	Reset    string `yaml:"reset"`
	Shutdown string `yaml:"shutdown"`
	//defaults to boot-os
	Battery string `yaml:"battery"`
	//defaults to true
	BatteryOK      *bool    `yaml:"battery_ok"`
	FastbootCombo  bool     `yaml:"fastboot_combo"`
	Reject         []string `yaml:"reject"`
	PartitionError string   `yaml:"partition_error"`
	Cmdline        string   `yaml:"cmdline"`
	//written to state before the boot, as the OS would
	SetOneshot string `yaml:"set_oneshot"`
	//target name, or "error"; empty to not check
	Expect string `yaml:"expect"`
}

// Sim is a Platform driven by a BootSpec. Nothing leaves the process: cold
// off and load are recorded and return nil.
type Sim struct {
	Flow  bootlogic.FlowType
	Extra string

	wake     bootlogic.WakeSource
	reset    bootlogic.ResetSource
	shutdown bootlogic.ShutdownSource
	level    bootlogic.BatteryLevel
	battOK   bool
	combo    bool
	reject   map[target.Target]bool
	partErr  error

	PoweredOff bool
	Loaded     target.Target
	Cmdline    string
	RTCAlarm   []bool
	Indicated  bool
}

var _ bootlogic.Platform = (*Sim)(nil)

func NewSim(b BootSpec, flow, extra string) (*Sim, error) {
	s := &Sim{
		Flow:   bootlogic.FlowType(flow),
		Extra:  extra,
		level:  bootlogic.BatteryBootOS,
		battOK: true,
		combo:  b.FastbootCombo,
		reject: make(map[target.Target]bool),
	}
	var err error
	if b.Wake != "" {
		if s.wake, err = bootlogic.ParseWakeSource(b.Wake); err != nil {
			return nil, err
		}
	}
	if b.Reset != "" {
		if s.reset, err = bootlogic.ParseResetSource(b.Reset); err != nil {
			return nil, err
		}
	}
	if b.Shutdown != "" {
		if s.shutdown, err = bootlogic.ParseShutdownSource(b.Shutdown); err != nil {
			return nil, err
		}
	}
	if b.Battery != "" {
		if s.level, err = bootlogic.ParseBatteryLevel(b.Battery); err != nil {
			return nil, err
		}
	}
	if b.BatteryOK != nil {
		s.battOK = *b.BatteryOK
	}
	for _, r := range b.Reject {
		t, err := target.Parse(r)
		if err != nil {
			return nil, err
		}
		s.reject[t] = true
	}
	if b.PartitionError != "" {
		s.partErr = errors.New(b.PartitionError)
	}
	return s, nil
}

func (s *Sim) CheckPartitionTable() error               { return s.partErr }
func (s *Sim) ReadFlowType() bootlogic.FlowType         { return s.Flow }
func (s *Sim) WakeSource() bootlogic.WakeSource         { return s.wake }
func (s *Sim) ResetSource() bootlogic.ResetSource       { return s.reset }
func (s *Sim) ShutdownSource() bootlogic.ShutdownSource { return s.shutdown }
func (s *Sim) ComboKey(c bootlogic.ComboKey) bool       { return c == bootlogic.ComboFastboot && s.combo }
func (s *Sim) EnergyManager() bootlogic.EnergyManager   { return s }
func (s *Sim) BatteryLevel() bootlogic.BatteryLevel     { return s.level }
func (s *Sim) BatteryOK() bool                          { return s.battOK }
func (s *Sim) DisplaySplash() error                     { return nil }
func (s *Sim) PopulateIndicators() error                { s.Indicated = true; return nil }
func (s *Sim) ExtraCmdline() string                     { return s.Extra }

func (s *Sim) BootlogicBegin() {}
func (s *Sim) BootlogicEnd()   {}

func (s *Sim) ColdOff() error                        { s.PoweredOff = true; return nil }
func (s *Sim) SetRTCAlarmCharging(enable bool) error { s.RTCAlarm = append(s.RTCAlarm, enable); return nil }

func (s *Sim) CheckTarget(t target.Target, flow bootlogic.FlowType) error {
	if s.reject[t] {
		return fmt.Errorf("%s rejected by scenario", t)
	}
	return nil
}

func (s *Sim) LoadTarget(t target.Target, cmdline string) error {
	log.Logf("sim: load %s cmdline=%q", t, cmdline)
	s.Loaded = t
	s.Cmdline = cmdline
	return nil
}
