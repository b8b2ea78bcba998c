// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

//go:build !release

package bootlogic

import (
	"fmt"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

// PlatMock is a scripted Platform which records what it was asked to do.
type PlatMock struct {
	PartitionErr  error
	Flow          FlowType
	Wake          WakeSource
	Reset         ResetSource
	Shutdown      ShutdownSource
	Combos        map[ComboKey]bool
	Level         BatteryLevel
	BattNotOK     bool
	RTCErr        error
	ColdOffErr    error
	SplashErr     error
	IndicatorsErr error
	LoadErr       error
	Reject        map[target.Target]bool
	Extra         string

	Calls    []string
	RTCAlarm []bool
	Checked  []target.Target
	Loaded   []LoadCall
}

type LoadCall struct {
	Target  target.Target
	Cmdline string
}

var _ Platform = (*PlatMock)(nil)

func (pm *PlatMock) call(name string) { pm.Calls = append(pm.Calls, name) }

func (pm *PlatMock) CheckPartitionTable() error {
	pm.call("CheckPartitionTable")
	return pm.PartitionErr
}
func (pm *PlatMock) ReadFlowType() FlowType         { pm.call("ReadFlowType"); return pm.Flow }
func (pm *PlatMock) WakeSource() WakeSource         { pm.call("WakeSource"); return pm.Wake }
func (pm *PlatMock) ResetSource() ResetSource       { pm.call("ResetSource"); return pm.Reset }
func (pm *PlatMock) ShutdownSource() ShutdownSource { pm.call("ShutdownSource"); return pm.Shutdown }
func (pm *PlatMock) ComboKey(c ComboKey) bool       { return pm.Combos[c] }
func (pm *PlatMock) EnergyManager() EnergyManager   { return pm }
func (pm *PlatMock) BatteryLevel() BatteryLevel     { return pm.Level }
func (pm *PlatMock) BatteryOK() bool                { return !pm.BattNotOK }

func (pm *PlatMock) SetRTCAlarmCharging(enable bool) error {
	pm.call("SetRTCAlarmCharging")
	pm.RTCAlarm = append(pm.RTCAlarm, enable)
	return pm.RTCErr
}

func (pm *PlatMock) ColdOff() error            { pm.call("ColdOff"); return pm.ColdOffErr }
func (pm *PlatMock) DisplaySplash() error      { pm.call("DisplaySplash"); return pm.SplashErr }
func (pm *PlatMock) PopulateIndicators() error { pm.call("PopulateIndicators"); return pm.IndicatorsErr }

func (pm *PlatMock) CheckTarget(t target.Target, _ FlowType) error {
	pm.Checked = append(pm.Checked, t)
	if pm.Reject[t] {
		return fmt.Errorf("%s rejected by mock", t)
	}
	return nil
}

func (pm *PlatMock) LoadTarget(t target.Target, cmdline string) error {
	pm.call("LoadTarget")
	pm.Loaded = append(pm.Loaded, LoadCall{Target: t, Cmdline: cmdline})
	return pm.LoadErr
}

func (pm *PlatMock) ExtraCmdline() string { return pm.Extra }
func (pm *PlatMock) BootlogicBegin()      { pm.call("BootlogicBegin") }
func (pm *PlatMock) BootlogicEnd()        { pm.call("BootlogicEnd") }
