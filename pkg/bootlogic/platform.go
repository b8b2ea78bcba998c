// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package bootlogic

import "github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"

// Platform is everything the decision logic needs from the device. Signal
// reads never fail; an unreadable source is reported as its Error value.
type Platform interface {
	CheckPartitionTable() error
	ReadFlowType() FlowType
	WakeSource() WakeSource
	ResetSource() ResetSource
	ShutdownSource() ShutdownSource
	//true if the combo is held
	ComboKey(ComboKey) bool
	EnergyManager() EnergyManager
	SetRTCAlarmCharging(enable bool) error
	//only returns on failure, or in simulation
	ColdOff() error
	DisplaySplash() error
	PopulateIndicators() error
	//nil if t can be booted in this flow
	CheckTarget(t target.Target, flow FlowType) error
	//only returns on failure, or in simulation
	LoadTarget(t target.Target, cmdline string) error
	ExtraCmdline() string
	BootlogicBegin()
	BootlogicEnd()
}

type EnergyManager interface {
	BatteryLevel() BatteryLevel
	//false if the battery can't sustain any boot at all
	BatteryOK() bool
}
