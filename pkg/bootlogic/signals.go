// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package bootlogic

import "fmt"

// WakeSource is why the device powered on from off.
type WakeSource int

const (
	WakeNotApplicable WakeSource = iota
	WakeBatteryInserted
	WakeUSBChargerInserted
	WakeACDCChargerInserted
	WakePowerButtonPressed
	WakeRTCTimer
	WakeBatteryThreshold
	//the platform could not read the source
	WakeError
)

var wakeNames = []string{
	"not-applicable", "battery-inserted", "usb-charger-inserted", "acdc-charger-inserted",
	"power-button-pressed", "rtc-timer", "battery-threshold", "error",
}

func (w WakeSource) String() string { return enumName(wakeNames, int(w), "wake") }

// ResetSource is why the device restarted while running.
type ResetSource int

const (
	ResetNotApplicable ResetSource = iota
	ResetOSInitiated
	ResetForced
	ResetFirmwareUpdate
	ResetKernelWatchdog
	ResetSecurityWatchdog
	ResetSecurityInitiated
	ResetPMCWatchdog
	ResetECWatchdog
	ResetPlatformWatchdog
	ResetError
)

var resetNames = []string{
	"not-applicable", "os-initiated", "forced", "firmware-update", "kernel-watchdog",
	"security-watchdog", "security-initiated", "pmc-watchdog", "ec-watchdog",
	"platform-watchdog", "error",
}

func (r ResetSource) String() string { return enumName(resetNames, int(r), "reset") }

// IsWatchdog reports whether the reset counts as a crash strike.
func (r ResetSource) IsWatchdog() bool {
	switch r {
	case ResetKernelWatchdog, ResetSecurityWatchdog, ResetSecurityInitiated,
		ResetPMCWatchdog, ResetECWatchdog, ResetPlatformWatchdog:
		return true
	}
	return false
}

// ShutdownSource is why the previous power-off happened.
type ShutdownSource int

const (
	ShutdownNotApplicable ShutdownSource = iota
	ShutdownPowerButtonOverride
	ShutdownBatteryRemoval
	ShutdownVCrit
	ShutdownThermTrip
	ShutdownPMICTemp
	ShutdownSysTemp
	ShutdownBatTemp
	ShutdownSysUVP
	ShutdownSysOVP
	ShutdownSecurityWatchdog
	ShutdownSecurityInitiated
	ShutdownPMCWatchdog
	ShutdownError
)

var shutdownNames = []string{
	"not-applicable", "power-button-override", "battery-removal", "vcrit", "thermtrip",
	"pmic-temp", "sys-temp", "bat-temp", "sys-uvp", "sys-ovp", "security-watchdog",
	"security-initiated", "pmc-watchdog", "error",
}

func (s ShutdownSource) String() string { return enumName(shutdownNames, int(s), "shutdown") }

type BatteryLevel int

const (
	//level could not be determined
	BatteryError BatteryLevel = iota
	//enough charge for the full OS
	BatteryBootOS
	//enough for the charging OS only
	BatteryBootCharging
	BatteryLow
)

var batteryNames = []string{"error", "boot-os", "boot-charging", "low"}

func (b BatteryLevel) String() string { return enumName(batteryNames, int(b), "battery") }

// ComboKey identifies a key combination held at power-on.
type ComboKey int

const (
	ComboFastboot ComboKey = iota
)

func (c ComboKey) String() string { return enumName([]string{"fastboot"}, int(c), "combo") }

// FlowType is opaque to the decision logic; it is passed through to target
// checks.
type FlowType string

// ParseWakeSource, ParseResetSource etc map String() output back. Used by
// the simulation platform and the cli.
func ParseWakeSource(s string) (WakeSource, error) {
	i, err := parseEnum(wakeNames, s, "wake source")
	return WakeSource(i), err
}

func ParseResetSource(s string) (ResetSource, error) {
	i, err := parseEnum(resetNames, s, "reset source")
	return ResetSource(i), err
}

func ParseShutdownSource(s string) (ShutdownSource, error) {
	i, err := parseEnum(shutdownNames, s, "shutdown source")
	return ShutdownSource(i), err
}

func ParseBatteryLevel(s string) (BatteryLevel, error) {
	i, err := parseEnum(batteryNames, s, "battery level")
	return BatteryLevel(i), err
}

func enumName(names []string, i int, kind string) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("%s(%d)", kind, i)
}

func parseEnum(names []string, s, kind string) (int, error) {
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}
