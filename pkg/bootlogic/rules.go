// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package bootlogic

import (
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

// WatchdogLimit is the number of consecutive watchdog resets after which
// the resumed target is replaced by its fallback.
const WatchdogLimit = 3

// a rule returns Unknown when it doesn't apply
type rule[S any] struct {
	name string
	fn   func(r *Resolver, src S) target.Target
}

var wakeRules = []rule[WakeSource]{
	{"fastboot-combo", (*Resolver).fastbootCombo},
	{"power-key", (*Resolver).powerKey},
	{"rtc-alarm", (*Resolver).rtcAlarm},
	{"battery-insertion", (*Resolver).batteryInsertion},
	{"charger-insertion", (*Resolver).chargerInsertion},
}

var resetRules = []rule[ResetSource]{
	{"firmware-update", (*Resolver).firmwareUpdate},
	{"resume", (*Resolver).resume},
	{"watchdog", (*Resolver).watchdog},
}

// WakeRuleOrder returns the names of the wake rules in evaluation order.
func WakeRuleOrder() []string { return ruleNames(wakeRules) }

// ResetRuleOrder returns the names of the reset rules in evaluation order.
func ResetRuleOrder() []string { return ruleNames(resetRules) }

func ruleNames[S any](rules []rule[S]) []string {
	names := make([]string, len(rules))
	for i, ru := range rules {
		names[i] = ru.name
	}
	return names
}

// first rule to return something other than Unknown wins
func firstMatch[S any](r *Resolver, rules []rule[S], src S) (target.Target, string) {
	for _, ru := range rules {
		if t := ru.fn(r, src); t != target.Unknown {
			log.Debugf("rule %s: %s -> %s", ru.name, any(src), t)
			return t, ru.name
		}
	}
	return target.Unknown, ""
}

func (r *Resolver) fastbootCombo(WakeSource) target.Target {
	if !r.plat.ComboKey(ComboFastboot) {
		return target.Unknown
	}
	if r.em.BatteryLevel() == BatteryLow {
		log.Msgf("Battery too low for fastboot")
		return target.ColdOff
	}
	return target.Fastboot
}

func (r *Resolver) powerKey(ws WakeSource) target.Target {
	if ws != WakePowerButtonPressed {
		return target.Unknown
	}
	switch r.em.BatteryLevel() {
	case BatteryBootCharging:
		return target.Charging
	case BatteryLow:
		return target.ColdOff
	default:
		//BootOS, and Error: an unreadable gauge should not strand the user
		return target.Boot
	}
}

func (r *Resolver) rtcAlarm(ws WakeSource) target.Target {
	if ws == WakeRTCTimer {
		log.Debugf("rtc alarm wake: not implemented")
	}
	return target.Unknown
}

func (r *Resolver) batteryInsertion(ws WakeSource) target.Target {
	if ws == WakeBatteryInserted {
		log.Debugf("battery insertion wake: not implemented")
	}
	return target.Unknown
}

func (r *Resolver) chargerInsertion(ws WakeSource) target.Target {
	if ws == WakeUSBChargerInserted || ws == WakeACDCChargerInserted {
		return target.Charging
	}
	return target.Unknown
}

func (r *Resolver) firmwareUpdate(rs ResetSource) target.Target {
	if rs == ResetFirmwareUpdate {
		return target.Boot
	}
	return target.Unknown
}

func (r *Resolver) resume(rs ResetSource) target.Target {
	if rs == ResetOSInitiated || rs == ResetForced {
		return r.state.TargetMode()
	}
	return target.Unknown
}

// three strikes and the resumed target is swapped for its fallback
func (r *Resolver) watchdog(rs ResetSource) target.Target {
	if !rs.IsWatchdog() {
		return target.Unknown
	}
	mode := r.state.TargetMode()
	r.state.WatchdogCounter++
	log.Logf("watchdog reset (%s), counter=%d", rs, r.state.WatchdogCounter)
	if r.state.WatchdogCounter >= WatchdogLimit {
		r.state.WatchdogCounter = 0
		r.escalated = true
		next := Fallback(mode)
		log.Msgf("Too many watchdog resets, falling back from %s to %s", mode, next)
		return next
	}
	return mode
}

// forcedShutdown runs when the user held the power button to kill the
// device: whatever it was doing is abandoned.
func (r *Resolver) forcedShutdown() {
	if err := r.plat.SetRTCAlarmCharging(false); err != nil {
		log.Errorf("disabling rtc alarm charging: %s", err)
	}
	r.state.RTCAlarmCharging = false
	r.state.WatchdogCounter = 0
}
