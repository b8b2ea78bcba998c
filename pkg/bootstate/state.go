// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

/* Package bootstate holds the boot history that survives power cycles: the
last booted target, a one-shot override, the watchdog strike counter and the
rtc-alarm-charging flag.

State is loaded once per boot attempt, mutated in memory and written back with
a single Save. Backends: efi variables (the default on real hardware), a json
file and a badger kv store.
*/
package bootstate

import (
	"errors"
	"fmt"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

// ErrNotFound is returned by stores that distinguish "never written" from
// other failures. Callers normally treat it like any other load failure.
var ErrNotFound = errors.New("no boot state stored")

type State struct {
	LastTarget       target.Target `json:"last_target" yaml:"last_target"`
	OneshotTarget    target.Target `json:"oneshot_target,omitempty" yaml:"oneshot_target,omitempty"`
	WatchdogCounter  uint          `json:"watchdog_counter" yaml:"watchdog_counter"`
	RTCAlarmCharging bool          `json:"rtc_alarm_charging" yaml:"rtc_alarm_charging"`
}

// TargetMode is the target the previous boot left behind: the one-shot
// override if one is pending, else the last target.
func (s State) TargetMode() target.Target {
	if s.OneshotTarget != target.Unknown {
		return s.OneshotTarget
	}
	return s.LastTarget
}

// Commit records t as the target being booted and consumes any one-shot
// override.
func (s *State) Commit(t target.Target) {
	s.LastTarget = t
	s.OneshotTarget = target.Unknown
}

func (s State) String() string {
	return fmt.Sprintf("last=%s oneshot=%s wdt=%d rtc_alarm_charging=%t",
		s.LastTarget, s.OneshotTarget, s.WatchdogCounter, s.RTCAlarmCharging)
}

type Store interface {
	Load() (State, error)
	Save(State) error
}

// Closer is implemented by stores holding resources (badger).
type Closer interface {
	Close() error
}

// Close closes s if it holds resources.
func Close(s Store) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
