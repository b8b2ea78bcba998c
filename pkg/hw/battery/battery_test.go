// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package battery

import (
	"os"
	fp "path/filepath"
	"testing"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootlogic"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log/testlog"
)

func mkSupply(t *testing.T, root, name string, attrs map[string]string) {
	t.Helper()
	dir := fp.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for k, v := range attrs {
		if err := os.WriteFile(fp.Join(dir, k), []byte(v+"\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSysfsLevels(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	for _, tc := range []struct {
		capacity string
		charger  string
		level    bootlogic.BatteryLevel
		ok       bool
	}{
		{"80", "0", bootlogic.BatteryBootOS, true},
		{"10", "0", bootlogic.BatteryBootOS, true},
		{"5", "1", bootlogic.BatteryBootCharging, true},
		{"2", "1", bootlogic.BatteryLow, true},
		{"0", "1", bootlogic.BatteryLow, true},
		{"0", "0", bootlogic.BatteryLow, false},
		{"garbage", "0", bootlogic.BatteryError, true},
	} {
		root := t.TempDir()
		mkSupply(t, root, "BAT0", map[string]string{"type": "Battery", "present": "1", "capacity": tc.capacity})
		mkSupply(t, root, "AC", map[string]string{"type": "Mains", "online": tc.charger})
		s := NewSysfs(root, DefaultThresholds)
		if got := s.BatteryLevel(); got != tc.level {
			t.Errorf("%s%%: level %s, want %s", tc.capacity, got, tc.level)
		}
		if got := s.BatteryOK(); got != tc.ok {
			t.Errorf("%s%% charger=%s: ok %t", tc.capacity, tc.charger, got)
		}
	}
}

func TestSysfsNoBattery(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	root := t.TempDir()
	mkSupply(t, root, "AC", map[string]string{"type": "Mains", "online": "1"})
	s := NewSysfs(root, DefaultThresholds)
	if s.BatteryLevel() != bootlogic.BatteryBootOS || !s.BatteryOK() {
		t.Error("mains-only board must boot")
	}
	s = NewSysfs(fp.Join(root, "missing"), DefaultThresholds)
	if s.BatteryLevel() != bootlogic.BatteryError || !s.BatteryOK() {
		t.Error("unreadable sysfs must report error but allow boot")
	}
}

func TestNew(t *testing.T) {
	em, err := New(PolicyFake, "", DefaultThresholds)
	if err != nil {
		t.Fatal(err)
	}
	if em.BatteryLevel() != bootlogic.BatteryBootOS || !em.BatteryOK() {
		t.Error("fake policy")
	}
	if _, err = New("pmic", "", DefaultThresholds); err == nil {
		t.Error("expected error")
	}
}
