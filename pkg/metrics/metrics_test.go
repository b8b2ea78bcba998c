// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package metrics

import (
	"os"
	fp "path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootlogic"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootstate"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log/testlog"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

func TestRecord(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	path := fp.Join(t.TempDir(), "bootlogic.prom")
	r := New(path)
	r.now = func() time.Time { return time.Unix(1700000000, 0) }

	d := bootlogic.Decision{
		Target:    target.Recovery,
		Path:      bootlogic.PathReset,
		Rule:      "watchdog",
		Reset:     bootlogic.ResetKernelWatchdog,
		Escalated: true,
		Rejected:  []target.Target{target.Boot},
	}
	r.Record(d, bootstate.State{LastTarget: target.Recovery})

	if v := testutil.ToFloat64(r.Decision.WithLabelValues("recovery", "reset", "watchdog", "not-applicable", "kernel-watchdog")); v != 1 {
		t.Errorf("decision gauge %v", v)
	}
	if v := testutil.ToFloat64(r.Flags.WithLabelValues("escalated")); v != 1 {
		t.Errorf("escalated %v", v)
	}
	if v := testutil.ToFloat64(r.Flags.WithLabelValues("coerced")); v != 0 {
		t.Errorf("coerced %v", v)
	}
	if v := testutil.ToFloat64(r.Rejected); v != 1 {
		t.Errorf("rejected %v", v)
	}

	//a second decision replaces the first
	r.Record(bootlogic.Decision{Target: target.Boot, Path: bootlogic.PathWake, Rule: "power-key"}, bootstate.State{})
	if n := testutil.CollectAndCount(r.Decision); n != 1 {
		t.Errorf("%d decision series", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`bootlogic_decision{path="wake",reset="not-applicable",rule="power-key",target="boot",wake="not-applicable"} 1`,
		"bootlogic_decision_timestamp_seconds 1.7e+09",
		"bootlogic_watchdog_counter 0",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}
}

func TestNoPath(t *testing.T) {
	r := New("")
	r.Record(bootlogic.Decision{Target: target.ColdOff, Path: bootlogic.PathBattery}, bootstate.State{WatchdogCounter: 2})
	if v := testutil.ToFloat64(r.WatchdogCounter); v != 2 {
		t.Errorf("got %v", v)
	}
}
