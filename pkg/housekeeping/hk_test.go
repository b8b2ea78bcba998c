// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package housekeeping

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log/testlog"
)

func TestPerformOrder(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	var ran []string
	var l HkList
	task := func(name string) *HkTask {
		return &HkTask{Name: name, Func: func(success bool) {
			if !success {
				t.Errorf("%s: want success", name)
			}
			ran = append(ran, name)
		}}
	}
	l.Add(task("a"))
	l.Add(task("b"))
	l.AddFirst(task("first"))
	l.Perform(true)
	if diff := cmp.Diff([]string{"b", "a", "first"}, ran); diff != "" {
		t.Errorf("-want +got:\n%s", diff)
	}
	if l.Len() != 0 {
		t.Errorf("%d tasks left", l.Len())
	}
}

func TestPrebootDefaults(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	oldSync := syncFn
	synced := 0
	syncFn = func() { synced++ }
	defer func() { syncFn = oldSync; Preboots.Clear() }()

	Preboots.Clear()
	var order []string
	Preboots.Add(&HkTask{Name: "indicators", Func: func(bool) { order = append(order, "indicators") }})
	AddPrebootDefaults(func(success bool) { order = append(order, "umount") })
	//adding twice must not duplicate
	AddPrebootDefaults(func(success bool) { order = append(order, "umount") })
	want := []string{TaskSync, TaskUnmount, TaskFinalize, "indicators"}
	if diff := cmp.Diff(want, Preboots.Names()); diff != "" {
		t.Errorf("-want +got:\n%s", diff)
	}
	Preboots.Perform(true)
	if diff := cmp.Diff([]string{"indicators", "umount"}, order); diff != "" {
		t.Errorf("-want +got:\n%s", diff)
	}
	if synced != 1 {
		t.Errorf("synced %d times", synced)
	}
}
