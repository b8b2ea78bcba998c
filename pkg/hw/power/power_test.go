// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package power

import (
	"errors"
	"os"
	fp "path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	hk "github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/housekeeping"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log/testlog"
)

func TestNotInit(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	oldInit, oldReboot := IsInit, rebootFn
	defer func() { IsInit, rebootFn = oldInit, oldReboot; hk.Preboots.Clear() }()
	IsInit = func() bool { return false }
	rebootFn = func(int) error {
		t.Fatal("reboot called")
		return nil
	}

	ran := 0
	hk.Preboots.Add(&hk.HkTask{Name: "count", Func: func(bool) { ran++ }})
	if err := Off(); err != nil {
		t.Error(err)
	}
	if ran != 1 {
		t.Errorf("preboots ran %d times", ran)
	}

	kernel := fp.Join(t.TempDir(), "vmlinuz")
	if err := Kexec(Image{Kernel: kernel}); err == nil {
		t.Error("expected error for missing kernel")
	}
	if err := os.WriteFile(kernel, []byte("MZ"), 0644); err != nil {
		t.Fatal(err)
	}
	hk.Preboots.Add(&hk.HkTask{Name: "count", Func: func(bool) { ran++ }})
	if err := Kexec(Image{Kernel: kernel, Cmdline: "quiet"}); err != nil {
		t.Error(err)
	}
	if ran != 2 {
		t.Errorf("preboots ran %d times", ran)
	}
	if !tlog.Contains(testlog.FilterMsg(), "would kexec") {
		t.Error("kexec not logged")
	}
}

func TestKexecAsInit(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	oldInit, oldLoad, oldExec, oldSettle := IsInit, kexecLoad, kexecExec, settle
	defer func() {
		IsInit, kexecLoad, kexecExec, settle = oldInit, oldLoad, oldExec, oldSettle
		hk.Preboots.Clear()
	}()
	IsInit = func() bool { return true }
	settle = 0

	var calls []string
	var loaded Image
	loadErr := errors.New("bad kernel")
	kexecLoad = func(img Image) error {
		calls = append(calls, "load")
		loaded = img
		return loadErr
	}
	kexecExec = func() error {
		calls = append(calls, "exec")
		return nil
	}
	hk.Preboots.Add(&hk.HkTask{Name: "preboot", Func: func(bool) { calls = append(calls, "preboot") }})

	kernel := fp.Join(t.TempDir(), "vmlinuz")
	if err := os.WriteFile(kernel, []byte("MZ"), 0644); err != nil {
		t.Fatal(err)
	}
	img := Image{Kernel: kernel, Cmdline: "androidboot.mode=main"}
	if err := Kexec(img); !errors.Is(err, loadErr) {
		t.Errorf("got %v", err)
	}
	//nothing is torn down when the kernel does not load
	if diff := cmp.Diff([]string{"load"}, calls); diff != "" {
		t.Errorf("-want +got:\n%s", diff)
	}

	calls = nil
	loadErr = nil
	if err := Kexec(img); err != nil {
		t.Error(err)
	}
	if diff := cmp.Diff([]string{"load", "preboot", "exec"}, calls); diff != "" {
		t.Errorf("-want +got:\n%s", diff)
	}
	if loaded != img {
		t.Errorf("loaded %s", loaded)
	}
}
