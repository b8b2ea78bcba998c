// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package rsci

import (
	"encoding/binary"
	"errors"
	"os"
	fp "path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootlogic"
)

func TestRoundTrip(t *testing.T) {
	in := &Table{OEMID: "INTEL", Revision: 2, Wake: 4, Reset: 0, ResetType: ResetTypeCold, Shutdown: 1, Indicators: 0x20}
	raw := in.Encode()
	out, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("-want +got:\n%s", diff)
	}
	if out.WakeSource() != bootlogic.WakePowerButtonPressed {
		t.Errorf("wake %s", out.WakeSource())
	}
	if out.ResetSource() != bootlogic.ResetNotApplicable {
		t.Errorf("reset %s", out.ResetSource())
	}
	if out.ShutdownSource() != bootlogic.ShutdownPowerButtonOverride {
		t.Errorf("shutdown %s", out.ShutdownSource())
	}
	want := map[string][]byte{
		"WakeSource":     {4},
		"ResetSource":    {0},
		"ResetType":      {2},
		"ShutdownSource": {1},
		"Indicators":     {0x20, 0, 0, 0},
	}
	if diff := cmp.Diff(want, out.Vars()); diff != "" {
		t.Errorf("vars -want +got:\n%s", diff)
	}
}

func TestOutOfRange(t *testing.T) {
	tb := &Table{Wake: 200, Reset: 10, Shutdown: 13}
	if tb.WakeSource() != bootlogic.WakeError || tb.ResetSource() != bootlogic.ResetError ||
		tb.ShutdownSource() != bootlogic.ShutdownError {
		t.Errorf("got %s %s %s", tb.WakeSource(), tb.ResetSource(), tb.ShutdownSource())
	}
	tb = &Table{Reset: 9, Shutdown: 12}
	if tb.ResetSource() != bootlogic.ResetPlatformWatchdog || tb.ShutdownSource() != bootlogic.ShutdownPMCWatchdog {
		t.Errorf("got %s %s", tb.ResetSource(), tb.ShutdownSource())
	}
}

func TestCorrupt(t *testing.T) {
	raw := (&Table{Wake: 1}).Encode()
	bad := append([]byte(nil), raw...)
	bad[acpiHeaderLen] = 2
	if _, err := Parse(bad); !errors.Is(err, ErrBadChecksum) {
		t.Errorf("got %v", err)
	}
	bad = append([]byte(nil), raw...)
	copy(bad, "FACP")
	if _, err := Parse(bad); !errors.Is(err, ErrBadSignature) {
		t.Errorf("got %v", err)
	}
	if _, err := Parse(raw[:40]); !errors.Is(err, ErrShort) {
		t.Errorf("got %v", err)
	}
	//length fields that would leave no room for the payload
	for _, l := range []uint32{0, 20, acpiHeaderLen} {
		bad = append([]byte(nil), raw...)
		binary.LittleEndian.PutUint32(bad[4:], l)
		if _, err := Parse(bad); !errors.Is(err, ErrShort) {
			t.Errorf("length %d: got %v", l, err)
		}
	}
	//firmware may pad the file past the table
	padded := append(append([]byte(nil), raw...), make([]byte, 8)...)
	if tb, err := Parse(padded); err != nil || tb.Wake != 1 {
		t.Errorf("padded: %v %v", tb, err)
	}
}

func TestRead(t *testing.T) {
	old := TablePath
	defer func() { TablePath = old }()
	TablePath = fp.Join(t.TempDir(), "RSCI")
	if _, err := Read(); !os.IsNotExist(err) {
		t.Errorf("got %v", err)
	}
	if err := os.WriteFile(TablePath, (&Table{Reset: 4}).Encode(), 0444); err != nil {
		t.Fatal(err)
	}
	tb, err := Read()
	if err != nil {
		t.Fatal(err)
	}
	if tb.ResetSource() != bootlogic.ResetKernelWatchdog || !tb.ResetSource().IsWatchdog() {
		t.Errorf("got %s", tb.ResetSource())
	}
}
