// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package config

import (
	"os"
	fp "path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootstate"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/battery"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log/testlog"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

func TestDefaultValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	for _, tg := range []target.Target{target.Boot, target.Recovery, target.Fastboot, target.Charging} {
		if _, ok := cfg.Image(tg); !ok {
			t.Errorf("no default image for %s", tg)
		}
	}
	if _, ok := cfg.Image(target.DNX); ok {
		t.Error("dnx has no image")
	}
}

func TestDecode(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	data := `
state:
  backend: badger
  path: /persist/bootlogic
battery:
  policy: fake
  boot_os: 20
  boot_charging: 5
disk:
  device: /dev/sda
  required_partitions: [boot]
boot:
  targets:
    boot:
      partition: boot
      kernel: /EFI/linux/bzImage
flow: factory
`
	cfg := Default()
	if err := Decode([]byte(data), &cfg); err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.State = State{Backend: bootstate.BackendBadger, Path: "/persist/bootlogic"}
	want.Battery.Policy = battery.PolicyFake
	want.Battery.Thresholds = battery.Thresholds{BootOS: 20, BootCharging: 5, Critical: 1}
	want.Disk.Device = "/dev/sda"
	want.Disk.Required = []string{"boot"}
	//maps are merged key by key
	want.Boot.Targets[target.Boot.String()] = Image{Partition: "boot", Kernel: "/EFI/linux/bzImage"}
	want.Flow = "factory"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("-want +got:\n%s", diff)
	}

	//empty document keeps the defaults
	cfg = Default()
	if err := Decode(nil, &cfg); err != nil {
		t.Error(err)
	}
}

func TestDecodeErrors(t *testing.T) {
	for name, data := range map[string]string{
		"unknown field":   "bogus: 1\n",
		"backend":         "state: {backend: floppy}\n",
		"needs path":      "state: {backend: file}\n",
		"policy":          "battery: {policy: solar}\n",
		"thresholds":      "battery: {boot_os: 2, boot_charging: 5}\n",
		"unknown target":  "boot: {targets: {main: {kernel: k}}}\n",
		"cold-off target": "boot: {targets: {cold-off: {kernel: k}}}\n",
		"no kernel":       "boot: {targets: {dnx: {partition: p}}}\n",
	} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			if err := Decode([]byte(data), &cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	dir := t.TempDir()
	oldDefault := DefaultPath
	defer func() { DefaultPath = oldDefault }()
	DefaultPath = fp.Join(dir, "missing.yaml")
	t.Setenv(ConfigEnv(), "")

	if _, err := Load(""); err != nil {
		t.Errorf("missing default: %s", err)
	}
	if _, err := Load(fp.Join(dir, "explicit.yaml")); err == nil {
		t.Error("missing explicit file must fail")
	}

	p := fp.Join(dir, "env.yaml")
	if err := os.WriteFile(p, []byte("flow: charger\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigEnv(), p)
	if Path("") != p {
		t.Errorf("path %s", Path(""))
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Flow != "charger" {
		t.Errorf("flow %q", cfg.Flow)
	}
}

func TestExtra(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	dir := t.TempDir()
	f := fp.Join(dir, "cmdline")
	if err := os.WriteFile(f, []byte("# comment\nconsole=ttyS0\n\nloglevel=7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	cfg.ExtraCmdline = "  quiet "
	cfg.ExtraCmdlineFile = f
	if got := cfg.Extra(); got != "quiet console=ttyS0 loglevel=7" {
		t.Errorf("got %q", got)
	}

	cfg.ExtraCmdline = ""
	cfg.ExtraCmdlineFile = fp.Join(dir, "nope")
	if got := cfg.Extra(); got != "" {
		t.Errorf("got %q", got)
	}
	if tlog.ErrCount != 1 || !tlog.Contains(testlog.FilterErr(), "reading extra cmdline") {
		t.Errorf("want one logged error, got %d", tlog.ErrCount)
	}
}
