// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package config loads the loader's yaml configuration. Every field has a
// default suitable for a LinuxBoot initramfs, so a missing file is not an
// error.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootstate"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/fileutil"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/battery"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/keys"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

const EnvPrefix = "BOOTLOGIC_"

func ConfigEnv() string  { return EnvPrefix + "CONFIG" }
func VerboseEnv() string { return EnvPrefix + "VERBOSE" }

var DefaultPath = "/etc/bootlogic.yaml"

type Config struct {
	State            State   `yaml:"state"`
	EfivarDir        string  `yaml:"efivar_dir"`
	RSCITable        string  `yaml:"rsci_table"`
	Battery          Battery `yaml:"battery"`
	Keys             Keys    `yaml:"keys"`
	Disk             Disk    `yaml:"disk"`
	Boot             Boot    `yaml:"boot"`
	ExtraCmdline     string  `yaml:"extra_cmdline"`
	ExtraCmdlineFile string  `yaml:"extra_cmdline_file"`
	Flow             string  `yaml:"flow"`
	Splash           string  `yaml:"splash"`
	MetricsTextfile  string  `yaml:"metrics_textfile"`
	Log              Log     `yaml:"log"`
}

type State struct {
	//efivars, file, badger or memory
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type Battery struct {
	//sysfs or fake
	Policy             string `yaml:"policy"`
	SupplyDir          string `yaml:"supply_dir"`
	battery.Thresholds `yaml:",inline"`
}

type Keys struct {
	Devices  string   `yaml:"devices"`
	Fastboot []uint16 `yaml:"fastboot"`
}

type Disk struct {
	Device   string   `yaml:"device"`
	Required []string `yaml:"required_partitions"`
	//device node may appear late in an initramfs
	WaitSeconds int `yaml:"wait_seconds"`
}

type Boot struct {
	MountPoint string `yaml:"mount_point"`
	FSType     string `yaml:"fstype"`
	//keyed by target name
	Targets map[string]Image `yaml:"targets"`
}

// Image locates a target's kernel on a partition of Disk.Device.
type Image struct {
	Partition string `yaml:"partition"`
	Kernel    string `yaml:"kernel"`
	Initrd    string `yaml:"initrd"`
	Cmdline   string `yaml:"cmdline"`
}

type Log struct {
	Dir  string `yaml:"dir"`
	Kmsg bool   `yaml:"kmsg"`
}

func Default() Config {
	return Config{
		State:     State{Backend: bootstate.BackendEfiVars},
		EfivarDir: "/sys/firmware/efi/efivars",
		RSCITable: "/sys/firmware/acpi/tables/RSCI",
		Battery: Battery{
			Policy:     battery.PolicySysfs,
			SupplyDir:  "/sys/class/power_supply",
			Thresholds: battery.DefaultThresholds,
		},
		Keys: Keys{
			Devices:  "/dev/input/event*",
			Fastboot: []uint16{keys.KeyVolumeDown},
		},
		Disk: Disk{
			Device:      "/dev/mmcblk0",
			Required:    []string{"boot", "recovery", "fastboot"},
			WaitSeconds: 5,
		},
		Boot: Boot{
			MountPoint: "/mnt/boot",
			FSType:     "vfat",
			Targets: map[string]Image{
				target.Boot.String():     {Partition: "boot", Kernel: "vmlinuz", Initrd: "initrd.img"},
				target.Recovery.String(): {Partition: "recovery", Kernel: "vmlinuz", Initrd: "initrd.img"},
				target.Fastboot.String(): {Partition: "fastboot", Kernel: "vmlinuz", Initrd: "initrd.img"},
				target.Charging.String(): {Partition: "boot", Kernel: "vmlinuz", Initrd: "initrd.img", Cmdline: "androidboot.mode=charger"},
			},
		},
		Flow:   "normal",
		Splash: "Booting...",
		Log:    Log{Kmsg: true},
	}
}

// Path returns the config file to use: explicit, else from the
// environment, else DefaultPath.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(ConfigEnv()); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads path over the defaults. A missing file yields the defaults
// unless the path was given explicitly.
func Load(explicit string) (Config, error) {
	cfg := Default()
	path := Path(explicit)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && explicit == "" {
			log.Debugf("config %s not found, using defaults", path)
			return cfg, nil
		}
		return cfg, err
	}
	if err = Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode applies yaml over cfg and validates the result.
func Decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.State.Backend {
	case bootstate.BackendEfiVars, bootstate.BackendMemory:
	case bootstate.BackendFile, bootstate.BackendBadger:
		if c.State.Path == "" {
			return fmt.Errorf("state backend %s needs a path", c.State.Backend)
		}
	default:
		return fmt.Errorf("unknown state backend %q", c.State.Backend)
	}
	switch c.Battery.Policy {
	case battery.PolicySysfs, battery.PolicyFake:
	default:
		return fmt.Errorf("unknown battery policy %q", c.Battery.Policy)
	}
	th := c.Battery.Thresholds
	if th.Critical > th.BootCharging || th.BootCharging > th.BootOS {
		return fmt.Errorf("battery thresholds must satisfy critical <= boot_charging <= boot_os, have %d/%d/%d",
			th.Critical, th.BootCharging, th.BootOS)
	}
	for name, img := range c.Boot.Targets {
		t, err := target.Parse(name)
		if err != nil {
			return err
		}
		if !t.Loadable() {
			return fmt.Errorf("target %s cannot have an image", t)
		}
		if img.Kernel == "" {
			return fmt.Errorf("target %s: no kernel", t)
		}
	}
	return nil
}

// Image returns the image configured for t.
func (c *Config) Image(t target.Target) (Image, bool) {
	img, ok := c.Boot.Targets[t.String()]
	return img, ok
}

// Extra returns the extra kernel arguments: ExtraCmdline followed by the
// lines of ExtraCmdlineFile. An unreadable file is logged and skipped.
func (c *Config) Extra() string {
	parts := []string{strings.TrimSpace(c.ExtraCmdline)}
	if c.ExtraCmdlineFile != "" {
		lines, err := fileutil.ReadConfigLines(c.ExtraCmdlineFile, 64)
		if err != nil {
			log.Errorf("reading extra cmdline: %s", err)
		}
		parts = append(parts, lines...)
	}
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
