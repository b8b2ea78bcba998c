// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package platform implements bootlogic.Platform: Linux runs on real
// hardware from an initramfs, Sim replays scripted signals.
package platform

import (
	"fmt"
	"os"
	"time"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootlogic"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootstate"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/config"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/fileutil"
	hk "github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/housekeeping"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/battery"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/bzimage"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/gpt"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/keys"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/power"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/rsci"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/uefi"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

// OsnibPrefix is prepended to the rsci value names when they are handed to
// the OS as efi variables.
const OsnibPrefix = "Osnib"

// RTCWakealarm disarms the rtc when written "0".
var RTCWakealarm = "/sys/class/rtc/rtc0/wakealarm"

// Linux reads signals from firmware tables and sysfs and boots via kexec.
type Linux struct {
	cfg  config.Config
	em   bootlogic.EnergyManager
	keys keys.Reader
	mnt  *mounter

	table    *rsci.Table
	tableErr error
	parts    *gpt.Table
	staged   map[string][]byte

	//power transitions; replaced in tests
	off  func() error
	exec func(power.Image) error
}

var _ bootlogic.Platform = (*Linux)(nil)

func NewLinux(cfg config.Config) (*Linux, error) {
	em, err := battery.New(cfg.Battery.Policy, cfg.Battery.SupplyDir, cfg.Battery.Thresholds)
	if err != nil {
		return nil, err
	}
	uefi.EfivarfsDir = cfg.EfivarDir
	rsci.TablePath = cfg.RSCITable
	return &Linux{
		cfg:  cfg,
		em:   em,
		keys: keys.NewReader(cfg.Keys.Devices),
		mnt:  &mounter{point: cfg.Boot.MountPoint, fstype: cfg.Boot.FSType},
		off:  power.Off,
		exec: power.Kexec,
	}, nil
}

// rsci is read once; later calls see the same values
func (l *Linux) readRSCI() (*rsci.Table, error) {
	if l.table == nil && l.tableErr == nil {
		l.table, l.tableErr = rsci.Read()
		if l.tableErr != nil {
			log.Errorf("reading rsci table: %s", l.tableErr)
		} else {
			log.Debugf("rsci: wake=%s reset=%s type=%s shutdown=%s indicators=%#x",
				l.table.WakeSource(), l.table.ResetSource(), l.table.ResetType,
				l.table.ShutdownSource(), l.table.Indicators)
		}
	}
	return l.table, l.tableErr
}

func (l *Linux) CheckPartitionTable() error {
	dev := l.cfg.Disk.Device
	if l.cfg.Disk.WaitSeconds > 0 && !fileutil.WaitFor(dev, time.Duration(l.cfg.Disk.WaitSeconds)*time.Second) {
		return fmt.Errorf("%s did not appear", dev)
	}
	t, err := gpt.ReadDevice(dev)
	if err != nil {
		return err
	}
	if err = t.Require(l.cfg.Disk.Required...); err != nil {
		return err
	}
	l.parts = t
	return nil
}

func (l *Linux) ReadFlowType() bootlogic.FlowType { return bootlogic.FlowType(l.cfg.Flow) }

func (l *Linux) WakeSource() bootlogic.WakeSource {
	t, err := l.readRSCI()
	if err != nil {
		return bootlogic.WakeError
	}
	return t.WakeSource()
}

func (l *Linux) ResetSource() bootlogic.ResetSource {
	t, err := l.readRSCI()
	if err != nil {
		return bootlogic.ResetError
	}
	return t.ResetSource()
}

func (l *Linux) ShutdownSource() bootlogic.ShutdownSource {
	t, err := l.readRSCI()
	if err != nil {
		return bootlogic.ShutdownError
	}
	return t.ShutdownSource()
}

func (l *Linux) ComboKey(c bootlogic.ComboKey) bool {
	if c != bootlogic.ComboFastboot {
		return false
	}
	held, err := l.keys.AllHeld(l.cfg.Keys.Fastboot)
	if err != nil {
		log.Debugf("combo %s: %s", c, err)
		return false
	}
	return held
}

func (l *Linux) EnergyManager() bootlogic.EnergyManager { return l.em }

func (l *Linux) SetRTCAlarmCharging(enable bool) error {
	if enable {
		//arming needs a wake time, which the charging OS sets itself
		log.Debugf("rtc alarm charging left to the OS")
		return nil
	}
	err := os.WriteFile(RTCWakealarm, []byte("0\n"), 0644)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (l *Linux) ColdOff() error { return l.off() }

func (l *Linux) DisplaySplash() error {
	if l.cfg.Splash == "" {
		return nil
	}
	log.Msgf("%s", l.cfg.Splash)
	return nil
}

// PopulateIndicators stages the rsci values for the OS; they are written
// by BootlogicEnd.
func (l *Linux) PopulateIndicators() error {
	t, err := l.readRSCI()
	if err != nil {
		return err
	}
	l.staged = t.Vars()
	return nil
}

func (l *Linux) image(t target.Target) (config.Image, gpt.Partition, error) {
	img, ok := l.cfg.Image(t)
	if !ok {
		return img, gpt.Partition{}, fmt.Errorf("no image configured for %s", t)
	}
	if l.parts == nil {
		return img, gpt.Partition{}, fmt.Errorf("partition table not read")
	}
	p, ok := l.parts.Find(img.Partition)
	if !ok {
		return img, p, fmt.Errorf("%w: %s", gpt.ErrMissingPartition, img.Partition)
	}
	return img, p, nil
}

// CheckTarget mounts the target's partition and checks its kernel. The
// partition stays mounted for LoadTarget.
func (l *Linux) CheckTarget(t target.Target, flow bootlogic.FlowType) error {
	img, p, err := l.image(t)
	if err != nil {
		return err
	}
	if err = l.mnt.mount(PartitionDevice(l.cfg.Disk.Device, p.Index)); err != nil {
		return err
	}
	desc, err := bzimage.Check(l.mnt.path(img.Kernel))
	if err != nil {
		return err
	}
	if img.Initrd != "" {
		if _, err = os.Stat(l.mnt.path(img.Initrd)); err != nil {
			return err
		}
	}
	log.Logf("%s (flow %s): kernel %s", t, flow, desc)
	return nil
}

func (l *Linux) LoadTarget(t target.Target, cmdline string) error {
	img, p, err := l.image(t)
	if err != nil {
		return err
	}
	if err = l.mnt.mount(PartitionDevice(l.cfg.Disk.Device, p.Index)); err != nil {
		return err
	}
	k := power.Image{
		Kernel:  l.mnt.path(img.Kernel),
		Cmdline: bootlogic.MergeCmdline(img.Cmdline, cmdline),
	}
	if img.Initrd != "" {
		k.Initrd = l.mnt.path(img.Initrd)
	}
	return l.exec(k)
}

func (l *Linux) ExtraCmdline() string { return l.cfg.Extra() }

func (l *Linux) BootlogicBegin() {
	hk.AddPrebootDefaults(l.mnt.unmount)
}

// BootlogicEnd hands the staged rsci values to the OS.
func (l *Linux) BootlogicEnd() {
	for name, val := range l.staged {
		v := uefi.EfiVar{Guid: bootstate.LoaderGuid, Name: OsnibPrefix + name, Attrs: uefi.DefaultAttrs, Data: val}
		if err := uefi.WriteVar(v); err != nil {
			log.Errorf("writing %s: %s", v.Name, err)
		}
	}
}
