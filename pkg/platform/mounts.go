// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package platform

import (
	"fmt"
	"os"
	fp "path/filepath"
	"strings"
	"unicode"

	"github.com/u-root/u-root/pkg/mount"
	"golang.org/x/sys/unix"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
)

type emount struct {
	fstype, dev, path, data string
	flags                   uintptr
}

var emounts = []emount{
	{fstype: "sysfs", dev: "sysfs", path: "/sys", flags: unix.MS_NODEV | unix.MS_NOEXEC | unix.MS_NOSUID},
	{fstype: "devtmpfs", dev: "devtmpfs", path: "/dev"},
	{fstype: "proc", dev: "proc", path: "/proc", flags: unix.MS_NODEV | unix.MS_NOEXEC | unix.MS_NOSUID},
	{fstype: "efivarfs", dev: "efivarfs", path: "/sys/firmware/efi/efivars", flags: unix.MS_NODEV | unix.MS_NOEXEC | unix.MS_NOSUID},
}

//for tests
var mountFn = func(dev, path, fstype, data string, flags uintptr) error {
	_, err := mount.Mount(dev, path, fstype, data, flags)
	return err
}
var unmountFn = mount.Unmount

//create /sys, /dev, /proc and efivarfs mounts. Only needed when running as init.
func EarlyMounts() {
	for _, m := range emounts {
		if err := os.MkdirAll(m.path, 0755); err != nil {
			log.Logf("error %s creating %s", err, m.path)
		}
		if err := mountFn(m.dev, m.path, m.fstype, m.data, m.flags); err != nil {
			log.Logf("error %s mounting %s", err, m.path)
		}
	}
}

// PartitionDevice names the device node of partition n on disk, following
// the kernel's rule: a "p" separator when the disk name ends in a digit.
func PartitionDevice(disk string, n int) string {
	base := fp.Base(disk)
	sep := ""
	if base != "" && unicode.IsDigit(rune(base[len(base)-1])) {
		sep = "p"
	}
	return fmt.Sprintf("%s%s%d", disk, sep, n)
}

// mounter keeps at most one boot partition mounted read-only.
type mounter struct {
	point  string
	fstype string
	dev    string //currently mounted, empty if none
}

func (m *mounter) mount(dev string) error {
	if m.dev == dev {
		return nil
	}
	m.unmount(true)
	if err := os.MkdirAll(m.point, 0755); err != nil {
		return err
	}
	if err := mountFn(dev, m.point, m.fstype, "", unix.MS_RDONLY); err != nil {
		return fmt.Errorf("mounting %s on %s: %w", dev, m.point, err)
	}
	log.Debugf("mounted %s on %s", dev, m.point)
	m.dev = dev
	return nil
}

// signature matches housekeeping's unmount hook
func (m *mounter) unmount(_ bool) {
	if m.dev == "" {
		return
	}
	if err := unmountFn(m.point, false, true); err != nil {
		log.Logf("error %s unmounting %s", err, m.point)
	}
	m.dev = ""
}

func (m *mounter) path(rel string) string {
	return fp.Join(m.point, strings.TrimPrefix(rel, "/"))
}
