// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

//Package power hands control away from the loader: power off, kexec into
//the chosen kernel, or reboot on failure. Pre-reboot (Preboot) functions
//registered with the housekeeping pkg run first.
//
//As a side-effect of import, log.Fatal is set to power.FailReboot.
package power

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"golang.org/x/sys/unix"

	hk "github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/housekeeping"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
)

// Defines the action taken on failure, which is to reboot. Importing this
// package has the side effect of calling log.SetFatalAction() with this.
var FatalAction = log.FailAction{
	MsgPfx:     "ERROR, rebooting:",
	Terminator: FailReboot,
}

func init() {
	log.SetFatalAction(FatalAction)
}

// IsInit reports whether we run as pid 1. When not, power transitions are
// logged and skipped so the loader can be exercised from a shell.
var IsInit = func() bool { return os.Getpid() == 1 }

//delay before a transition, lets console output drain
var settle = 2 * time.Second

//for tests
var rebootFn = unix.Reboot

//Reboot.
func FailReboot() {
	Reboot(false)
}

//Not for general use - prefer FailReboot()
func Reboot(success bool) {
	/* this func can be called from a defer statement; deferred functions
	   will execute even if panic() was called. exiting or rebooting will
	   mask any such panic, so check for it and log it
	*/
	x := recover()
	if x != nil {
		log.Logf("panic() caught in reboot(success=%t)", success)
		success = false
		log.Msgf("internal error: %s", x)
		stars := "***********************************************************"
		log.Logf("%s\nstack trace:\n%s\n%s", stars, debug.Stack(), stars)
	}

	hk.Preboots.Perform(success)
	if !IsInit() {
		fmt.Fprintf(os.Stderr, "pid 1 would reboot here\n")
		os.Exit(1)
	}
	time.Sleep(settle)
	err := rebootFn(unix.LINUX_REBOOT_CMD_RESTART)
	if err != nil {
		fmt.Printf("%s", err)
	}
}

// Off powers the device down. It only returns on failure, or when not
// running as init.
func Off() error {
	hk.Preboots.Perform(true)
	if !IsInit() {
		log.Msgf("pid 1 would power off here")
		return nil
	}
	time.Sleep(settle)
	if err := rebootFn(unix.LINUX_REBOOT_CMD_POWER_OFF); err != nil {
		return fmt.Errorf("power off: %w", err)
	}
	return nil
}

// Image is a kernel to hand control to.
type Image struct {
	Kernel  string
	Initrd  string //optional
	Cmdline string
}

func (img Image) String() string {
	s := img.Kernel
	if img.Initrd != "" {
		s += " initrd=" + img.Initrd
	}
	return s + " cmdline=" + fmt.Sprintf("%q", img.Cmdline)
}

// Kexec loads img and jumps to it. It only returns on failure, or when not
// running as init.
func Kexec(img Image) error {
	for _, f := range []string{img.Kernel, img.Initrd} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("kexec: %w", err)
		}
	}
	if !IsInit() {
		hk.Preboots.Perform(true)
		log.Msgf("pid 1 would kexec %s here", img)
		return nil
	}
	if err := kexecLoad(img); err != nil {
		return err
	}
	hk.Preboots.Perform(true)
	time.Sleep(settle)
	if err := kexecExec(); err != nil {
		return fmt.Errorf("kexec reboot: %w", err)
	}
	return nil
}
