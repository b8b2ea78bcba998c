// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package main

import (
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootlogic"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootstate"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

// dryRun passes signal reads and target checks through to the real
// platform and swallows everything with an effect outside the process.
type dryRun struct {
	bootlogic.Platform

	decision bootlogic.Decision
	off      bool
	loaded   target.Target
	cmdline  string
}

var (
	_ bootlogic.Platform = (*dryRun)(nil)
	_ bootlogic.Recorder = (*dryRun)(nil)
)

func (d *dryRun) SetRTCAlarmCharging(bool) error { return nil }
func (d *dryRun) ColdOff() error                 { d.off = true; return nil }
func (d *dryRun) BootlogicEnd()                  {}

func (d *dryRun) LoadTarget(t target.Target, cmdline string) error {
	d.loaded = t
	d.cmdline = cmdline
	return nil
}

func (d *dryRun) Record(dec bootlogic.Decision, _ bootstate.State) { d.decision = dec }
