// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Command bootlogic decides which OS target to boot from firmware signals and
// persisted boot state, then kexecs it. Run as /init in a LinuxBoot style
// initramfs; the other subcommands inspect and exercise the same logic from a
// shell.
package main

import (
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
)

//in any binary with main.buildId string, it is set at compile time to $BUILD_INFO
var buildId string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		//reboots when running as init
		log.Fatalf("%s", err)
	}
}
