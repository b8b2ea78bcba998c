// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

//go:build linux

package power

import (
	"fmt"
	"os"

	"github.com/u-root/u-root/pkg/boot/kexec"
)

//for tests
var (
	kexecLoad = fileLoad
	kexecExec = kexec.Reboot
)

func fileLoad(img Image) error {
	kernel, err := os.Open(img.Kernel)
	if err != nil {
		return err
	}
	defer kernel.Close()
	var initrd *os.File
	if img.Initrd != "" {
		if initrd, err = os.Open(img.Initrd); err != nil {
			return err
		}
		defer initrd.Close()
	}
	if err = kexec.FileLoad(kernel, initrd, img.Cmdline); err != nil {
		return fmt.Errorf("kexec load %s: %w", img.Kernel, err)
	}
	return nil
}
