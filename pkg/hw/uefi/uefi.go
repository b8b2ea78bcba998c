// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

//Package uefi reads and writes UEFI variables through efivarfs. It can also
//determine whether the system booted in UEFI mode or legacy.
package uefi

import (
	"os"
	fp "path/filepath"
)

//return true if the system booted via UEFI (as opposed to legacy). Checks
//for the firmware dir containing EfivarfsDir.
func BootedUEFI() bool {
	_, err := os.Stat(fp.Dir(EfivarfsDir))
	return (err == nil)
}
