// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

//go:build !linux

package power

import "fmt"

var (
	kexecLoad = func(img Image) error {
		return fmt.Errorf("kexec unsupported on this platform, cannot load %s", img.Kernel)
	}
	kexecExec = func() error { return fmt.Errorf("kexec unsupported on this platform") }
)
