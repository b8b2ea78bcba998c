// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package ioctl

//BLKSSZGET: logical sector size
func BlkGetSectorSize(f FDer) (uint64, error) {
	BLKSSZGET := 0x1268
	s, err := Ioctl1(f.Fd(), BLKSSZGET)
	return uint64(s), err
}

//BLKGETSIZE64: device size in bytes
func BlkGetSize64(f FDer) (uint64, error) {
	return Ioctl1(f.Fd(), int(IOR(0x12, 114, 8)))
}
