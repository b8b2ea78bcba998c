// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package ioctl

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

/*********
 * IMPORTANT
 * An ioctl() request has encoded in it whether the argument is an in
 *   parameter or out parameter, and the size of the argument argp in
 *   bytes.
 *********/

type FDer interface {
	Fd() uintptr
}

const (
	iocNrBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNrShift   = 0
	iocTypeShift = iocNrShift + iocNrBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocRead = 2
)

// IOR encodes a read request, as the _IOR family of C macros does.
func IOR(typ byte, nr byte, size uintptr) uintptr {
	return iocRead<<iocDirShift | size<<iocSizeShift | uintptr(typ)<<iocTypeShift | uintptr(nr)<<iocNrShift
}

func Ioctl1(fd uintptr, cmd int) (res uint64, err error) {
	ptr := uintptr(unsafe.Pointer(&res))
	err = ioctl(fd, uintptr(cmd), ptr)
	return res, err
}

// IoctlBuf issues a request whose argument is a buffer the kernel fills.
func IoctlBuf(fd uintptr, cmd uintptr, buf []byte) error {
	if len(buf) == 0 {
		return unix.EINVAL
	}
	return ioctl(fd, cmd, uintptr(unsafe.Pointer(&buf[0])))
}

func ioctl(fd, cmd, ptr uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, cmd, ptr)
	if errno == 0 {
		return nil
	}
	return errno
}
