// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package keys reports which keys are held down, using the evdev key state
// ioctl on every input device.
package keys

import (
	"errors"
	"fmt"
	"os"
	fp "path/filepath"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/ioctl"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
)

// KeyMax is KEY_MAX from linux/input-event-codes.h.
const KeyMax = 0x2ff

// Some key codes, from linux/input-event-codes.h.
const (
	KeyVolumeDown uint16 = 114
	KeyVolumeUp   uint16 = 115
	KeyPower      uint16 = 116
	KeyCamera     uint16 = 212
)

var ErrNoInput = errors.New("keys: no readable input device")

type Bitmap [KeyMax/8 + 1]byte

func (b *Bitmap) IsSet(code uint16) bool {
	if int(code) > KeyMax {
		return false
	}
	return b[code/8]&(1<<(code%8)) != 0
}

func (b *Bitmap) Set(code uint16) {
	if int(code) <= KeyMax {
		b[code/8] |= 1 << (code % 8)
	}
}

func (b *Bitmap) Or(o *Bitmap) {
	for i := range b {
		b[i] |= o[i]
	}
}

// Reader reads key state from the devices matching Glob.
type Reader struct {
	Glob string
}

func NewReader(glob string) Reader {
	if glob == "" {
		glob = "/dev/input/event*"
	}
	return Reader{Glob: glob}
}

//for tests
var readDevice = func(path string) (Bitmap, error) {
	var bm Bitmap
	f, err := os.Open(path)
	if err != nil {
		return bm, err
	}
	defer f.Close()
	err = ioctl.IoctlBuf(f.Fd(), ioctl.EVIOCGKEY(uintptr(len(bm))), bm[:])
	return bm, err
}

// State returns the union of held keys across devices. It fails only if no
// device could be read.
func (r Reader) State() (Bitmap, error) {
	var all Bitmap
	devs, err := fp.Glob(r.Glob)
	if err != nil {
		return all, err
	}
	read := 0
	for _, d := range devs {
		bm, err := readDevice(d)
		if err != nil {
			log.Debugf("key state of %s: %s", d, err)
			continue
		}
		read++
		all.Or(&bm)
	}
	if read == 0 {
		return all, fmt.Errorf("%w matches %s", ErrNoInput, r.Glob)
	}
	return all, nil
}

// AllHeld reports whether every code is held. An empty combo is never held.
func (r Reader) AllHeld(codes []uint16) (bool, error) {
	if len(codes) == 0 {
		return false, nil
	}
	bm, err := r.State()
	if err != nil {
		return false, err
	}
	for _, c := range codes {
		if !bm.IsSet(c) {
			return false, nil
		}
	}
	return true, nil
}
