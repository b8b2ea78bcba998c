// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package bzimage checks that a file is an x86 linux boot image and reads
// the version string embedded in its setup header.
package bzimage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

/*
values from kernel documentation and libmagic src

off val
510 0xAA55
514 HdrS
526	(4 bytes) != 0x0000
526 (2 bytes, little endian) + 0x200 -> start of null-terminated version string
*/

var (
	EBootSig = errors.New("missing 0x55AA boot sig")
	EBadSig  = errors.New("missing kernel header sig")
	EBadOff  = errors.New("null version string offset")
	EBadStr  = errors.New("missing termination in version string")
	EParse   = errors.New("parse error")
)

const maxDesc = 1024

// Desc reads the kernel version string.
func Desc(k io.ReaderAt) (string, error) {
	var hdr [530]byte
	if _, err := k.ReadAt(hdr[:], 0); err != nil {
		return "", err
	}
	if !bytes.Equal(hdr[510:512], []byte{0x55, 0xaa}) {
		return "", EBootSig
	}
	if string(hdr[514:518]) != "HdrS" {
		return "", EBadSig
	}
	if bytes.Equal(hdr[526:530], []byte{0, 0, 0, 0}) {
		return "", EBadOff
	}
	off := int64(binary.LittleEndian.Uint16(hdr[526:528])) + 0x200
	buf := make([]byte, maxDesc)
	n, err := k.ReadAt(buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	i := bytes.IndexByte(buf[:n], 0)
	if i < 0 {
		return "", EBadStr
	}
	return string(buf[:i]), nil
}

// Check opens path and returns its version string.
func Check(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	d, err := Desc(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Release is the leading "maj.min.patch[-localver]" of a version string.
type Release struct {
	Maj, Min, Patch uint64
	LocalVer        string
}

func (r Release) String() string {
	s := fmt.Sprintf("%d.%d.%d", r.Maj, r.Min, r.Patch)
	if r.LocalVer != "" {
		s += "-" + r.LocalVer
	}
	return s
}

// ParseRelease parses the release out of a version string such as
// "4.19.16-norm_boot (user@host) #300 SMP Fri Jan 25 16:32:19 UTC 2019".
func ParseRelease(desc string) (Release, error) {
	var r Release
	fields := strings.Fields(desc)
	if len(fields) == 0 {
		return r, EParse
	}
	rel := fields[0]
	if i := strings.IndexByte(rel, '-'); i >= 0 {
		r.LocalVer = rel[i+1:]
		rel = rel[:i]
	}
	nums := strings.Split(rel, ".")
	if len(nums) < 2 {
		return r, fmt.Errorf("%w: release %q", EParse, fields[0])
	}
	dst := []*uint64{&r.Maj, &r.Min, &r.Patch}
	for i, n := range nums {
		if i == len(dst) {
			break
		}
		v, err := strconv.ParseUint(n, 10, 64)
		if err != nil {
			return r, fmt.Errorf("%w: release %q", EParse, fields[0])
		}
		*dst[i] = v
	}
	return r, nil
}
