// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package gpt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"os"
	fp "path/filepath"
	"testing"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/guid"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/uefi"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log/testlog"
)

var linuxData = guid.MustParse("0fc63daf-8483-4772-8e79-3d69d8477de4")

// builds a disk image with a primary gpt holding the named partitions
func mkImage(t *testing.T, ss int, names ...string) []byte {
	t.Helper()
	return mkImageHdr(t, ss, nil, names...)
}

// like mkImage, but fix may alter the header before its crc is computed
func mkImageHdr(t *testing.T, ss int, fix func(*Header), names ...string) []byte {
	t.Helper()
	const numEntries, entrySize = 128, 128
	img := make([]byte, ss*2+numEntries*entrySize)
	entries := img[2*ss:]
	for i, n := range names {
		e := entries[i*entrySize:]
		tp := linuxData
		if i == 0 {
			tp = EspType
		}
		id := guid.MustParse("00000000-0000-0000-0000-00000000000" + string(rune('1'+i)))
		copy(e[0:], tp[:])
		copy(e[16:], id[:])
		binary.LittleEndian.PutUint64(e[32:], uint64(2048*(i+1)))
		binary.LittleEndian.PutUint64(e[40:], uint64(2048*(i+2)-1))
		copy(e[56:128], uefi.EncodeUTF16(n))
	}
	h := Header{
		Signature:  Signature,
		Revision:   Revision,
		HeaderSize: 92,
		CurrentLBA: 1,
		PartStart:  2,
		NPart:      numEntries,
		PartSize:   entrySize,
		PartCRC:    crc32.ChecksumIEEE(entries),
	}
	if fix != nil {
		fix(&h)
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		t.Fatal(err)
	}
	hdr := buf.Bytes()
	binary.LittleEndian.PutUint32(hdr[16:], crc32.ChecksumIEEE(hdr))
	copy(img[ss:], hdr)
	return img
}

func TestRead(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	img := mkImage(t, 512, "ESP", "boot", "recovery", "fastboot")
	tbl, err := Read(bytes.NewReader(img), 512)
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Partitions) != 4 {
		t.Fatalf("got %d partitions", len(tbl.Partitions))
	}
	esp, ok := tbl.Find("ESP")
	if !ok || esp.Type != EspType || esp.FirstLBA != 2048 || esp.Index != 1 {
		t.Errorf("esp: %s", esp)
	}
	if err = tbl.Require("boot", "recovery"); err != nil {
		t.Error(err)
	}
	err = tbl.Require("boot", "dnx", "misc")
	if !errors.Is(err, ErrMissingPartition) {
		t.Errorf("got %v", err)
	}
}

func TestCorruption(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	for _, tc := range []struct {
		name   string
		offset int
		want   error
	}{
		{"signature", 512, ErrBadSignature},
		{"header", 512 + 40, ErrBadCRC},
		{"entries", 1024 + 60, ErrBadCRC},
	} {
		img := mkImage(t, 512, "boot")
		img[tc.offset] ^= 0xff
		_, err := Read(bytes.NewReader(img), 512)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v", tc.name, err)
		}
	}
}

// Headers with valid crcs but absurd entry arrays must be refused before
// the array is read.
func TestEntryArrayBounds(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	for _, tc := range []struct {
		name string
		fix  func(*Header)
		want error
	}{
		{"huge entry", func(h *Header) { h.NPart, h.PartSize = 1024, 0x7fffffff }, ErrBadEntryArray},
		{"odd entry", func(h *Header) { h.PartSize = 136 }, ErrBadEntryArray},
		{"short entry", func(h *Header) { h.PartSize = 64 }, ErrBadEntryArray},
		{"entry beyond sector", func(h *Header) { h.PartSize = 1024 }, ErrBadEntryArray},
		{"entries over header", func(h *Header) { h.PartStart = 1 }, ErrBadEntryArray},
		{"too many entries", func(h *Header) { h.NPart = 16384 }, ErrBadEntryArray},
	} {
		img := mkImageHdr(t, 512, tc.fix, "boot")
		_, err := Read(bytes.NewReader(img), 512)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v", tc.name, err)
		}
	}
	//within our bounds but above what the reader accepts
	img := mkImageHdr(t, 512, func(h *Header) { h.NPart = 256 }, "boot")
	if _, err := Read(bytes.NewReader(img), 512); err == nil {
		t.Error("256 entries accepted")
	}
}

func TestValidateDevice(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()

	dir := t.TempDir()
	for _, ss := range []int{512, 4096} {
		dev := fp.Join(dir, "disk.img")
		if err := os.WriteFile(dev, mkImage(t, ss, "boot", "recovery"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := Validate(dev, []string{"boot", "recovery"}); err != nil {
			t.Errorf("sector size %d: %s", ss, err)
		}
	}
	blank := fp.Join(dir, "blank.img")
	if err := os.WriteFile(blank, make([]byte, 16384), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Validate(blank, nil); !errors.Is(err, ErrBadSignature) {
		t.Errorf("got %v", err)
	}
}
