// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package gpt reads and sanity-checks a GUID partition table: header
// signature, header and entry array crc32, and presence of the partitions
// the loader needs.
package gpt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	ugpt "github.com/u-root/u-root/pkg/mount/gpt"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/guid"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/ioctl"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/uefi"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
)

var (
	ErrBadSignature     = errors.New("gpt: bad header signature")
	ErrBadCRC           = errors.New("gpt: crc mismatch")
	ErrBadEntryArray    = errors.New("gpt: implausible partition entry array")
	ErrMissingPartition = errors.New("gpt: required partition missing")
)

// Header is the on-disk primary header.
type Header = ugpt.Header

const (
	Signature = ugpt.Signature
	Revision  = ugpt.Revision

	minEntrySize  = 128
	//whole entry array
	maxEntryArray = 1 << 20
)

// EspType is the partition type guid of an efi system partition.
var EspType = guid.MustParse("c12a7328-f81f-11d2-ba4b-00a0c93ec93b")

type Partition struct {
	Index    int
	Type     guid.MixedGuid
	ID       guid.MixedGuid
	FirstLBA uint64
	LastLBA  uint64
	Attrs    uint64
	Name     string
}

func (p Partition) String() string {
	return fmt.Sprintf("%d: %q type=%s id=%s lba=%d-%d", p.Index, p.Name, p.Type, p.ID, p.FirstLBA, p.LastLBA)
}

type Table struct {
	SectorSize int
	//0 unless read from a block device
	DiskSize   uint64
	Header     Header
	Partitions []Partition
}

// Read parses and verifies the primary gpt of a disk with the given sector
// size. The entry array geometry is checked before anything is allocated
// for it.
func Read(r io.ReaderAt, sectorSize int) (*Table, error) {
	var h Header
	if err := binary.Read(io.NewSectionReader(r, int64(sectorSize), ugpt.HeaderSize), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("gpt: reading header: %w", err)
	}
	if h.Signature != Signature {
		return nil, ErrBadSignature
	}
	if err := checkEntryArray(&h, sectorSize); err != nil {
		return nil, err
	}
	rd := r
	if sectorSize != ugpt.BlockSize {
		rd = &sectorReader{r: r, ss: int64(sectorSize), entries: int64(h.PartStart)}
	}
	g, err := ugpt.Table(rd, ugpt.HeaderOff)
	if err != nil {
		if g != nil {
			//only crc failures hand back the header
			return nil, fmt.Errorf("%w: %s", ErrBadCRC, err)
		}
		return nil, fmt.Errorf("gpt: %w", err)
	}
	t := &Table{SectorSize: sectorSize, Header: g.Header}
	for i, e := range g.Parts {
		p := Partition{Index: i + 1, Type: mixed(e.PartGUID)}
		if p.Type.IsZero() {
			continue
		}
		p.ID = mixed(e.UniqueGUID)
		p.FirstLBA = e.FirstLBA
		p.LastLBA = e.LastLBA
		p.Attrs = uint64(e.Attribute)
		name, err := uefi.DecodeUTF16(e.Name[:])
		if err != nil {
			log.Logf("gpt: entry %d: %s", p.Index, err)
		}
		p.Name = name
		t.Partitions = append(t.Partitions, p)
	}
	return t, nil
}

func checkEntryArray(h *Header, sectorSize int) error {
	switch {
	case h.PartStart < 2:
		return fmt.Errorf("%w: entries at lba %d", ErrBadEntryArray, h.PartStart)
	case h.PartSize < minEntrySize, h.PartSize%minEntrySize != 0, int(h.PartSize) > sectorSize:
		return fmt.Errorf("%w: entry size %d", ErrBadEntryArray, h.PartSize)
	case uint64(h.NPart)*uint64(h.PartSize) > maxEntryArray:
		return fmt.Errorf("%w: %d x %d", ErrBadEntryArray, h.NPart, h.PartSize)
	}
	return nil
}

// sectorReader presents a disk with large sectors as if it had 512 byte
// sectors, for the header and entry array offsets only.
type sectorReader struct {
	r       io.ReaderAt
	ss      int64
	entries int64
}

func (s *sectorReader) ReadAt(b []byte, off int64) (int, error) {
	if base := s.entries * ugpt.BlockSize; off >= base {
		return s.r.ReadAt(b, s.entries*s.ss+off-base)
	}
	return s.r.ReadAt(b, s.ss+off-ugpt.HeaderOff)
}

func mixed(g ugpt.GUID) (m guid.MixedGuid) {
	binary.LittleEndian.PutUint32(m[0:], g.L)
	binary.LittleEndian.PutUint16(m[4:], g.W1)
	binary.LittleEndian.PutUint16(m[6:], g.W2)
	copy(m[8:], g.B[:])
	return m
}

// ReadDevice reads the gpt of a block device or image file. The device's
// logical sector size is tried first, then 512 and 4096 bytes.
func ReadDevice(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sizes := []int{512, 4096}
	var diskSize uint64
	if ss, err := ioctl.BlkGetSectorSize(f); err == nil && ss != 0 {
		sizes = append([]int{int(ss)}, sizes...)
		diskSize, _ = ioctl.BlkGetSize64(f)
	}
	var firstErr error
	for _, ss := range sizes {
		t, err := Read(f, ss)
		if err == nil {
			t.DiskSize = diskSize
			return t, nil
		}
		if firstErr == nil || !errors.Is(err, ErrBadSignature) {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("%s: %w", path, firstErr)
}

// Find returns the partition with the given name.
func (t *Table) Find(name string) (Partition, bool) {
	for _, p := range t.Partitions {
		if p.Name == name {
			return p, true
		}
	}
	return Partition{}, false
}

// Require checks that every named partition is present.
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := t.Find(n); !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %q", ErrMissingPartition, missing)
	}
	return nil
}

// Validate reads the table on dev and requires the named partitions.
func Validate(dev string, required []string) error {
	t, err := ReadDevice(dev)
	if err != nil {
		return err
	}
	log.Debugf("gpt on %s: %d partitions, disk %s", dev, len(t.Partitions), mixed(t.Header.DiskGUID))
	return t.Require(required...)
}
