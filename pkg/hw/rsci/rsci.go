// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package rsci decodes the RSCI acpi table, in which firmware reports why
// the device woke, reset or last shut down.
package rsci

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/u-root/u-root/pkg/acpi"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootlogic"
)

// TablePath is where linux exposes the table.
var TablePath = "/sys/firmware/acpi/tables/RSCI"

var (
	ErrBadSignature = errors.New("rsci: bad signature")
	ErrBadChecksum  = errors.New("rsci: bad checksum")
	ErrShort        = errors.New("rsci: table too short")
)

const (
	acpiHeaderLen = 36
	tableLen      = acpiHeaderLen + 8
)

type ResetType uint8

const (
	ResetTypeNotApplicable ResetType = iota
	ResetTypeWarm
	ResetTypeCold
	ResetTypeGlobal
)

func (r ResetType) String() string {
	switch r {
	case ResetTypeNotApplicable:
		return "not-applicable"
	case ResetTypeWarm:
		return "warm"
	case ResetTypeCold:
		return "cold"
	case ResetTypeGlobal:
		return "global"
	}
	return fmt.Sprintf("reset-type(%d)", uint8(r))
}

// Table holds the raw values. Use the accessors to get them as signals.
type Table struct {
	OEMID      string
	Revision   uint8
	Wake       uint8
	Reset      uint8
	ResetType  ResetType
	Shutdown   uint8
	Indicators uint32
}

// Parse decodes and verifies a raw table.
func Parse(b []byte) (*Table, error) {
	if len(b) < 8 {
		return nil, ErrShort
	}
	//a zero or sub-header length would stall or crash the splitter
	length := binary.LittleEndian.Uint32(b[4:])
	if length < tableLen || int(length) > len(b) {
		return nil, fmt.Errorf("%w: header says %d bytes, have %d", ErrShort, length, len(b))
	}
	tabs, err := acpi.NewRaw(b[:length])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrShort, err)
	}
	if len(tabs) == 0 {
		return nil, ErrShort
	}
	return decode(tabs[0])
}

// Read reads and parses the table at TablePath. The length is checked
// before acpi splits the file into tables.
func Read() (*Table, error) {
	b, err := os.ReadFile(TablePath)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func decode(raw acpi.Table) (*Table, error) {
	if raw.Sig() != "RSCI" {
		return nil, ErrBadSignature
	}
	var sum byte
	for _, c := range raw.Data() {
		sum += c
	}
	if sum != 0 {
		return nil, ErrBadChecksum
	}
	d := raw.TableData()
	if len(d) < tableLen-acpiHeaderLen {
		return nil, ErrShort
	}
	t := &Table{
		Revision:   raw.Revision(),
		OEMID:      string(trimNul(raw.Data()[10:16])),
		Wake:       d[0],
		Reset:      d[1],
		ResetType:  ResetType(d[2]),
		Shutdown:   d[3],
		Indicators: binary.LittleEndian.Uint32(d[4:]),
	}
	return t, nil
}

// Encode builds a raw table, checksum included. Used to fake firmware.
func (t *Table) Encode() []byte {
	b := make([]byte, tableLen)
	copy(b, "RSCI")
	binary.LittleEndian.PutUint32(b[4:], tableLen)
	b[8] = t.Revision
	copy(b[10:16], t.OEMID)
	b[acpiHeaderLen] = t.Wake
	b[acpiHeaderLen+1] = t.Reset
	b[acpiHeaderLen+2] = byte(t.ResetType)
	b[acpiHeaderLen+3] = t.Shutdown
	binary.LittleEndian.PutUint32(b[acpiHeaderLen+4:], t.Indicators)
	var sum byte
	for _, c := range b {
		sum += c
	}
	b[9] = -sum
	return b
}

//firmware numbering matches the bootlogic enums up to, not including, Error
func (t *Table) WakeSource() bootlogic.WakeSource {
	if t.Wake >= uint8(bootlogic.WakeError) {
		return bootlogic.WakeError
	}
	return bootlogic.WakeSource(t.Wake)
}

func (t *Table) ResetSource() bootlogic.ResetSource {
	if t.Reset >= uint8(bootlogic.ResetError) {
		return bootlogic.ResetError
	}
	return bootlogic.ResetSource(t.Reset)
}

func (t *Table) ShutdownSource() bootlogic.ShutdownSource {
	if t.Shutdown >= uint8(bootlogic.ShutdownError) {
		return bootlogic.ShutdownError
	}
	return bootlogic.ShutdownSource(t.Shutdown)
}

// Vars returns the values exported to the OS, keyed by efi variable name.
func (t *Table) Vars() map[string][]byte {
	ind := make([]byte, 4)
	binary.LittleEndian.PutUint32(ind, t.Indicators)
	return map[string][]byte{
		"WakeSource":     {t.Wake},
		"ResetSource":    {t.Reset},
		"ResetType":      {byte(t.ResetType)},
		"ShutdownSource": {t.Shutdown},
		"Indicators":     ind,
	}
}

func trimNul(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}
