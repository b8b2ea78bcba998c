// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package uefi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	fp "path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
)

// efivarfs mount point. Each file is named <Name>-<guid> and contains a
// little-endian uint32 of attributes followed by the variable's data.
var EfivarfsDir = "/sys/firmware/efi/efivars"

var ErrVarNotFound = errors.New("efi variable not found")

type Attr uint32

const (
	AttrNonVolatile       Attr = 0x1
	AttrBootserviceAccess Attr = 0x2
	AttrRuntimeAccess     Attr = 0x4

	//what the loader uses for everything it persists
	DefaultAttrs = AttrNonVolatile | AttrBootserviceAccess | AttrRuntimeAccess
)

//a generic efi var
type EfiVar struct {
	Guid  uuid.UUID
	Name  string
	Attrs Attr
	Data  []byte
}
type EfiVars []EfiVar

func (v EfiVar) String() string {
	return fmt.Sprintf("%s-%s: attrs=0x%x, %d bytes", v.Name, v.Guid, uint32(v.Attrs), len(v.Data))
}

func varPath(guid uuid.UUID, name string) string {
	return fp.Join(EfivarfsDir, name+"-"+guid.String())
}

// ReadVar reads a single variable. A missing variable is reported as
// ErrVarNotFound.
func ReadVar(guid uuid.UUID, name string) (e EfiVar, err error) {
	e.Guid = guid
	e.Name = name
	raw, err := os.ReadFile(varPath(guid, name))
	if err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("%s-%s: %w", name, guid, ErrVarNotFound)
		}
		return
	}
	if len(raw) < 4 {
		err = fmt.Errorf("%s-%s: short read (%d bytes)", name, guid, len(raw))
		return
	}
	e.Attrs = Attr(binary.LittleEndian.Uint32(raw[:4]))
	e.Data = raw[4:]
	return
}

// WriteVar creates or replaces a variable. efivarfs requires attributes and
// data in a single write.
func WriteVar(v EfiVar) error {
	if v.Attrs == 0 {
		v.Attrs = DefaultAttrs
	}
	path := varPath(v.Guid, v.Name)
	if err := makeMutable(path); err != nil && !os.IsNotExist(err) {
		log.Debugf("clearing immutable flag on %s: %s", path, err)
	}
	buf := make([]byte, 4+len(v.Data))
	binary.LittleEndian.PutUint32(buf, uint32(v.Attrs))
	copy(buf[4:], v.Data)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	if _, err = f.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	//efivarfs sizes the file itself and rejects truncation; a plain
	//directory standing in for it needs the old tail cut off
	_ = f.Truncate(int64(len(buf)))
	return f.Close()
}

// DeleteVar removes a variable. Deleting a missing variable returns
// ErrVarNotFound, which callers treating deletion as "ensure absent" may
// ignore.
func DeleteVar(guid uuid.UUID, name string) error {
	path := varPath(guid, name)
	if err := makeMutable(path); err != nil && !os.IsNotExist(err) {
		log.Debugf("clearing immutable flag on %s: %s", path, err)
	}
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s-%s: %w", name, guid, ErrVarNotFound)
	}
	return err
}

//Returns all efi variables
func AllVars() (vars EfiVars) { return ReadVars(nil) }

//Returns efi variables matching filter
func ReadVars(filt VarFilter) (vars EfiVars) {
	entries, err := os.ReadDir(EfivarfsDir)
	if err != nil {
		log.Logf("error reading efi vars: %s", err)
		return
	}
	for _, entry := range entries {
		base := entry.Name()
		//guid is the last 36 chars, preceded by a dash
		if len(base) < 38 || base[len(base)-37] != '-' {
			log.Debugf("skipping %s - not a valid var?", base)
			continue
		}
		name := base[:len(base)-37]
		guid, err := uuid.Parse(base[len(base)-36:])
		if err != nil {
			log.Debugf("skipping %s: %s", base, err)
			continue
		}
		if filt != nil && !filt(guid, name) {
			continue
		}
		v, err := ReadVar(guid, name)
		if err != nil {
			log.Logf("reading efi var %s: %s", base, err)
			continue
		}
		vars = append(vars, v)
	}
	return
}

//A type of function used to filter efi vars
type VarFilter func(guid uuid.UUID, name string) bool

//Passes vars in the given vendor namespace.
func GuidFilter(g uuid.UUID) VarFilter {
	return func(guid uuid.UUID, _ string) bool { return guid == g }
}

//Passes vars whose name starts with pfx.
func PrefixFilter(pfx string) VarFilter {
	return func(_ uuid.UUID, name string) bool { return strings.HasPrefix(name, pfx) }
}

//Returns true only if all given filters return true.
func AndFilter(filters ...VarFilter) VarFilter {
	return func(g uuid.UUID, n string) bool {
		for _, f := range filters {
			if !f(g, n) {
				return false
			}
		}
		return true
	}
}

func (vars EfiVars) Filter(filt VarFilter) EfiVars {
	var res EfiVars
	for _, v := range vars {
		if filt(v.Guid, v.Name) {
			res = append(res, v)
		}
	}
	return res
}
