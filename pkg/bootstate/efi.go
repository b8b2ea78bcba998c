// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package bootstate

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/uefi"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

// LoaderGuid is the vendor namespace of the loader's variables.
var LoaderGuid = uuid.MustParse("4a67b082-0a4c-41cf-b6c7-440b29bb8c4f")

const (
	VarOneshot          = "LoaderEntryOneShot"
	VarLast             = "LoaderEntryLast"
	VarWdtCounter       = "LoaderWdtCounter"
	VarRTCAlarmCharging = "LoaderRtcAlarmCharging"
)

// EfiStore keeps state in efi variables. Target names are CHAR16 strings,
// the counter and flag one byte each.
type EfiStore struct{}

var _ Store = EfiStore{}

func (EfiStore) Load() (st State, err error) {
	found := false
	readTarget := func(name string) target.Target {
		s, err := uefi.ReadStringVar(uefi.ReadVar(LoaderGuid, name))
		if err != nil {
			if !errors.Is(err, uefi.ErrVarNotFound) {
				log.Errorf("reading %s: %s", name, err)
			}
			return target.Unknown
		}
		found = true
		t, err := target.Parse(s)
		if err != nil {
			log.Errorf("%s: %s", name, err)
		}
		return t
	}
	readByte := func(name string) byte {
		v, err := uefi.ReadVar(LoaderGuid, name)
		if err != nil {
			if !errors.Is(err, uefi.ErrVarNotFound) {
				log.Errorf("reading %s: %s", name, err)
			}
			return 0
		}
		found = true
		if len(v.Data) < 1 {
			return 0
		}
		return v.Data[0]
	}
	st.OneshotTarget = readTarget(VarOneshot)
	st.LastTarget = readTarget(VarLast)
	st.WatchdogCounter = uint(readByte(VarWdtCounter))
	st.RTCAlarmCharging = readByte(VarRTCAlarmCharging) != 0
	if !found {
		return State{}, ErrNotFound
	}
	return st, nil
}

// Save writes every variable. efivarfs has no transactions; the one-shot
// variable is handled first so a torn save never replays it.
func (EfiStore) Save(st State) error {
	if st.OneshotTarget == target.Unknown {
		err := uefi.DeleteVar(LoaderGuid, VarOneshot)
		if err != nil && !errors.Is(err, uefi.ErrVarNotFound) {
			return fmt.Errorf("clearing %s: %w", VarOneshot, err)
		}
	} else if err := writeString(VarOneshot, st.OneshotTarget.String()); err != nil {
		return err
	}
	if err := writeString(VarLast, st.LastTarget.String()); err != nil {
		return err
	}
	wdt := st.WatchdogCounter
	if wdt > 0xff {
		wdt = 0xff
	}
	if err := writeBytes(VarWdtCounter, []byte{byte(wdt)}); err != nil {
		return err
	}
	return writeBytes(VarRTCAlarmCharging, []byte{boolByte(st.RTCAlarmCharging)})
}

func writeString(name, val string) error {
	return writeBytes(name, uefi.EncodeUTF16(val))
}

func writeBytes(name string, data []byte) error {
	err := uefi.WriteVar(uefi.EfiVar{Guid: LoaderGuid, Name: name, Attrs: uefi.DefaultAttrs, Data: data})
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
