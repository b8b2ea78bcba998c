// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package bootstate

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

var (
	keyLast     = []byte("bootstate/last_target")
	keyOneshot  = []byte("bootstate/oneshot_target")
	keyWdt      = []byte("bootstate/watchdog_counter")
	keyRTCAlarm = []byte("bootstate/rtc_alarm_charging")
)

// BadgerStore keeps each field under its own key; Save writes them all in
// one transaction.
type BadgerStore struct {
	db *badger.DB
}

var _ Store = (*BadgerStore)(nil)

func OpenBadger(dir string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil).WithSyncWrites(true))
	if err != nil {
		return nil, fmt.Errorf("opening badger db %s: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) Close() error { return b.db.Close() }

func (b *BadgerStore) Load() (st State, err error) {
	found := false
	err = b.db.View(func(txn *badger.Txn) error {
		get := func(key []byte) ([]byte, error) {
			item, err := txn.Get(key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			found = true
			return item.ValueCopy(nil)
		}
		for _, t := range []struct {
			key []byte
			dst *target.Target
		}{{keyLast, &st.LastTarget}, {keyOneshot, &st.OneshotTarget}} {
			v, err := get(t.key)
			if err != nil {
				return err
			}
			if v == nil {
				continue
			}
			if err = t.dst.UnmarshalText(v); err != nil {
				log.Errorf("badger key %s: %s", t.key, err)
				*t.dst = target.Unknown
			}
		}
		v, err := get(keyWdt)
		if err != nil {
			return err
		}
		if len(v) == 4 {
			st.WatchdogCounter = uint(binary.LittleEndian.Uint32(v))
		}
		v, err = get(keyRTCAlarm)
		if err != nil {
			return err
		}
		st.RTCAlarmCharging = len(v) == 1 && v[0] != 0
		return nil
	})
	if err != nil {
		return State{}, err
	}
	if !found {
		return State{}, ErrNotFound
	}
	return st, nil
}

func (b *BadgerStore) Save(st State) error {
	return b.db.Update(func(txn *badger.Txn) error {
		last, _ := st.LastTarget.MarshalText()
		if err := txn.Set(keyLast, last); err != nil {
			return err
		}
		if st.OneshotTarget == target.Unknown {
			if err := txn.Delete(keyOneshot); err != nil {
				return err
			}
		} else {
			oneshot, _ := st.OneshotTarget.MarshalText()
			if err := txn.Set(keyOneshot, oneshot); err != nil {
				return err
			}
		}
		wdt := make([]byte, 4)
		binary.LittleEndian.PutUint32(wdt, uint32(st.WatchdogCounter))
		if err := txn.Set(keyWdt, wdt); err != nil {
			return err
		}
		return txn.Set(keyRTCAlarm, []byte{boolByte(st.RTCAlarmCharging)})
	})
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
