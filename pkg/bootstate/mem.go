// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package bootstate

// MemStore keeps state in memory. Used for dry runs and simulations; the
// counters let tests check the save-once rule.
type MemStore struct {
	State   State
	Stored  bool //false until first Save, unless seeded
	Loads   int
	Saves   int
	LoadErr error
	SaveErr error
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns a store seeded with st.
func NewMemStore(st State) *MemStore {
	return &MemStore{State: st, Stored: true}
}

func (m *MemStore) Load() (State, error) {
	m.Loads++
	if m.LoadErr != nil {
		return State{}, m.LoadErr
	}
	if !m.Stored {
		return State{}, ErrNotFound
	}
	return m.State, nil
}

func (m *MemStore) Save(st State) error {
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.State = st
	m.Stored = true
	return nil
}
