// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package guid handles uuid's encoded in the mixed-endianness format used by
// uefi - in GPT headers and partition entries, for example. For normal
// uuid-related functionality, use github.com/google/uuid.
package guid

import (
	"fmt"

	"github.com/google/uuid"
)

//A mixed-endianness guid, as stored on disk by uefi.
type MixedGuid [16]byte

//Converts MixedGuid to a uuid.UUID
func (m MixedGuid) ToStdEnc() (u uuid.UUID) {
	u[0], u[1], u[2], u[3] = m[3], m[2], m[1], m[0]
	u[4], u[5] = m[5], m[4]
	u[6], u[7] = m[7], m[6]
	copy(u[8:], m[8:])
	return
}

//Converts uuid.UUID to MixedGuid
func FromStdEnc(u uuid.UUID) (m MixedGuid) {
	m[0], m[1], m[2], m[3] = u[3], u[2], u[1], u[0]
	m[4], m[5] = u[5], u[4]
	m[6], m[7] = u[7], u[6]
	copy(m[8:], u[8:])
	return
}

// FromBytes reads a MixedGuid from 16 on-disk bytes.
func FromBytes(b []byte) (m MixedGuid, err error) {
	if len(b) != len(m) {
		return m, fmt.Errorf("guid: need %d bytes, got %d", len(m), len(b))
	}
	copy(m[:], b)
	return m, nil
}

// String is the conventional lower-case representation.
func (m MixedGuid) String() string { return m.ToStdEnc().String() }

// IsZero is true for the all-zero guid, which marks an unused GPT entry.
func (m MixedGuid) IsZero() bool { return m == MixedGuid{} }

// MustParse converts a textual guid (as printed by the firmware or in
// efivarfs file names) to its on-disk form. Panics on malformed input; only
// for use with constants.
func MustParse(s string) MixedGuid { return FromStdEnc(uuid.MustParse(s)) }
