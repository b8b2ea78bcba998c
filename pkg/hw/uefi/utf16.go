// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package uefi

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// DecodeUTF16 converts little-endian UCS-2/UTF-16, as used for CHAR16
// strings, to a go string. Decoding stops at the first NUL.
func DecodeUTF16(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("Must have even length byte slice")
	}
	u16s := make([]uint16, 0, len(b)/2)
	for i := 0; i < len(b); i += 2 {
		c := binary.LittleEndian.Uint16(b[i:])
		if c == 0 {
			break
		}
		u16s = append(u16s, c)
	}
	return string(utf16.Decode(u16s)), nil
}

// EncodeUTF16 converts s to a NUL-terminated little-endian CHAR16 string.
func EncodeUTF16(s string) []byte {
	u16s := utf16.Encode([]rune(s))
	b := make([]byte, 2*len(u16s)+2)
	for i, c := range u16s {
		binary.LittleEndian.PutUint16(b[2*i:], c)
	}
	return b
}

// ReadStringVar reads a variable holding a CHAR16 string.
func ReadStringVar(v EfiVar, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return DecodeUTF16(v.Data)
}
