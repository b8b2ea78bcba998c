// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package guid

import (
	"bytes"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	in := []byte{0xCD, 0x5C, 0x63, 0x81, 0x4F, 0x1B, 0x3F, 0x4D, 0xB7, 0xB7, 0xF7, 0x8A, 0x5B, 0x02, 0x9F, 0x35}
	want := "81635ccd-1b4f-4d3f-b7b7-f78a5b029f35"

	m, err := FromBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	got := m.String()
	if got != want {
		t.Errorf("mismatch\n%s\n%s", want, got)
	}
	back := FromStdEnc(m.ToStdEnc())
	if !bytes.Equal(back[:], in) {
		t.Errorf("mismatch\n%x\n%x", in, back)
	}
	if MustParse(want) != m {
		t.Errorf("MustParse(%s) = %x", want, MustParse(want))
	}
}

//EFI system partition type guid, as found in a GPT entry
func TestESP(t *testing.T) {
	onDisk := []byte{0x28, 0x73, 0x2a, 0xc1, 0x1f, 0xf8, 0xd2, 0x11, 0xba, 0x4b, 0x00, 0xa0, 0xc9, 0x3e, 0xc9, 0x3b}
	m, err := FromBytes(onDisk)
	if err != nil {
		t.Fatal(err)
	}
	if m.String() != "c12a7328-f81f-11d2-ba4b-00a0c93ec93b" {
		t.Errorf("got %s", m)
	}
	if m.IsZero() {
		t.Error("not zero")
	}
	if _, err := FromBytes(onDisk[:3]); err == nil {
		t.Error("expected error for short input")
	}
}
