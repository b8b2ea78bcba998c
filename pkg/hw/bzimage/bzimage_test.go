// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package bzimage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	fp "path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testDesc = "4.19.16-norm_boot (user@host) #300 SMP Fri Jan 25 16:32:19 UTC 2019"

// mkImage returns a minimal file carrying a valid setup header.
func mkImage(desc string) []byte {
	img := make([]byte, 0x1000)
	img[510], img[511] = 0x55, 0xaa
	copy(img[514:], "HdrS")
	binary.LittleEndian.PutUint16(img[526:], 0x200)
	copy(img[0x400:], desc)
	return img
}

func TestDesc(t *testing.T) {
	d, err := Desc(bytes.NewReader(mkImage(testDesc)))
	if err != nil {
		t.Fatal(err)
	}
	if d != testDesc {
		t.Errorf("got %q", d)
	}

	bad := mkImage(testDesc)
	bad[510] = 0
	if _, err = Desc(bytes.NewReader(bad)); !errors.Is(err, EBootSig) {
		t.Errorf("got %v", err)
	}
	bad = mkImage(testDesc)
	copy(bad[514:], "Nope")
	if _, err = Desc(bytes.NewReader(bad)); !errors.Is(err, EBadSig) {
		t.Errorf("got %v", err)
	}
	bad = mkImage(testDesc)
	copy(bad[526:], []byte{0, 0, 0, 0})
	if _, err = Desc(bytes.NewReader(bad)); !errors.Is(err, EBadOff) {
		t.Errorf("got %v", err)
	}
	//string runs off the end of the file
	bad = mkImage("")
	for i := 0x400; i < len(bad); i++ {
		bad[i] = 'x'
	}
	if _, err = Desc(bytes.NewReader(bad)); !errors.Is(err, EBadStr) {
		t.Errorf("got %v", err)
	}
}

func TestCheck(t *testing.T) {
	p := fp.Join(t.TempDir(), "vmlinuz")
	if _, err := Check(p); !os.IsNotExist(errors.Unwrap(err)) && !os.IsNotExist(err) {
		t.Errorf("got %v", err)
	}
	if err := os.WriteFile(p, mkImage(testDesc), 0644); err != nil {
		t.Fatal(err)
	}
	if d, err := Check(p); err != nil || d != testDesc {
		t.Errorf("got %q %v", d, err)
	}
}

func TestParseRelease(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Release
		err  bool
	}{
		{testDesc, Release{Maj: 4, Min: 19, Patch: 16, LocalVer: "norm_boot"}, false},
		{"2.6.24.111 (bluebat@linux-vm-os64.site) #606", Release{Maj: 2, Min: 6, Patch: 24}, false},
		{"6.1 #1", Release{Maj: 6, Min: 1}, false},
		{"", Release{}, true},
		{"linux", Release{}, true},
	} {
		got, err := ParseRelease(tc.in)
		if (err != nil) != tc.err {
			t.Errorf("%q: err %v", tc.in, err)
			continue
		}
		if err == nil {
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("%q: -want +got:\n%s", tc.in, diff)
			}
		}
	}
	if s := (Release{Maj: 4, Min: 19, Patch: 16, LocalVer: "x"}).String(); s != "4.19.16-x" {
		t.Errorf("got %s", s)
	}
}
