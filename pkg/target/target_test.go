// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package target

import (
	"encoding/json"
	"testing"
)

func TestNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, tg := range All() {
		n := tg.String()
		if seen[n] {
			t.Errorf("duplicate name %s", n)
		}
		seen[n] = true
		back, err := Parse(n)
		if err != nil {
			t.Errorf("Parse(%s): %s", n, err)
		}
		if back != tg {
			t.Errorf("Parse(%s) = %d, want %d", n, back, tg)
		}
	}
	if _, err := Parse("main"); err == nil {
		t.Error("expected error for unrecognized name")
	}
	if Target(42).String() != "target(42)" {
		t.Errorf("got %s", Target(42))
	}
}

func TestLoadable(t *testing.T) {
	for tg, want := range map[Target]bool{
		Unknown:    false,
		ColdOff:    false,
		Boot:       true,
		Charging:   true,
		DNX:        true,
		Target(99): false,
	} {
		if tg.Loadable() != want {
			t.Errorf("%s: want %t", tg, want)
		}
	}
}

func TestJSON(t *testing.T) {
	type rec struct {
		Last Target `json:"last"`
	}
	b, err := json.Marshal(rec{Last: Fastboot})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"last":"fastboot"}` {
		t.Errorf("got %s", b)
	}
	var r rec
	if err = json.Unmarshal([]byte(`{"last":"cold-off"}`), &r); err != nil {
		t.Fatal(err)
	}
	if r.Last != ColdOff {
		t.Errorf("got %s", r.Last)
	}
	if err = json.Unmarshal([]byte(`{"last":"bogus"}`), &r); err == nil {
		t.Error("expected error")
	}
}
