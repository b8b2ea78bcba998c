// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

//go:build !release

package testlog

import (
	"flag"
)

// DumpFull writes the complete log if a comparison fails.
//
// Example:
//   go test ./pkg/bootlogic -run Watchdog -dumpFull
var DumpFull = flag.Bool("dumpFull", false, "on failure, write out complete log")

//Freezes the log, filters the buffer, and compares remaining lines to want.
//Buffer is left empty. Assumes each entry is a single line.
func (tlog *TstLog) LinesMustMatch(lf LineFilterer, want []string) bool {
	tlog.t.Helper()
	tlog.Freeze()
	if tlog.Buf == nil {
		tlog.t.Error("nil buffer")
		return false
	}
	all := tlog.Buf.String()
	got := tlog.Filter(lf)
	success := true
	if len(got) != len(want) {
		tlog.t.Errorf("len mismatch - got %d want %d", len(got), len(want))
		success = false
	}
	for i, l := range got {
		if i < len(want) && l != want[i] {
			tlog.t.Errorf("\n got %s\nwant %s", l, want[i])
			success = false
		}
	}
	if !success {
		tlog.t.Logf("got:\n%#v", got)
		tlog.t.Logf("wanted:\n%#v", want)
		if *DumpFull {
			tlog.t.Logf("all:\n%s", all)
		}
	}
	return success
}
