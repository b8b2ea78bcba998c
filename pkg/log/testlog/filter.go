// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

//go:build !release

package testlog

import (
	"bufio"
	"regexp"
	"strings"
)

//a function that returns true if 'in' should be included in entries compared
type LineFilterer func(in string) (match bool)

//filter passing only calls to Msgf()
func FilterMsg() LineFilterer { return FilterPfx("MSG:") }

//filter passing only calls to Logf()
func FilterLog() LineFilterer { return FilterPfx("LOG:") }

//filter passing only calls to Errorf()
func FilterErr() LineFilterer { return FilterPfx("ERR:") }

//filter passing only calls to Debugf()
func FilterDebug() LineFilterer { return FilterPfx("DBG:") }

//filter passing every line
func FilterNone() LineFilterer { return func(string) bool { return true } }

//filter passing only lines with given prefix (note MSG:/LOG:/ERR:/DBG: added above)
func FilterPfx(pfx string) LineFilterer {
	return func(in string) bool { return strings.HasPrefix(in, pfx) }
}

//filter with given regex
func FilterRe(re string) LineFilterer {
	rx := regexp.MustCompile(re)
	return func(in string) bool {
		return rx.MatchString(in)
	}
}

//either filter may accept input
func FilterOr(f1, f2 LineFilterer) LineFilterer {
	return func(in string) bool {
		return f1(in) || f2(in)
	}
}

//Filter buffered log using lf as test. Return matches. Buffer is left empty.
//Assumes each entry is a single line.
func (tlog *TstLog) Filter(lf LineFilterer) []string {
	tlog.mu.Lock()
	defer tlog.mu.Unlock()
	if tlog.Buf == nil {
		tlog.t.Error("nil buffer")
		return nil
	}
	var lines []string
	scanner := bufio.NewScanner(tlog.Buf)
	for scanner.Scan() {
		if lf(scanner.Text()) {
			lines = append(lines, scanner.Text())
		}
	}
	return lines
}

// Contains reports whether any buffered line matching lf contains substr.
// Buffer is left empty.
func (tlog *TstLog) Contains(lf LineFilterer, substr string) bool {
	for _, l := range tlog.Filter(lf) {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}
