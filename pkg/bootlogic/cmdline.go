// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package bootlogic

import "strings"

// MergeCmdline joins the platform's extra arguments and the supplied
// command line, extra first. Empty parts are skipped.
func MergeCmdline(extra, supplied string) string {
	var parts []string
	for _, p := range []string{extra, supplied} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
