// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package bootlogic

import (
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

// Fallback returns the next, more conservative target to try when t can't
// be booted. Unknown is absorbing; anything off the chain maps to Unknown.
func Fallback(t target.Target) target.Target {
	var next target.Target
	switch t {
	case target.Boot:
		next = target.Recovery
	case target.Recovery:
		next = target.Fastboot
	case target.Fastboot:
		next = target.DNX
	default:
		next = target.Unknown
	}
	log.Debugf("fallback: %s -> %s", t, next)
	return next
}

// FallbackChain lists t followed by every fallback, ending before Unknown.
func FallbackChain(t target.Target) []target.Target {
	var chain []target.Target
	for ; t != target.Unknown; t = Fallback(t) {
		chain = append(chain, t)
	}
	return chain
}
