// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package dmi reads board identification strings exported by the kernel's
// dmi-id driver. Values are cached after the first read.
package dmi

import (
	"os"
	fp "path/filepath"
	"strings"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
)

type DmiStrMap map[string]string

var SysfsDir = "/sys/class/dmi/id"

type dmiCache struct {
	strings   DmiStrMap
	onlyCache bool //use with TestingMock() - only allow cache lookups, no sysfs reads
}

var cache = dmiCache{strings: DmiStrMap{}}

// Keys shown by Info, in order.
var Keys = []string{"sys_vendor", "product_name", "board_name", "bios_vendor", "bios_version", "bios_date"}

func TestingMock(s DmiStrMap) {
	cache = dmiCache{
		strings:   s,
		onlyCache: true,
	}
}

func Clear() {
	cache.strings = make(DmiStrMap)
	cache.onlyCache = false
}

// String returns the named attribute, or "" if it can't be read.
func String(key string) string {
	return cache.str(key)
}
func (d dmiCache) str(key string) string {
	str, ok := d.strings[key]
	if ok || d.onlyCache {
		return str
	}
	out, err := os.ReadFile(fp.Join(SysfsDir, key))
	if err != nil {
		log.Debugf("dmi %s: %s", key, err)
		return ""
	}
	str = strings.TrimSpace(string(out))
	d.strings[key] = str
	return str
}

// Info returns the non-empty attributes among Keys.
func Info() (keys, vals []string) {
	for _, k := range Keys {
		if v := String(k); v != "" {
			keys = append(keys, k)
			vals = append(vals, v)
		}
	}
	return
}
