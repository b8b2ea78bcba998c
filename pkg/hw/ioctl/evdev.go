// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package ioctl

// EVIOCGKEY fetches the global key state of an input device as a bitmap of
// len bytes.
func EVIOCGKEY(len uintptr) uintptr { return IOR('E', 0x18, len) }
