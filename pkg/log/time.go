// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

//Format: yyyymmdd_hhmmss. Boot attempts can be seconds apart.
const DefaultTimestampLayout = "20060102_150405"

var TimestampLayout = DefaultTimestampLayout
