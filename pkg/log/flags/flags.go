// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package flags holds the bits attached to each log entry. Sinks use them to
// decide whether an entry is shown to them.
package flags

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Flag int

const (
	NA Flag = 0

	//ok to display message to end user (splash, console)
	EndUser Flag = 1 << (iota - 1)
	//logging a fatal error
	Fatal
	//do not write to local file log
	NotFile
	//do not write to kmsg
	NotKmsg
	//verbose-only message; dropped by sinks unless they ask for it
	Debug
	//recoverable error; the caller substituted a default and kept going
	Error
)

var named = []Flag{EndUser, Fatal, NotFile, NotKmsg, Debug, Error}

func (f Flag) MarshalJSON() ([]byte, error) { return json.Marshal(f.String()) }

func (f Flag) String() string {
	switch f {
	case NA:
		return ""
	case EndUser:
		return "user"
	case Fatal:
		return "fatal"
	case NotFile:
		return "not file"
	case NotKmsg:
		return "not kmsg"
	case Debug:
		return "debug"
	case Error:
		return "error"
	}
	for _, bit := range named {
		if f&bit > 0 {
			return strings.Join([]string{bit.String(), (f &^ bit).String()}, "|")
		}
	}
	return fmt.Sprintf("0x%x", int(f))
}
