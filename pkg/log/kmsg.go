// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"fmt"
	"io"
	"os"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log/flags"
)

// Severity values a la RFC5424, as understood by /dev/kmsg. Incomplete list.
type Severity uint

const (
	SevCrit   Severity = 2
	SevError  Severity = 3
	SevNotice Severity = 5
	SevDebug  Severity = 7
)

// facility "user"; kmsg rejects facility 0 from userspace
const kmsgFacility = 1

var KmsgPath = "/dev/kmsg"

// kmsgLog writes each entry as one record in the kernel ring buffer, so the
// loader's decisions survive into the booted kernel's dmesg.
type kmsgLog struct {
	w     io.WriteCloser
	debug bool
	next  StackableLogger
}

var _ StackableLogger = (*kmsgLog)(nil)

// AddKmsgLog adds a kmsgLog to the stack. Must run as root. Debug entries are
// only written if debug is true.
func AddKmsgLog(debug bool) error {
	f, err := os.OpenFile(KmsgPath, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	err = AddLogger(&kmsgLog{w: f, debug: debug}, true)
	if err != nil {
		f.Close()
	}
	return err
}

func severity(e LogEntry) Severity {
	switch {
	case e.Flags&flags.Fatal != 0:
		return SevCrit
	case e.Flags&flags.Error != 0:
		return SevError
	case e.Flags&flags.Debug != 0:
		return SevDebug
	}
	return SevNotice
}

func (kl *kmsgLog) AddEntry(e LogEntry) {
	skip := e.Flags&flags.NotKmsg != 0 || (e.Flags&flags.Debug != 0 && !kl.debug)
	if !skip && kl.w != nil {
		prio := kmsgFacility*8 + uint(severity(e))
		msg := fmt.Sprintf("<%d>", prio)
		if pfx := GetPrefix(); pfx != "" {
			msg += pfx + ": "
		}
		//one write() per record; kmsg splits records on write boundaries
		fmt.Fprint(kl.w, msg+e.Text())
	}
	if kl.next != nil {
		kl.next.AddEntry(e)
	}
}

func (kl *kmsgLog) ForwardTo(sl StackableLogger) {
	if kl.next == nil || sl == nil {
		kl.next = sl
	} else {
		panic("next already set")
	}
}

const KmsgLogIdent = "kmsgLog"

func (kl *kmsgLog) Ident() string         { return KmsgLogIdent }
func (kl *kmsgLog) Next() StackableLogger { return kl.next }

func (kl *kmsgLog) Finalize() {
	if kl.w != nil {
		kl.w.Close()
		kl.w = nil
	}
	if kl.next != nil {
		kl.next.Finalize()
	}
}
