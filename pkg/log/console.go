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

type consoleLog struct {
	flags flags.Flag
	w     io.Writer
	next  StackableLogger
}

// Adds a consoleLog writing to stderr. Flags determine which events show:
// flags.NA for everything but debug, flags.Debug for everything,
// flags.EndUser for Msgf() only.
func AddConsoleLog(f flags.Flag) {
	_ = AddLogger(&consoleLog{flags: f, w: os.Stderr}, true)
}

// AddWriterLog is AddConsoleLog with a caller-supplied writer, such as the
// serial port or a framebuffer console.
func AddWriterLog(w io.Writer, f flags.Flag) error {
	return AddLogger(&consoleLog{flags: f, w: w}, true)
}

var _ StackableLogger = (*consoleLog)(nil)

func (l *consoleLog) AddEntry(e LogEntry) {
	if wanted(l.flags, e) {
		fmt.Fprintln(l.w, e.String())
	}
	if l.next != nil {
		l.next.AddEntry(e)
	}
}

func (l *consoleLog) ForwardTo(sl StackableLogger) {
	if l.next == nil || sl == nil {
		l.next = sl
	} else {
		panic("next already set")
	}
}

const ConsoleLogIdent = "consoleLog"

func (*consoleLog) Ident() string           { return ConsoleLogIdent }
func (l *consoleLog) Next() StackableLogger { return l.next }

func (l *consoleLog) Finalize() {
	if l.next != nil {
		l.next.Finalize()
	}
}
