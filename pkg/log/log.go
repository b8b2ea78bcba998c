// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package log is the loader's logging mechanism. Entries go to a stack of
// sinks: memory, the console, a file, the kernel ring buffer.
//
// By default, events are retained in memory so they can be re-played into
// sinks that are added later on, once the console or a writable filesystem
// is available.
package log

import (
	"fmt"
	"os"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log/flags"
)

var logPrefix string

// Sets the log prefix, which is used in the file name and kmsg lines. Must
// be set before calling AddFileLog()
func SetPrefix(pfx string) {
	logPrefix = pfx
}

// Gets the log prefix
func GetPrefix() string { return logPrefix }

// Msgf is for messages suitable for display to the user - the splash line,
// "booting recovery...". Short, non-technical.
func Msgf(f string, va ...interface{}) { FlaggedLogf(flags.EndUser, f, va...) }

// See Msgf
func Msg(message string) { Msgf(message) }

// Logf is for technical messages. Never shown on the splash.
func Logf(f string, va ...interface{}) { FlaggedLogf(flags.NA, f, va...) }

// See Logf
func Logln(va ...interface{}) { Logf(fmt.Sprintln(va...)) }

// See Logf
func Log(message string) { Logf(message) }

// Debugf logs trace-level detail: rule evaluation, raw signal values. Sinks
// drop these unless created with flags.Debug.
func Debugf(f string, va ...interface{}) { FlaggedLogf(flags.Debug, f, va...) }

// Errorf logs a failure the caller recovered from, usually by substituting a
// safe default.
func Errorf(f string, va ...interface{}) { FlaggedLogf(flags.Error, f, va...) }

// If the log stack includes a memLog, this writes all of its content to stderr.
// no-op otherwise.
func DumpStderr() {
	for _, e := range StoredEntries() {
		fmt.Fprintln(os.Stderr, e.String())
	}
}
