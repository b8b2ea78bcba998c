// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"fmt"
	"sync"
	"time"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log/flags"
)

// StackableLogger is one sink in the chain. Each sink handles an entry, then
// passes it on to the next one.
//
// Normal logging goes through the package functions - Logf, Msgf, Errorf,
// Fatalf. Only sink implementations need this interface.
type StackableLogger interface {
	// Handle an entry, then call AddEntry on Next() (if not nil).
	AddEntry(e LogEntry)

	// Chain to another sink. Chaining a sink that already has a next sink
	// is an error, unless sl is nil.
	ForwardTo(sl StackableLogger)

	// Type of sink; no two sinks in the stack may share an ident.
	Ident() string

	// Returns next StackableLogger or nil
	Next() StackableLogger

	// Flush and release resources, then call Finalize on Next() (if not nil).
	Finalize()
}

// Top logger on the stack. Guarded by logStackMtx.
var logStack StackableLogger = &memLog{}

var logStackMtx sync.Mutex

type stackErr struct {
	Id string
}

func (se *stackErr) Error() string {
	return fmt.Sprintf("Duplicate logger %s in stack", se.Id)
}

// Flushes data, closes files, etc
func Finalize() {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	logStack.Finalize()
}

// Restores the log stack to initial state: existing sinks are finalized and
// replaced with a memLog.
func DefaultLogStack() { NewLogStack(&memLog{}) }

// Calls Finalize on existing logger(s), then sets newLog as the topmost logger.
func NewLogStack(newLog StackableLogger) {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	if logStack != nil {
		logStack.Finalize()
	}
	logStack = newLog
}

// Stack returns the topmost logger. Intended for tests.
func Stack() StackableLogger {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	return logStack
}

// AddLogger puts sl on top of the stack. If addPrevious is true, events
// already held by a memLog are replayed into sl first.
//
// End users should prefer AddConsoleLog(), AddFileLog(), AddKmsgLog().
//
// The only possible error is a duplicate ident.
func AddLogger(sl StackableLogger, addPrevious bool) error {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	if err := checkDuplicate(sl, logStack); err != nil {
		return err
	}
	if addPrevious {
		replayInto(sl)
	}
	sl.ForwardTo(logStack)
	logStack = sl
	return nil
}

func checkDuplicate(newLogger, sl StackableLogger) error {
	for ; sl != nil; sl = sl.Next() {
		if newLogger.Ident() == sl.Ident() {
			return &stackErr{Id: sl.Ident()}
		}
	}
	return nil
}

// Remove a log with the given id from the stack
func RemoveLogger(id string) {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	var prev StackableLogger
	for l := logStack; l != nil; l = l.Next() {
		if l.Ident() != id {
			prev = l
			continue
		}
		next := l.Next()
		l.ForwardTo(nil)
		l.Finalize()
		if prev != nil {
			prev.ForwardTo(nil)
			prev.ForwardTo(next)
		} else {
			logStack = next
		}
		if logStack == nil {
			logStack = &memLog{}
		}
		return
	}
}

// LogEntry is the record passed down the stack.
type LogEntry struct {
	Time  time.Time `json:"t"`
	Msg   string
	Args  []interface{} `json:",omitempty"`
	Flags flags.Flag    `json:",omitempty"`
}

// Backend of Logf(), Msgf(), Fatalf(), etc.
func FlaggedLogf(opts flags.Flag, f string, va ...interface{}) {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	logStack.AddEntry(LogEntry{
		Time:  time.Now(),
		Flags: opts,
		Msg:   f,
		Args:  va,
	})
}

func (le *LogEntry) String() string {
	var div string
	switch {
	case le.Flags&flags.Fatal != 0:
		div = "!! "
	case le.Flags&flags.Error != 0:
		div = "E- "
	case le.Flags&flags.EndUser != 0:
		div = "-- "
	case le.Flags&flags.Debug != 0:
		div = ".. "
	case le.Flags == 0:
		div = "*- "
	default:
		div = "?? "
	}
	f := div + le.Time.Format(TimestampLayout) + " " + div + le.Msg
	return fmt.Sprintf(f, le.Args...)
}

// Text returns the formatted message without time or marker.
func (le *LogEntry) Text() string { return fmt.Sprintf(le.Msg, le.Args...) }

// wanted reports whether a sink created with filter accepts e. Debug entries
// are only accepted by sinks asking for them; a filter of NA accepts
// everything else.
func wanted(filter flags.Flag, e LogEntry) bool {
	if e.Flags&flags.Debug != 0 && filter&flags.Debug == 0 {
		return false
	}
	mask := filter &^ flags.Debug
	return mask == 0 || e.Flags&mask != 0
}

// must hold logStackMtx
func replayInto(newlog StackableLogger) {
	if _, isMem := newlog.(*memLog); isMem {
		return
	}
	if mem, ok := findInStack(MemLogIdent).(*memLog); ok {
		for _, e := range mem.Entries() {
			newlog.AddEntry(e)
		}
	}
}

// Return true if a log in the stack matches given id
func InStack(id string) bool {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	return findInStack(id) != nil
}

func findInStack(id string) StackableLogger {
	for l := logStack; l != nil; l = l.Next() {
		if l.Ident() == id {
			return l
		}
	}
	return nil
}
