// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

//Package housekeeping holds tasks to run just before control leaves the
//loader, whether by power off, kexec or reboot. Like defer, lists are
//last-in first-out. Perform's bool tells tasks whether a target is being
//booted (true) or the loader is bailing out (false).
package housekeeping

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
)

type HkFun func(success bool)
type HkTask struct {
	Name string
	Func HkFun
}
type HkList struct{ tasks []*HkTask }

type HkFilter func(t *HkTask) bool

//return subset of given list where filter matches (only positives)
func (hl *HkList) Filter(filter HkFilter) HkList {
	var out HkList
	for _, entry := range hl.tasks {
		if filter(entry) {
			out.tasks = append(out.tasks, entry)
		}
	}
	return out
}

//return subset of given list where filter does not match (remove positives)
func (hl *HkList) FilterOut(filter HkFilter) HkList {
	return hl.Filter(func(t *HkTask) bool { return !filter(t) })
}

func (hl *HkList) Perform(success bool) {
	//last first. Remove tasks as they are done.
	for {
		l := len(hl.tasks)
		if l == 0 {
			return
		}
		t := hl.tasks[l-1]
		hl.tasks = hl.tasks[:l-1]
		log.Debugf("housekeeping: %s", t.Name)
		t.Func(success)
	}
}

func (hl *HkList) Clear()   { hl.tasks = nil }
func (hl *HkList) Len() int { return len(hl.tasks) }

func (hl *HkList) Names() []string {
	names := make([]string, len(hl.tasks))
	for i, t := range hl.tasks {
		names[i] = t.Name
	}
	return names
}

func (hl *HkList) Add(t *HkTask) {
	hl.tasks = append(hl.tasks, t)
}
func (hl *HkList) AddFirst(t *HkTask) {
	hl.tasks = append([]*HkTask{t}, hl.tasks...)
}

// Names of the tasks added by AddPrebootDefaults.
const (
	TaskSync     = "sync"
	TaskUnmount  = "umount"
	TaskFinalize = "log.Finalize"
)

//for tests
var syncFn = unix.Sync

//Adds to the list functions to finish the log, unmount filesystems, and sync disks.
//These functions are always inserted at the beginning of the list.
//To avoid an import cycle, the unmount function must be passed in.
func AddPrebootDefaults(unmountFunc func(bool)) {
	// These must be the _last_ things run, so we add them at the beginning of
	// the list. Added in reverse order.
	RemovePrebootDefaults()
	Preboots.AddFirst(&HkTask{Name: TaskFinalize, Func: func(_ bool) { log.Finalize() }})
	Preboots.AddFirst(&HkTask{Name: TaskUnmount, Func: func(success bool) {
		if unmountFunc != nil {
			unmountFunc(success)
		}
	}})
	Preboots.AddFirst(&HkTask{Name: TaskSync, Func: func(_ bool) {
		ss := time.Now()
		syncFn()
		log.Debugf("sync: %s", time.Since(ss))
	}})
}

func RemovePrebootDefaults() {
	Preboots = Preboots.FilterOut(func(t *HkTask) bool {
		switch t.Name {
		case TaskSync, TaskUnmount, TaskFinalize:
			return true
		}
		return false
	})
}

var Preboots HkList
