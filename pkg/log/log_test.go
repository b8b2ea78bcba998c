// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log_test

// Note that this is package log_test, not log. Ensures that we expose enough
// functions to make testing possible from other packages.

import (
	"bytes"
	"os"
	fp "path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log/flags"
)

func TestMemLog(t *testing.T) {
	log.DefaultLogStack()
	defer log.DefaultLogStack() //cleanup when test is done
	T, err := time.Parse("2006", "1999")
	if err != nil {
		t.Fatal(err)
	}
	e := log.LogEntry{
		Time:  T,
		Msg:   "interesting event",
		Flags: flags.EndUser,
	}
	log.Stack().AddEntry(e)
	entries := log.StoredEntries()
	if len(entries) != 1 {
		t.Fatal("wrong entries", entries)
	}
	want := "-- 19990101_000000 -- interesting event"
	got := entries[0].String()
	if want != got {
		t.Errorf("mem:\nwant %q\ngot  %q", want, got)
	}
}

func TestWriterLogFilters(t *testing.T) {
	for _, td := range []struct {
		name   string
		filter flags.Flag
		want   []string
	}{
		{name: "na", filter: flags.NA, want: []string{"log", "msg", "err"}},
		{name: "user", filter: flags.EndUser, want: []string{"msg"}},
		{name: "debug", filter: flags.Debug, want: []string{"log", "msg", "err", "dbg"}},
		{name: "errors", filter: flags.Error, want: []string{"err"}},
	} {
		t.Run(td.name, func(t *testing.T) {
			log.DefaultLogStack()
			defer log.DefaultLogStack()
			var buf bytes.Buffer
			if err := log.AddWriterLog(&buf, td.filter); err != nil {
				t.Fatal(err)
			}
			log.Logf("log")
			log.Msgf("msg")
			log.Errorf("err")
			log.Debugf("dbg")
			var got []string
			for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
				f := strings.Fields(l)
				got = append(got, f[len(f)-1])
			}
			if strings.Join(got, ",") != strings.Join(td.want, ",") {
				t.Errorf("want %v, got %v", td.want, got)
			}
		})
	}
}

func TestDuplicateLogger(t *testing.T) {
	log.DefaultLogStack()
	defer log.DefaultLogStack()
	var buf bytes.Buffer
	if err := log.AddWriterLog(&buf, flags.NA); err != nil {
		t.Fatal(err)
	}
	if err := log.AddWriterLog(&buf, flags.NA); err == nil {
		t.Error("expected duplicate logger error")
	}
}

func TestReplayAndFlush(t *testing.T) {
	log.DefaultLogStack()
	defer log.DefaultLogStack()
	log.Logf("early %d", 1)
	var buf bytes.Buffer
	if err := log.AddWriterLog(&buf, flags.NA); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "early 1") {
		t.Errorf("memLog entries not replayed: %q", buf.String())
	}
	log.FlushMemLog()
	if log.InStack(log.MemLogIdent) {
		t.Error("memLog still in stack")
	}
	log.Logf("late")
	if !strings.Contains(buf.String(), "late") {
		t.Errorf("stack broken after flush: %q", buf.String())
	}
}

func TestKmsgLog(t *testing.T) {
	log.DefaultLogStack()
	defer log.DefaultLogStack()
	oldPath := log.KmsgPath
	defer func() { log.KmsgPath = oldPath }()
	log.KmsgPath = fp.Join(t.TempDir(), "kmsg")
	if err := os.WriteFile(log.KmsgPath, nil, 0600); err != nil {
		t.Fatal(err)
	}
	log.SetPrefix("bootlogic")
	defer log.SetPrefix("")

	if err := log.AddKmsgLog(false); err != nil {
		t.Fatal(err)
	}
	log.Errorf("wake source unreadable")
	log.Debugf("hidden")
	log.Logf("target=%s", "boot")
	log.Finalize()

	data, err := os.ReadFile(log.KmsgPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "<11>bootlogic: wake source unreadable<13>bootlogic: target=boot"
	if string(data) != want {
		t.Errorf("\nwant %q\ngot  %q", want, string(data))
	}
}

func TestFileLog(t *testing.T) {
	log.DefaultLogStack()
	defer log.DefaultLogStack()
	log.SetPrefix("bootlogic_")
	defer log.SetPrefix("")
	log.Msgf("before file")
	name, err := log.AddFileLog(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	log.FlaggedLogf(flags.NotFile, "not in file")
	log.Logf("in file")
	log.Finalize()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, "before file") || !strings.Contains(s, "in file") {
		t.Errorf("missing entries: %q", s)
	}
	if strings.Contains(s, "not in file") {
		t.Errorf("NotFile entry written: %q", s)
	}
}
