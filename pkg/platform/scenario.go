// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package platform

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootlogic"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootstate"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

// Scenario is a sequence of boots replayed against one store.
type Scenario struct {
	Flow         string          `yaml:"flow"`
	ExtraCmdline string          `yaml:"extra_cmdline"`
	Initial      bootstate.State `yaml:"initial_state"`
	Boots        []BootSpec      `yaml:"boots"`
}

const ExpectError = "error"

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, err
	}
	if len(sc.Boots) == 0 {
		return nil, errors.New("scenario has no boots")
	}
	for i, b := range sc.Boots {
		if _, err := NewSim(b, sc.Flow, sc.ExtraCmdline); err != nil {
			return nil, fmt.Errorf("boot %d: %w", i+1, err)
		}
		if b.SetOneshot != "" {
			if _, err := target.Parse(b.SetOneshot); err != nil {
				return nil, fmt.Errorf("boot %d: %w", i+1, err)
			}
		}
		if b.Expect != "" && b.Expect != ExpectError {
			if _, err := target.Parse(b.Expect); err != nil {
				return nil, fmt.Errorf("boot %d: %w", i+1, err)
			}
		}
	}
	return &sc, nil
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Result is the outcome of one simulated boot.
type Result struct {
	Boot     int
	Name     string
	Decision bootlogic.Decision
	//what happened: the loaded target, ColdOff, or Unknown on error
	Outcome target.Target
	Cmdline string
	Err     error
	State   bootstate.State
	//non-empty if Expect was not met
	Mismatch string
}

func (r Result) String() string {
	name := r.Name
	if name == "" {
		name = fmt.Sprintf("boot %d", r.Boot)
	}
	s := fmt.Sprintf("%s: %s", name, r.Outcome)
	if r.Err != nil {
		s = fmt.Sprintf("%s: error: %s", name, r.Err)
	}
	s += fmt.Sprintf(" [%s] state: %s", r.Decision, r.State)
	if r.Mismatch != "" {
		s += " MISMATCH: " + r.Mismatch
	}
	return s
}

// captures the decision of each boot and passes it on
type capture struct {
	last bootlogic.Decision
	next bootlogic.Recorder
}

func (c *capture) Record(d bootlogic.Decision, st bootstate.State) {
	c.last = d
	if c.next != nil {
		c.next.Record(d, st)
	}
}

// Run replays sc against store. An empty store is seeded with the initial
// state. The error is non-nil if any boot missed its expectation.
func Run(sc *Scenario, store bootstate.Store, rec bootlogic.Recorder) ([]Result, error) {
	if _, err := store.Load(); errors.Is(err, bootstate.ErrNotFound) {
		if err = store.Save(sc.Initial); err != nil {
			return nil, fmt.Errorf("seeding state: %w", err)
		}
	}
	var results []Result
	mismatches := 0
	for i, b := range sc.Boots {
		res := Result{Boot: i + 1, Name: b.Name}
		if b.SetOneshot != "" {
			if err := setOneshot(store, b.SetOneshot); err != nil {
				return results, err
			}
		}
		sim, err := NewSim(b, sc.Flow, sc.ExtraCmdline)
		if err != nil {
			return results, err
		}
		c := &capture{next: rec}
		o := bootlogic.New(sim, store)
		o.Recorder = c
		res.Err = o.Start(b.Cmdline)
		res.Decision = c.last
		switch {
		case res.Err != nil:
			res.Outcome = target.Unknown
		case sim.PoweredOff:
			res.Outcome = target.ColdOff
		default:
			res.Outcome = sim.Loaded
			res.Cmdline = sim.Cmdline
		}
		res.State, _ = store.Load()
		res.Mismatch = check(b.Expect, res)
		if res.Mismatch != "" {
			mismatches++
		}
		log.Logf("%s", res)
		results = append(results, res)
	}
	if mismatches > 0 {
		return results, fmt.Errorf("%d of %d boots did not match expectations", mismatches, len(results))
	}
	return results, nil
}

func setOneshot(store bootstate.Store, name string) error {
	t, err := target.Parse(name)
	if err != nil {
		return err
	}
	st, err := store.Load()
	if err != nil && !errors.Is(err, bootstate.ErrNotFound) {
		return err
	}
	st.OneshotTarget = t
	return store.Save(st)
}

func check(expect string, r Result) string {
	switch expect {
	case "":
		return ""
	case ExpectError:
		if r.Err == nil {
			return fmt.Sprintf("expected error, got %s", r.Outcome)
		}
		return ""
	}
	if r.Err != nil {
		return fmt.Sprintf("expected %s, got error %s", expect, r.Err)
	}
	if r.Outcome.String() != expect {
		return fmt.Sprintf("expected %s, got %s", expect, r.Outcome)
	}
	return ""
}
