// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package bootlogic

import (
	"errors"
	"fmt"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootstate"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

// ErrNoBootableTarget means every target down the fallback chain was
// rejected.
var ErrNoBootableTarget = errors.New("no bootable target")

// Recorder is told about each final decision, after state is saved and
// before control leaves the orchestrator.
type Recorder interface {
	Record(d Decision, st bootstate.State)
}

// Orchestrator runs one boot attempt from signals to image hand-off.
type Orchestrator struct {
	Platform Platform
	Store    bootstate.Store
	Recorder Recorder //optional
}

func New(p Platform, s bootstate.Store) *Orchestrator {
	return &Orchestrator{Platform: p, Store: s}
}

// Start decides what to boot and boots it. On real hardware a successful
// start never returns; a nil return means the platform's cold-off or load
// hook returned without error.
func (o *Orchestrator) Start(cmdline string) error {
	p := o.Platform
	p.BootlogicBegin()

	if err := p.CheckPartitionTable(); err != nil {
		return fmt.Errorf("partition table: %w", err)
	}
	flow := p.ReadFlowType()
	st := o.load()

	d := NewResolver(p, &st).Resolve(flow)
	if d.Target == target.Unknown {
		log.Errorf("No valid target found, falling back to %s", target.Boot)
		d.Target = target.Boot
		d.Coerced = true
	}
	log.Logf("boot decision: %s", d)

	if d.Target == target.ColdOff {
		o.save(st)
		o.record(d, st)
		log.Msgf("Powering off")
		if err := p.ColdOff(); err != nil {
			return fmt.Errorf("cold off: %w", err)
		}
		return nil
	}

	if err := p.DisplaySplash(); err != nil {
		log.Errorf("splash: %s", err)
	}

	t, err := o.validate(&d, flow)
	if err != nil {
		//keep watchdog bookkeeping even though nothing will boot
		o.save(st)
		return err
	}
	if err = p.PopulateIndicators(); err != nil {
		o.save(st)
		return fmt.Errorf("populating indicators: %w", err)
	}

	st.Commit(t)
	o.save(st)
	o.record(d, st)

	merged := MergeCmdline(p.ExtraCmdline(), cmdline)
	p.BootlogicEnd()
	log.Msgf("Booting %s", t)
	if err = p.LoadTarget(t, merged); err != nil {
		return fmt.Errorf("loading %s: %w", t, err)
	}
	return nil
}

// LoadDirect boots t without consulting signals or state.
func (o *Orchestrator) LoadDirect(t target.Target, cmdline string) error {
	if !t.Loadable() {
		return fmt.Errorf("%s is not a loadable target", t)
	}
	p := o.Platform
	p.BootlogicBegin()
	merged := MergeCmdline(p.ExtraCmdline(), cmdline)
	p.BootlogicEnd()
	if o.Recorder != nil {
		o.Recorder.Record(Decision{Target: t, Path: PathDirect}, bootstate.State{})
	}
	log.Msgf("Booting %s", t)
	if err := p.LoadTarget(t, merged); err != nil {
		return fmt.Errorf("loading %s: %w", t, err)
	}
	return nil
}

// walks the fallback chain until the platform accepts a target
func (o *Orchestrator) validate(d *Decision, flow FlowType) (target.Target, error) {
	t := d.Target
	for {
		err := o.Platform.CheckTarget(t, flow)
		if err == nil {
			d.Target = t
			return t, nil
		}
		d.Rejected = append(d.Rejected, t)
		next := Fallback(t)
		if next == target.Unknown {
			log.Errorf("target %s rejected: %s; nothing left to try", t, err)
			return target.Unknown, fmt.Errorf("%w: %s rejected: %v", ErrNoBootableTarget, t, err)
		}
		log.Errorf("target %s rejected: %s; trying %s", t, err, next)
		t = next
	}
}

func (o *Orchestrator) load() bootstate.State {
	st, err := o.Store.Load()
	if err != nil {
		if errors.Is(err, bootstate.ErrNotFound) {
			log.Logf("no boot state stored, using defaults")
		} else {
			log.Errorf("loading boot state: %s; using defaults", err)
		}
		return bootstate.State{}
	}
	return st
}

func (o *Orchestrator) save(st bootstate.State) {
	if err := o.Store.Save(st); err != nil {
		log.Errorf("saving boot state: %s", err)
	}
}

func (o *Orchestrator) record(d Decision, st bootstate.State) {
	if o.Recorder != nil {
		o.Recorder.Record(d, st)
	}
}
