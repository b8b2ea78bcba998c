// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package bootlogic

import (
	"fmt"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootstate"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

// Path names the branch of the resolver that produced a decision.
type Path string

const (
	PathBattery    Path = "battery"
	PathWakeError  Path = "wake-error"
	PathWake       Path = "wake"
	PathResetError Path = "reset-error"
	PathReset      Path = "reset"
	PathDirect     Path = "direct"
)

// Decision describes a resolved target and how it was reached.
type Decision struct {
	Target target.Target
	Path   Path
	//name of the matching rule, empty if none matched
	Rule           string
	Wake           WakeSource
	Reset          ResetSource
	ForcedShutdown bool
	//watchdog limit reached, target is a fallback
	Escalated bool
	//resolved to Unknown and replaced with Boot
	Coerced bool
	//targets rejected by CheckTarget before one was accepted
	Rejected []target.Target
}

func (d Decision) String() string {
	s := fmt.Sprintf("target=%s path=%s", d.Target, d.Path)
	if d.Rule != "" {
		s += " rule=" + d.Rule
	}
	s += fmt.Sprintf(" wake=%s reset=%s", d.Wake, d.Reset)
	if d.ForcedShutdown {
		s += " forced-shutdown"
	}
	if d.Escalated {
		s += " escalated"
	}
	if d.Coerced {
		s += " coerced"
	}
	if len(d.Rejected) > 0 {
		s += fmt.Sprintf(" rejected=%v", d.Rejected)
	}
	return s
}

// Resolver picks a target from the platform's signals and the boot state.
// Watchdog and forced-shutdown handling mutate the state it was given.
type Resolver struct {
	plat      Platform
	em        EnergyManager
	state     *bootstate.State
	escalated bool
}

func NewResolver(p Platform, st *bootstate.State) *Resolver {
	return &Resolver{plat: p, em: p.EnergyManager(), state: st}
}

// Resolve returns the decision; its Target may be Unknown. flow is
// accepted for symmetry with target checks and is currently unused by the
// rules.
func (r *Resolver) Resolve(flow FlowType) (d Decision) {
	log.Debugf("resolving target, flow=%q state: %s", flow, r.state)
	if !r.em.BatteryOK() {
		log.Msgf("Battery not OK, powering off")
		d.Target = target.ColdOff
		d.Path = PathBattery
		return
	}
	d.Wake = r.plat.WakeSource()
	switch d.Wake {
	case WakeError:
		log.Errorf("Wake source unreadable, booting %s", target.Boot)
		d.Target = target.Boot
		d.Path = PathWakeError
		return
	case WakeNotApplicable:
	default:
		d.Path = PathWake
		if r.plat.ShutdownSource() == ShutdownPowerButtonOverride {
			log.Logf("previous shutdown was forced by power button")
			r.forcedShutdown()
			d.ForcedShutdown = true
		}
		d.Target, d.Rule = firstMatch(r, wakeRules, d.Wake)
		return
	}
	d.Reset = r.plat.ResetSource()
	switch d.Reset {
	case ResetError:
		log.Errorf("Reset source unreadable, booting %s", target.Boot)
		d.Target = target.Boot
		d.Path = PathResetError
		return
	case ResetNotApplicable:
		d.Reset = ResetOSInitiated
	}
	d.Path = PathReset
	r.escalated = false
	d.Target, d.Rule = firstMatch(r, resetRules, d.Reset)
	d.Escalated = r.escalated
	return
}
