// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package metrics exports each boot decision as prometheus gauges, written
// to a node_exporter textfile since the loader is gone before anything
// could scrape it.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootlogic"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootstate"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
)

const namespace = "bootlogic"

type Recorder struct {
	Registry *prometheus.Registry
	//textfile to write after each decision; empty to skip
	Path string

	Decision        *prometheus.GaugeVec
	Flags           *prometheus.GaugeVec
	WatchdogCounter prometheus.Gauge
	Rejected        prometheus.Gauge
	Timestamp       prometheus.Gauge

	now func() time.Time
}

var _ bootlogic.Recorder = (*Recorder)(nil)

func New(path string) *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		Path:     path,
		Decision: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "decision",
			Help:      "Target chosen by the last boot decision, with the branch and rule that chose it.",
		}, []string{"target", "path", "rule", "wake", "reset"}),
		Flags: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "decision_flag",
			Help:      "1 if the condition applied to the last boot decision.",
		}, []string{"flag"}),
		WatchdogCounter: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watchdog_counter",
			Help:      "Consecutive watchdog resets recorded in boot state.",
		}),
		Rejected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rejected_targets",
			Help:      "Targets rejected by validation before one was accepted.",
		}),
		Timestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "decision_timestamp_seconds",
			Help:      "Unix time of the last boot decision.",
		}),
		now: time.Now,
	}
	r.Registry.MustRegister(r.Decision, r.Flags, r.WatchdogCounter, r.Rejected, r.Timestamp)
	return r
}

func (r *Recorder) Record(d bootlogic.Decision, st bootstate.State) {
	r.Decision.Reset()
	r.Decision.WithLabelValues(d.Target.String(), string(d.Path), d.Rule, d.Wake.String(), d.Reset.String()).Set(1)
	for flag, set := range map[string]bool{
		"escalated":       d.Escalated,
		"coerced":         d.Coerced,
		"forced_shutdown": d.ForcedShutdown,
	} {
		v := 0.0
		if set {
			v = 1
		}
		r.Flags.WithLabelValues(flag).Set(v)
	}
	r.WatchdogCounter.Set(float64(st.WatchdogCounter))
	r.Rejected.Set(float64(len(d.Rejected)))
	r.Timestamp.Set(float64(r.now().Unix()))
	if r.Path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(r.Path, r.Registry); err != nil {
		log.Errorf("writing metrics to %s: %s", r.Path, err)
	}
}
