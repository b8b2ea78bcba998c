// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootlogic"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootstate"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/config"
	hk "github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/housekeeping"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/power"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/rsci"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/uefi"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log/flags"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/metrics"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/platform"
)

// app holds what the subcommands share once the config is loaded.
type app struct {
	cfgPath string
	verbose bool
	cfg     config.Config
}

//for tests
var newPlatform = func(cfg config.Config) (bootlogic.Platform, error) {
	l, err := platform.NewLinux(cfg)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "bootlogic",
		Short:         "Boot target decision engine",
		Version:       buildId,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "config file (default $"+config.ConfigEnv()+" or "+config.DefaultPath+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log everything, including debug, to the console")
	root.AddCommand(
		a.runCmd(),
		a.decideCmd(),
		a.targetCmd(),
		a.simulateCmd(),
		a.stateCmd(),
		fallbackCmd(),
		a.infoCmd(),
	)
	return root
}

// setup mounts early filesystems when running as init, then loads the config
// and attaches log sinks.
func (a *app) setup() error {
	log.SetPrefix("bootlogic")
	if power.IsInit() {
		platform.EarlyMounts()
	}
	if a.verbose || os.Getenv(config.VerboseEnv()) != "" {
		log.AddConsoleLog(flags.Debug)
	} else {
		log.AddConsoleLog(flags.EndUser)
	}
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	uefi.EfivarfsDir = cfg.EfivarDir
	rsci.TablePath = cfg.RSCITable

	if cfg.Log.Kmsg {
		if err := log.AddKmsgLog(a.verbose); err != nil {
			log.Debugf("kmsg log: %s", err)
		}
	}
	if cfg.Log.Dir != "" {
		name, err := log.AddFileLog(cfg.Log.Dir)
		if err != nil {
			log.Errorf("file log in %s: %s", cfg.Log.Dir, err)
		} else {
			log.Debugf("logging to %s", name)
		}
	}
	log.Logf("buildId: %s", buildId)
	return nil
}

// openStore opens the configured state backend. The returned func closes it
// at most once; it is also registered to run before power transitions, since
// those don't return on real hardware.
func (a *app) openStore() (bootstate.Store, func(), error) {
	store, err := bootstate.Open(a.cfg.State.Backend, a.cfg.State.Path)
	if err != nil {
		return nil, nil, err
	}
	var once sync.Once
	closeFn := func() {
		once.Do(func() {
			if err := bootstate.Close(store); err != nil {
				log.Errorf("closing state: %s", err)
			}
		})
	}
	hk.Preboots.Add(&hk.HkTask{Name: "close state", Func: func(bool) { closeFn() }})
	return store, closeFn, nil
}

// recorder returns nil when no metrics output is configured.
func (a *app) recorder() bootlogic.Recorder {
	if a.cfg.MetricsTextfile == "" {
		return nil
	}
	return metrics.New(a.cfg.MetricsTextfile)
}
