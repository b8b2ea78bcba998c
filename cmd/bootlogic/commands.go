// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootlogic"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootstate"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/platform"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/target"
)

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [cmdline...]",
		Short: "Decide on a target and boot it",
		Long: "Reads firmware signals and boot state, picks a target, validates it " +
			"down the fallback chain and kexecs it. Arguments are appended to the " +
			"kernel command line.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPlatform(a.cfg)
			if err != nil {
				return err
			}
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			o := bootlogic.New(p, store)
			o.Recorder = a.recorder()
			return o.Start(strings.Join(args, " "))
		},
	}
}

func (a *app) decideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decide",
		Short: "Print what run would boot, without booting or writing state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPlatform(a.cfg)
			if err != nil {
				return err
			}
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			mem := &bootstate.MemStore{}
			st, err := store.Load()
			switch {
			case err == nil:
				mem = bootstate.NewMemStore(st)
			case !errors.Is(err, bootstate.ErrNotFound):
				return fmt.Errorf("loading state: %w", err)
			}
			dr := &dryRun{Platform: p}
			o := bootlogic.New(dr, mem)
			o.Recorder = dr
			err = o.Start("")
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "decision: %s\n", dr.decision)
			switch {
			case err != nil:
				fmt.Fprintf(out, "outcome: error: %s\n", err)
			case dr.off:
				fmt.Fprintf(out, "outcome: %s\n", target.ColdOff)
			default:
				fmt.Fprintf(out, "outcome: %s\ncmdline: %s\n", dr.loaded, dr.cmdline)
			}
			fmt.Fprintf(out, "state after: %s\n", mem.State)
			return nil
		},
	}
}

func (a *app) targetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "target <name> [cmdline...]",
		Short: "Boot the named target, skipping the decision logic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := target.Parse(args[0])
			if err != nil {
				return err
			}
			p, err := newPlatform(a.cfg)
			if err != nil {
				return err
			}
			//partitions must be known before an image can be found
			if err = p.CheckPartitionTable(); err != nil {
				return fmt.Errorf("partition table: %w", err)
			}
			if err = p.CheckTarget(t, p.ReadFlowType()); err != nil {
				return fmt.Errorf("%s: %w", t, err)
			}
			o := bootlogic.New(p, nil)
			o.Recorder = a.recorder()
			return o.LoadDirect(t, strings.Join(args[1:], " "))
		},
	}
}

func (a *app) simulateCmd() *cobra.Command {
	var persist bool
	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Replay a scripted sequence of boots",
		Long: "Each boot in the scenario supplies the firmware signals; state carries " +
			"over between boots. By default state lives in memory and starts from " +
			"the scenario's initial_state; --persist uses the configured backend.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := platform.LoadScenario(args[0])
			if err != nil {
				return err
			}
			var store bootstate.Store = &bootstate.MemStore{}
			if persist {
				s, closeStore, err := a.openStore()
				if err != nil {
					return err
				}
				defer closeStore()
				store = s
			}
			results, err := platform.Run(sc, store, a.recorder())
			for _, r := range results {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&persist, "persist", false, "use the configured state backend instead of memory")
	return cmd
}

func (a *app) stateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or change persisted boot state",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print boot state as yaml",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withState(func(st *bootstate.State) (bool, error) {
					out, err := yaml.Marshal(st)
					if err != nil {
						return false, err
					}
					_, err = cmd.OutOrStdout().Write(out)
					return false, err
				})
			},
		},
		&cobra.Command{
			Use:   "set-oneshot <target>",
			Short: "Boot the target once, on the next resumed boot",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := target.Parse(args[0])
				if err != nil {
					return err
				}
				if !t.Loadable() && t != target.Unknown {
					return fmt.Errorf("%s is not a loadable target", t)
				}
				return a.withState(func(st *bootstate.State) (bool, error) {
					st.OneshotTarget = t
					return true, nil
				})
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Forget all boot state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withState(func(st *bootstate.State) (bool, error) {
					*st = bootstate.State{}
					return true, nil
				})
			},
		},
	)
	return cmd
}

// withState loads state, passes it to fn, and saves it if fn says so.
// Missing state reads as the zero State.
func (a *app) withState(fn func(*bootstate.State) (bool, error)) error {
	store, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	st, err := store.Load()
	if err != nil && !errors.Is(err, bootstate.ErrNotFound) {
		return err
	}
	save, err := fn(&st)
	if err != nil || !save {
		return err
	}
	return store.Save(st)
}

func fallbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fallback <target>",
		Short: "Print the fallback chain starting at target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := target.Parse(args[0])
			if err != nil {
				return err
			}
			var names []string
			for _, c := range bootlogic.FallbackChain(t) {
				names = append(names, c.String())
			}
			names = append(names, target.Unknown.String())
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, " -> "))
			return nil
		},
	}
}

// loadState reads state without holding the store open.
func (a *app) loadState() (st bootstate.State, err error) {
	err = a.withState(func(s *bootstate.State) (bool, error) {
		st = *s
		return false, nil
	})
	return
}
