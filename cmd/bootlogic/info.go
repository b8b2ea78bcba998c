// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/bootstate"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/battery"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/dmi"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/gpt"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/rsci"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/hw/uefi"
)

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Dump firmware signals, boot state, partitions and battery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			dumpBoard(out)
			a.dumpRSCI(out)
			dumpLoaderVars(out)
			fmt.Fprintln(out, "state:")
			st, err := a.loadState()
			if err != nil {
				fmt.Fprintf(out, "  error: %s\n", err)
			} else {
				fmt.Fprintf(out, "  %s\n", st)
			}
			a.dumpPartitions(out)
			a.dumpBattery(out)
			return nil
		},
	}
}

func dumpBoard(out io.Writer) {
	fmt.Fprintln(out, "board:")
	keys, vals := dmi.Info()
	for i := range keys {
		fmt.Fprintf(out, "  %-13s %s\n", keys[i]+":", vals[i])
	}
}

func (a *app) dumpRSCI(out io.Writer) {
	fmt.Fprintf(out, "rsci (%s):\n", rsci.TablePath)
	t, err := rsci.Read()
	if err != nil {
		fmt.Fprintf(out, "  error: %s\n", err)
		return
	}
	fmt.Fprintf(out, "  oem:        %s rev %d\n", t.OEMID, t.Revision)
	fmt.Fprintf(out, "  wake:       %s\n", t.WakeSource())
	fmt.Fprintf(out, "  reset:      %s (%s)\n", t.ResetSource(), t.ResetType)
	fmt.Fprintf(out, "  shutdown:   %s\n", t.ShutdownSource())
	fmt.Fprintf(out, "  indicators: %#08x\n", t.Indicators)
}

func dumpLoaderVars(out io.Writer) {
	fmt.Fprintf(out, "efi (booted uefi: %t):\n", uefi.BootedUEFI())
	for _, v := range uefi.ReadVars(uefi.GuidFilter(bootstate.LoaderGuid)) {
		fmt.Fprintf(out, "  %s = %x\n", v.Name, v.Data)
	}
}

func (a *app) dumpPartitions(out io.Writer) {
	fmt.Fprintf(out, "partitions (%s):\n", a.cfg.Disk.Device)
	t, err := gpt.ReadDevice(a.cfg.Disk.Device)
	if err != nil {
		fmt.Fprintf(out, "  error: %s\n", err)
		return
	}
	for _, p := range t.Partitions {
		fmt.Fprintf(out, "  %s\n", p)
	}
	if err = t.Require(a.cfg.Disk.Required...); err != nil {
		fmt.Fprintf(out, "  error: %s\n", err)
	}
}

func (a *app) dumpBattery(out io.Writer) {
	fmt.Fprintf(out, "battery (%s policy):\n", a.cfg.Battery.Policy)
	em, err := battery.New(a.cfg.Battery.Policy, a.cfg.Battery.SupplyDir, a.cfg.Battery.Thresholds)
	if err != nil {
		fmt.Fprintf(out, "  error: %s\n", err)
		return
	}
	fmt.Fprintf(out, "  level: %s\n  ok:    %t\n", em.BatteryLevel(), em.BatteryOK())
}
