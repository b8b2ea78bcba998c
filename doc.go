// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Subpackages implement an OS loader which picks the target to boot on an
// Android-style x86 device (Bay Trail class, UEFI firmware) and hands off to
// it with kexec from a LinuxBoot initramfs.
//
// The decision is driven by:
//
//    - firmware signals: wake, reset and shutdown sources from the RSCI acpi
//      table, held keys, battery level.
//    - persistent boot state: last and one-shot targets, a watchdog counter
//      which escalates a crash-looping target to its fallback, and whether the
//      rtc was armed for charging. Stored in efi variables, a json file or a
//      badger db.
//
// A chosen target is validated against the partition table and its kernel
// image; on rejection the next, more conservative target is tried:
// boot, recovery, fastboot, dnx.
//
// cmd/bootlogic is the binary; run it as /init, or from a shell to inspect
// state, dry-run a decision or replay a scenario of boots.
//
package bootable
