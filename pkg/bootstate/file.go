// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package bootstate

import (
	"encoding/json"
	"fmt"
	"os"
	fp "path/filepath"

	"github.com/google/renameio/v2"

	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/fileutil"
	"github.com/quanganh2627/baytrail-i-x64-kitkat-bootable-uefi/pkg/log"
)

const stateName = "bootstate.json"

// FileStore keeps state as json in a single file, replaced atomically.
type FileStore struct {
	Path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore stores state in dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	return &FileStore{Path: fp.Join(dir, stateName)}, nil
}

func (fs *FileStore) Load() (st State, err error) {
	data, err := os.ReadFile(fs.Path)
	if os.IsNotExist(err) {
		log.Logf("%s does not exist, assuming first boot", fs.Path)
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, err
	}
	if err = json.Unmarshal(data, &st); err != nil {
		//keep the evidence, but don't trip over it on every boot
		fileutil.RenameUnique(fs.Path, stateName+"_bad")
		return State{}, fmt.Errorf("decoding %s: %w", fs.Path, err)
	}
	return st, nil
}

func (fs *FileStore) Save(st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	pf, err := renameio.NewPendingFile(fs.Path, renameio.WithPermissions(0644))
	if err != nil {
		return fmt.Errorf("creating pending state file: %w", err)
	}
	defer pf.Cleanup() //nolint:errcheck
	if _, err = pf.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	if err = pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replacing %s: %w", fs.Path, err)
	}
	return nil
}
