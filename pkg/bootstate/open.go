// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package bootstate

import (
	"fmt"
)

const (
	BackendEfiVars = "efivars"
	BackendFile    = "file"
	BackendBadger  = "badger"
	BackendMemory  = "memory"
)

// Open returns the store for the named backend. path is a directory for the
// file and badger backends and ignored otherwise.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendEfiVars, "":
		return EfiStore{}, nil
	case BackendFile:
		return NewFileStore(path)
	case BackendBadger:
		return OpenBadger(path)
	case BackendMemory:
		return &MemStore{}, nil
	}
	return nil, fmt.Errorf("unknown state backend %q", backend)
}
