// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/ir"
)

// blockAt resolves a BlockRef to its *ir.BasicBlock within unit.
func blockAt(unit *core.CompilationUnit, ref ir.BlockRef) (*ir.BasicBlock, bool) {
	f, ok := unit.FunctionByName(ref.Function)
	if !ok {
		return nil, false
	}
	cfg := f.GetCFG()
	if cfg == nil || ref.ID < 0 || ref.ID >= len(cfg.Blocks) {
		return nil, false
	}
	return cfg.Blocks[ref.ID], true
}

// storageVarBase strips the compiler-generated "::read"/"::write" suffix
// from a storage accessor's fully-qualified name, leaving the variable's
// base name so reads and writes of the same variable compare equal.
func storageVarBase(name string) string {
	for _, suffix := range []string{"::read", "::write"} {
		if len(name) >= len(suffix) && name[len(name)-len(suffix):] == suffix {
			return name[:len(name)-len(suffix)]
		}
	}
	return name
}
