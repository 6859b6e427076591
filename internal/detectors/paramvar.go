// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import "github.com/aclements/lirscan/internal/ir"

// nthUserParamVarID returns the ir.VarID of the n'th (0-based) non-builtin
// declared parameter of f, using the same var-id convention taint.abiRoots
// uses: a parameter's VarID is its position in ParamsAll, builtins included.
func nthUserParamVarID(f *ir.Function, n int) (ir.VarID, bool) {
	seen := 0
	for i, p := range f.ParamsAll() {
		if ir.Builtins[p.Type] {
			continue
		}
		if seen == n {
			return ir.VarID(i), true
		}
		seen++
	}
	return 0, false
}
