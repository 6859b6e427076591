// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/ir"
)

// calleeOf resolves a FunctionCall instruction to the ir.Invocation and the
// callee *ir.Function, if the callee is known to cu.
func calleeOf(cu *core.CompilationUnit, instr ir.Instruction) (*ir.Invocation, *ir.Function, bool) {
	inv, ok := instr.AsInvocation()
	if !ok {
		return nil, nil, false
	}
	cl, ok := cu.Registry.Libfunc(inv.LibfuncID)
	if !ok || cl.Kind != ir.LibfuncFunctionCall {
		return nil, nil, false
	}
	callee, ok := cu.FunctionByName(cl.CalleeName)
	if !ok {
		return nil, nil, false
	}
	return inv, callee, true
}
