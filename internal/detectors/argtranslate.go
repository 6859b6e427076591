// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"github.com/aclements/lirscan/internal/ir"
	"github.com/aclements/lirscan/internal/taint"
)

// translateTaintedArgsByPosition checks, for a call with actual arguments
// args made from function caller, which argument positions are
// multi-step-tainted by any of sources (under caller's taint graph), and
// returns the callee-side WrapperVariable for each such position (the
// callee's formal parameter at the same index) rather than attempting to
// recover a callee-side variable id from the caller's numbering, which the
// two functions don't share.
func translateTaintedArgsByPosition(t *taint.Taint, caller string, args []ir.VarID, sources map[taint.WrapperVariable]bool, callee string) map[taint.WrapperVariable]bool {
	out := map[taint.WrapperVariable]bool{}
	for i, argVar := range args {
		sink := taint.WrapperVariable{Function: caller, Variable: argVar}
		if t.TaintsAnySources(sources, sink) {
			out[taint.WrapperVariable{Function: callee, Variable: ir.VarID(i)}] = true
		}
	}
	return out
}
