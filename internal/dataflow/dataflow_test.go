// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataflow

import (
	"testing"

	"github.com/aclements/lirscan/internal/ir"
)

// reachSet is a trivial powerset-of-block-ids lattice used to exercise Run
// without depending on any concrete analysis package.
type reachSet map[int]bool

func (s reachSet) Equal(other Domain) bool {
	o := other.(reachSet)
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if !o[k] {
			return false
		}
	}
	return true
}

func (s reachSet) Join(other Domain) Domain {
	o := other.(reachSet)
	out := reachSet{}
	for k := range s {
		out[k] = true
	}
	for k := range o {
		out[k] = true
	}
	return out
}

// markReached is a Forward analysis: every block's out-state is its
// in-state plus its own id, so a block's Out converges to the set of every
// block that can reach it.
type markReached struct{}

func (markReached) Direction() Direction { return Forward }
func (markReached) Bottom() Domain       { return reachSet{} }
func (markReached) Transfer(b *ir.BasicBlock, in Domain) Domain {
	out := reachSet{}
	for k := range in.(reachSet) {
		out[k] = true
	}
	out[b.ID] = true
	return out
}

func buildDiamond() *ir.CFG {
	statements := []ir.Statement{
		&ir.Invocation{Branches: []ir.Branch{
			{Target: ir.BranchTarget{Fallthrough: true}},
			{Target: ir.BranchTarget{Statement: 2}},
		}},
		&ir.Invocation{Branches: []ir.Branch{{Target: ir.BranchTarget{Statement: 3}}}},
		&ir.Invocation{Branches: []ir.Branch{{Target: ir.BranchTarget{Statement: 3}}}},
		&ir.Return{},
	}
	registry := ir.NewStaticRegistry(nil)
	classify := func(string) (ir.Type, bool) { return ir.TypePrivate, false }
	// ir's CFG builders are unexported, so build through the public
	// Function API instead.
	f := ir.NewFunction("f", nil, nil, ir.TypePrivate, statements, 0)
	f.Build(registry, classify)
	return f.GetCFG()
}

func TestRunConvergesOnDiamond(t *testing.T) {
	cfg := buildDiamond()
	if len(cfg.Blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(cfg.Blocks))
	}

	res := Run(cfg, markReached{})

	// Block 3 (the join point) should see contributions from blocks
	// 0, 1 and 2 once joined with its own id.
	join := res.Out[3].(reachSet)
	for _, want := range []int{0, 1, 2, 3} {
		if !join[want] {
			t.Errorf("block 3's out-set missing %d: %v", want, join)
		}
	}
}

func TestRunEmptyCFG(t *testing.T) {
	res := Run(&ir.CFG{}, markReached{})
	if len(res.In) != 0 || len(res.Out) != 0 {
		t.Errorf("Run on an empty CFG returned non-empty results: %+v", res)
	}
}

func TestRunBackwardDirection(t *testing.T) {
	cfg := buildDiamond()
	res := Run(cfg, backwardMark{})
	// Block 0 (the entry) should see contributions from every block
	// reachable forward from it, since backward propagation flows the
	// successors' facts back to their predecessors.
	entry := res.Out[0].(reachSet)
	for _, want := range []int{0, 1, 2, 3} {
		if !entry[want] {
			t.Errorf("block 0's out-set (backward) missing %d: %v", want, entry)
		}
	}
}

type backwardMark struct{}

func (backwardMark) Direction() Direction { return Backward }
func (backwardMark) Bottom() Domain       { return reachSet{} }
func (backwardMark) Transfer(b *ir.BasicBlock, in Domain) Domain {
	out := reachSet{}
	for k := range in.(reachSet) {
		out[k] = true
	}
	out[b.ID] = true
	return out
}
