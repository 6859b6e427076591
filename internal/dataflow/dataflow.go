// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataflow implements a generic worklist fixpoint engine over
// ir.CFG, parameterized on a pluggable lattice Domain and a monotone
// Analysis. It knows nothing about reentrancy, taint, or any other
// concrete analysis; see internal/reentrancy for the analysis built on top
// of it.
package dataflow

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/aclements/lirscan/internal/ir"
)

// Direction is the order the engine walks a CFG in.
type Direction int

const (
	// Forward seeds the worklist in reverse postorder and joins over a
	// block's predecessors.
	Forward Direction = iota
	// Backward seeds the worklist in postorder and joins over a
	// block's successors.
	Backward
)

// Domain is a single lattice element. Join must be commutative,
// associative, and monotone (x.Join(y) is always >= x and >= y); Equal
// must agree with the lattice's partial order closely enough that
// repeated Join calls converge in a finite number of steps for any CFG
// the engine is run over.
type Domain interface {
	Equal(other Domain) bool
	Join(other Domain) Domain
}

// Analysis is a dataflow problem: which direction to walk, what the
// lattice's bottom element is, and how a block transforms an incoming
// state into an outgoing one.
type Analysis interface {
	Direction() Direction

	// Bottom returns the lattice's bottom element, used as the initial
	// state of every block before its first transfer.
	Bottom() Domain

	// Transfer computes the state leaving b given the state entering
	// it (Forward) or leaving it (Backward; "entering" is from the
	// successors' side). Transfer must be monotone: a more-joined
	// input can never produce a strictly smaller output.
	Transfer(b *ir.BasicBlock, in Domain) Domain
}

// Result is the fixpoint: the state flowing into and out of every block,
// indexed by block id.
type Result struct {
	In  []Domain
	Out []Domain
}

// Run computes the fixpoint of analysis over cfg by worklist iteration,
// seeded by reverse postorder (Forward) or postorder (Backward) and
// re-queuing a block's dataflow-direction neighbors whenever its output
// state changes, until no block's output changes. A cfg with no blocks
// at all is allowed and returns two empty slices.
func Run(cfg *ir.CFG, analysis Analysis) Result {
	n := len(cfg.Blocks)
	res := Result{In: make([]Domain, n), Out: make([]Domain, n)}
	if n == 0 {
		return res
	}
	bottom := analysis.Bottom()
	for i := range res.In {
		res.In[i] = bottom
		res.Out[i] = bottom
	}

	var order []int
	var preds, succs func(id int) []int
	switch analysis.Direction() {
	case Backward:
		order = ir.Postorder(cfg)
		preds = func(id int) []int { return cfg.Blocks[id].Outgoing }
		succs = func(id int) []int { return cfg.Blocks[id].Incoming }
	default:
		order = ir.ReversePostorder(cfg)
		preds = func(id int) []int { return cfg.Blocks[id].Incoming }
		succs = func(id int) []int { return cfg.Blocks[id].Outgoing }
	}

	queued := bitset.New(uint(n))
	queue := append([]int(nil), order...)
	for _, id := range order {
		queued.Set(uint(id))
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		queued.Clear(uint(id))

		in := bottom
		for _, p := range preds(id) {
			in = in.Join(res.Out[p])
		}
		res.In[id] = in

		out := analysis.Transfer(cfg.Blocks[id], in)
		if out.Equal(res.Out[id]) {
			continue
		}
		res.Out[id] = out

		for _, s := range succs(id) {
			if !queued.Test(uint(s)) {
				queued.Set(uint(s))
				queue = append(queue, s)
			}
		}
	}

	return res
}
