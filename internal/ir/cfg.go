// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "golang.org/x/tools/container/intsets"

// CFG is an ordered sequence of basic blocks indexed by id in [0, n).
type CFG struct {
	Blocks []*BasicBlock
}

// Block returns the block with the given id.
func (c *CFG) Block(id int) (*BasicBlock, bool) {
	if id < 0 || id >= len(c.Blocks) {
		return nil, false
	}
	return c.Blocks[id], true
}

// buildRegularCFG builds the regular CFG for a contiguous statement slice
// beginning at base_pc, per spec.md §4.1: two O(n) passes, leader discovery
// then edge wiring. An empty statement slice yields an empty CFG.
func buildRegularCFG(statements []Statement, basePC int, functionName string, registry Registry, classifyCallee func(name string) (Type, bool)) *CFG {
	cfg := &CFG{}
	if len(statements) == 0 {
		return cfg
	}

	targetPCs := map[int]bool{}
	var blocks []*BasicBlock
	var current []Instruction
	counter := 0

	closeBlock := func() {
		blocks = append(blocks, &BasicBlock{
			Function:     functionName,
			ID:           counter,
			Instructions: current,
		})
		current = nil
		counter++
	}

	for i, stmt := range statements {
		currentPC := basePC + i
		switch s := stmt.(type) {
		case *Invocation:
			if len(s.Branches) == 1 {
				br := s.Branches[0]
				if !br.Target.Fallthrough {
					targetPCs[br.Target.Statement] = true
				}
				current = append(current, Instruction{PC: currentPC, Stmt: stmt})
				if targetPCs[currentPC+1] {
					closeBlock()
				}
			} else {
				for _, br := range s.Branches {
					if br.Target.Fallthrough {
						targetPCs[currentPC+1] = true
					} else {
						targetPCs[br.Target.Statement] = true
					}
				}
				current = append(current, Instruction{PC: currentPC, Stmt: stmt})
				if targetPCs[currentPC+1] {
					closeBlock()
				}
			}
		case *Return:
			current = append(current, Instruction{PC: currentPC, Stmt: stmt})
			closeBlock()
		}
	}
	// A trailing partial block (malformed input: last statement wasn't a
	// Return or a closing branch) is still emitted so every instruction
	// belongs to some block.
	if len(current) > 0 {
		closeBlock()
	}

	cfg.Blocks = blocks
	wireEdges(cfg)
	for _, b := range cfg.Blocks {
		b.classify(registry, classifyCallee)
	}
	return cfg
}

// wireEdges implements spec.md §4.1's edge-wiring pass: for each block's
// last instruction, resolve each branch target to the unique block whose
// first instruction's PC matches (fallthrough -> pc+1), and link
// incoming/outgoing. Unreachable target PCs (no block starts there) are
// silently dropped.
func wireEdges(cfg *CFG) {
	firstPC := map[int]int{} // pc -> block id
	for _, b := range cfg.Blocks {
		firstPC[b.FirstInstruction().PC] = b.ID
	}

	for _, b := range cfg.Blocks {
		last := b.LastInstruction()
		inv, ok := last.AsInvocation()
		if !ok {
			continue // Return: zero outgoing edges.
		}
		for _, br := range inv.Branches {
			var targetPC int
			if br.Target.Fallthrough {
				targetPC = last.PC + 1
			} else {
				targetPC = br.Target.Statement
			}
			destID, ok := firstPC[targetPC]
			if !ok {
				continue
			}
			b.Outgoing = append(b.Outgoing, destID)
			dest := cfg.Blocks[destID]
			dest.Incoming = append(dest.Incoming, b.ID)
		}
	}
}

// buildOptimizedCFG applies the idempotent merge pass of spec.md §4.1 to a
// regular CFG: merge any block B with a unique successor S when S has a
// unique predecessor B, then compact ids to [0, n').
func buildOptimizedCFG(regular *CFG, registry Registry, classifyCallee func(name string) (Type, bool)) *CFG {
	// Work on a copy so the regular CFG is untouched.
	byID := map[int]*BasicBlock{}
	for _, b := range regular.Blocks {
		cp := *b
		cp.Incoming = append([]int(nil), b.Incoming...)
		cp.Outgoing = append([]int(nil), b.Outgoing...)
		byID[b.ID] = &cp
	}

	// A single pass: find every B -> S merge candidate up front (the
	// regular CFG's fan-in/fan-out, which doesn't change as candidates
	// are identified, since merging only ever touches a B/S pair once).
	type pair struct{ b, s int }
	var merges []pair
	var merged intsets.Sparse
	for _, b := range regular.Blocks {
		if len(b.Outgoing) != 1 {
			continue
		}
		sid := b.Outgoing[0]
		s := byID[sid]
		if len(s.Incoming) == 1 && !merged.Has(sid) {
			merges = append(merges, pair{b.ID, sid})
			merged.Insert(sid)
		}
	}

	// merges was computed once against the unmutated regular CFG, so a
	// chain of 3+ uniquely-linked blocks yields pairs like {A,B}, {B,C}
	// whose second half refers to a block (B) that the first half already
	// absorbed and removed from byID. redirect tracks, for every absorbed
	// id, the surviving id it was folded into, so later pairs resolve
	// through the chain instead of looking up a stale, deleted id.
	redirect := map[int]int{}
	find := func(id int) int {
		for {
			r, ok := redirect[id]
			if !ok {
				return id
			}
			id = r
		}
	}

	for _, m := range merges {
		bid, sid := find(m.b), find(m.s)
		if bid == sid {
			continue
		}
		b := byID[bid]
		s := byID[sid]
		// Drop B's trailing unconditional jump and append S's
		// instructions.
		if n := len(b.Instructions); n > 0 {
			b.Instructions = b.Instructions[:n-1]
		}
		b.Instructions = append(b.Instructions, s.Instructions...)
		// Inherit S's outgoing edges.
		b.Outgoing = append([]int(nil), s.Outgoing...)
		for _, succID := range s.Outgoing {
			succ := byID[succID]
			succ.Incoming = replaceIn(succ.Incoming, sid, bid)
		}
		delete(byID, sid)
		redirect[sid] = bid

		// The merged instruction sequence may expose a role call that
		// wasn't visible while B and S were split (or hide a stale
		// one from B's now-dropped trailing jump), so recompute B's
		// role slots from scratch.
		*b = BasicBlock{
			Function:     b.Function,
			ID:           b.ID,
			Instructions: b.Instructions,
			Incoming:     b.Incoming,
			Outgoing:     b.Outgoing,
		}
		b.classify(registry, classifyCallee)
	}

	// Reassemble in id order, skipping removed blocks.
	var kept []*BasicBlock
	for _, b := range regular.Blocks {
		if nb, ok := byID[b.ID]; ok {
			kept = append(kept, nb)
		}
	}

	compactIDs(kept)
	return &CFG{Blocks: kept}
}

func replaceIn(ids []int, old, new int) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		if id == old {
			out[i] = new
		} else {
			out[i] = id
		}
	}
	return out
}

// compactIDs renames block ids to be contiguous in [0, n'), rewriting every
// incoming/outgoing reference consistently.
func compactIDs(blocks []*BasicBlock) {
	remap := map[int]int{}
	for i, b := range blocks {
		remap[b.ID] = i
	}
	for _, b := range blocks {
		b.ID = remap[b.ID]
		for i, id := range b.Incoming {
			b.Incoming[i] = remap[id]
		}
		for i, id := range b.Outgoing {
			b.Outgoing[i] = remap[id]
		}
	}
}
