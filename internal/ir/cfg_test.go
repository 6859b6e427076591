// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "testing"

func classifyNone(name string) (Type, bool) { return TypePrivate, false }

func TestBuildRegularCFGLinear(t *testing.T) {
	statements := []Statement{
		&Invocation{LibfuncID: 0, Branches: []Branch{{Target: BranchTarget{Fallthrough: true}, Results: []VarID{0}}}},
		&Return{Args: []VarID{0}},
	}
	cfg := buildRegularCFG(statements, 0, "f", NewStaticRegistry(nil), classifyNone)
	if len(cfg.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(cfg.Blocks))
	}
	b := cfg.Blocks[0]
	if len(b.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2", len(b.Instructions))
	}
	if len(b.Outgoing) != 0 {
		t.Fatalf("got %d outgoing edges on a block ending in Return, want 0", len(b.Outgoing))
	}
}

func TestBuildRegularCFGBranch(t *testing.T) {
	statements := []Statement{
		&Invocation{LibfuncID: 0, Branches: []Branch{
			{Target: BranchTarget{Fallthrough: true}},
			{Target: BranchTarget{Statement: 2}},
		}},
		&Return{},
		&Return{},
	}
	cfg := buildRegularCFG(statements, 0, "f", NewStaticRegistry(nil), classifyNone)
	if len(cfg.Blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(cfg.Blocks))
	}
	entry := cfg.Blocks[0]
	if len(entry.Outgoing) != 2 {
		t.Fatalf("got %d outgoing edges from the entry block, want 2", len(entry.Outgoing))
	}
	if entry.Outgoing[0] != 1 || entry.Outgoing[1] != 2 {
		t.Fatalf("outgoing = %v, want [1 2]", entry.Outgoing)
	}
	for _, id := range []int{1, 2} {
		b := cfg.Blocks[id]
		if len(b.Incoming) != 1 || b.Incoming[0] != 0 {
			t.Fatalf("block %d incoming = %v, want [0]", id, b.Incoming)
		}
	}
}

func TestBuildOptimizedCFGMergesUniqueChain(t *testing.T) {
	// Three blocks chained by explicit (non-fallthrough) single-branch
	// jumps, each with a single successor/predecessor: should merge into
	// one in a single pass, including the B->S pair whose B was itself
	// already absorbed as an earlier pair's S (the {0,1},{1,2} case).
	statements := []Statement{
		&Invocation{LibfuncID: 0, Branches: []Branch{{Target: BranchTarget{Statement: 1}}}},
		&Invocation{LibfuncID: 0, Branches: []Branch{{Target: BranchTarget{Statement: 2}}}},
		&Return{},
	}
	regular := buildRegularCFG(statements, 0, "f", NewStaticRegistry(nil), classifyNone)
	if len(regular.Blocks) != 3 {
		t.Fatalf("regular CFG got %d blocks, want 3", len(regular.Blocks))
	}
	for i, want := range []int{1, 1} {
		if len(regular.Blocks[i].Outgoing) != want {
			t.Fatalf("block %d outgoing = %v, want %d edge", i, regular.Blocks[i].Outgoing, want)
		}
	}
	optimized := buildOptimizedCFG(regular, NewStaticRegistry(nil), classifyNone)
	if len(optimized.Blocks) != 1 {
		t.Fatalf("optimized CFG got %d blocks, want 1", len(optimized.Blocks))
	}
	if len(optimized.Blocks[0].Instructions) != 1 {
		t.Fatalf("merged block got %d instructions, want 1 (both trailing jumps dropped, only the Return kept)", len(optimized.Blocks[0].Instructions))
	}
}

func TestBuildOptimizedCFGKeepsBranch(t *testing.T) {
	statements := []Statement{
		&Invocation{LibfuncID: 0, Branches: []Branch{
			{Target: BranchTarget{Fallthrough: true}},
			{Target: BranchTarget{Statement: 2}},
		}},
		&Return{},
		&Return{},
	}
	regular := buildRegularCFG(statements, 0, "f", NewStaticRegistry(nil), classifyNone)
	optimized := buildOptimizedCFG(regular, NewStaticRegistry(nil), classifyNone)
	if len(optimized.Blocks) != 3 {
		t.Fatalf("got %d blocks, want 3 (no merge candidate: entry has two successors)", len(optimized.Blocks))
	}
}
