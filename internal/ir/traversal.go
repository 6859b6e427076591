// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// Postorder returns the block ids of cfg reachable from block 0, in
// postorder, via a recursive depth-first walk. Blocks unreachable from the
// entry block are omitted entirely (spec.md §4.2): a dangling or dead
// successor never corrupts the fixpoint engine's seed order.
func Postorder(cfg *CFG) []int {
	if len(cfg.Blocks) == 0 {
		return nil
	}
	visited := make([]bool, len(cfg.Blocks))
	var order []int
	var visit func(id int)
	visit = func(id int) {
		if id < 0 || id >= len(visited) || visited[id] {
			return
		}
		visited[id] = true
		b := cfg.Blocks[id]
		for _, succ := range b.Outgoing {
			visit(succ)
		}
		order = append(order, id)
	}
	visit(0)
	return order
}

// ReversePostorder returns Postorder(cfg) reversed: the entry block first,
// each block preceded by (at least one of) its predecessors whenever the
// CFG is acyclic along that path.
func ReversePostorder(cfg *CFG) []int {
	post := Postorder(cfg)
	rev := make([]int, len(post))
	for i, id := range post {
		rev[len(post)-1-i] = id
	}
	return rev
}
