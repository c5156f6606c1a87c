// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package parser

import (
	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/ir"
)

// exitNode is the virtual exit used for post-dominators and the "no
// block" sentinel.
const exitNode = -1

// cfg is the control flow graph of one function. Blocks are stored in an
// arena and edges are arena indices.
type cfg struct {
	fn     ir.ID
	blocks []*rawBlock
	index  map[ir.ID]int
	succs  [][]int
	preds  [][]int

	// rpo is the reverse postorder of reachable blocks from the entry and
	// order maps a block to its position in it (-1 when unreachable).
	rpo   []int
	order []int

	idom  []int
	ipdom []int

	backEdges map[[2]int]bool
}

func newCFG(fn ir.ID, blocks []*rawBlock) (*cfg, error) {
	g := &cfg{
		fn:        fn,
		blocks:    blocks,
		index:     make(map[ir.ID]int, len(blocks)),
		succs:     make([][]int, len(blocks)),
		preds:     make([][]int, len(blocks)),
		backEdges: make(map[[2]int]bool),
	}
	for i, b := range blocks {
		if _, dup := g.index[b.label]; dup {
			return nil, diag.Errorf(diag.ParseError, "function %d: duplicate label %d", fn, b.label)
		}
		g.index[b.label] = i
	}
	for i, b := range blocks {
		for _, t := range b.successors() {
			j, ok := g.index[t]
			if !ok {
				return nil, diag.Errorf(diag.ParseError, "function %d: block %d branches to unknown label %d", fn, b.label, t)
			}
			if !contains(g.succs[i], j) {
				g.succs[i] = append(g.succs[i], j)
				g.preds[j] = append(g.preds[j], i)
			}
		}
	}
	for _, b := range blocks {
		for _, t := range []ir.ID{b.mergeID, b.continueI} {
			if t == 0 {
				continue
			}
			if _, ok := g.index[t]; !ok {
				return nil, diag.Errorf(diag.ParseError, "function %d: merge target %d is not a block", fn, t)
			}
		}
	}

	g.depthFirst()
	g.idom = dominators(len(blocks), 0, g.rpo, g.order, func(b int) []int { return g.preds[b] })
	if err := g.checkReducible(); err != nil {
		return nil, err
	}
	g.postDominators()
	return g, nil
}

// successors lists the branch targets of a block in operand order.
func (b *rawBlock) successors() []ir.ID {
	switch b.term {
	case termBranch, termConditional:
		return b.targets
	case termSwitch:
		out := []ir.ID{b.defaultID}
		for _, c := range b.cases {
			out = append(out, c.label)
		}
		return out
	}
	return nil
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// depthFirst computes the reverse postorder and the back edges from the
// entry block.
func (g *cfg) depthFirst() {
	n := len(g.blocks)
	const (
		white = iota
		grey
		black
	)
	color := make([]int, n)
	post := make([]int, 0, n)

	type frame struct{ block, next int }
	stack := []frame{{block: 0}}
	color[0] = grey
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(g.succs[top.block]) {
			s := g.succs[top.block][top.next]
			top.next++
			switch color[s] {
			case white:
				color[s] = grey
				stack = append(stack, frame{block: s})
			case grey:
				g.backEdges[[2]int{top.block, s}] = true
			}
			continue
		}
		color[top.block] = black
		post = append(post, top.block)
		stack = stack[:len(stack)-1]
	}

	g.order = make([]int, n)
	for i := range g.order {
		g.order[i] = -1
	}
	g.rpo = make([]int, len(post))
	for i, b := range post {
		pos := len(post) - 1 - i
		g.rpo[pos] = b
		g.order[b] = pos
	}
}

// dominators runs the Cooper-Harvey-Kennedy iterative algorithm. Nodes
// outside rpo keep -1.
func dominators(n, entry int, rpo, order []int, preds func(int) []int) []int {
	idom := make([]int, n)
	for i := range idom {
		idom[i] = -1
	}
	idom[entry] = entry

	intersect := func(a, b int) int {
		for a != b {
			for order[a] > order[b] {
				a = idom[a]
			}
			for order[b] > order[a] {
				b = idom[b]
			}
		}
		return a
	}

	for changed := true; changed; {
		changed = false
		for _, b := range rpo {
			if b == entry {
				continue
			}
			next := -1
			for _, p := range preds(b) {
				if p < 0 || p >= n || order[p] < 0 || idom[p] == -1 {
					continue
				}
				if next == -1 {
					next = p
				} else {
					next = intersect(p, next)
				}
			}
			if next != idom[b] {
				idom[b] = next
				changed = true
			}
		}
	}
	return idom
}

// dominates reports whether a dominates b.
func (g *cfg) dominates(a, b int) bool {
	for {
		if a == b {
			return true
		}
		next := g.idom[b]
		if next == b || next < 0 {
			return false
		}
		b = next
	}
}

// checkReducible rejects back edges whose target does not dominate the
// source: such loops have more than one entry.
func (g *cfg) checkReducible() error {
	for e := range g.backEdges {
		if !g.dominates(e[1], e[0]) {
			return diag.Errorf(diag.ParseError, "function %d: irreducible control flow from block %d to block %d",
				g.fn, g.blocks[e[0]].label, g.blocks[e[1]].label)
		}
	}
	return nil
}

// postDominators computes immediate post-dominators over the reversed
// graph, rooted at a virtual exit that follows every terminating block.
// Blocks that cannot reach an exit post-dominate nothing and map to
// exitNode.
func (g *cfg) postDominators() {
	n := len(g.blocks)
	exit := n
	rsuccs := make([][]int, n+1) // edges of the reversed graph
	for b := 0; b < n; b++ {
		if g.order[b] < 0 {
			continue
		}
		if len(g.succs[b]) == 0 {
			rsuccs[exit] = append(rsuccs[exit], b)
		}
		for _, s := range g.succs[b] {
			rsuccs[s] = append(rsuccs[s], b)
		}
	}

	// Postorder of the reversed graph from the virtual exit.
	seen := make([]bool, n+1)
	post := make([]int, 0, n+1)
	var visit func(int)
	visit = func(b int) {
		seen[b] = true
		for _, s := range rsuccs[b] {
			if !seen[s] {
				visit(s)
			}
		}
		post = append(post, b)
	}
	visit(exit)

	order := make([]int, n+1)
	for i := range order {
		order[i] = -1
	}
	rpo := make([]int, len(post))
	for i, b := range post {
		pos := len(post) - 1 - i
		rpo[pos] = b
		order[b] = pos
	}

	preds := func(b int) []int {
		if b == exit {
			return nil
		}
		out := g.succs[b]
		if len(out) == 0 {
			return []int{exit}
		}
		return out
	}
	ipdom := dominators(n+1, exit, rpo, order, preds)

	g.ipdom = make([]int, n)
	for b := 0; b < n; b++ {
		d := ipdom[b]
		if d == exit || d < 0 {
			d = exitNode
		}
		g.ipdom[b] = d
	}
}
