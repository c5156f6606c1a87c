// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package parser

import (
	"sort"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/ir"
)

// jumpKind classifies a control flow edge relative to the enclosing
// constructs.
type jumpKind uint8

const (
	jumpNone     jumpKind = iota // Ordinary flow into the target block
	jumpStop                     // Flow reaches the end of the current region
	jumpBreak                    // Exit of the innermost loop or switch
	jumpContinue                 // Back to the innermost loop
	jumpFall                     // Fallthrough into the next switch case
)

// scope describes the constructs enclosing the region being walked.
type scope struct {
	breakTarget    int
	inSwitch       bool
	loopMerge      int
	continueTarget int
	// continuingBreaks is set when the innermost loop's continuing block
	// contains a break, which cannot be replayed inside a switch.
	continuingBreaks bool
	fallTarget       int
	// enclosing holds the merge blocks of outer loops and switches.
	enclosing []int
}

type structurizer struct {
	m *ir.Module
	f *ir.Function
	g *cfg

	visited    []bool
	activeLoop []bool
	fell       bool
}

// structurize turns the CFG of f into a structured statement tree.
func structurize(m *ir.Module, f *ir.Function, g *cfg) (ir.Block, error) {
	s := &structurizer{
		m:          m,
		f:          f,
		g:          g,
		visited:    make([]bool, len(g.blocks)),
		activeLoop: make([]bool, len(g.blocks)),
	}
	root := scope{
		breakTarget:    exitNode,
		loopMerge:      exitNode,
		continueTarget: exitNode,
		fallTarget:     exitNode,
	}
	return s.region(0, exitNode, root)
}

func (s *structurizer) errorf(format string, args ...any) error {
	return diag.Errorf(diag.ParseError, "function %d: "+format, append([]any{s.f.ID}, args...)...)
}

// block returns the arena index of label, or exitNode when the block is
// unreachable from the entry.
func (s *structurizer) block(label ir.ID) int {
	i, ok := s.g.index[label]
	if !ok || s.g.order[i] < 0 {
		return exitNode
	}
	return i
}

// region structurizes the blocks from entry up to, but excluding, stop.
//
//nolint:gocyclo,cyclop,funlen // one case per terminator
func (s *structurizer) region(entry, stop int, sc scope) (ir.Block, error) {
	var out ir.Block
	cur := entry
	for cur != stop && cur != exitNode {
		b := s.g.blocks[cur]

		if b.merge == mergeLoop && !s.activeLoop[cur] {
			loop, merge, err := s.loop(cur, sc)
			if err != nil {
				return nil, err
			}
			out = append(out, loop)
			next, done, err := s.flow(merge, stop, sc, &out)
			if err != nil || done {
				return out, err
			}
			cur = next
			continue
		}

		if s.visited[cur] {
			return nil, s.errorf("block %d is reached from more than one construct", b.label)
		}
		s.visited[cur] = true
		out = append(out, b.body...)

		switch b.term {
		case termReturn:
			return append(out, ir.Statement{Kind: ir.StmtReturn{Value: b.cond}}), nil
		case termKill:
			return append(out, ir.Statement{Kind: ir.StmtKill{}}), nil
		case termUnreachable:
			return out, nil

		case termBranch:
			t := s.block(b.targets[0])
			stmts, kind, err := s.edge(cur, t, stop, sc)
			if err != nil {
				return nil, err
			}
			out = append(out, stmts...)
			if kind != jumpNone {
				return out, nil
			}
			cur = t

		case termConditional:
			t, f := s.block(b.targets[0]), s.block(b.targets[1])
			if t == f {
				stmts, kind, err := s.edge(cur, t, stop, sc)
				if err != nil {
					return nil, err
				}
				out = append(out, stmts...)
				if kind != jumpNone {
					return out, nil
				}
				cur = t
				continue
			}

			if b.merge != mergeSelection {
				tk, err := s.classify(t, stop, sc)
				if err != nil {
					return nil, err
				}
				fk, err := s.classify(f, stop, sc)
				if err != nil {
					return nil, err
				}
				tJump, fJump := isJump(tk), isJump(fk)
				switch {
				case tJump && fJump:
					st, err := s.ifStatement(cur, b.cond, t, f, exitNode, sc)
					if err != nil {
						return nil, err
					}
					return append(out, st), nil
				case tJump || fJump:
					// A conditional break, continue or fallthrough; the other
					// edge is the ordinary flow.
					jumpTo, flowTo, negate := t, f, false
					if fJump {
						jumpTo, flowTo, negate = f, t, true
					}
					s.fell = false
					accept, _, err := s.edge(cur, jumpTo, stop, sc)
					if err != nil {
						return nil, err
					}
					if s.fell {
						return nil, s.errorf("conditional fallthrough from block %d", b.label)
					}
					out = append(out, ir.Statement{Kind: ir.StmtIf{Condition: b.cond, Negate: negate, Accept: accept}})
					stmts, kind, err := s.edge(cur, flowTo, stop, sc)
					if err != nil {
						return nil, err
					}
					out = append(out, stmts...)
					if kind != jumpNone {
						return out, nil
					}
					cur = flowTo
					continue
				}
			}

			merge := s.mergeOf(cur)
			st, err := s.ifStatement(cur, b.cond, t, f, merge, sc)
			if err != nil {
				return nil, err
			}
			out = append(out, st)
			next, done, err := s.flow(merge, stop, sc, &out)
			if err != nil || done {
				return out, err
			}
			cur = next

		case termSwitch:
			merge := s.mergeOf(cur)
			st, err := s.switchStatement(cur, merge, sc)
			if err != nil {
				return nil, err
			}
			out = append(out, st)
			next, done, err := s.flow(merge, stop, sc, &out)
			if err != nil || done {
				return out, err
			}
			cur = next
		}
	}
	return out, nil
}

// mergeOf returns the declared selection merge of a block, or its
// immediate post-dominator when the merge instruction is missing.
func (s *structurizer) mergeOf(b int) int {
	blk := s.g.blocks[b]
	if blk.merge == mergeSelection {
		return s.block(blk.mergeID)
	}
	return s.g.ipdom[b]
}

// flow continues after a construct whose merge is target. It appends a
// jump to out when the merge is an outer break or continue target.
func (s *structurizer) flow(target, stop int, sc scope, out *ir.Block) (next int, done bool, err error) {
	if target == exitNode {
		return exitNode, true, nil
	}
	kind, err := s.classify(target, stop, sc)
	if err != nil {
		return 0, true, err
	}
	switch kind {
	case jumpNone:
		return target, false, nil
	case jumpStop:
		return target, true, nil
	}
	if kind == jumpFall {
		s.fell = true
	}
	*out = append(*out, jumpStatement(kind)...)
	return target, true, nil
}

func isJump(k jumpKind) bool {
	return k == jumpBreak || k == jumpContinue || k == jumpFall
}

// classify decides what reaching block to means in scope sc.
func (s *structurizer) classify(to, stop int, sc scope) (jumpKind, error) {
	switch {
	case to == stop:
		return jumpStop, nil
	case to == sc.breakTarget && to != exitNode:
		return jumpBreak, nil
	case to == sc.continueTarget && to != exitNode:
		if sc.inSwitch && sc.continuingBreaks {
			return 0, s.errorf("continue inside a switch cannot replay a continue block that breaks")
		}
		return jumpContinue, nil
	case to == sc.loopMerge && to != exitNode:
		return 0, s.errorf("break out of a loop from inside a switch to block %d", s.g.blocks[to].label)
	case to == sc.fallTarget && to != exitNode:
		return jumpFall, nil
	case to == exitNode:
		return jumpNone, nil
	}
	for _, m := range sc.enclosing {
		if m == to {
			return 0, s.errorf("multi-level break to block %d", s.g.blocks[to].label)
		}
	}
	return jumpNone, nil
}

func jumpStatement(kind jumpKind) ir.Block {
	switch kind {
	case jumpBreak:
		return ir.Block{{Kind: ir.StmtBreak{}}}
	case jumpContinue:
		return ir.Block{{Kind: ir.StmtContinue{}}}
	}
	return nil
}

// edge returns the statements for taking the edge from -> to: the phi
// stores of the edge followed by a break or continue when the edge is a
// jump.
func (s *structurizer) edge(from, to, stop int, sc scope) (ir.Block, jumpKind, error) {
	kind, err := s.classify(to, stop, sc)
	if err != nil {
		return nil, 0, err
	}
	if kind == jumpNone && to != exitNode && s.g.backEdges[[2]int{from, to}] {
		return nil, 0, s.errorf("back edge from block %d to block %d is not a loop continue",
			s.g.blocks[from].label, s.g.blocks[to].label)
	}
	out := s.phiStores(from, to)
	if kind == jumpFall {
		s.fell = true
	}
	return append(out, jumpStatement(kind)...), kind, nil
}

// phiStores collects the phi assignments for the edge from -> to.
func (s *structurizer) phiStores(from, to int) ir.Block {
	if to == exitNode {
		return nil
	}
	label := s.g.blocks[from].label
	var copies []ir.PhiCopy
	for _, phi := range s.g.blocks[to].phis {
		e := s.m.Expression(phi)
		if e == nil {
			continue
		}
		ph, ok := e.Kind.(ir.ExprPhi)
		if !ok {
			continue
		}
		for _, in := range ph.Incoming {
			if in.Block == label {
				copies = append(copies, ir.PhiCopy{Phi: phi, Value: in.Value})
				break
			}
		}
	}
	if len(copies) == 0 {
		return nil
	}
	return ir.Block{{Kind: ir.StmtPhiStores{Copies: copies}}}
}

// arm structurizes one side of a selection.
func (s *structurizer) arm(from, to, merge int, sc scope) (ir.Block, error) {
	stmts, kind, err := s.edge(from, to, merge, sc)
	if err != nil || kind != jumpNone {
		return stmts, err
	}
	body, err := s.region(to, merge, sc)
	if err != nil {
		return nil, err
	}
	return append(stmts, body...), nil
}

func (s *structurizer) ifStatement(from int, cond ir.ID, t, f, merge int, sc scope) (ir.Statement, error) {
	s.fell = false
	accept, err := s.arm(from, t, merge, sc)
	if err != nil {
		return ir.Statement{}, err
	}
	reject, err := s.arm(from, f, merge, sc)
	if err != nil {
		return ir.Statement{}, err
	}
	if s.fell {
		return ir.Statement{}, s.errorf("conditional fallthrough from block %d", s.g.blocks[from].label)
	}
	st := ir.StmtIf{Condition: cond, Accept: accept, Reject: reject}
	if len(accept) == 0 && len(reject) > 0 {
		st.Accept, st.Reject, st.Negate = reject, nil, true
	}
	return ir.Statement{Kind: st}, nil
}

// loop structurizes the loop headed by h and returns it with its merge.
func (s *structurizer) loop(h int, sc scope) (ir.Statement, int, error) {
	b := s.g.blocks[h]
	merge := s.block(b.mergeID)
	cont := s.block(b.continueI)
	s.activeLoop[h] = true

	inner := scope{
		breakTarget:    merge,
		loopMerge:      merge,
		continueTarget: cont,
		fallTarget:     exitNode,
		enclosing:      append(append([]int(nil), sc.enclosing...), sc.breakTarget),
	}

	var body, continuing ir.Block
	var err error
	if cont != h && cont != exitNode {
		cs := inner
		cs.continueTarget = exitNode
		continuing, err = s.region(cont, h, cs)
		if err != nil {
			return ir.Statement{}, 0, err
		}
		inner.continuingBreaks = containsBreak(continuing)
		body, err = s.region(h, cont, inner)
	} else {
		inner.continueTarget = h
		body, err = s.region(h, exitNode, inner)
		if n := len(body); n > 0 {
			if _, ok := body[n-1].Kind.(ir.StmtContinue); ok {
				body = body[:n-1]
			}
		}
	}
	if err != nil {
		return ir.Statement{}, 0, err
	}
	return ir.Statement{Kind: ir.StmtLoop{Body: body, Continuing: continuing}}, merge, nil
}

// containsBreak reports whether block breaks out of its loop. Breaks of
// nested loops and switches do not count.
func containsBreak(block ir.Block) bool {
	for _, st := range block {
		switch k := st.Kind.(type) {
		case ir.StmtBreak:
			return true
		case ir.StmtIf:
			if containsBreak(k.Accept) || containsBreak(k.Reject) {
				return true
			}
		}
	}
	return false
}

type caseGroup struct {
	target    int
	values    []uint64
	isDefault bool
}

func (s *structurizer) switchStatement(from, merge int, sc scope) (ir.Statement, error) {
	b := s.g.blocks[from]
	def := s.block(b.defaultID)

	var groups []*caseGroup
	byTarget := make(map[int]*caseGroup)
	group := func(t int) *caseGroup {
		g, ok := byTarget[t]
		if !ok {
			g = &caseGroup{target: t}
			byTarget[t] = g
			groups = append(groups, g)
		}
		return g
	}
	for _, c := range b.cases {
		g := group(s.block(c.label))
		g.values = append(g.values, c.literal)
	}
	if def != merge {
		group(def).isDefault = true
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return s.g.order[groups[i].target] < s.g.order[groups[j].target]
	})

	inner := sc
	inner.breakTarget = merge
	inner.inSwitch = true
	inner.enclosing = append(append([]int(nil), sc.enclosing...), sc.breakTarget)

	cases := make([]ir.SwitchCase, 0, len(groups)+1)
	for i, g := range groups {
		inner.fallTarget = exitNode
		if i+1 < len(groups) {
			inner.fallTarget = groups[i+1].target
		}
		s.fell = false
		body, err := s.arm(from, g.target, merge, inner)
		if err != nil {
			return ir.Statement{}, err
		}
		cases = append(cases, ir.SwitchCase{
			Values:      g.values,
			Default:     g.isDefault,
			Body:        body,
			FallThrough: s.fell,
		})
		s.fell = false
	}
	if def == merge {
		if stores := s.phiStores(from, merge); len(stores) > 0 {
			cases = append(cases, ir.SwitchCase{Default: true, Body: stores})
		}
	}
	return ir.Statement{Kind: ir.StmtSwitch{Selector: b.cond, Cases: cases}}, nil
}
