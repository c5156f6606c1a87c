// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import "github.com/gogpu/spirvcross/spirv"

// Statement represents a statement in the IR.
// Statements have side effects and structured control flow, but do not produce values.
type Statement struct {
	Kind StatementKind
}

// StatementKind represents the different kinds of statements.
type StatementKind interface {
	statementKind()
}

// Block represents a sequence of statements executed in order.
type Block []Statement

// StmtEmit evaluates an expression at this point of the body.
type StmtEmit struct {
	Expr ID
}

// StmtStore writes Value through Pointer.
type StmtStore struct {
	Pointer ID
	Value   ID
}

// StmtCopyMemory copies the value behind Source into Target.
type StmtCopyMemory struct {
	Target ID
	Source ID
}

// StmtImageWrite stores a texel into a storage image.
type StmtImageWrite struct {
	Image      ID
	Coordinate ID
	Texel      ID
}

// StmtIf executes Accept when Condition holds and Reject otherwise.
// Negate inverts the condition, which lets a branch whose true edge
// leaves the construct keep its body in Accept.
type StmtIf struct {
	Condition ID
	Negate    bool
	Accept    Block
	Reject    Block
}

// SwitchCase is one arm of a switch. Values holds every literal that
// reaches this body.
type SwitchCase struct {
	Values      []uint64
	Default     bool
	Body        Block
	FallThrough bool // If true, execution continues to next case
}

// StmtSwitch selects a case by the integer Selector.
type StmtSwitch struct {
	Selector ID
	Cases    []SwitchCase
}

// StmtLoop runs Body then Continuing until a Break.
// A Continue inside Body jumps to Continuing.
type StmtLoop struct {
	Body       Block
	Continuing Block
}

// StmtBreak exits the innermost loop or switch.
type StmtBreak struct{}

// StmtContinue jumps to the continuing block of the innermost loop.
type StmtContinue struct{}

// StmtReturn returns from the function. Value is 0 for void.
type StmtReturn struct {
	Value ID
}

// StmtKill discards the fragment.
type StmtKill struct{}

// StmtBarrier is OpControlBarrier or OpMemoryBarrier.
type StmtBarrier struct {
	// Control is set for OpControlBarrier.
	Control   bool
	Execution spirv.Scope
	Memory    spirv.Scope
	Semantics spirv.MemorySemantics
}

// StmtCall calls a function whose result is void.
type StmtCall struct {
	Function ID
	Args     []ID
}

// StmtAtomicStore atomically writes Value through Pointer.
type StmtAtomicStore struct {
	Pointer ID
	Value   ID
}

// PhiCopy assigns Value to the variable of phi Phi.
type PhiCopy struct {
	Phi   ID
	Value ID
}

// StmtPhiStores performs the phi assignments of one control flow edge.
// The copies are parallel: every Value is read before any Phi is written.
type StmtPhiStores struct {
	Copies []PhiCopy
}

func (StmtEmit) statementKind()        {}
func (StmtStore) statementKind()       {}
func (StmtCopyMemory) statementKind()  {}
func (StmtImageWrite) statementKind()  {}
func (StmtIf) statementKind()          {}
func (StmtSwitch) statementKind()      {}
func (StmtLoop) statementKind()        {}
func (StmtBreak) statementKind()       {}
func (StmtContinue) statementKind()    {}
func (StmtReturn) statementKind()      {}
func (StmtKill) statementKind()        {}
func (StmtBarrier) statementKind()     {}
func (StmtCall) statementKind()        {}
func (StmtAtomicStore) statementKind() {}
func (StmtPhiStores) statementKind()   {}
