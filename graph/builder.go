// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"github.com/go-interpreter/fbgraph/modenv"
	"github.com/go-interpreter/fbgraph/opcodes"
	"github.com/go-interpreter/fbgraph/types"
)

// TrapInserter is implemented by the trap package's Helper. The builder
// depends on it only through this interface so that package trap (which
// must call back into the builder's Branch/Merge/EffectPhi primitives,
// §4.4) can depend on graph without graph depending on trap.
type TrapInserter interface {
	// TrapIf emits a trap check: if cond evaluates to a value whose
	// truthiness equals iftrueMeansTrap, control is diverted to reason's
	// materialized trap block; otherwise the builder's cursor continues
	// past the check unchanged except for the new branch (§4.4).
	TrapIf(b *Builder, reason string, cond *Node, iftrueMeansTrap bool)
}

// Builder constructs IR nodes and maintains the cursors required by every
// call site: the current control node and the current effect node (§4.3,
// §9). A call's argument list is assembled by its caller into a plain
// []*Node and passed straight to CallDirect/CallIndirect rather than
// threaded through a field on Builder, since Builder has no way to know
// when one call's argument subtree is done being decoded and another's
// begins — see the callArgs doc comment in call.go.
type Builder struct {
	g    *Graph
	caps opcodes.TargetCaps
	mod  modenv.Environment // may be nil (pure verification context)

	control *Node
	effect  *Node

	// Traps is consulted by Binop (integer div/rem), LoadMem/StoreMem
	// (bounds checks) and CallIndirect (table bounds + signature check).
	// A nil Traps means no trap checks are inserted at all — used only by
	// callers that have already proven those conditions can't occur.
	Traps TrapInserter
}

// NewBuilder constructs a Builder over a fresh Graph. caps governs which
// opcodes Binop/Unop may emit directly versus must lower (§4.1); mod is
// the module environment (nil for a pure-verification build, §6.2).
func NewBuilder(caps opcodes.TargetCaps, mod modenv.Environment) *Builder {
	return &Builder{g: New(), caps: caps, mod: mod}
}

// Graph returns the graph under construction.
func (b *Builder) Graph() *Graph { return b.g }

// Caps returns the target capabilities this builder was constructed with.
func (b *Builder) Caps() opcodes.TargetCaps { return b.caps }

// ModuleEnv returns the bound module environment, or nil.
func (b *Builder) ModuleEnv() modenv.Environment { return b.mod }

// Control returns the current control cursor.
func (b *Builder) Control() *Node { return b.control }

// SetControl replaces the current control cursor. Exported for trap and
// decode, which both need to splice control explicitly at merge points.
func (b *Builder) SetControl(n *Node) { b.control = n }

// Effect returns the current effect cursor.
func (b *Builder) Effect() *Node { return b.effect }

// SetEffect replaces the current effect cursor.
func (b *Builder) SetEffect(n *Node) { b.effect = n }

// Start creates the Start node (produces parameter tokens and the initial
// effect/control, §4.3) and points the cursor at it. nParams Param nodes
// are created as Start's logical outputs, each taking Start as its sole
// input and carrying its declared type.
func (b *Builder) Start(paramTypes []types.ValueType) (start *Node, params []*Node) {
	start = b.g.newNode(OpStart)
	b.g.Start = start
	b.control = start
	b.effect = start
	params = make([]*Node, len(paramTypes))
	for i, t := range paramTypes {
		p := b.g.newNode(OpParam, start)
		p.Type = t
		p.Aux = i
		params[i] = p
	}
	return start, params
}

// Constant yields a pure value node for v, typed t. v's concrete Go type
// must match t (int32 for I32, int64 for I64, float32 for F32, float64
// for F64) — this is an internal contract the decoder is responsible for
// upholding (§6.1 describes the wire encodings that feed these values).
func (b *Builder) Constant(t types.ValueType, v interface{}) *Node {
	n := b.g.newNode(OpConstant)
	n.Type = t
	n.Aux = v
	return n
}

// Return appends the function's effect and control inputs and merges to
// End (§4.3). vals is empty for a void return.
func (b *Builder) Return(vals ...*Node) *Node {
	inputs := append([]*Node{b.effect, b.control}, vals...)
	ret := b.g.newNode(OpReturn, inputs...)
	b.mergeIntoEnd(ret)
	return ret
}

// ReturnVoid returns a single i32 zero constant — used by the decoder to
// terminate a void function's empty body (§4.2's empty-body tie-break) and
// by trap blocks that have no module context to throw through.
func (b *Builder) ReturnVoid() *Node {
	return b.Return(b.Constant(types.I32, int32(0)))
}

func (b *Builder) mergeIntoEnd(terminator *Node) {
	if b.g.End == nil {
		b.g.End = b.g.newNode(OpEnd, terminator)
		return
	}
	b.g.End.appendInput(terminator)
}

// Throw constructs the runtime-throw terminator call node used by a
// materialized trap block that has a ModuleContext available (§4.4):
// it invokes target with reasonConst as its sole argument, consuming the
// builder's current control/effect cursor, and routes the result to End
// as a terminator. Callers set the cursor to the trap block's merge/
// effect-phi before calling this.
func (b *Builder) Throw(target modenv.CodeHandle, reasonConst *Node) *Node {
	callee := b.codeHandleConstant(target)
	n := b.g.newNode(OpThrow, callee, b.effect, b.control, reasonConst)
	b.mergeIntoEnd(n)
	return n
}

// Unreachable creates the unreachable-terminate node and routes it to End
// (§4.2's infinite-loop tie-break: "its successor in the graph is the
// unreachable terminate node so the End collects it").
func (b *Builder) Unreachable() *Node {
	n := b.g.newNode(OpUnreachable, b.control, b.effect)
	b.mergeIntoEnd(n)
	return n
}
