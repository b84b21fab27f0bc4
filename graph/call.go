// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"github.com/go-interpreter/fbgraph/modenv"
	"github.com/go-interpreter/fbgraph/opcodes"
	"github.com/go-interpreter/fbgraph/types"
)

// callArgs assembles the heterogeneous input vector a Call node needs: the
// callee's code handle, the current effect, the current control, and the
// caller's already-decoded value arguments (§9's redesign note: calls
// bind code handle, effect, control and value args in one slot vector,
// rather than the teacher's separate discard-count/continuation
// bookkeeping, since this core has no interpreter stack to unwind). args
// is supplied by the caller rather than read off a field on Builder: a
// call's argument subtrees are decoded one at a time by the decoder, and
// a nested call among them (`call f(call g(x), y)`) would stomp a shared
// buffer before the outer call ever reads it, so each call site owns its
// own argument slice end to end.
func (b *Builder) callArgs(callee *Node, args []*Node) []*Node {
	inputs := make([]*Node, 0, 3+len(args))
	inputs = append(inputs, callee, b.effect, b.control)
	inputs = append(inputs, args...)
	return inputs
}

// CallDirect emits a call to the statically-known function index (§4.3).
// The callee's code handle is resolved through the bound module
// environment at build time, since a direct call's target is fixed by
// the bytecode itself; if no module environment is bound (pure-
// verification context, §6.2) the callee is a nil-Aux placeholder
// Constant, since no downstream consumer reads it in that context. args
// holds the call's already-decoded value arguments, in declaration order.
func (b *Builder) CallDirect(index uint32, args []*Node, returns types.ValueType) *Node {
	var handle modenv.CodeHandle
	if b.mod != nil {
		handle, _ = b.mod.CodeOf(index)
	}
	callee := b.codeHandleConstant(handle)

	n := b.g.newNode(OpCall, b.callArgs(callee, args)...)
	n.Type = returns
	n.Aux = directCallSite{index}
	b.effect = n
	return n
}

// CallIndirect emits a call through the table slot named by the dynamic
// index node (§4.3, §4.4): (a) a bounds check of index against the
// table's static size, trapping FuncInvalid; (b) a load of the table's
// tagged signature index at that slot and an equality check against
// expectedSig, trapping FuncSigMismatch; (c) a load of the code handle at
// that slot; (d) a call through that handle, exactly as CallDirect. The
// signature actually stored at the slot is read by the IR at run time —
// it is never resolved at build time — because the slot itself is a
// dynamic value, unlike CallDirect's statically-known function index.
// args holds the call's already-decoded value arguments, in declaration
// order.
func (b *Builder) CallIndirect(index *Node, expectedSig uint32, args []*Node, returns types.ValueType) *Node {
	if b.Traps != nil {
		size := uint32(0)
		if b.mod != nil {
			size = b.mod.TableSize()
		}
		sizeConst := b.Constant(types.I32, int32(size))
		inBounds := b.primitiveBinop(opcodes.I32("lt_u"), index, sizeConst)
		b.Traps.TrapIf(b, "FuncInvalid", inBounds, false)

		actualSig := b.loadTableSig(index)
		expectedConst := b.Constant(types.I32, int32(expectedSig))
		sigMatch := b.primitiveBinop(opcodes.I32("eq"), actualSig, expectedConst)
		b.Traps.TrapIf(b, "FuncSigMismatch", sigMatch, false)
	}

	callee := b.loadTableCode(index)

	n := b.g.newNode(OpCall, b.callArgs(callee, args)...)
	n.Type = returns
	n.Aux = indirectCallSite{expectedSig}
	b.effect = n
	return n
}

type directCallSite struct {
	FunctionIndex uint32
}

type indirectCallSite struct {
	ExpectedSigIndex uint32
}

// loadTableSig emits a load of the small-integer-tagged signature index
// stored at table slot index (§4.3's "signature-equality check against
// expected_sig_index"), threaded through the effect chain like any other
// memory read.
func (b *Builder) loadTableSig(index *Node) *Node {
	n := b.g.newNode(OpLoadTableSig, b.effect, index)
	n.Type = types.I32
	b.effect = n
	return n
}

// loadTableCode emits a load of the code handle stored at table slot
// index (§4.3's "load of the code handle from the table").
func (b *Builder) loadTableCode(index *Node) *Node {
	n := b.g.newNode(OpLoadTableCode, b.effect, index)
	b.effect = n
	return n
}

func (b *Builder) codeHandleConstant(handle modenv.CodeHandle) *Node {
	n := b.g.newNode(OpConstant)
	n.Aux = handle
	return n
}
