// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-interpreter/fbgraph/opcodes"
	"github.com/go-interpreter/fbgraph/types"
)

// stubTrap is a minimal graph.TrapInserter used by these tests: it records
// which reasons were requested and threads the builder's control cursor
// through a real Branch, without reproducing trap's Merge/EffectPhi
// widening (that behavior belongs to package trap's own tests).
type stubTrap struct {
	reasons []string
}

func (s *stubTrap) TrapIf(b *Builder, reason string, cond *Node, iftrueMeansTrap bool) {
	s.reasons = append(s.reasons, reason)
	ifTrue, ifFalse := b.Branch(cond)
	if iftrueMeansTrap {
		b.SetControl(ifFalse)
	} else {
		b.SetControl(ifTrue)
	}
}

func newTestBuilder() *Builder {
	b := NewBuilder(opcodes.Generic64BitTarget, nil)
	b.Start(nil)
	return b
}

func TestStartCreatesParamsAndCursor(t *testing.T) {
	b := NewBuilder(opcodes.Generic64BitTarget, nil)
	start, params := b.Start([]types.ValueType{types.I32, types.F64})
	require.Len(t, params, 2)
	assert.Equal(t, types.I32, params[0].Type)
	assert.Equal(t, types.F64, params[1].Type)
	assert.Same(t, start, b.Control())
	assert.Same(t, start, b.Effect())
	assert.Same(t, start, b.Graph().Start)
}

func TestBinopAddShape(t *testing.T) {
	b := newTestBuilder()
	l := b.Constant(types.I32, int32(3))
	r := b.Constant(types.I32, int32(4))
	sum := b.Binop(opcodes.I32("add"), l, r)
	assert.Equal(t, OpBinop, sum.Op)
	assert.Equal(t, types.I32, sum.Type)
	assert.Equal(t, []*Node{l, r}, sum.Inputs)
}

func TestReturnMergesIntoEnd(t *testing.T) {
	b := newTestBuilder()
	v := b.Constant(types.I32, int32(9))
	b.Return(v)
	require.NotNil(t, b.Graph().End)
	assert.Equal(t, 1, len(b.Graph().End.Inputs))

	b.Return(v)
	assert.Equal(t, 2, len(b.Graph().End.Inputs), "a second terminator widens End in place")
}

func TestIntegerDivRemInsertsTraps(t *testing.T) {
	b := newTestBuilder()
	traps := &stubTrap{}
	b.Traps = traps

	l := b.Constant(types.I32, int32(10))
	r := b.Constant(types.I32, int32(3))
	b.Binop(opcodes.I32("div_s"), l, r)
	assert.Equal(t, []string{"DivByZero", "DivUnrepresentable"}, traps.reasons)

	traps.reasons = nil
	b.Binop(opcodes.I32("div_u"), l, r)
	assert.Equal(t, []string{"DivByZero"}, traps.reasons, "unsigned division never checks INT_MIN/-1")

	traps.reasons = nil
	b.Binop(opcodes.I32("rem_s"), l, r)
	assert.Equal(t, []string{"DivByZero"}, traps.reasons, "signed remainder checks only for a zero divisor, never INT_MIN/-1")
}

func TestLoadMemBoundsCheckStaticallyOutOfRange(t *testing.T) {
	b := newTestBuilder()
	traps := &stubTrap{}
	b.Traps = traps

	idx := b.Constant(types.I32, int32(0))
	access := MemAccess{Mem: types.MemI32s, Offset: 30}
	b.LoadMem(access, idx, 0, 32, false, types.I32)
	require.Equal(t, []string{"MemOutOfBounds"}, traps.reasons)
}

func TestLoadMemAsmJSSkipsTrap(t *testing.T) {
	b := newTestBuilder()
	traps := &stubTrap{}
	b.Traps = traps

	idx := b.Constant(types.I32, int32(0))
	access := MemAccess{Mem: types.MemI32s, Offset: 0}
	n := b.LoadMem(access, idx, 0, 32, true, types.I32)
	assert.Empty(t, traps.reasons, "asm.js semantics never insert a trap check")
	assert.Equal(t, OpLoad, n.Op)
}

func TestLoadI64NarrowExtendsTo64(t *testing.T) {
	b := newTestBuilder()
	idx := b.Constant(types.I32, int32(0))
	access := MemAccess{Mem: types.MemI32s, Offset: 0}
	n := b.LoadMem(access, idx, 0, 32, true, types.I64)
	assert.Equal(t, types.I64, n.Type, "i64.load32_s narrows and must sign-extend back to i64")
	assert.Equal(t, OpUnop, n.Op)
}

func TestLowerCtzUsesOnlySupportedPrimitives(t *testing.T) {
	b := newTestBuilder()
	x := b.Constant(types.I32, int32(12))
	out := b.Unop(opcodes.I32("ctz"), x)
	// popcnt is lowered too on the reference target, so the final node is
	// the SWAR sequence's closing `and`.
	assert.Equal(t, OpBinop, out.Op)
	if op, ok := out.Aux.(opcodes.Op); ok {
		assert.True(t, op.SupportedOn(b.Caps()), "lowered ctz's final op must itself be native")
	}
}

func TestLowerPopcnt32(t *testing.T) {
	b := newTestBuilder()
	x := b.Constant(types.I32, int32(0x0f))
	out := b.Unop(opcodes.I32("popcnt"), x)
	assert.Equal(t, types.I32, out.Type)
}

func TestLowerCopysignF64(t *testing.T) {
	b := newTestBuilder()
	l := b.Constant(types.F64, 3.0)
	r := b.Constant(types.F64, -1.0)
	out := b.Binop(opcodes.F64("copysign"), l, r)
	assert.Equal(t, types.F64, out.Type)
}

func TestCallDirectBindsCodeHandle(t *testing.T) {
	b := newTestBuilder()
	args := []*Node{b.Constant(types.I32, int32(1))}
	call := b.CallDirect(2, args, types.I32)
	assert.Equal(t, OpCall, call.Op)
	assert.Equal(t, types.I32, call.Type)
	assert.Same(t, call, b.Effect(), "a call becomes the new effect")
}

func TestCallIndirectEmitsBoundsAndSigChecks(t *testing.T) {
	b := newTestBuilder()
	traps := &stubTrap{}
	b.Traps = traps

	key := b.Constant(types.I32, int32(0))
	args := []*Node{b.Constant(types.I32, int32(1))}
	call := b.CallIndirect(key, 7, args, types.I32)
	assert.Equal(t, []string{"FuncInvalid", "FuncSigMismatch"}, traps.reasons)
	assert.Equal(t, OpCall, call.Op)
}

// TestNestedCallArgumentsDoNotCorruptEachOther guards the regression where
// CallDirect/CallIndirect read a shared Builder-owned scratch buffer: a
// call nested inside another call's argument list would clear and refill
// that buffer before the outer call ever read it. Each call site now owns
// its own argument slice, so the outer call's args must reflect exactly
// what its own decode pushed, regardless of how many calls were built
// while decoding one of its argument subtrees.
func TestNestedCallArgumentsDoNotCorruptEachOther(t *testing.T) {
	b := newTestBuilder()
	x := b.Constant(types.I32, int32(1))
	inner := b.CallDirect(1, []*Node{x}, types.I32)
	require.Len(t, inner.Inputs, 4, "callee, effect, control, x")

	y := b.Constant(types.I32, int32(2))
	outer := b.CallDirect(2, []*Node{inner, y}, types.I32)
	require.Len(t, outer.Inputs, 5, "callee, effect, control, inner, y")
	assert.Same(t, inner, outer.Inputs[3])
	assert.Same(t, y, outer.Inputs[4])
}

func TestMergePhiWidening(t *testing.T) {
	b := newTestBuilder()
	c1 := b.Control()
	merge := b.Merge(c1)
	phi := b.Phi(types.I32, merge, b.Constant(types.I32, int32(1)))
	assert.Len(t, merge.Inputs, 1)
	assert.Len(t, phi.Inputs, 2) // merge itself plus one value

	b.AppendToMerge(merge, c1)
	b.AppendToPhi(phi, b.Constant(types.I32, int32(2)))
	assert.Len(t, merge.Inputs, 2)
	assert.Len(t, phi.Inputs, 3)
}
