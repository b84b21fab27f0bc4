// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-interpreter/fbgraph/diag"
	"github.com/go-interpreter/fbgraph/funcenv"
	"github.com/go-interpreter/fbgraph/graph"
	"github.com/go-interpreter/fbgraph/modenv"
	"github.com/go-interpreter/fbgraph/opcodes"
	"github.com/go-interpreter/fbgraph/sig"
	"github.com/go-interpreter/fbgraph/trap"
	"github.com/go-interpreter/fbgraph/types"
)

// fakeEnv is a minimal modenv.Environment test double: a fixed-size linear
// memory, a handful of globals and table slots, and a signature registry,
// enough to exercise every decoder production that needs a module
// environment (§6.2) without pulling in a real module loader (out of
// scope for this core, §1).
type fakeEnv struct {
	memStart, memEnd uint32
	hasMemory        bool
	asmJS            bool

	globalsBase uint32
	globals     []modenv.GlobalSlot

	tableSigs  []uint32
	tableCodes []modenv.CodeHandle

	sigs *sig.Registry
}

func (f *fakeEnv) HasMemory() bool                { return f.hasMemory }
func (f *fakeEnv) MemoryBounds() (uint32, uint32) { return f.memStart, f.memEnd }
func (f *fakeEnv) AsmJSSemantics() bool           { return f.asmJS }
func (f *fakeEnv) GlobalsBase() uint32            { return f.globalsBase }
func (f *fakeEnv) Global(i uint32) (modenv.GlobalSlot, bool) {
	if int(i) >= len(f.globals) {
		return modenv.GlobalSlot{}, false
	}
	return f.globals[i], true
}
func (f *fakeEnv) TableSize() uint32 { return uint32(len(f.tableSigs)) }
func (f *fakeEnv) TableSignature(i uint32) (uint32, bool) {
	if int(i) >= len(f.tableSigs) {
		return 0, false
	}
	return f.tableSigs[i], true
}
func (f *fakeEnv) TableCode(i uint32) (modenv.CodeHandle, bool) {
	if int(i) >= len(f.tableCodes) {
		return nil, false
	}
	return f.tableCodes[i], true
}
func (f *fakeEnv) Signatures() *sig.Registry                 { return f.sigs }
func (f *fakeEnv) CodeOf(i uint32) (modenv.CodeHandle, bool) { return int(i), true }
func (f *fakeEnv) Context() modenv.ModuleContext             { return nil }

// enc is a tiny append-only byte-stream builder matching the wire format
// of §6.1: used to assemble test function bodies from opcode constants
// instead of magic byte literals, so tests stay readable and survive any
// future opcode renumbering.
type enc struct{ buf []byte }

func (e *enc) op(o opcodes.Op) *enc  { e.buf = append(e.buf, o.Code); return e }
func (e *enc) byte(b byte) *enc      { e.buf = append(e.buf, b); return e }
func (e *enc) u32(v uint32) *enc {
	e.buf = append(e.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	return e
}
func (e *enc) i32(v int32) *enc { return e.u32(uint32(v)) }

func newBuilder(mod modenv.Environment) *graph.Builder {
	b := graph.NewBuilder(opcodes.Generic64BitTarget, mod)
	var ctx modenv.ModuleContext
	if mod != nil {
		ctx = mod.Context()
	}
	b.Traps = trap.New(ctx)
	return b
}

// TestDecodeConstantReturn is spec scenario 1: return(i32.const 0x11223344).
func TestDecodeConstantReturn(t *testing.T) {
	var e enc
	e.op(opcodes.Return).op(opcodes.I32Const).i32(0x11223344)

	env := funcenv.New(sig.Signature{Return: types.I32}, nil)
	b := newBuilder(nil)
	result := Decode(e.buf, env, b, Options{})
	require.True(t, result.OK(), "%v", result.Err)

	require.NotNil(t, b.Graph().End)
	require.Len(t, b.Graph().End.Inputs, 1)
	ret := b.Graph().End.Inputs[0]
	assert.Equal(t, graph.OpReturn, ret.Op)
	val := ret.Inputs[len(ret.Inputs)-1]
	assert.Equal(t, int32(0x11223344), val.Aux)
}

// TestDecodeTwoParamAdd is spec scenario 2: (i32,i32)->i32,
// return(get_local 0 + get_local 1).
func TestDecodeTwoParamAdd(t *testing.T) {
	var e enc
	e.op(opcodes.Return).op(opcodes.I32("add")).
		op(opcodes.GetLocal).byte(0).
		op(opcodes.GetLocal).byte(1)

	env := funcenv.New(sig.Signature{Params: []types.ValueType{types.I32, types.I32}, Return: types.I32}, nil)
	b := newBuilder(nil)
	result := Decode(e.buf, env, b, Options{})
	require.True(t, result.OK(), "%v", result.Err)

	ret := b.Graph().End.Inputs[0]
	sum := ret.Inputs[len(ret.Inputs)-1]
	assert.Equal(t, graph.OpBinop, sum.Op)
	require.Len(t, sum.Inputs, 2)
	assert.Equal(t, graph.OpParam, sum.Inputs[0].Op)
	assert.Equal(t, graph.OpParam, sum.Inputs[1].Op)
}

// TestDecodeSignedDivInsertsBothTrapChecks is spec scenario 3's static
// half: return(get_local 0 / get_local 1) must dominate the division with
// a DivByZero check and, because it is signed, a DivUnrepresentable check.
func TestDecodeSignedDivInsertsBothTrapChecks(t *testing.T) {
	var e enc
	e.op(opcodes.Return).op(opcodes.I32("div_s")).
		op(opcodes.GetLocal).byte(0).
		op(opcodes.GetLocal).byte(1)

	env := funcenv.New(sig.Signature{Params: []types.ValueType{types.I32, types.I32}, Return: types.I32}, nil)
	b := newBuilder(nil)
	result := Decode(e.buf, env, b, Options{})
	require.True(t, result.OK(), "%v", result.Err)

	// The function's own return plus one materialized trap block per
	// distinct reason, each terminating via the ReturnVoid sentinel since
	// no ModuleContext is attached (§4.4, §9).
	require.Len(t, b.Graph().End.Inputs, 3, "own return + DivByZero + DivUnrepresentable")
}

// TestDecodeUnsignedDivSkipsOverflowCheck: div_u never checks INT_MIN/-1.
func TestDecodeUnsignedDivSkipsOverflowCheck(t *testing.T) {
	var e enc
	e.op(opcodes.Return).op(opcodes.I32("div_u")).
		op(opcodes.GetLocal).byte(0).
		op(opcodes.GetLocal).byte(1)

	env := funcenv.New(sig.Signature{Params: []types.ValueType{types.I32, types.I32}, Return: types.I32}, nil)
	b := newBuilder(nil)
	result := Decode(e.buf, env, b, Options{})
	require.True(t, result.OK(), "%v", result.Err)

	require.Len(t, b.Graph().End.Inputs, 2, "own return + DivByZero only, unsigned division never checks INT_MIN/-1")
}

// TestDecodeBoundedLoad is spec scenario 4: module memory size 32 bytes,
// return(load_i32(get_local 0)); the decode must attach a bounds check
// dominating the load.
func TestDecodeBoundedLoad(t *testing.T) {
	var e enc
	e.op(opcodes.Return).op(opcodes.LoadI32).u32(0).
		op(opcodes.GetLocal).byte(0)

	env := funcenv.New(sig.Signature{Params: []types.ValueType{types.I32}, Return: types.I32}, &fakeEnv{memStart: 0, memEnd: 32, hasMemory: true})
	b := newBuilder(env.Module)
	result := Decode(e.buf, env, b, Options{})
	require.True(t, result.OK(), "%v", result.Err)

	require.Len(t, b.Graph().End.Inputs, 2, "own return + MemOutOfBounds")
}

// TestDecodeLoadWithoutMemoryFails: a load in a function with no attached
// module memory fails NoMemory (§4.2).
func TestDecodeLoadWithoutMemoryFails(t *testing.T) {
	var e enc
	e.op(opcodes.Return).op(opcodes.LoadI32).u32(0).
		op(opcodes.GetLocal).byte(0)

	env := funcenv.New(sig.Signature{Params: []types.ValueType{types.I32}, Return: types.I32}, nil)
	b := newBuilder(nil)
	result := Decode(e.buf, env, b, Options{})
	require.False(t, result.OK())
	assert.Equal(t, diag.NoMemory, result.Err.Code)
}

// TestDecodeSwitchFallthrough is spec scenario 5's static shape: a
// fall-through switch over 4 cases must decode successfully and produce
// one Return terminator per reachable case plus the trailing statement.
func TestDecodeSwitchFallthrough(t *testing.T) {
	var e enc
	e.op(opcodes.Switch).
		op(opcodes.GetLocal).byte(0). // key
		byte(4)                      // 4 cases

	e.op(opcodes.Nop)                                 // case 0: nop (falls through)
	e.op(opcodes.Return).op(opcodes.I8Const).byte(45) // case 1: return 45
	e.op(opcodes.Nop)                                 // case 2: nop (falls through)
	e.op(opcodes.Return).op(opcodes.I8Const).byte(47) // case 3: return 47

	e.op(opcodes.Return).op(opcodes.GetLocal).byte(0) // trailing: return get_local 0

	env := funcenv.New(sig.Signature{Params: []types.ValueType{types.I32}, Return: types.I32}, nil)
	b := newBuilder(nil)
	result := Decode(e.buf, env, b, Options{})
	require.True(t, result.OK(), "%v", result.Err)

	// Three Return terminators: case 1, case 3, and the trailing fallback.
	count := 0
	for _, in := range b.Graph().End.Inputs {
		if in.Op == graph.OpReturn {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

// TestDecodeCountdownLoop is spec scenario 6's static shape:
// while(get_local 0) { set_local 0, get_local 0 - 1 }; return get_local 0.
// The decoder must produce a Loop header widened by exactly one back edge,
// and — since local 0 is both read by the loop condition and reassigned in
// the body — a local-value Phi hung off that header feeding the trailing
// return, rather than the return reading the pre-loop entry value directly
// (the bug this test was added to catch: a plain last-writer local slot
// makes the return see `param0 - 1` on every call instead of the value the
// loop actually converges to).
func TestDecodeCountdownLoop(t *testing.T) {
	var e enc
	e.op(opcodes.While).
		op(opcodes.GetLocal).byte(0)
	e.op(opcodes.SetLocal).byte(0).
		op(opcodes.I32("sub")).op(opcodes.GetLocal).byte(0).op(opcodes.I8Const).byte(1)
	e.op(opcodes.Return).op(opcodes.GetLocal).byte(0)

	env := funcenv.New(sig.Signature{Params: []types.ValueType{types.I32}, Return: types.I32}, nil)
	b := newBuilder(nil)
	result := Decode(e.buf, env, b, Options{})
	require.True(t, result.OK(), "%v", result.Err)

	var loops int
	var header *graph.Node
	for _, n := range b.Graph().Nodes() {
		if n.Op == graph.OpLoop {
			loops++
			header = n
			assert.Len(t, n.Inputs, 2, "entry edge plus exactly one back edge")
		}
	}
	require.Equal(t, 1, loops)

	ret := b.Graph().End.Inputs[0]
	require.Equal(t, graph.OpReturn, ret.Op)
	val := ret.Inputs[len(ret.Inputs)-1]
	require.Equal(t, graph.OpPhi, val.Op, "the returned local must be the loop header's value phi, not the pre-loop entry value")
	require.Len(t, val.Inputs, 3, "merge itself, entry value, back-edge value")
	assert.Same(t, header, val.Inputs[0])
	assert.Equal(t, graph.OpParam, val.Inputs[1].Op, "entry input is the pre-loop value of local 0")
	backEdge := val.Inputs[2]
	assert.Equal(t, graph.OpBinop, backEdge.Op, "back-edge input is the body's get_local 0 - 1")
}

// TestDecodeIfReconcilesLocalsWithPhi: if(cond){set_local 0=X}else{set_local
// 0=Y}; return get_local 0 must read a Phi(X,Y) hung off the if's merge,
// not whichever arm happened to be decoded last.
func TestDecodeIfReconcilesLocalsWithPhi(t *testing.T) {
	var e enc
	e.op(opcodes.If).
		op(opcodes.GetLocal).byte(0). // cond
		byte(1)                      // has else
	e.op(opcodes.SetLocal).byte(1).op(opcodes.I8Const).byte(11) // then: set_local 1 = 11
	e.op(opcodes.SetLocal).byte(1).op(opcodes.I8Const).byte(22) // else: set_local 1 = 22
	e.op(opcodes.Return).op(opcodes.GetLocal).byte(1)

	env := funcenv.New(sig.Signature{Params: []types.ValueType{types.I32, types.I32}, Return: types.I32}, nil)
	b := newBuilder(nil)
	result := Decode(e.buf, env, b, Options{})
	require.True(t, result.OK(), "%v", result.Err)

	ret := b.Graph().End.Inputs[0]
	val := ret.Inputs[len(ret.Inputs)-1]
	require.Equal(t, graph.OpPhi, val.Op, "reconciled local must be a Phi of the two arms' values")
	require.Len(t, val.Inputs, 3, "merge itself plus one value per arm")
	assert.Equal(t, graph.OpMerge, val.Inputs[0].Op)
	assert.Equal(t, int32(11), val.Inputs[1].Aux)
	assert.Equal(t, int32(22), val.Inputs[2].Aux)
}

// TestDecodeIfSkipsPhiForUntouchedLocal: a local neither arm reassigns must
// flow through unchanged, not wrapped in a trivial single-value Phi.
func TestDecodeIfSkipsPhiForUntouchedLocal(t *testing.T) {
	var e enc
	e.op(opcodes.If).
		op(opcodes.GetLocal).byte(0). // cond
		byte(1)                      // has else
	e.op(opcodes.Nop) // then: does nothing
	e.op(opcodes.Nop) // else: does nothing
	e.op(opcodes.Return).op(opcodes.GetLocal).byte(1)

	env := funcenv.New(sig.Signature{Params: []types.ValueType{types.I32, types.I32}, Return: types.I32}, nil)
	b := newBuilder(nil)
	result := Decode(e.buf, env, b, Options{})
	require.True(t, result.OK(), "%v", result.Err)

	ret := b.Graph().End.Inputs[0]
	val := ret.Inputs[len(ret.Inputs)-1]
	assert.Equal(t, graph.OpParam, val.Op, "untouched local must still be the raw parameter, not a phi")
}

// TestDecodeNestedCallArgumentsDoNotCorrupt is the decode-level regression
// for call f(call g(x), y): decoding g's single argument must not disturb
// f's own argument list, which is assembled around the nested decode of
// g's entire call production.
func TestDecodeNestedCallArgumentsDoNotCorrupt(t *testing.T) {
	sigF := sig.Signature{Params: []types.ValueType{types.I32, types.I32}, Return: types.I32}
	sigG := sig.Signature{Params: []types.ValueType{types.I32}, Return: types.I32}
	mod := &fakeEnv{sigs: sig.NewRegistry([]sig.Signature{sigF, sigG}, nil)}

	var e enc
	e.op(opcodes.Return).
		op(opcodes.CallDirect).byte(0). // call f(...)
		op(opcodes.CallDirect).byte(1). // arg 0: call g(x)
		op(opcodes.I8Const).byte(5).    // x
		op(opcodes.I8Const).byte(7)     // arg 1 to f: y

	env := funcenv.New(sig.Signature{Return: types.I32}, mod)
	b := newBuilder(mod)
	result := Decode(e.buf, env, b, Options{})
	require.True(t, result.OK(), "%v", result.Err)

	ret := b.Graph().End.Inputs[0]
	outerCall := ret.Inputs[len(ret.Inputs)-1]
	require.Equal(t, graph.OpCall, outerCall.Op)
	require.Len(t, outerCall.Inputs, 5, "callee, effect, control, inner call, y")

	innerCall := outerCall.Inputs[3]
	assert.Equal(t, graph.OpCall, innerCall.Op)
	require.Len(t, innerCall.Inputs, 4, "callee, effect, control, x")
	assert.Equal(t, int32(5), innerCall.Inputs[3].Aux)

	yArg := outerCall.Inputs[4]
	assert.Equal(t, int32(7), yArg.Aux)
}

func TestDecodeEmptyBodySynthesizesZeroReturn(t *testing.T) {
	env := funcenv.New(sig.Signature{Return: types.I32}, nil)
	b := newBuilder(nil)
	result := Decode(nil, env, b, Options{})
	require.True(t, result.OK())
	require.Len(t, b.Graph().End.Inputs, 1)
	assert.Equal(t, graph.OpReturn, b.Graph().End.Inputs[0].Op)
}

func TestDecodeUnknownOpcode(t *testing.T) {
	env := funcenv.New(sig.Signature{}, nil)
	b := newBuilder(nil)
	result := Decode([]byte{0xfe}, env, b, Options{})
	require.False(t, result.OK())
	assert.Equal(t, diag.UnknownOpcode, result.Err.Code)
}

func TestDecodeTruncatedImmediate(t *testing.T) {
	env := funcenv.New(sig.Signature{}, nil)
	b := newBuilder(nil)
	result := Decode([]byte{opcodes.I32Const.Code, 0x01, 0x02}, env, b, Options{})
	require.False(t, result.OK())
	assert.Equal(t, diag.Truncated, result.Err.Code)
}

func TestDecodeLocalIndexOutOfBounds(t *testing.T) {
	var e enc
	e.op(opcodes.Return).op(opcodes.GetLocal).byte(5)

	env := funcenv.New(sig.Signature{Return: types.I32}, nil)
	b := newBuilder(nil)
	result := Decode(e.buf, env, b, Options{})
	require.False(t, result.OK())
	assert.Equal(t, diag.LocalIndexOutOfBounds, result.Err.Code)
}

func TestDecodeBreakOutsideAnyBlockFails(t *testing.T) {
	var e enc
	e.op(opcodes.Break).byte(0)

	env := funcenv.New(sig.Signature{}, nil)
	b := newBuilder(nil)
	result := Decode(e.buf, env, b, Options{})
	require.False(t, result.OK())
	assert.Equal(t, diag.BreakDepth, result.Err.Code)
}

func TestDecodeTypeErrorOnWrongReturnType(t *testing.T) {
	var e enc
	e.op(opcodes.Return).op(opcodes.F32Const).u32(0)

	env := funcenv.New(sig.Signature{Return: types.I32}, nil)
	b := newBuilder(nil)
	result := Decode(e.buf, env, b, Options{})
	require.False(t, result.OK())
	assert.Equal(t, diag.TypeError, result.Err.Code)
}
