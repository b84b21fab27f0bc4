// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"github.com/go-interpreter/fbgraph/opcodes"
	"github.com/go-interpreter/fbgraph/types"
)

// lowerCtz expands i32/i64 ctz into the bit-smear-then-popcount sequence
// named in §4.3: x |= x<<1; x|=x<<2; … x|=x<<16(/32); then popcount of the
// bitwise-not of the smeared value. Each smear step fills every bit above
// the original lowest set bit with 1, so inverting leaves exactly that
// many low bits set — popcount of that is the trailing-zero count,
// including the all-bits-clear case yielding the full bit width.
func (b *Builder) lowerCtz(op opcodes.Op, x *Node) *Node {
	t := op.Returns
	shifts := []uint{1, 2, 4, 8, 16}
	if t == types.I64 {
		shifts = append(shifts, 32)
	}
	cur := x
	for _, s := range shifts {
		shiftAmt := b.Constant(t, shiftConst(t, s))
		shifted := b.primitiveBinop(shlOp(t), cur, shiftAmt)
		cur = b.primitiveBinop(orOp(t), cur, shifted)
	}
	allOnes := b.Constant(t, allOnesOf(t))
	inverted := b.primitiveBinop(xorOp(t), cur, allOnes)
	return b.Unop(popcntOp(t), inverted)
}

// lowerPopcnt expands i32/i64 popcnt into the standard SWAR population
// count named in §4.3: mask pairs, then nibbles, then bytes, then words.
// For i64 the per-byte counts are summed by one multiply with the
// byte-broadcast constant and a shift of 56 instead of byte/word steps.
func (b *Builder) lowerPopcnt(op opcodes.Op, x *Node) *Node {
	t := op.Returns
	if t == types.I64 {
		return b.swarPopcount64(x)
	}
	return b.swarPopcount32(x)
}

func (b *Builder) swarPopcount32(x *Node) *Node {
	t := types.I32
	c1 := b.Constant(t, int32(0x55555555))
	c2 := b.Constant(t, int32(0x33333333))
	c4 := b.Constant(t, int32(0x0f0f0f0f))
	one := b.Constant(t, int32(1))
	two := b.Constant(t, int32(2))
	four := b.Constant(t, int32(4))
	eight := b.Constant(t, int32(8))
	sixteen := b.Constant(t, int32(16))

	// x -= (x >> 1) & c1
	shr1 := b.primitiveBinop(shruOp(t), x, one)
	masked1 := b.primitiveBinop(andOp(t), shr1, c1)
	x1 := b.primitiveBinop(subOp(t), x, masked1)

	// x = (x & c2) + ((x >> 2) & c2)
	shr2 := b.primitiveBinop(shruOp(t), x1, two)
	lo2 := b.primitiveBinop(andOp(t), x1, c2)
	hi2 := b.primitiveBinop(andOp(t), shr2, c2)
	x2 := b.primitiveBinop(addOp(t), lo2, hi2)

	// x = (x + (x >> 4)) & c4
	shr4 := b.primitiveBinop(shruOp(t), x2, four)
	sum4 := b.primitiveBinop(addOp(t), x2, shr4)
	x3 := b.primitiveBinop(andOp(t), sum4, c4)

	// x = x + (x >> 8)
	shr8 := b.primitiveBinop(shruOp(t), x3, eight)
	x4 := b.primitiveBinop(addOp(t), x3, shr8)

	// x = (x + (x >> 16)) & 0x3f
	shr16 := b.primitiveBinop(shruOp(t), x4, sixteen)
	x5 := b.primitiveBinop(addOp(t), x4, shr16)
	mask6 := b.Constant(t, int32(0x3f))
	return b.primitiveBinop(andOp(t), x5, mask6)
}

func (b *Builder) swarPopcount64(x *Node) *Node {
	t := types.I64
	c1 := b.Constant(t, int64(0x5555555555555555))
	c2 := b.Constant(t, int64(0x3333333333333333))
	c4 := b.Constant(t, int64(0x0f0f0f0f0f0f0f0f))
	c8 := b.Constant(t, int64(0x0101010101010101))
	one := b.Constant(t, int64(1))
	two := b.Constant(t, int64(2))
	four := b.Constant(t, int64(4))
	fiftySix := b.Constant(t, int64(56))

	shr1 := b.primitiveBinop(shruOp(t), x, one)
	masked1 := b.primitiveBinop(andOp(t), shr1, c1)
	x1 := b.primitiveBinop(subOp(t), x, masked1)

	shr2 := b.primitiveBinop(shruOp(t), x1, two)
	lo2 := b.primitiveBinop(andOp(t), x1, c2)
	hi2 := b.primitiveBinop(andOp(t), shr2, c2)
	x2 := b.primitiveBinop(addOp(t), lo2, hi2)

	shr4 := b.primitiveBinop(shruOp(t), x2, four)
	sum4 := b.primitiveBinop(addOp(t), x2, shr4)
	x3 := b.primitiveBinop(andOp(t), sum4, c4)

	// multiply by the byte-broadcast constant and take the top byte —
	// equivalent to summing all eight bytes of x3.
	prod := b.primitiveBinop(mulOp(t), x3, c8)
	return b.primitiveBinop(shruOp(t), prod, fiftySix)
}

// lowerCopysign composes f32/f64 copysign by reinterpreting bits and
// masking the sign bit from the right operand into the magnitude of the
// left operand (§4.3). On a 32-bit target lacking 64-bit bit-ops, f64
// copysign would instead use high/low-word extract/insert primitives;
// this core's reference target exposes full-width integer ops regardless
// of PointerWidth32 (see opcodes.TargetCaps), so that split is not
// implemented: f64 copysign always uses 64-bit integer ops.
func (b *Builder) lowerCopysign(op opcodes.Op, l, r *Node) *Node {
	if op.Returns == types.F64 {
		return b.copysignF64(l, r)
	}
	return b.copysignF32(l, r)
}

func (b *Builder) copysignF32(l, r *Node) *Node {
	return b.copysignGeneric(types.I32, opcodes.I32ReinterpretF32, opcodes.F32ReinterpretI32, l, r, int32(0x7fffffff), int32(-0x80000000))
}

func (b *Builder) copysignF64(l, r *Node) *Node {
	return b.copysignGeneric(types.I64, opcodes.I64ReinterpretF64, opcodes.F64ReinterpretI64, l, r, int64(0x7fffffffffffffff), int64(-0x8000000000000000))
}

func (b *Builder) copysignGeneric(it types.ValueType, toInt, toFloat opcodes.Op, l, r *Node, magMask, signMask interface{}) *Node {
	lBits := b.unaryConvert(toInt, l)
	rBits := b.unaryConvert(toInt, r)
	mag := b.primitiveBinop(andOp(it), lBits, b.Constant(it, magMask))
	sign := b.primitiveBinop(andOp(it), rBits, b.Constant(it, signMask))
	combined := b.primitiveBinop(orOp(it), mag, sign)
	return b.unaryConvert(toFloat, combined)
}

func (b *Builder) unaryConvert(op opcodes.Op, x *Node) *Node {
	n := b.g.newNode(OpUnop, x)
	n.Type = op.Returns
	n.Aux = op
	return n
}

func shiftConst(t types.ValueType, s uint) interface{} {
	if t == types.I64 {
		return int64(s)
	}
	return int32(s)
}

func allOnesOf(t types.ValueType) interface{} {
	if t == types.I64 {
		return int64(-1)
	}
	return int32(-1)
}

func shlOp(t types.ValueType) opcodes.Op {
	if t == types.I64 {
		return opcodes.I64("shl")
	}
	return opcodes.I32("shl")
}

func shruOp(t types.ValueType) opcodes.Op {
	if t == types.I64 {
		return opcodes.I64("shr_u")
	}
	return opcodes.I32("shr_u")
}

func orOp(t types.ValueType) opcodes.Op {
	if t == types.I64 {
		return opcodes.I64("or")
	}
	return opcodes.I32("or")
}

func andOp(t types.ValueType) opcodes.Op {
	if t == types.I64 {
		return opcodes.I64("and")
	}
	return opcodes.I32("and")
}

func xorOp(t types.ValueType) opcodes.Op {
	if t == types.I64 {
		return opcodes.I64("xor")
	}
	return opcodes.I32("xor")
}

func addOp(t types.ValueType) opcodes.Op {
	if t == types.I64 {
		return opcodes.I64("add")
	}
	return opcodes.I32("add")
}

func subOp(t types.ValueType) opcodes.Op {
	if t == types.I64 {
		return opcodes.I64("sub")
	}
	return opcodes.I32("sub")
}

func mulOp(t types.ValueType) opcodes.Op {
	if t == types.I64 {
		return opcodes.I64("mul")
	}
	return opcodes.I32("mul")
}

func popcntOp(t types.ValueType) opcodes.Op {
	if t == types.I64 {
		return opcodes.I64("popcnt")
	}
	return opcodes.I32("popcnt")
}
