// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"strings"

	"github.com/go-interpreter/fbgraph/opcodes"
	"github.com/go-interpreter/fbgraph/types"
)

// binopSuffix extracts the mnemonic suffix ("add", "div_s", …) from an
// opcode name of the form "<type>.<suffix>", so Binop/Unop's dispatch can
// key capability-gated lowering off the suffix rather than re-deriving it.
func binopSuffix(op opcodes.Op) string {
	if i := strings.IndexByte(op.Name, '.'); i >= 0 {
		return op.Name[i+1:]
	}
	return op.Name
}

// Binop is the central dispatch for binary operators (§4.3). copysign is
// always lowered to a bit-masking sequence; division and remainder insert
// trap checks (§4.3, §4.4) before the arithmetic when a TrapInserter is
// attached. Every other binop is emitted as the primitive operator, even
// when SupportedOn reports false for the target: no other lowering exists.
func (b *Builder) Binop(op opcodes.Op, l, r *Node) *Node {
	suffix := binopSuffix(op)

	switch suffix {
	case "div_s", "div_u", "rem_s", "rem_u":
		return b.integerDivRem(op, suffix, l, r)
	case "copysign":
		return b.lowerCopysign(op, l, r)
	}

	if op.SupportedOn(b.caps) {
		return b.primitiveBinop(op, l, r)
	}

	// No other binop family currently requires lowering on the reference
	// target; a future capability gap would be handled here the same way
	// div/copysign are above.
	return b.primitiveBinop(op, l, r)
}

func (b *Builder) primitiveBinop(op opcodes.Op, l, r *Node) *Node {
	n := b.g.newNode(OpBinop, l, r)
	n.Type = op.Returns
	n.Aux = op
	return n
}

// Unop is the central dispatch for unary operators (§4.3). ctz and
// popcnt are lowered whenever the target does not support them (the
// reference target supports neither). Every other unop is emitted as the
// primitive operator, even when SupportedOn reports false: no lowering
// exists for clz or the rounding ops.
func (b *Builder) Unop(op opcodes.Op, x *Node) *Node {
	suffix := binopSuffix(op)

	if !op.SupportedOn(b.caps) {
		switch suffix {
		case "ctz":
			return b.lowerCtz(op, x)
		case "popcnt":
			return b.lowerPopcnt(op, x)
		}
	}

	n := b.g.newNode(OpUnop, x)
	n.Type = op.Returns
	n.Aux = op
	return n
}

// integerDivRem inserts the trap checks §4.3 requires before the actual
// division: divisor==0 traps DivByZero; signed division of INT_MIN/-1
// traps DivUnrepresentable; signed remainder of anything by -1 is
// short-circuited to the constant 0 without dividing at all.
func (b *Builder) integerDivRem(op opcodes.Op, suffix string, l, r *Node) *Node {
	t := op.Returns
	zero := b.Constant(t, zeroOf(t))

	if b.Traps != nil {
		isZero := b.primitiveCompareEq(t, r, zero)
		b.Traps.TrapIf(b, "DivByZero", isZero, true)
	}

	if suffix == "div_s" {
		if b.Traps != nil {
			minVal := b.Constant(t, minIntOf(t))
			negOne := b.Constant(t, negOneOf(t))
			isMin := b.primitiveCompareEq(t, l, minVal)
			isNegOne := b.primitiveCompareEq(t, r, negOne)
			overflow := b.primitiveBoolAnd(isMin, isNegOne)
			b.Traps.TrapIf(b, "DivUnrepresentable", overflow, true)
		}
		return b.primitiveBinop(op, l, r)
	}

	if suffix == "rem_s" {
		// Signed remainder of anything by -1 is defined to be 0 without
		// dividing (§4.3) — INT_MIN % -1 would otherwise be the same
		// unrepresentable case div_s traps on, but rem never traps.
		negOne := b.Constant(t, negOneOf(t))
		isNegOne := b.primitiveCompareEq(t, r, negOne)
		divided := b.primitiveBinop(op, l, r)
		return b.selectValue(t, isNegOne, zero, divided)
	}

	return b.primitiveBinop(op, l, r)
}

func (b *Builder) primitiveCompareEq(t types.ValueType, l, r *Node) *Node {
	op, _ := opcodes.Lookup(eqCodeFor(t))
	return b.primitiveBinop(op, l, r)
}

func (b *Builder) primitiveBoolAnd(l, r *Node) *Node {
	op := opcodes.I32("and")
	return b.primitiveBinop(op, l, r)
}

// selectValue emits a Phi-based select between ifTrue and ifFalse
// depending on cond, without requiring the caller to manage a Branch and
// Merge explicitly — used internally for the rem_s short circuit.
func (b *Builder) selectValue(t types.ValueType, cond, ifTrue, ifFalse *Node) *Node {
	trueCtrl, falseCtrl := b.Branch(cond)
	savedEffect := b.effect

	b.control = trueCtrl
	tVal := ifTrue
	tCtrl := b.control
	tEff := b.effect

	b.control = falseCtrl
	b.effect = savedEffect
	fVal := ifFalse
	fCtrl := b.control
	fEff := b.effect

	merge := b.Merge(tCtrl, fCtrl)
	b.control = merge
	b.effect = b.EffectPhi(merge, tEff, fEff)
	return b.Phi(t, merge, tVal, fVal)
}

func eqCodeFor(t types.ValueType) byte {
	switch t {
	case types.I32:
		return opcodes.I32("eq").Code
	case types.I64:
		return opcodes.I64("eq").Code
	default:
		return opcodes.I32("eq").Code
	}
}

func zeroOf(t types.ValueType) interface{} {
	switch t {
	case types.I64:
		return int64(0)
	case types.F32:
		return float32(0)
	case types.F64:
		return float64(0)
	default:
		return int32(0)
	}
}

func negOneOf(t types.ValueType) interface{} {
	if t == types.I64 {
		return int64(-1)
	}
	return int32(-1)
}

func minIntOf(t types.ValueType) interface{} {
	if t == types.I64 {
		return int64(-9223372036854775808)
	}
	return int32(-2147483648)
}
