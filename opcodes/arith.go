// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opcodes

import "github.com/go-interpreter/fbgraph/types"

// The tables below collect the per-type arithmetic opcode families. Each
// entry is reached by its mnemonic suffix through I32/I64/F32/F64 (below)
// rather than as a named Op, and the families are assembled
// by a small loop rather than 100+ individual newOp calls, matching the
// design note's guidance (§9) to express per-opcode capability dispatch as
// data rather than as conditional code: the "requires lowering" predicate
// lives right next to each opcode's registration.

type arithDesc struct {
	suffix   string
	args     int // 1 (unop) or 2 (binop)
	returns  types.ValueType
	nativeOn func(TargetCaps) bool
}

func registerArithFamily(base byte, t types.ValueType, descs []arithDesc) map[string]Op {
	out := make(map[string]Op, len(descs))
	code := base
	for _, d := range descs {
		args := make([]types.ValueType, d.args)
		for i := range args {
			args[i] = t
		}
		out[d.suffix] = register(Op{
			Code:     code,
			Name:     t.String() + "." + d.suffix,
			Kind:     Expr,
			Args:     args,
			Returns:  d.returns,
			nativeOn: d.nativeOn,
		})
		code++
	}
	return out
}

func intBinops(t types.ValueType) []arithDesc {
	cmp := types.I32 // comparisons always yield i32, regardless of operand type
	return []arithDesc{
		{"add", 2, t, nil},
		{"sub", 2, t, nil},
		{"mul", 2, t, nil},
		{"div_s", 2, t, nil},
		{"div_u", 2, t, nil},
		{"rem_s", 2, t, nil},
		{"rem_u", 2, t, nil},
		{"and", 2, t, nil},
		{"or", 2, t, nil},
		{"xor", 2, t, nil},
		{"shl", 2, t, nil},
		{"shr_s", 2, t, nil},
		{"shr_u", 2, t, nil},
		{"eq", 2, cmp, nil},
		{"ne", 2, cmp, nil},
		{"lt_s", 2, cmp, nil},
		{"lt_u", 2, cmp, nil},
		{"le_s", 2, cmp, nil},
		{"le_u", 2, cmp, nil},
		{"gt_s", 2, cmp, nil},
		{"gt_u", 2, cmp, nil},
		{"ge_s", 2, cmp, nil},
		{"ge_u", 2, cmp, nil},
	}
}

func intUnops(t types.ValueType, is64 bool) []arithDesc {
	return []arithDesc{
		{"eqz", 1, types.I32, nil},
		{"clz", 1, t, func(caps TargetCaps) bool { return caps.HasCLZ }},
		// ctz/popcnt default to unsupported on the reference target
		// (§4.1): the builder lowers them via bit-smear and SWAR popcount
		// respectively (§4.3) whenever SupportedOn reports false.
		{"ctz", 1, t, func(caps TargetCaps) bool { return caps.HasCTZ }},
		{"popcnt", 1, t, func(caps TargetCaps) bool { return caps.HasPopcnt }},
	}
}

func floatBinops(t types.ValueType) []arithDesc {
	cmp := types.I32
	minmax := func(caps TargetCaps) bool { return caps.HasFloatMinMax }
	return []arithDesc{
		{"add", 2, t, nil},
		{"sub", 2, t, nil},
		{"mul", 2, t, nil},
		{"div", 2, t, nil},
		{"min", 2, t, minmax},
		{"max", 2, t, minmax},
		// copysign is never natively available (§4.1): always lowered by
		// reinterpreting bits and masking the sign (§4.3).
		{"copysign", 2, t, func(TargetCaps) bool { return false }},
		{"eq", 2, cmp, nil},
		{"ne", 2, cmp, nil},
		{"lt", 2, cmp, nil},
		{"le", 2, cmp, nil},
		{"gt", 2, cmp, nil},
		{"ge", 2, cmp, nil},
	}
}

func floatUnops(t types.ValueType) []arithDesc {
	round := func(caps TargetCaps) bool { return caps.HasRoundingModes }
	return []arithDesc{
		{"neg", 1, t, nil},
		{"abs", 1, t, nil},
		{"sqrt", 1, t, nil},
		{"ceil", 1, t, round},
		{"floor", 1, t, round},
		{"trunc", 1, t, round},
		{"nearest", 1, t, round},
	}
}

var (
	i32ops = registerArithFamily(0x40, types.I32, append(intBinops(types.I32), intUnops(types.I32, false)...))
	i64ops = registerArithFamily(0x60, types.I64, append(intBinops(types.I64), intUnops(types.I64, true)...))
	f32ops = registerArithFamily(0x80, types.F32, append(floatBinops(types.F32), floatUnops(types.F32)...))
	f64ops = registerArithFamily(0xa0, types.F64, append(floatBinops(types.F64), floatUnops(types.F64)...))
)

// I32 returns the i32 arithmetic opcode with the given mnemonic suffix
// ("add", "div_s", "ctz", …). It panics if suffix is not a known i32 op;
// callers use this only with suffix literals they control (the builder's
// Binop/Unop dispatch, §4.3).
func I32(suffix string) Op { return mustOp(i32ops, suffix) }

// I64 returns the i64 arithmetic opcode with the given mnemonic suffix.
func I64(suffix string) Op { return mustOp(i64ops, suffix) }

// F32 returns the f32 arithmetic opcode with the given mnemonic suffix.
func F32(suffix string) Op { return mustOp(f32ops, suffix) }

// F64 returns the f64 arithmetic opcode with the given mnemonic suffix.
func F64(suffix string) Op { return mustOp(f64ops, suffix) }

func mustOp(family map[string]Op, suffix string) Op {
	op, ok := family[suffix]
	if !ok {
		panic("opcodes: unknown arithmetic suffix " + suffix)
	}
	return op
}
