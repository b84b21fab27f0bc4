// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opcodes

import "github.com/go-interpreter/fbgraph/types"

func conv(code byte, name string, from, to types.ValueType) Op {
	return register(Op{Code: code, Name: name, Kind: Expr, Args: []types.ValueType{from}, Returns: to})
}

// Type-conversion opcodes: narrowing, widening, float<->int, and raw
// bit reinterpretation. All are natively supported on the reference
// target (§4.1 lists only ctz/popcnt/copysign/rounding-modes/min-max as
// potentially needing lowering; conversions are assumed primitive).
var (
	I32WrapI64        = conv(0xc0, "i32.wrap_i64", types.I64, types.I32)
	I64ExtendI32S     = conv(0xc1, "i64.extend_i32_s", types.I32, types.I64)
	I64ExtendI32U     = conv(0xc2, "i64.extend_i32_u", types.I32, types.I64)
	I32TruncF32S      = conv(0xc3, "i32.trunc_f32_s", types.F32, types.I32)
	I32TruncF32U      = conv(0xc4, "i32.trunc_f32_u", types.F32, types.I32)
	I32TruncF64S      = conv(0xc5, "i32.trunc_f64_s", types.F64, types.I32)
	I32TruncF64U      = conv(0xc6, "i32.trunc_f64_u", types.F64, types.I32)
	I64TruncF32S      = conv(0xc7, "i64.trunc_f32_s", types.F32, types.I64)
	I64TruncF32U      = conv(0xc8, "i64.trunc_f32_u", types.F32, types.I64)
	I64TruncF64S      = conv(0xc9, "i64.trunc_f64_s", types.F64, types.I64)
	I64TruncF64U      = conv(0xca, "i64.trunc_f64_u", types.F64, types.I64)
	F32ConvertI32S    = conv(0xcb, "f32.convert_i32_s", types.I32, types.F32)
	F32ConvertI32U    = conv(0xcc, "f32.convert_i32_u", types.I32, types.F32)
	F32ConvertI64S    = conv(0xcd, "f32.convert_i64_s", types.I64, types.F32)
	F32ConvertI64U    = conv(0xce, "f32.convert_i64_u", types.I64, types.F32)
	F64ConvertI32S    = conv(0xcf, "f64.convert_i32_s", types.I32, types.F64)
	F64ConvertI32U    = conv(0xd0, "f64.convert_i32_u", types.I32, types.F64)
	F64ConvertI64S    = conv(0xd1, "f64.convert_i64_s", types.I64, types.F64)
	F64ConvertI64U    = conv(0xd2, "f64.convert_i64_u", types.I64, types.F64)
	F32DemoteF64      = conv(0xd3, "f32.demote_f64", types.F64, types.F32)
	F64PromoteF32     = conv(0xd4, "f64.promote_f32", types.F32, types.F64)
	I32ReinterpretF32 = conv(0xd5, "i32.reinterpret_f32", types.F32, types.I32)
	F32ReinterpretI32 = conv(0xd6, "f32.reinterpret_i32", types.I32, types.F32)
	I64ReinterpretF64 = conv(0xd7, "i64.reinterpret_f64", types.F64, types.I64)
	F64ReinterpretI64 = conv(0xd8, "f64.reinterpret_i64", types.I64, types.F64)
)
