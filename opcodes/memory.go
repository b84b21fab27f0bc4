// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opcodes

import "github.com/go-interpreter/fbgraph/types"

// Load/store opcodes, one per memory access type (§6.1: "loads and stores
// carry their memory access type as part of the opcode identity").
// Directly generalized from wagon's wasm/operators/memory.go, which
// enumerates this exact same family (i32/i64/f32/f64 loads and stores,
// narrow sign/zero-extending variants) for the WebAssembly encoding; only
// the byte values and the explicit Mem/IsLoad tagging are new, since this
// core's bounds-check/lowering logic (§4.3) switches on access type rather
// than on opcode identity directly.
var (
	LoadI32    = registerMem(0x20, "i32.load", types.MemI32s, types.I32, true)
	LoadI64    = registerMem(0x21, "i64.load", types.MemI64, types.I64, true)
	LoadF32    = registerMem(0x22, "f32.load", types.MemF32, types.F32, true)
	LoadF64    = registerMem(0x23, "f64.load", types.MemF64, types.F64, true)
	LoadI32_8S = registerMem(0x24, "i32.load8_s", types.MemI8s, types.I32, true)
	LoadI32_8U = registerMem(0x25, "i32.load8_u", types.MemI8u, types.I32, true)
	LoadI32_16S = registerMem(0x26, "i32.load16_s", types.MemI16s, types.I32, true)
	LoadI32_16U = registerMem(0x27, "i32.load16_u", types.MemI16u, types.I32, true)
	LoadI64_8S  = registerMem(0x28, "i64.load8_s", types.MemI8s, types.I64, true)
	LoadI64_8U  = registerMem(0x29, "i64.load8_u", types.MemI8u, types.I64, true)
	LoadI64_16S = registerMem(0x2a, "i64.load16_s", types.MemI16s, types.I64, true)
	LoadI64_16U = registerMem(0x2b, "i64.load16_u", types.MemI16u, types.I64, true)
	LoadI64_32S = registerMem(0x2c, "i64.load32_s", types.MemI32s, types.I64, true)
	LoadI64_32U = registerMem(0x2d, "i64.load32_u", types.MemI32u, types.I64, true)

	StoreI32    = registerMem(0x2e, "i32.store", types.MemI32s, types.I32, false)
	StoreI64    = registerMem(0x2f, "i64.store", types.MemI64, types.I64, false)
	StoreF32    = registerMem(0x30, "f32.store", types.MemF32, types.F32, false)
	StoreF64    = registerMem(0x31, "f64.store", types.MemF64, types.F64, false)
	StoreI32_8  = registerMem(0x32, "i32.store8", types.MemI8u, types.I32, false)
	StoreI32_16 = registerMem(0x33, "i32.store16", types.MemI16u, types.I32, false)
	StoreI64_8  = registerMem(0x34, "i64.store8", types.MemI8u, types.I64, false)
	StoreI64_16 = registerMem(0x35, "i64.store16", types.MemI16u, types.I64, false)
	StoreI64_32 = registerMem(0x36, "i64.store32", types.MemI32u, types.I64, false)
)

func registerMem(code byte, name string, mem types.MemType, val types.ValueType, isLoad bool) Op {
	op := Op{Code: code, Name: name, Kind: Expr, Mem: mem, IsMem: true, IsLoad: isLoad}
	if isLoad {
		op.Returns = val
		op.Args = nil // the address operand is consumed explicitly by the decoder, not via Args
	} else {
		op.Returns = types.Stmt
		op.Args = []types.ValueType{val}
	}
	return register(op)
}
