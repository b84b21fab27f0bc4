// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opcodes

import "github.com/go-interpreter/fbgraph/types"

// Control-flow, local/global access and constant opcodes (§6.1). Byte
// values are this core's own; there is no standardized wire format to
// match (§1, explicit non-goal).
var (
	Unreachable = register(Op{Code: 0x00, Name: "unreachable", Kind: Stmt})
	Nop         = register(Op{Code: 0x01, Name: "nop", Kind: Stmt})

	// Block N: N statement children, no expected value.
	Block = register(Op{Code: 0x02, Name: "block", Kind: Control})
	// Loop: one entry child (the loop body, itself a block); back-edges
	// are wired up by the decoder via AppendToMerge/AppendToPhi (§4.3).
	Loop = register(Op{Code: 0x03, Name: "loop", Kind: Control})
	// If: cond expr, else-presence byte, then-stmt, optional else-stmt.
	If = register(Op{Code: 0x04, Name: "if", Kind: Control})
	// Break K: depth byte naming the enclosing block context (§4.2).
	Break = register(Op{Code: 0x05, Name: "break", Kind: Control})
	// Return: statement, 0 or 1 value child depending on function sig.
	Return = register(Op{Code: 0x06, Name: "return", Kind: Control})
	// Switch N / SwitchNoFallthrough N: key expr then N case productions.
	Switch             = register(Op{Code: 0x07, Name: "switch", Kind: Control})
	SwitchNoFallthrough = register(Op{Code: 0x08, Name: "switch_no_fallthrough", Kind: Control})
	// While: desugars in the IR to loop { if !cond break; body; } (§4.2).
	While = register(Op{Code: 0x09, Name: "while", Kind: Control})
	// Ternary: cond, arm-true, arm-false; arms must share a type (§4.2).
	Ternary = register(Op{Code: 0x0a, Name: "ternary", Kind: Control})
	// Comma: left (discarded), right (result); result type is right's.
	Comma = register(Op{Code: 0x0b, Name: "comma", Kind: Control})

	GetLocal  = register(Op{Code: 0x0c, Name: "get_local", Kind: Control})
	SetLocal  = register(Op{Code: 0x0d, Name: "set_local", Kind: Control})
	GetGlobal = register(Op{Code: 0x0e, Name: "get_global", Kind: Control})
	SetGlobal = register(Op{Code: 0x0f, Name: "set_global", Kind: Control})

	I8Const  = register(Op{Code: 0x10, Name: "i8.const", Kind: Expr, Returns: types.I32})
	I32Const = register(Op{Code: 0x11, Name: "i32.const", Kind: Expr, Returns: types.I32})
	I64Const = register(Op{Code: 0x12, Name: "i64.const", Kind: Expr, Returns: types.I64})
	F32Const = register(Op{Code: 0x13, Name: "f32.const", Kind: Expr, Returns: types.F32})
	F64Const = register(Op{Code: 0x14, Name: "f64.const", Kind: Expr, Returns: types.F64})

	CallDirect   = register(Op{Code: 0x15, Name: "call", Kind: Control})
	CallIndirect = register(Op{Code: 0x16, Name: "call_indirect", Kind: Control})
)

// BlockKind distinguishes the shape of a pushed decoder block context (§3).
type BlockKind uint8

const (
	BlockPlain BlockKind = iota
	BlockLoop
	BlockIfThen
	BlockIfElse
	BlockSwitch
)

func (k BlockKind) String() string {
	switch k {
	case BlockPlain:
		return "block"
	case BlockLoop:
		return "loop"
	case BlockIfThen:
		return "if-then"
	case BlockIfElse:
		return "if-else"
	case BlockSwitch:
		return "switch"
	default:
		return "<unknown block kind>"
	}
}
