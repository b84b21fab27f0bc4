// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types defines the primitive value categories and memory access
// types shared by the opcode table, the decoder and the graph builder.
package types

import "fmt"

// ValueType is the category of value an expression produces.
type ValueType int8

const (
	// I32 is a 32-bit integer.
	I32 ValueType = iota
	// I64 is a 64-bit integer.
	I64
	// F32 is a 32-bit IEEE-754 float.
	F32
	// F64 is a 64-bit IEEE-754 float.
	F64
	// Stmt marks a production that yields no value.
	Stmt
	// End marks a production that never returns control (unreachable).
	End
)

var valueTypeStr = map[ValueType]string{
	I32:  "i32",
	I64:  "i64",
	F32:  "f32",
	F64:  "f64",
	Stmt: "<stmt>",
	End:  "<end>",
}

func (t ValueType) String() string {
	if s, ok := valueTypeStr[t]; ok {
		return s
	}
	return fmt.Sprintf("<unknown value type %d>", int8(t))
}

// IsValue reports whether t denotes an actual value (as opposed to Stmt or
// End, neither of which can feed a value-consuming production).
func (t ValueType) IsValue() bool {
	return t == I32 || t == I64 || t == F32 || t == F64
}

// MemType is the width and signedness of a linear-memory load or store.
type MemType int8

const (
	MemI8s MemType = iota
	MemI8u
	MemI16s
	MemI16u
	MemI32s
	MemI32u
	MemI64
	MemF32
	MemF64
)

// Width returns the number of bytes read or written by an access of this type.
func (m MemType) Width() int {
	switch m {
	case MemI8s, MemI8u:
		return 1
	case MemI16s, MemI16u:
		return 2
	case MemI32s, MemI32u:
		return 4
	case MemI64, MemF64:
		return 8
	case MemF32:
		return 4
	default:
		return 0
	}
}

// Signed reports whether a narrow integer access sign-extends on load.
func (m MemType) Signed() bool {
	switch m {
	case MemI8s, MemI16s, MemI32s:
		return true
	default:
		return false
	}
}

// ValueType returns the primitive type a load of this access type produces
// (equivalently, the type a store of this access type consumes).
func (m MemType) ValueType() ValueType {
	switch m {
	case MemF32:
		return F32
	case MemF64:
		return F64
	case MemI64:
		return I64
	default:
		return I32
	}
}

func (m MemType) String() string {
	switch m {
	case MemI8s:
		return "i8s"
	case MemI8u:
		return "i8u"
	case MemI16s:
		return "i16s"
	case MemI16u:
		return "i16u"
	case MemI32s:
		return "i32s"
	case MemI32u:
		return "i32u"
	case MemI64:
		return "i64"
	case MemF32:
		return "f32"
	case MemF64:
		return "f64"
	default:
		return "<unknown mem type>"
	}
}
