// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package opcodes is the static catalog of every expression and statement
// opcode this core accepts: mnemonic, kind, signature and a per-target
// "supported natively" predicate (§4.1). It is pure data, shared by the
// decoder and the graph builder, and carries no decode or build logic of
// its own — generalized from wagon's wasm/operators package, which plays
// the identical "single source of truth for opcode shape" role for the
// WebAssembly binary encoding.
package opcodes

import (
	"fmt"

	"github.com/go-interpreter/fbgraph/types"
)

// Kind classifies how a production's children and arity are determined.
type Kind uint8

const (
	// Expr opcodes take a fixed number of expression children (given by
	// Args) and produce exactly one value of type Returns.
	Expr Kind = iota
	// Stmt opcodes take a fixed number of children and produce no value.
	Stmt
	// Control opcodes have a signature that cannot be expressed as a fixed
	// Args/Returns pair — blocks, if/else, switch, calls, breaks, returns.
	// The decoder special-cases each one explicitly (§4.2).
	Control
)

// Op describes one opcode: its wire byte, diagnostic name, shape and
// (for load/store opcodes) memory access type.
type Op struct {
	Code byte
	Name string
	Kind Kind

	// Args and Returns describe the signature for Expr/Stmt opcodes.
	// They are unused (nil / types.Stmt) for Control opcodes, whose
	// signature the decoder derives from the bytecode itself.
	Args    []types.ValueType
	Returns types.ValueType

	// Mem is set for the load/store family; it is the access type baked
	// into the opcode identity (§6.1: "loads and stores carry their memory
	// access type as part of the opcode identity").
	Mem    types.MemType
	IsMem  bool
	IsLoad bool

	// nativeOn reports whether this opcode is implemented as a primitive
	// machine operator on the given target. A nil nativeOn means "always
	// native". When it returns false the builder must lower the opcode
	// (§4.1, §4.3) rather than emit it directly.
	nativeOn func(TargetCaps) bool
}

// SupportedOn reports whether op can be emitted as a single machine
// primitive on a target with the given capabilities.
func (op Op) SupportedOn(caps TargetCaps) bool {
	if op.nativeOn == nil {
		return true
	}
	return op.nativeOn(caps)
}

func (op Op) String() string {
	return op.Name
}

// UnknownOpcodeError is returned by Lookup for a byte with no table entry.
type UnknownOpcodeError byte

func (e UnknownOpcodeError) Error() string {
	return fmt.Sprintf("opcodes: unknown opcode 0x%02x", byte(e))
}

var table [256]*Op

func register(op Op) Op {
	if table[op.Code] != nil {
		panic(fmt.Sprintf("opcodes: duplicate registration for code 0x%02x (%s and %s)", op.Code, table[op.Code].Name, op.Name))
	}
	o := op
	if o.Kind != Expr {
		o.Returns = types.Stmt
	}
	table[op.Code] = &o
	return o
}

// Lookup returns the Op registered for code, or UnknownOpcodeError if none
// is registered. This is the opcode table's sole read path; the decoder
// never inspects the table's internal layout directly (§2).
func Lookup(code byte) (Op, error) {
	o := table[code]
	if o == nil {
		return Op{}, UnknownOpcodeError(code)
	}
	return *o, nil
}
