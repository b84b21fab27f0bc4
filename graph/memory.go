// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"github.com/go-interpreter/fbgraph/opcodes"
	"github.com/go-interpreter/fbgraph/types"
)

// MemAccess carries the static parameters of a memory op: its access type
// and the static byte offset encoded in the opcode's immediates (§6.1).
type MemAccess struct {
	Mem    types.MemType
	Offset uint32
}

// boundsCheckNode implements the bounds-check policy of §4.3: given
// size = mem_end-mem_start, w = width of access and o = static offset,
// if o>=size or o+w>size the check is the constant `false` (the access
// always traps, but the builder still emits the trap branch so it
// materializes); otherwise the check is `index <=u (size-o-w)`.
func (b *Builder) boundsCheckNode(memStart, memEnd uint32, access MemAccess, index *Node) *Node {
	size := memEnd - memStart
	w := uint32(access.Mem.Width())
	o := access.Offset

	if o >= size || o+w > size {
		return b.Constant(types.I32, int32(0)) // false: condition for "safe" is never met
	}
	limit := size - o - w
	limitNode := b.Constant(types.I32, int32(limit))
	leOp := opcodes.I32("le_u")
	return b.primitiveBinop(leOp, index, limitNode)
}

// LoadMem emits a bounds check (unless asm.js semantics apply) followed by
// a typed load on the effect chain (§4.3). index is the dynamic address
// operand; access.Offset is the static offset folded into the opcode's
// immediates. returns is the opcode's declared result type (opcodes.Op.
// Returns) — it, not access.Mem.ValueType(), is what distinguishes
// i32.load8_s from i64.load8_s: both share the same MemI8s access type,
// differing only in the destination width the opcode table records. For
// i64 loads narrower than 8 bytes, the raw load's natural (sign/zero-
// extended-to-32-bit) result is further extended from 32 to 64 bits per
// access.Mem.Signed().
func (b *Builder) LoadMem(access MemAccess, index *Node, memStart, memEnd uint32, asmJS bool, returns types.ValueType) *Node {
	if !asmJS && b.Traps != nil {
		safe := b.boundsCheckNode(memStart, memEnd, access, index)
		b.Traps.TrapIf(b, "MemOutOfBounds", safe, false)
	}

	narrowI64 := returns == types.I64 && access.Mem.Width() < 8
	rawType := returns
	if narrowI64 {
		rawType = types.I32
	}

	n := b.g.newNode(OpLoad, b.effect, index)
	n.Type = rawType
	n.Aux = access
	b.effect = n

	if asmJS {
		// Checked load under asm.js semantics: OOB silently yields 0
		// instead of trapping; the node's own Aux records AsmJS so a
		// downstream lowering can special-case the bounds test. No trap
		// branch is emitted at all (§4.3).
		n.Aux = asmJSAccess{access}
	}

	if narrowI64 {
		return b.extendTo64(n, access.Mem.Signed())
	}
	return n
}

type asmJSAccess struct{ MemAccess }

func (b *Builder) extendTo64(narrow *Node, signed bool) *Node {
	op := opcodes.I64ExtendI32U
	if signed {
		op = opcodes.I64ExtendI32S
	}
	return b.unaryConvert(op, narrow)
}

// StoreMem emits a bounds check (unless asm.js semantics apply) followed
// by a typed store on the effect chain (§4.3). Under asm.js semantics, an
// OOB store is dropped silently rather than trapping.
func (b *Builder) StoreMem(access MemAccess, index, value *Node, memStart, memEnd uint32, asmJS bool) *Node {
	if !asmJS && b.Traps != nil {
		safe := b.boundsCheckNode(memStart, memEnd, access, index)
		b.Traps.TrapIf(b, "MemOutOfBounds", safe, false)
	}

	n := b.g.newNode(OpStoreMem, b.effect, index, value)
	n.Type = types.Stmt
	if asmJS {
		n.Aux = asmJSAccess{access}
	} else {
		n.Aux = access
	}
	b.effect = n
	return n
}

// LoadGlobal computes globals_area_base + per-global offset and emits a
// typed load on the effect chain (§4.3).
func (b *Builder) LoadGlobal(globalsBase uint32, slot MemAccess) *Node {
	n := b.g.newNode(OpLoadGlobal, b.effect)
	n.Type = slot.Mem.ValueType()
	n.Aux = globalAddr{globalsBase, slot}
	b.effect = n
	return n
}

// StoreGlobal computes globals_area_base + per-global offset and emits a
// typed store on the effect chain (§4.3).
func (b *Builder) StoreGlobal(globalsBase uint32, slot MemAccess, value *Node) *Node {
	n := b.g.newNode(OpStoreGlobal, b.effect, value)
	n.Type = types.Stmt
	n.Aux = globalAddr{globalsBase, slot}
	b.effect = n
	return n
}

type globalAddr struct {
	Base uint32
	Slot MemAccess
}
