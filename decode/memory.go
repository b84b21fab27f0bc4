// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"github.com/go-interpreter/fbgraph/diag"
	"github.com/go-interpreter/fbgraph/graph"
	"github.com/go-interpreter/fbgraph/opcodes"
	"github.com/go-interpreter/fbgraph/types"
)

// decodeLoad reads a load opcode's static offset immediate and address
// child, checks that a module environment with memory is attached
// (§4.2: "Memory opcodes check that the function environment has an
// attached module environment; otherwise fail NoMemory"), and emits the
// bounds-checked load (§4.3).
func (d *Decoder) decodeLoad(op opcodes.Op, pc int) (*graph.Node, types.ValueType, *diag.Error) {
	offset, ok := d.fetchU32()
	if !ok {
		return nil, types.Stmt, diag.New(diag.Truncated, pc, "%s: truncated offset immediate", op.Name)
	}
	addr, err := d.decodeExpr(types.I32)
	if err != nil {
		return nil, types.Stmt, err
	}
	if d.env.Module == nil || !d.env.Module.HasMemory() {
		return nil, types.Stmt, diag.New(diag.NoMemory, pc, "%s: no linear memory attached", op.Name)
	}

	start, end := d.env.Module.MemoryBounds()
	access := graph.MemAccess{Mem: op.Mem, Offset: offset}
	val := d.b.LoadMem(access, addr, start, end, d.env.Module.AsmJSSemantics(), op.Returns)
	return val, op.Returns, nil
}

// decodeStore is decodeLoad's mirror: offset immediate, address child,
// then the value child at the opcode's declared value type.
func (d *Decoder) decodeStore(op opcodes.Op, pc int) (*graph.Node, types.ValueType, *diag.Error) {
	offset, ok := d.fetchU32()
	if !ok {
		return nil, types.Stmt, diag.New(diag.Truncated, pc, "%s: truncated offset immediate", op.Name)
	}
	addr, err := d.decodeExpr(types.I32)
	if err != nil {
		return nil, types.Stmt, err
	}
	if d.env.Module == nil || !d.env.Module.HasMemory() {
		return nil, types.Stmt, diag.New(diag.NoMemory, pc, "%s: no linear memory attached", op.Name)
	}
	val, err := d.decodeExpr(op.Args[0])
	if err != nil {
		return nil, types.Stmt, err
	}

	start, end := d.env.Module.MemoryBounds()
	access := graph.MemAccess{Mem: op.Mem, Offset: offset}
	d.b.StoreMem(access, addr, val, start, end, d.env.Module.AsmJSSemantics())
	return nil, types.Stmt, nil
}
