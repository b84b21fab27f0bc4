// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"github.com/go-interpreter/fbgraph/diag"
	"github.com/go-interpreter/fbgraph/graph"
	"github.com/go-interpreter/fbgraph/types"
)

// snapshotLocals copies the decoder's current per-local value vector, so
// a caller that is about to decode a production with more than one
// control-flow arm (an if's two branches, a loop's header versus its
// body) can restore or compare against the values each arm saw.
func (d *Decoder) snapshotLocals() []*graph.Node {
	out := make([]*graph.Node, len(d.locals))
	copy(out, d.locals)
	return out
}

// restoreLocals rebinds the decoder's per-local value vector to a prior
// snapshot, undoing whatever a just-decoded arm assigned, so a sibling
// arm starts from the same values the first arm did.
func (d *Decoder) restoreLocals(snap []*graph.Node) {
	copy(d.locals, snap)
}

// mergeLocals reconciles two branches' local snapshots at a control
// merge: a local both arms leave holding the same value is rebound to
// that value directly; a local the arms disagree on is rebound to a
// fresh Phi hung off merge, exactly as the builder already reconciles
// the effect chain with an EffectPhi (§3, §4.4). Skipping the Phi when
// the arms agree avoids a trivial single-value phi for every local an
// if's body never touches.
func (d *Decoder) mergeLocals(merge *graph.Node, a, b []*graph.Node) {
	for i := range d.locals {
		if a[i] == b[i] {
			d.locals[i] = a[i]
			continue
		}
		t, _ := d.env.LocalType(uint32(i))
		d.locals[i] = d.b.Phi(t, merge, a[i], b[i])
	}
}

// decodeGetLocal reads a one-byte local index (§6.1) and yields that
// local's most recently assigned value (§4.2: "i < total_locals").
func (d *Decoder) decodeGetLocal(pc int) (*graph.Node, types.ValueType, *diag.Error) {
	idx, ok := d.fetchByte()
	if !ok {
		return nil, types.Stmt, diag.New(diag.Truncated, pc, "get_local: truncated index")
	}
	t, valid := d.env.LocalType(uint32(idx))
	if !valid {
		return nil, types.Stmt, diag.New(diag.LocalIndexOutOfBounds, pc, "get_local %d: out of range (%d locals)", idx, d.env.TotalLocals())
	}
	return d.locals[idx], t, nil
}

// decodeSetLocal reads a one-byte local index and a value child typed to
// that local's declared type, and rebinds the local's current value
// (§3: "Allocation of a local never renumbers earlier locals" — set_local
// likewise never changes a local's declared type, only its current
// value).
func (d *Decoder) decodeSetLocal(pc int) (*graph.Node, types.ValueType, *diag.Error) {
	idx, ok := d.fetchByte()
	if !ok {
		return nil, types.Stmt, diag.New(diag.Truncated, pc, "set_local: truncated index")
	}
	t, valid := d.env.LocalType(uint32(idx))
	if !valid {
		return nil, types.Stmt, diag.New(diag.LocalIndexOutOfBounds, pc, "set_local %d: out of range (%d locals)", idx, d.env.TotalLocals())
	}
	val, err := d.decodeExpr(t)
	if err != nil {
		return nil, types.Stmt, err
	}
	d.locals[idx] = val
	return nil, types.Stmt, nil
}

// decodeGetGlobal reads a one-byte global index (the same width
// convention §6.1 gives local indices, since the wire format never
// mentions a wider encoding for any index byte) and emits a typed load
// through the module environment's globals area.
func (d *Decoder) decodeGetGlobal(pc int) (*graph.Node, types.ValueType, *diag.Error) {
	idx, ok := d.fetchByte()
	if !ok {
		return nil, types.Stmt, diag.New(diag.Truncated, pc, "get_global: truncated index")
	}
	if d.env.Module == nil {
		return nil, types.Stmt, diag.New(diag.GlobalIndexOutOfBounds, pc, "get_global %d: no module environment attached", idx)
	}
	slot, valid := d.env.Module.Global(uint32(idx))
	if !valid {
		return nil, types.Stmt, diag.New(diag.GlobalIndexOutOfBounds, pc, "get_global %d: out of range", idx)
	}
	access := graph.MemAccess{Mem: slot.Type, Offset: slot.Offset}
	val := d.b.LoadGlobal(d.env.Module.GlobalsBase(), access)
	return val, slot.Type.ValueType(), nil
}

// decodeSetGlobal mirrors decodeGetGlobal, with a value child typed to
// the slot's declared type.
func (d *Decoder) decodeSetGlobal(pc int) (*graph.Node, types.ValueType, *diag.Error) {
	idx, ok := d.fetchByte()
	if !ok {
		return nil, types.Stmt, diag.New(diag.Truncated, pc, "set_global: truncated index")
	}
	if d.env.Module == nil {
		return nil, types.Stmt, diag.New(diag.GlobalIndexOutOfBounds, pc, "set_global %d: no module environment attached", idx)
	}
	slot, valid := d.env.Module.Global(uint32(idx))
	if !valid {
		return nil, types.Stmt, diag.New(diag.GlobalIndexOutOfBounds, pc, "set_global %d: out of range", idx)
	}
	val, err := d.decodeExpr(slot.Type.ValueType())
	if err != nil {
		return nil, types.Stmt, err
	}
	access := graph.MemAccess{Mem: slot.Type, Offset: slot.Offset}
	d.b.StoreGlobal(d.env.Module.GlobalsBase(), access, val)
	return nil, types.Stmt, nil
}
