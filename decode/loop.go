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

// openLoopLocals snapshots the decoder's per-local value vector at a
// freshly created loop header and rebinds each local to a Phi hung off
// header, taking the pre-loop value as its sole initial input (the
// SsaEnv-merge the original v8 builder performs at a loop header: every
// local live going into the loop gets a phi up front, not just the ones
// the body happens to reassign, so a read inside the loop — including
// the loop condition itself — sees the per-iteration value instead of
// the value live before the loop). The returned phis are widened with
// the post-body value once the body has been decoded.
func (d *Decoder) openLoopLocals(header *graph.Node) []*graph.Node {
	phis := make([]*graph.Node, len(d.locals))
	for i, v := range d.locals {
		t, _ := d.env.LocalType(uint32(i))
		phis[i] = d.b.Phi(t, header, v)
		d.locals[i] = phis[i]
	}
	return phis
}

// closeLoopLocals widens each loop-header local phi with the value its
// local holds at the bottom of a reachable iteration of the loop body —
// the back-edge contribution — in lockstep with the header's own
// AppendToMerge/AppendToPhi widening (§4.4). Locals the body never
// reassigns widen with the phi itself, a harmless self-referential
// input identical to how the header's own EffectPhi widens with an
// unchanged effect when the body has no side effect.
func (d *Decoder) closeLoopLocals(phis []*graph.Node) {
	for i, phi := range phis {
		d.b.AppendToPhi(phi, d.locals[i])
	}
}

// decodeLoop: a single entry child, the loop body, with no condition
// (§4.2: "infinite loop: a loop whose only exit is via explicit break;
// if no break is present, its successor in the graph is the unreachable
// terminate node").
func (d *Decoder) decodeLoop(pc int) (*graph.Node, types.ValueType, *diag.Error) {
	entryCtrl, entryEffect := d.b.Control(), d.b.Effect()
	header := d.b.Loop(entryCtrl)
	headerEffect := d.b.EffectPhi(header, entryEffect)
	localPhis := d.openLoopLocals(header)
	d.b.SetControl(header)
	d.b.SetEffect(headerEffect)

	bc := d.pushBlock(opcodes.BlockLoop, pc)
	err := d.decodeStmt()
	d.popBlock()
	if err != nil {
		return nil, types.Stmt, err
	}

	if d.reachable {
		d.b.AppendToMerge(header, d.b.Control())
		d.b.AppendToPhi(headerEffect, d.b.Effect())
		d.closeLoopLocals(localPhis)
	}

	if bc.exitMerge == nil {
		d.b.Unreachable()
		d.reachable = false
		return nil, types.End, nil
	}
	d.b.SetControl(bc.exitMerge)
	d.b.SetEffect(bc.exitEffect)
	d.reachable = true
	return nil, types.Stmt, nil
}

// decodeWhile: cond expr then body, desugared in the IR to
// `loop { if !cond break; body; }` (§4.2). Entry is through the loop
// header; the loop node is the merge of the back edge.
func (d *Decoder) decodeWhile(pc int) (*graph.Node, types.ValueType, *diag.Error) {
	entryCtrl, entryEffect := d.b.Control(), d.b.Effect()
	header := d.b.Loop(entryCtrl)
	headerEffect := d.b.EffectPhi(header, entryEffect)
	localPhis := d.openLoopLocals(header)
	d.b.SetControl(header)
	d.b.SetEffect(headerEffect)

	bc := d.pushBlock(opcodes.BlockLoop, pc)

	cond, err := d.decodeExpr(types.I32)
	if err != nil {
		d.popBlock()
		return nil, types.Stmt, err
	}

	tCtrl, fCtrl := d.b.Branch(cond)
	preBodyEffect := d.b.Effect()

	// The not-taken arm is the implicit `break` the desugaring describes.
	bc.mergeExit(d.b, fCtrl, preBodyEffect)

	d.b.SetControl(tCtrl)
	d.b.SetEffect(preBodyEffect)
	err = d.decodeStmt()
	d.popBlock()
	if err != nil {
		return nil, types.Stmt, err
	}

	if d.reachable {
		d.b.AppendToMerge(header, d.b.Control())
		d.b.AppendToPhi(headerEffect, d.b.Effect())
		d.closeLoopLocals(localPhis)
	}

	// bc.exitMerge is never nil: the cond check above always contributes
	// the implicit not-taken edge. That edge leaves from the header, so the
	// locals live after the loop are the header phis.
	d.restoreLocals(localPhis)
	d.b.SetControl(bc.exitMerge)
	d.b.SetEffect(bc.exitEffect)
	d.reachable = true
	return nil, types.Stmt, nil
}
