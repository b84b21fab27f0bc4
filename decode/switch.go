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

// decodeSwitch handles both `switch N` (fallthrough) and
// `switch_no_fallthrough N` (§4.2): a key expression, then N case
// productions, one per case value 0..N-1, plus an implicit default arm.
// Every case and the default arm are reconciled into the switch's single
// block context's exit; fallthrough mode additionally folds a reachable
// case's exit control/effect into the next case's entry.
func (d *Decoder) decodeSwitch(pc int, fallthroughAllowed bool) (*graph.Node, types.ValueType, *diag.Error) {
	key, err := d.decodeExpr(types.I32)
	if err != nil {
		return nil, types.Stmt, err
	}
	n, ok := d.fetchByte()
	if !ok {
		return nil, types.Stmt, diag.New(diag.Truncated, pc, "switch: truncated arity")
	}

	preEffect := d.b.Effect()
	sw := d.b.Switch(key)
	bc := d.pushBlock(opcodes.BlockSwitch, pc)

	var prevCtrl, prevEffect *graph.Node
	prevReachable := false

	for i := 0; i < int(n); i++ {
		caseCtrl := d.b.IfValue(sw, i)

		if fallthroughAllowed && prevReachable {
			merge := d.b.Merge(prevCtrl, caseCtrl)
			eff := d.b.EffectPhi(merge, prevEffect, preEffect)
			d.b.SetControl(merge)
			d.b.SetEffect(eff)
		} else {
			d.b.SetControl(caseCtrl)
			d.b.SetEffect(preEffect)
		}

		d.reachable = true
		if err := d.decodeStmt(); err != nil {
			d.popBlock()
			return nil, types.Stmt, err
		}
		prevCtrl, prevEffect, prevReachable = d.b.Control(), d.b.Effect(), d.reachable

		last := i == int(n)-1
		if (!fallthroughAllowed || last) && prevReachable {
			bc.mergeExit(d.b, prevCtrl, prevEffect)
			prevReachable = false
		}
	}

	// Default: key matched no case (§4.2: "both forms fall through to
	// code following the switch if no case executes break").
	defCtrl := d.b.IfDefault(sw)
	bc.mergeExit(d.b, defCtrl, preEffect)

	d.popBlock()
	d.b.SetControl(bc.exitMerge)
	d.b.SetEffect(bc.exitEffect)
	d.reachable = true
	return nil, types.Stmt, nil
}
