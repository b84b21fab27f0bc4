// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"github.com/go-interpreter/fbgraph/diag"
	"github.com/go-interpreter/fbgraph/graph"
	"github.com/go-interpreter/fbgraph/opcodes"
)

// blockCtx is a frame on the decoder's control stack (§3, "Block
// context"). It is pushed before decoding a control-flow production's
// children and popped after. exitMerge/exitEffect are nil until the
// first break targeting this frame (or, for loop/switch, the first
// implicit break-equivalent) materializes them; subsequent exits widen
// them in place, mirroring the trap helper's own lazy-materialize-then-
// widen pattern (§4.4) one layer up, for the same reason: the exit's
// in-edge count is not known until every production reachable from this
// frame has been decoded.
type blockCtx struct {
	kind opcodes.BlockKind
	pc   int

	exitMerge  *graph.Node
	exitEffect *graph.Node
}

func (d *Decoder) pushBlock(kind opcodes.BlockKind, pc int) *blockCtx {
	bc := &blockCtx{kind: kind, pc: pc}
	d.blocks = append(d.blocks, bc)
	return bc
}

func (d *Decoder) popBlock() *blockCtx {
	n := len(d.blocks) - 1
	bc := d.blocks[n]
	d.blocks = d.blocks[:n]
	return bc
}

// mergeExit widens bc's exit (materializing it on first use) with the
// control/effect pair a break, fallthrough or implicit loop exit
// contributes.
func (bc *blockCtx) mergeExit(b *graph.Builder, ctrl, effect *graph.Node) {
	if bc.exitMerge == nil {
		bc.exitMerge = b.Merge(ctrl)
		bc.exitEffect = b.EffectPhi(bc.exitMerge, effect)
		return
	}
	b.AppendToMerge(bc.exitMerge, ctrl)
	b.AppendToPhi(bc.exitEffect, effect)
}

// breakTo resolves `break depth` against the decoder's open block stack
// (0 = innermost, §4.2) and merges the current control/effect into that
// frame's exit.
func (d *Decoder) breakTo(depth uint32, pc int) *diag.Error {
	idx := len(d.blocks) - 1 - int(depth)
	if idx < 0 {
		return diag.New(diag.BreakDepth, pc, "break %d: no enclosing block at that depth", depth)
	}
	d.blocks[idx].mergeExit(d.b, d.b.Control(), d.b.Effect())
	return nil
}
