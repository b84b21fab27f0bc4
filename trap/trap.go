// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trap implements graph.TrapInserter: the lazily-materialized,
// per-reason trap block the builder branches into at every trap site
// (§4.4). There is no teacher precedent in wagon for this — wagon's
// stack-machine interpreter (exec/vm.go) checks the same conditions
// (division by zero, memory bounds, indirect-call signature) inline at
// execution time and panics immediately, rather than building a shared
// IR subgraph multiple trap sites converge on. This package's widening
// behavior is grounded on wagon's exec/internal/compile.Target
// bookkeeping (several branch sites converging on one discard/jump
// target), reinterpreted as IR Merge/EffectPhi nodes instead of bytecode
// jump targets.
package trap

import (
	"github.com/pkg/errors"

	"github.com/go-interpreter/fbgraph/graph"
	"github.com/go-interpreter/fbgraph/modenv"
	"github.com/go-interpreter/fbgraph/types"
)

// ErrNoCurrentControl is wrapped by Helper when TrapIf is called on a
// Builder whose control cursor is nil — a caller contract violation
// (decode should never reach a trap site before Start has run).
var ErrNoCurrentControl = errors.New("trap: builder has no current control cursor")

// block tracks the single materialized trap block for one reason: a
// Merge collecting every site's trap-control edge, and an EffectPhi
// collecting the effect chain each site carried at the time it trapped.
// Both are widened by one input per additional site (§4.4).
type block struct {
	merge     *graph.Node
	effectPhi *graph.Node
}

// Helper is the trap package's concrete TrapInserter (§4.4). One Helper
// is constructed per function-body build and reused across every trap
// site the decoder encounters while driving that build.
type Helper struct {
	mod    modenv.ModuleContext // nil: trap blocks terminate via ReturnVoid
	blocks map[string]*block
}

// New constructs a Helper. mod is the optional module context used to
// build the runtime-throw call (§4.4, §6.2); passing nil selects the
// ReturnVoid-sentinel terminator for every trap block this Helper
// materializes, decided once here rather than per trap site (§9 Open
// Question, resolved in SPEC_FULL.md/DESIGN.md).
func New(mod modenv.ModuleContext) *Helper {
	return &Helper{mod: mod, blocks: make(map[string]*block)}
}

// TrapIf implements graph.TrapInserter. It branches the builder's current
// control on cond; the arm whose truthiness equals iftrueMeansTrap is
// routed into reason's trap block (materializing it on first use,
// widening it on every subsequent call with the same reason); the other
// arm becomes the builder's new control cursor, so the caller's emission
// continues on the non-trapping path exactly as if no check had been
// inserted.
func (h *Helper) TrapIf(b *graph.Builder, reason string, cond *graph.Node, iftrueMeansTrap bool) {
	if b.Control() == nil {
		panic(errors.Wrapf(ErrNoCurrentControl, "TrapIf(%s)", reason))
	}

	ifTrue, ifFalse := b.Branch(cond)
	trapCtrl, continueCtrl := ifFalse, ifTrue
	if iftrueMeansTrap {
		trapCtrl, continueCtrl = ifTrue, ifFalse
	}

	blk, found := h.blocks[reason]
	if !found {
		blk = &block{}
		h.blocks[reason] = blk
		blk.merge = b.Merge(trapCtrl)
		blk.effectPhi = b.EffectPhi(blk.merge, b.Effect())
		h.terminate(b, blk, reason)
	} else {
		b.AppendToMerge(blk.merge, trapCtrl)
		b.AppendToPhi(blk.effectPhi, b.Effect())
	}

	b.SetControl(continueCtrl)
}

// terminate builds the trap block's terminator exactly once, at the
// moment the block is first materialized (§4.4). Because the terminator
// node's control/effect inputs are the block's own Merge/EffectPhi
// nodes — referenced by pointer, not copied — every later widening of
// those nodes via AppendToMerge/AppendToPhi is automatically visible to
// the already-built terminator; it never needs rebuilding.
func (h *Helper) terminate(b *graph.Builder, blk *block, reason string) {
	savedControl, savedEffect := b.Control(), b.Effect()
	b.SetControl(blk.merge)
	b.SetEffect(blk.effectPhi)

	reasonConst := b.Constant(types.Stmt, reason)
	if h.mod != nil {
		b.Throw(h.mod.ThrowCallTarget(), reasonConst)
	} else {
		b.ReturnVoid()
	}

	b.SetControl(savedControl)
	b.SetEffect(savedEffect)
}
