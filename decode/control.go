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

// decodeControl dispatches every Control-kind opcode (§4.1: "signature
// cannot be expressed as a fixed Args/Returns pair") to its dedicated
// production. Every case here is one of the productions named in §4.2.
func (d *Decoder) decodeControl(op opcodes.Op, pc int) (*graph.Node, types.ValueType, *diag.Error) {
	switch op.Code {
	case opcodes.Block.Code:
		return d.decodeBlock(pc)
	case opcodes.Loop.Code:
		return d.decodeLoop(pc)
	case opcodes.If.Code:
		return d.decodeIf(pc)
	case opcodes.Break.Code:
		return d.decodeBreak(pc)
	case opcodes.Return.Code:
		return d.decodeReturn(pc)
	case opcodes.Switch.Code:
		return d.decodeSwitch(pc, true)
	case opcodes.SwitchNoFallthrough.Code:
		return d.decodeSwitch(pc, false)
	case opcodes.While.Code:
		return d.decodeWhile(pc)
	case opcodes.Ternary.Code:
		return d.decodeTernary(pc)
	case opcodes.Comma.Code:
		return d.decodeComma(pc)
	case opcodes.GetLocal.Code:
		return d.decodeGetLocal(pc)
	case opcodes.SetLocal.Code:
		return d.decodeSetLocal(pc)
	case opcodes.GetGlobal.Code:
		return d.decodeGetGlobal(pc)
	case opcodes.SetGlobal.Code:
		return d.decodeSetGlobal(pc)
	case opcodes.CallDirect.Code:
		return d.decodeCallDirect(pc)
	case opcodes.CallIndirect.Code:
		return d.decodeCallIndirect(pc)
	default:
		return nil, types.Stmt, diag.New(diag.InternalError, pc, "%s: declared Control kind but has no decoder case", op.Name)
	}
}

// runBlock pushes a block context of the given kind, runs body (which
// decodes the construct's children against the current cursor), pops the
// context, and reconciles its exit: if any break (explicit or implicit)
// ever targeted it, the fallthrough path (when still reachable) is
// folded in as one more predecessor and the resulting control/effect
// become the block's exit; otherwise the cursor is left exactly as body
// left it (§4.2: "push a block context before decoding children and pop
// it after").
func (d *Decoder) runBlock(kind opcodes.BlockKind, pc int, body func() *diag.Error) *diag.Error {
	bc := d.pushBlock(kind, pc)
	err := body()
	d.popBlock()
	if err != nil {
		return err
	}

	if bc.exitMerge == nil {
		return nil
	}
	if d.reachable {
		bc.mergeExit(d.b, d.b.Control(), d.b.Effect())
	}
	d.b.SetControl(bc.exitMerge)
	d.b.SetEffect(bc.exitEffect)
	d.reachable = true
	return nil
}

// decodeBlock: N statement children (§4.2, §6.1 arity byte).
func (d *Decoder) decodeBlock(pc int) (*graph.Node, types.ValueType, *diag.Error) {
	n, ok := d.fetchByte()
	if !ok {
		return nil, types.Stmt, diag.New(diag.Truncated, pc, "block: truncated arity")
	}
	err := d.runBlock(opcodes.BlockPlain, pc, func() *diag.Error {
		for i := 0; i < int(n); i++ {
			if e := d.decodeStmt(); e != nil {
				return e
			}
		}
		return nil
	})
	return nil, types.Stmt, err
}

// decodeBreak: a single depth byte naming the enclosing context (§4.2).
func (d *Decoder) decodeBreak(pc int) (*graph.Node, types.ValueType, *diag.Error) {
	depth, ok := d.fetchByte()
	if !ok {
		return nil, types.Stmt, diag.New(diag.Truncated, pc, "break: truncated depth")
	}
	if err := d.breakTo(uint32(depth), pc); err != nil {
		return nil, types.Stmt, err
	}
	d.reachable = false
	return nil, types.End, nil
}

// decodeReturn: 0 or 1 value child depending on the function signature
// (§4.2).
func (d *Decoder) decodeReturn(pc int) (*graph.Node, types.ValueType, *diag.Error) {
	if d.env.Sig.HasReturn() {
		val, err := d.decodeExpr(d.env.Sig.Return)
		if err != nil {
			return nil, types.Stmt, err
		}
		d.b.Return(val)
	} else {
		d.b.Return()
	}
	d.reachable = false
	return nil, types.End, nil
}

// decodeIf: cond expr, an else-presence byte, then-stmt and optional
// else-stmt (§4.2). "if without else: the taken branch contributes; the
// not-taken branch joins with the pre-if effect and no value."
func (d *Decoder) decodeIf(pc int) (*graph.Node, types.ValueType, *diag.Error) {
	cond, err := d.decodeExpr(types.I32)
	if err != nil {
		return nil, types.Stmt, err
	}
	hasElse, ok := d.fetchByte()
	if !ok {
		return nil, types.Stmt, diag.New(diag.Truncated, pc, "if: truncated else-presence byte")
	}

	tCtrl, fCtrl := d.b.Branch(cond)
	preEffect := d.b.Effect()
	preLocals := d.snapshotLocals()

	d.b.SetControl(tCtrl)
	d.b.SetEffect(preEffect)
	if e := d.runBlock(opcodes.BlockIfThen, pc, func() *diag.Error { return d.decodeStmt() }); e != nil {
		return nil, types.Stmt, e
	}
	thenCtrl, thenEffect, thenReachable := d.b.Control(), d.b.Effect(), d.reachable
	thenLocals := d.snapshotLocals()

	var elseCtrl, elseEffect *graph.Node
	var elseReachable bool
	var elseLocals []*graph.Node
	if hasElse != 0 {
		d.restoreLocals(preLocals)
		d.b.SetControl(fCtrl)
		d.b.SetEffect(preEffect)
		if e := d.runBlock(opcodes.BlockIfElse, pc, func() *diag.Error { return d.decodeStmt() }); e != nil {
			return nil, types.Stmt, e
		}
		elseCtrl, elseEffect, elseReachable = d.b.Control(), d.b.Effect(), d.reachable
		elseLocals = d.snapshotLocals()
	} else {
		elseCtrl, elseEffect, elseReachable = fCtrl, preEffect, true
		elseLocals = preLocals
	}

	switch {
	case thenReachable && elseReachable:
		merge := d.b.Merge(thenCtrl, elseCtrl)
		eff := d.b.EffectPhi(merge, thenEffect, elseEffect)
		d.mergeLocals(merge, thenLocals, elseLocals)
		d.b.SetControl(merge)
		d.b.SetEffect(eff)
		d.reachable = true
	case thenReachable:
		d.restoreLocals(thenLocals)
		d.b.SetControl(thenCtrl)
		d.b.SetEffect(thenEffect)
		d.reachable = true
	case elseReachable:
		d.restoreLocals(elseLocals)
		d.b.SetControl(elseCtrl)
		d.b.SetEffect(elseEffect)
		d.reachable = true
	default:
		d.reachable = false
	}
	return nil, types.Stmt, nil
}

// decodeTernary: cond, arm-true, arm-false; arms must share a type
// (§4.2); result is a Phi.
func (d *Decoder) decodeTernary(pc int) (*graph.Node, types.ValueType, *diag.Error) {
	cond, err := d.decodeExpr(types.I32)
	if err != nil {
		return nil, types.Stmt, err
	}

	tCtrl, fCtrl := d.b.Branch(cond)
	preEffect := d.b.Effect()

	d.b.SetControl(tCtrl)
	d.b.SetEffect(preEffect)
	tVal, tType, err := d.decodeExprAny()
	if err != nil {
		return nil, types.Stmt, err
	}
	tCtrlAfter, tEffectAfter := d.b.Control(), d.b.Effect()

	d.b.SetControl(fCtrl)
	d.b.SetEffect(preEffect)
	fVal, err := d.decodeExpr(tType)
	if err != nil {
		return nil, types.Stmt, err
	}
	fCtrlAfter, fEffectAfter := d.b.Control(), d.b.Effect()

	merge := d.b.Merge(tCtrlAfter, fCtrlAfter)
	eff := d.b.EffectPhi(merge, tEffectAfter, fEffectAfter)
	val := d.b.Phi(tType, merge, tVal, fVal)
	d.b.SetControl(merge)
	d.b.SetEffect(eff)
	return val, tType, nil
}

// decodeComma: left (discarded), right (result); type is the right's
// (§4.2).
func (d *Decoder) decodeComma(pc int) (*graph.Node, types.ValueType, *diag.Error) {
	if _, _, err := d.decodeExprAny(); err != nil {
		return nil, types.Stmt, err
	}
	right, rt, err := d.decodeExprAny()
	if err != nil {
		return nil, types.Stmt, err
	}
	return right, rt, nil
}
