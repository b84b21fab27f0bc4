// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"github.com/go-interpreter/fbgraph/diag"
	"github.com/go-interpreter/fbgraph/graph"
	"github.com/go-interpreter/fbgraph/types"
)

// decodeCallDirect reads a one-byte function index, resolves its
// signature through the module environment, decodes one argument child
// per declared parameter, and emits the call (§4.2: "Call opcodes look
// up the signature via the module environment ... and check argument
// count and pointwise argument types").
func (d *Decoder) decodeCallDirect(pc int) (*graph.Node, types.ValueType, *diag.Error) {
	idx, ok := d.fetchByte()
	if !ok {
		return nil, types.Stmt, diag.New(diag.Truncated, pc, "call: truncated function index")
	}
	if d.env.Module == nil {
		return nil, types.Stmt, diag.New(diag.FunctionIndexOutOfBounds, pc, "call %d: no module environment attached", idx)
	}
	sig, valid := d.env.Module.Signatures().OfFunction(uint32(idx))
	if !valid {
		return nil, types.Stmt, diag.New(diag.FunctionIndexOutOfBounds, pc, "call %d: out of range", idx)
	}

	args := make([]*graph.Node, 0, len(sig.Params))
	for _, pt := range sig.Params {
		v, err := d.decodeExpr(pt)
		if err != nil {
			return nil, types.Stmt, err
		}
		args = append(args, v)
	}

	call := d.b.CallDirect(uint32(idx), args, sig.Return)
	return call, sig.Return, nil
}

// decodeCallIndirect reads a one-byte expected-signature index, a
// dynamic table-index key expression, then one argument child per
// declared parameter of that signature, and emits the signature-checked
// indirect call (§4.3).
func (d *Decoder) decodeCallIndirect(pc int) (*graph.Node, types.ValueType, *diag.Error) {
	sigIdx, ok := d.fetchByte()
	if !ok {
		return nil, types.Stmt, diag.New(diag.Truncated, pc, "call_indirect: truncated signature index")
	}
	if d.env.Module == nil {
		return nil, types.Stmt, diag.New(diag.FunctionIndexOutOfBounds, pc, "call_indirect %d: no module environment attached", sigIdx)
	}
	sig, valid := d.env.Module.Signatures().OfTableSlot(uint32(sigIdx))
	if !valid {
		return nil, types.Stmt, diag.New(diag.FunctionIndexOutOfBounds, pc, "call_indirect %d: unknown signature", sigIdx)
	}

	key, err := d.decodeExpr(types.I32)
	if err != nil {
		return nil, types.Stmt, err
	}

	args := make([]*graph.Node, 0, len(sig.Params))
	for _, pt := range sig.Params {
		v, err := d.decodeExpr(pt)
		if err != nil {
			return nil, types.Stmt, err
		}
		args = append(args, v)
	}

	call := d.b.CallIndirect(key, uint32(sigIdx), args, sig.Return)
	return call, sig.Return, nil
}
