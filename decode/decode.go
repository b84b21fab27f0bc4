// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package decode is the recursive-descent decoder/verifier for one
// function body (§4.2): it is the only component that advances the byte
// cursor, and it drives a graph.Builder to produce IR in lockstep with
// its verification walk. There is no teacher precedent for a decoder
// that builds a sea-of-nodes graph as it walks; this package generalizes
// wagon's per-production verification shape (validate.verifyBody's
// opcode switch, validate/validate.go) and its block-context stack
// (validate.context.stack, the same file) from WebAssembly's LEB128
// binary encoding and arity-only checking to this core's fixed-width
// wire format (§6.1) and merge/phi-stitching control stack (§3, §4.2).
package decode

import (
	"os"

	"github.com/go-interpreter/fbgraph/diag"
	"github.com/go-interpreter/fbgraph/funcenv"
	"github.com/go-interpreter/fbgraph/graph"
	"github.com/go-interpreter/fbgraph/opcodes"
	"github.com/go-interpreter/fbgraph/types"
)

// Decoder holds the byte cursor, the function environment, the builder
// being driven, the open block-context stack, and the per-local value
// vector (§3: "running parameter/local type vector" generalized here to
// the running parameter/local *value* vector, since the decoder must
// track each local's most recently assigned IR node, not just its type —
// LocalType already lives in funcenv.Env).
type Decoder struct {
	buf []byte
	pos int
	end int

	env  *funcenv.Env
	b    *graph.Builder
	opts Options

	blocks []*blockCtx
	locals []*graph.Node

	// reachable is false once the decoder has passed a production that
	// unconditionally diverts control away from the normal fallthrough
	// path (return, unreachable, break, or both arms of an if). Further
	// sibling productions are still decoded — the wire format has no way
	// to skip them — but their resulting control/effect are not spliced
	// back into the live cursor, since there is nothing live to splice
	// them into.
	reachable bool
}

// Decode decodes and verifies the function body in code, driving b to
// build its IR. env supplies the function's signature, locals and
// (optionally) module bindings; b must be freshly constructed with
// Start not yet called. The returned Result is ok, or carries the first
// diagnostic encountered (§7: decode errors are reported once and abort
// the decode).
func Decode(code []byte, env *funcenv.Env, b *graph.Builder, opts Options) diag.Result {
	d := &Decoder{
		buf:       code,
		pos:       0,
		end:       len(code),
		env:       env,
		b:         b,
		opts:      opts,
		reachable: true,
	}

	paramTypes := make([]types.ValueType, env.ParamCount())
	for i := range paramTypes {
		t, _ := env.LocalType(uint32(i))
		paramTypes[i] = t
	}
	_, params := b.Start(paramTypes)

	d.locals = make([]*graph.Node, env.TotalLocals())
	copy(d.locals, params)
	for i := env.ParamCount(); i < env.TotalLocals(); i++ {
		t, _ := env.LocalType(uint32(i))
		d.locals[i] = b.Constant(t, zeroValue(t))
	}

	if PrintDebugInfo {
		logger.SetOutput(os.Stderr)
	}
	logger.Printf("decode: start, %d bytes, %d params, %d locals", len(code), env.ParamCount(), env.TotalLocals())

	if len(code) == 0 {
		// Empty body tie-break (§4.2): synthesize a zero return so the
		// caller always receives a terminated graph.
		d.synthesizeZeroReturn()
		return diag.Result{}
	}

	for d.pos < d.end {
		if err := d.decodeStmt(); err != nil {
			return diag.Result{Err: err}
		}
	}

	if d.reachable {
		// Falling off the end of the body without an explicit return is
		// treated the same way as the empty-body case: it must still
		// produce a terminated graph.
		d.synthesizeZeroReturn()
	}

	return diag.Result{}
}

func (d *Decoder) synthesizeZeroReturn() {
	if d.env.Sig.HasReturn() {
		zero := d.b.Constant(d.env.Sig.Return, zeroValue(d.env.Sig.Return))
		d.b.Return(zero)
	} else {
		d.b.ReturnVoid()
	}
	d.reachable = false
}

func zeroValue(t types.ValueType) interface{} {
	switch t {
	case types.I64:
		return int64(0)
	case types.F32:
		return float32(0)
	case types.F64:
		return float64(0)
	default:
		return int32(0)
	}
}

// decodeStmt decodes one production in statement position, discarding
// any value it happens to produce.
func (d *Decoder) decodeStmt() *diag.Error {
	_, _, err := d.decodeNode()
	return err
}

// decodeExpr decodes one production in expression position, requiring a
// value of exactly the expected type (§4.2: "If the child's actual type
// is end/void when a value was required, fail TypeError").
func (d *Decoder) decodeExpr(expected types.ValueType) (*graph.Node, *diag.Error) {
	pc := d.pos
	val, vt, err := d.decodeNode()
	if err != nil {
		return nil, err
	}
	if !vt.IsValue() {
		return nil, diag.New(diag.TypeError, pc, "expected a value of type %s, got %s", expected, vt)
	}
	if vt != expected {
		return nil, diag.New(diag.TypeError, pc, "expected %s, got %s", expected, vt)
	}
	return val, nil
}

// decodeExprAny decodes one production in expression position without
// constraining its type — used by ternary/comma, whose own type is
// determined by what their children actually produce (§4.2).
func (d *Decoder) decodeExprAny() (*graph.Node, types.ValueType, *diag.Error) {
	pc := d.pos
	val, vt, err := d.decodeNode()
	if err != nil {
		return nil, 0, err
	}
	if !vt.IsValue() {
		return nil, 0, diag.New(diag.TypeError, pc, "expected a value, got %s", vt)
	}
	return val, vt, nil
}

// decodeNode reads one production's opcode byte and dispatches it,
// returning its value node (nil if it produces none) and value type
// (types.Stmt for statement productions, types.End for unconditional
// control transfers).
func (d *Decoder) decodeNode() (*graph.Node, types.ValueType, *diag.Error) {
	pc := d.pos
	code, ok := d.fetchByte()
	if !ok {
		return nil, types.Stmt, diag.New(diag.Truncated, pc, "ran off end reading opcode")
	}

	op, lookupErr := opcodes.Lookup(code)
	if lookupErr != nil {
		return nil, types.Stmt, diag.New(diag.UnknownOpcode, pc, "%s", lookupErr)
	}

	if op.Kind == opcodes.Control {
		return d.decodeControl(op, pc)
	}

	switch {
	case op.IsMem && op.IsLoad:
		return d.decodeLoad(op, pc)
	case op.IsMem && !op.IsLoad:
		return d.decodeStore(op, pc)
	case op.Code == opcodes.Unreachable.Code:
		d.b.Unreachable()
		d.reachable = false
		return nil, types.End, nil
	case op.Code == opcodes.Nop.Code:
		return nil, types.Stmt, nil
	case op.Code == opcodes.I8Const.Code:
		v, ok := d.fetchI8()
		if !ok {
			return nil, types.Stmt, diag.New(diag.Truncated, pc, "%s: truncated immediate", op.Name)
		}
		return d.b.Constant(types.I32, v), types.I32, nil
	case op.Code == opcodes.I32Const.Code:
		v, ok := d.fetchI32()
		if !ok {
			return nil, types.Stmt, diag.New(diag.Truncated, pc, "%s: truncated immediate", op.Name)
		}
		return d.b.Constant(types.I32, v), types.I32, nil
	case op.Code == opcodes.I64Const.Code:
		v, ok := d.fetchI64()
		if !ok {
			return nil, types.Stmt, diag.New(diag.Truncated, pc, "%s: truncated immediate", op.Name)
		}
		return d.b.Constant(types.I64, v), types.I64, nil
	case op.Code == opcodes.F32Const.Code:
		v, ok := d.fetchF32()
		if !ok {
			return nil, types.Stmt, diag.New(diag.Truncated, pc, "%s: truncated immediate", op.Name)
		}
		return d.b.Constant(types.F32, v), types.F32, nil
	case op.Code == opcodes.F64Const.Code:
		v, ok := d.fetchF64()
		if !ok {
			return nil, types.Stmt, diag.New(diag.Truncated, pc, "%s: truncated immediate", op.Name)
		}
		return d.b.Constant(types.F64, v), types.F64, nil
	default:
		return d.decodeArith(op, pc)
	}
}

// decodeArith handles every plain (non-control, non-memory, non-const)
// expression opcode: read len(op.Args) expression children, then
// dispatch to the builder's Binop or Unop entry point (§4.3).
func (d *Decoder) decodeArith(op opcodes.Op, pc int) (*graph.Node, types.ValueType, *diag.Error) {
	args := make([]*graph.Node, len(op.Args))
	for i, t := range op.Args {
		v, err := d.decodeExpr(t)
		if err != nil {
			return nil, types.Stmt, err
		}
		args[i] = v
	}

	switch len(args) {
	case 1:
		return d.b.Unop(op, args[0]), op.Returns, nil
	case 2:
		return d.b.Binop(op, args[0], args[1]), op.Returns, nil
	default:
		return nil, types.Stmt, diag.New(diag.InternalError, pc, "%s: unsupported arity %d", op.Name, len(args))
	}
}
