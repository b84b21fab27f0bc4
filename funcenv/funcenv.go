// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package funcenv holds the per-function decode/build state: the
// function's signature, its declared local counts by primitive type, the
// bound module environment, and the running parameter/local type vector
// (§3). It is produced by the surrounding module context and consumed by
// both the decoder and the builder; the only mutation it permits is
// AllocateLocal. The decoder never calls AllocateLocal: locals are
// allocated before Decode runs, since Decode sizes its per-local value
// vector from TotalLocals once, at the start of the body.
//
// Grounded on the per-function local-variable bookkeeping in wagon's
// validate.verifyBody (validate/validate.go), which builds an equivalent
// "parameters, then declared locals" vector, but there only to type-check
// get_local/set_local — this core additionally lets the vector grow after
// construction (AllocateLocal) while staying ordered per primitive
// type group (§3's local-layout invariant), which wagon's model doesn't
// need since wasm declares all locals up front.
package funcenv

import (
	"fmt"

	"github.com/go-interpreter/fbgraph/modenv"
	"github.com/go-interpreter/fbgraph/sig"
	"github.com/go-interpreter/fbgraph/types"
)

// Env is the per-function decode/build context (§3, "Function environment").
type Env struct {
	Sig    sig.Signature
	Module modenv.Environment // may be nil for a pure-verification context

	// locals holds the running parameter/local type vector (§3), indices
	// 0..ParamCount()-1 being the parameters in declaration order.
	locals []types.ValueType

	// groupEnd tracks where each group of allocated locals ends, so
	// that AllocateLocal can insert new entries directly after the last
	// entry of the same group rather than always appending at the tail —
	// this is what keeps the i32 < f32 < f64 < i64 group ordering an
	// invariant of AllocateLocal itself rather than something the caller
	// must get right (§3: "Allocation of a local never renumbers earlier
	// locals").
	groupEnd [4]int // index one past the last local of groups [i32, f32, f64, i64]
}

func groupOf(t types.ValueType) (int, bool) {
	switch t {
	case types.I32:
		return 0, true
	case types.F32:
		return 1, true
	case types.F64:
		return 2, true
	case types.I64:
		return 3, true
	default:
		return 0, false
	}
}

// New creates a function environment for signature s, bound to module
// (which may be nil). Parameters occupy local indices 0..len(s.Params)-1.
func New(s sig.Signature, module modenv.Environment) *Env {
	e := &Env{Sig: s, Module: module}
	e.locals = append(e.locals, s.Params...)
	base := len(e.locals)
	for g := range e.groupEnd {
		e.groupEnd[g] = base
	}
	return e
}

// ParamCount returns the number of declared parameters.
func (e *Env) ParamCount() int { return len(e.Sig.Params) }

// TotalLocals returns the number of addressable local indices, parameters
// included (§4.2: "check i < total_locals").
func (e *Env) TotalLocals() int { return len(e.locals) }

// LocalType returns the declared type for local index i, and whether i is
// a valid index.
func (e *Env) LocalType(i uint32) (types.ValueType, bool) {
	if int(i) >= len(e.locals) {
		return 0, false
	}
	return e.locals[i], true
}

// AllocateLocal declares one new local of type t and returns its index.
// Per the declared-local layout invariant (§3) locals are grouped i32,
// then f32, then f64, then i64 (the i64 placement is this module's
// resolution of spec.md's open question about whether i64 locals are
// allocable at all — see DESIGN.md); within a group, new locals are
// appended after existing members of that group without renumbering any
// earlier local.
func (e *Env) AllocateLocal(t types.ValueType) (uint32, error) {
	g, ok := groupOf(t)
	if !ok {
		return 0, fmt.Errorf("funcenv: cannot allocate a local of type %v", t)
	}
	insertAt := e.groupEnd[g]
	e.locals = append(e.locals, types.Stmt) // grow by one; value replaced below
	copy(e.locals[insertAt+1:], e.locals[insertAt:])
	e.locals[insertAt] = t
	for gg := g; gg < len(e.groupEnd); gg++ {
		e.groupEnd[gg]++
	}
	return uint32(insertAt), nil
}
