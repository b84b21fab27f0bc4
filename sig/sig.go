// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sig defines function signatures and the registry that resolves
// them by function index or indirect-call table slot. Generalized from
// wagon's wasm.FunctionSig (wasm/types.go) and its index-space lookups
// (wasm/index.go), simplified to the value-type vocabulary this core
// uses (types.ValueType) and to at most one return type (§3: "0 or 1
// return type").
package sig

import "github.com/go-interpreter/fbgraph/types"

// Signature is the parameter and return shape of a function.
type Signature struct {
	Params []types.ValueType
	// Return is the function's single return type, or types.Stmt if the
	// function returns no value.
	Return types.ValueType
}

// HasReturn reports whether the signature declares a return value.
func (s Signature) HasReturn() bool { return s.Return != types.Stmt }

// Equal reports whether two signatures have identical parameter and
// return shapes. The indirect-call signature check (§4.3) does not use
// it: that check compares signature indices in the IR at run time.
func (s Signature) Equal(o Signature) bool {
	if s.Return != o.Return || len(s.Params) != len(o.Params) {
		return false
	}
	for i, p := range s.Params {
		if o.Params[i] != p {
			return false
		}
	}
	return true
}

// Registry resolves signatures by function index and by indirect-call
// table-slot signature index (§3: "keyed by function index and by
// indirect-call table slot").
type Registry struct {
	byFunction []Signature
	bySlot     []Signature
}

// NewRegistry builds a Registry from the function-index-space and
// table-slot-signature-space signature lists. Both are owned by the
// surrounding module loader (§3); the registry only indexes them.
func NewRegistry(byFunction, bySlot []Signature) *Registry {
	return &Registry{byFunction: byFunction, bySlot: bySlot}
}

// OfFunction returns the signature of the function at the given index,
// and whether that index is valid.
func (r *Registry) OfFunction(index uint32) (Signature, bool) {
	if int(index) >= len(r.byFunction) {
		return Signature{}, false
	}
	return r.byFunction[index], true
}

// OfTableSlot returns the signature registered for a table-slot signature
// index (used to type-check call_indirect's expected signature, §4.3).
func (r *Registry) OfTableSlot(sigIndex uint32) (Signature, bool) {
	if int(sigIndex) >= len(r.bySlot) {
		return Signature{}, false
	}
	return r.bySlot[sigIndex], true
}

// FunctionCount reports how many functions are registered.
func (r *Registry) FunctionCount() int { return len(r.byFunction) }
