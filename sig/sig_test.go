// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sig

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-interpreter/fbgraph/types"
)

func TestSignatureHasReturn(t *testing.T) {
	void := Signature{Params: nil, Return: types.Stmt}
	assert.False(t, void.HasReturn())

	val := Signature{Params: []types.ValueType{types.I32}, Return: types.I32}
	assert.True(t, val.HasReturn())
}

func TestSignatureEqual(t *testing.T) {
	a := Signature{Params: []types.ValueType{types.I32, types.I64}, Return: types.F32}
	b := Signature{Params: []types.ValueType{types.I32, types.I64}, Return: types.F32}
	c := Signature{Params: []types.ValueType{types.I64, types.I32}, Return: types.F32}
	d := Signature{Params: []types.ValueType{types.I32, types.I64}, Return: types.F64}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestRegistryLookups(t *testing.T) {
	r := NewRegistry(
		[]Signature{{Return: types.I32}, {Params: []types.ValueType{types.I64}}},
		[]Signature{{Return: types.F64}},
	)

	sig, ok := r.OfFunction(1)
	assert.True(t, ok)
	assert.Equal(t, []types.ValueType{types.I64}, sig.Params)

	_, ok = r.OfFunction(2)
	assert.False(t, ok)

	sig, ok = r.OfTableSlot(0)
	assert.True(t, ok)
	assert.Equal(t, types.F64, sig.Return)

	_, ok = r.OfTableSlot(1)
	assert.False(t, ok)

	assert.Equal(t, 2, r.FunctionCount())
}
