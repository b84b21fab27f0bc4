// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opcodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-interpreter/fbgraph/types"
)

func TestLookupKnownAndUnknown(t *testing.T) {
	op, err := Lookup(I32Const.Code)
	require.NoError(t, err)
	assert.Equal(t, "i32.const", op.Name)

	_, err = Lookup(0xfe)
	require.Error(t, err)
	assert.Equal(t, "opcodes: unknown opcode 0xfe", err.Error())
}

func TestArithFamilyShapes(t *testing.T) {
	add := I32("add")
	assert.Equal(t, Expr, add.Kind)
	assert.Equal(t, []types.ValueType{types.I32, types.I32}, add.Args)
	assert.Equal(t, types.I32, add.Returns)

	eq := I32("eq")
	assert.Equal(t, types.I32, eq.Returns, "comparisons always yield i32")

	div := I64("div_s")
	assert.Equal(t, types.I64, div.Returns)
}

func TestCtzPopcntUnsupportedOnReferenceTarget(t *testing.T) {
	ctz := I32("ctz")
	assert.False(t, ctz.SupportedOn(Generic64BitTarget))

	popcnt := I64("popcnt")
	assert.False(t, popcnt.SupportedOn(Generic64BitTarget))

	clz := I32("clz")
	assert.True(t, clz.SupportedOn(Generic64BitTarget))
}

func TestControlOpcodesHaveNoFixedSignature(t *testing.T) {
	assert.Equal(t, Control, Block.Kind)
	assert.Nil(t, Block.Args)
	assert.Equal(t, types.Stmt, Block.Returns)
}
