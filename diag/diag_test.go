// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultOK(t *testing.T) {
	assert.True(t, Result{}.OK())
	assert.False(t, Result{Err: New(Truncated, 3, "x")}.OK())
}

func TestErrorFormatting(t *testing.T) {
	e := New(TypeError, 12, "expected %s, got %s", "i32", "i64")
	assert.Equal(t, "TypeError at offset 12: expected i32, got i64", e.Error())

	withTok := NewWithToken(BreakDepth, 12, 7, "break 3: no enclosing block at that depth")
	assert.Equal(t, "BreakDepth at offset 12 (token at 7): break 3: no enclosing block at that depth", withTok.Error())
}

func TestCodeStringUnknown(t *testing.T) {
	assert.Equal(t, "Code(99)", Code(99).String())
}
