// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag is the structured verification result: error code, error
// byte offset, and formatted message (§4.5, §6.3). Generalized from
// wagon's validate.Error (validate/error.go), which wraps a single
// underlying Go error with a function index and byte offset; this core
// instead enumerates its own closed set of error codes directly (§4.2's
// failure taxonomy) since the decoder's failure modes are the subject of
// the spec itself, not an incidental wrapper around arbitrary errors.
package diag

import "fmt"

// Code enumerates the decoder's failure taxonomy (§4.2).
type Code int

const (
	UnknownOpcode Code = iota
	UnsupportedOpcode
	Truncated
	TypeError
	LocalIndexOutOfBounds
	GlobalIndexOutOfBounds
	FunctionIndexOutOfBounds
	BreakDepth
	ArityMismatch
	NoMemory
	InternalError
)

var codeNames = map[Code]string{
	UnknownOpcode:            "UnknownOpcode",
	UnsupportedOpcode:        "UnsupportedOpcode",
	Truncated:                "Truncated",
	TypeError:                "TypeError",
	LocalIndexOutOfBounds:    "LocalIndexOutOfBounds",
	GlobalIndexOutOfBounds:   "GlobalIndexOutOfBounds",
	FunctionIndexOutOfBounds: "FunctionIndexOutOfBounds",
	BreakDepth:               "BreakDepth",
	ArityMismatch:            "ArityMismatch",
	NoMemory:                 "NoMemory",
	InternalError:            "InternalError",
}

func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Error is a single decode failure: its code, the byte offset of the
// offending opcode (PC), a secondary offset for the production's token
// when relevant (PT, -1 if not applicable), and a formatted message
// (§4.5). Error carries no host-heap pointers — it is plain bytes owned
// by the result, matching §4.5's requirement verbatim.
type Error struct {
	Code    Code
	PC      int
	PT      int
	Message string
}

func (e *Error) Error() string {
	if e.PT >= 0 {
		return fmt.Sprintf("%s at offset %d (token at %d): %s", e.Code, e.PC, e.PT, e.Message)
	}
	return fmt.Sprintf("%s at offset %d: %s", e.Code, e.PC, e.Message)
}

// New builds an Error with no secondary token offset.
func New(code Code, pc int, format string, args ...interface{}) *Error {
	return &Error{Code: code, PC: pc, PT: -1, Message: fmt.Sprintf(format, args...)}
}

// NewWithToken builds an Error carrying a secondary production-token offset.
func NewWithToken(code Code, pc, pt int, format string, args ...interface{}) *Error {
	return &Error{Code: code, PC: pc, PT: pt, Message: fmt.Sprintf(format, args...)}
}

// Result is the decoder's outcome: either ok, or a single Error (§6.3:
// "{ ok | error { code, pc, pt, message } }"). Decode errors are reported
// once and abort the decode (§7) — there is never more than one Error per
// Result.
type Result struct {
	Err *Error
}

// OK reports whether decoding succeeded.
func (r Result) OK() bool { return r.Err == nil }
