// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package modenv defines the module environment interface the decoder and
// graph builder consume (§6.2). Building one of these is explicitly out of
// scope for this core (§1: "the module-level decoder ... the core assumes
// a prepared module environment"); wagon's wasm.Module (wasm/module.go)
// plays the analogous role there but is a concrete parsed-section struct,
// because wagon's decoder *is* the module-level decoder. Here the module
// environment is reduced to the read-only interface the core needs, so
// that a caller can plug in any upstream module loader.
package modenv

import (
	"github.com/go-interpreter/fbgraph/sig"
	"github.com/go-interpreter/fbgraph/types"
)

// GlobalSlot describes one entry in the globals area (§6.2).
type GlobalSlot struct {
	Offset uint32
	Type   types.MemType
}

// CodeHandle is an opaque reference to a function's compiled or
// compilable body, handed back to the graph builder for call nodes
// (§4.3: "binds the callee's code handle as the first argument slot").
// Its concrete representation belongs entirely to the embedder.
type CodeHandle interface{}

// ModuleContext is used only to construct the runtime-throw call emitted
// by materialized trap blocks (§4.4, §6.2: "optional module context used
// only to construct the runtime-throw call"). A nil ModuleContext is legal
// (verification-only / no embedding host available).
type ModuleContext interface {
	// ThrowCallTarget returns the code handle for the host's runtime-throw
	// entry point, invoked with a single constant diagnostic-string
	// argument identifying the trap reason.
	ThrowCallTarget() CodeHandle
}

// Environment is the read-only module environment interface (§6.2). All of
// it is owned by the caller and immutable across one decode (§5: "the
// module environment is read-only for the entire decode").
type Environment interface {
	// HasMemory reports whether this module declares a linear memory.
	// Memory opcodes fail NoMemory (§4.2) when this is false.
	HasMemory() bool
	// MemoryBounds returns [start, end) of the linear memory, inclusive of
	// start and exclusive of end (§6.2).
	MemoryBounds() (start, end uint32)
	// AsmJSSemantics reports whether out-of-bounds memory accesses should
	// be lowered to checked loads/stores that return 0 / drop silently,
	// rather than trapping (§4.3).
	AsmJSSemantics() bool

	// GlobalsBase returns the base address of the globals area.
	GlobalsBase() uint32
	// Global returns the slot descriptor for global index i, and whether
	// i is valid.
	Global(i uint32) (GlobalSlot, bool)

	// TableSize returns the number of entries in the function table.
	TableSize() uint32
	// TableSignature returns the signature-index tagged small integer
	// stored at table slot i (§6.2), and whether i is valid.
	TableSignature(i uint32) (uint32, bool)
	// TableCode returns the code handle stored at table slot i.
	TableCode(i uint32) (CodeHandle, bool)

	// Signatures returns the signature registry backing OfFunction/
	// OfTableSlot lookups (§6.2: "signature_of", "signature_of_table_slot").
	Signatures() *sig.Registry
	// CodeOf returns the code handle for a direct call to function index i
	// (§6.2: "code_of").
	CodeOf(i uint32) (CodeHandle, bool)

	// Context returns the optional module context for trap-block
	// construction (§6.2); nil is legal.
	Context() ModuleContext
}
