// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package graph is the pure constructor of IR nodes and edges: constants,
// arithmetic, comparisons, loads, stores, phis, merges, branches, switch,
// return (§4.3). It holds the builder's cursor — a current control node
// and a current effect node; call arguments are passed in by each call
// site rather than kept in a builder buffer — and never parses bytes itself (§2: "the builder never parses bytes").
//
// There is no teacher precedent in wagon for a sea-of-nodes graph: wagon
// compiles WebAssembly straight to a linear bytecode-like form for a
// stack-machine interpreter (exec/internal/compile.Compile). This package
// is grounded on spec.md §3/§4.3 directly, with two pieces of wagon
// reused where their shape matches: the branch-table discard/target
// bookkeeping in exec/internal/compile (compile.Target, which already
// represents "several sites converge on one place, carrying how much
// stack to discard") is the closest analogue to this package's variadic
// Merge/Phi widening, and wagon's disasm.BlockInfo/StackInfo (tracking
// what a block's exit must reconcile) is the closest analogue to the
// per-block merge stitching the decoder drives through this builder.
package graph

import (
	"fmt"

	"github.com/go-interpreter/fbgraph/types"
)

// Operator identifies what kind of IR node a Node is.
type Operator int

const (
	OpStart Operator = iota
	OpParam
	OpConstant
	OpBinop
	OpUnop
	OpLoad
	OpStoreMem
	OpLoadGlobal
	OpStoreGlobal
	OpLoadTableSig
	OpLoadTableCode
	OpCall
	OpBranch
	OpIfTrue
	OpIfFalse
	OpSwitch
	OpIfValue
	OpIfDefault
	OpMerge
	OpPhi
	OpEffectPhi
	OpReturn
	OpLoop
	OpThrow
	OpUnreachable
	OpEnd
)

var operatorNames = map[Operator]string{
	OpStart:       "Start",
	OpParam:       "Param",
	OpConstant:    "Constant",
	OpBinop:       "Binop",
	OpUnop:        "Unop",
	OpLoad:        "Load",
	OpStoreMem:    "Store",
	OpLoadGlobal:  "LoadGlobal",
	OpStoreGlobal:   "StoreGlobal",
	OpLoadTableSig:  "LoadTableSig",
	OpLoadTableCode: "LoadTableCode",
	OpCall:          "Call",
	OpBranch:      "Branch",
	OpIfTrue:      "IfTrue",
	OpIfFalse:     "IfFalse",
	OpSwitch:      "Switch",
	OpIfValue:     "IfValue",
	OpIfDefault:   "IfDefault",
	OpMerge:       "Merge",
	OpPhi:         "Phi",
	OpEffectPhi:   "EffectPhi",
	OpReturn:      "Return",
	OpLoop:        "Loop",
	OpThrow:       "Throw",
	OpUnreachable: "Unreachable",
	OpEnd:         "End",
}

func (o Operator) String() string {
	if n, ok := operatorNames[o]; ok {
		return n
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// EdgeKind distinguishes the three edge classes a sea-of-nodes IR threads
// explicitly (§3, GLOSSARY): value, effect and control.
type EdgeKind int

const (
	ValueEdge EdgeKind = iota
	EffectEdge
	ControlEdge
)

// Node is a single dataflow+effect+control vertex (§3). Operator is
// immutable after creation; Inputs is the node's ordered input edge list.
// A Node is arena-allocated with its Graph and lives exactly as long as
// the graph does (§3).
type Node struct {
	ID     int
	Op     Operator
	Type   types.ValueType // meaningful only for value-producing nodes
	Inputs []*Node

	// Aux carries operator-specific immediate data: the opcodes.Op for
	// Binop/Unop, the constant value for Constant (for a trap block's
	// reason constant, the reason string), the MemAccess (access type and
	// static offset) for Load/Store, the call-site record for Call, etc.
	// Its concrete type is documented at each construction site.
	Aux interface{}
}

func (n *Node) String() string {
	if n == nil {
		return "<nil node>"
	}
	return fmt.Sprintf("#%d %s", n.ID, n.Op)
}

// appendInput grows n's input list by one edge, in place — this is the
// only way a node's arity changes after construction, and it is reserved
// for Merge/Phi/EffectPhi widening (§4.4, §9: "changing arity is a node-
// operator replacement, not a node re-allocation" — here it is an
// in-place grow of the same node, which is the Go-idiomatic rendition of
// that requirement: the node's identity and operator never change, only
// its slice of inputs).
func (n *Node) appendInput(in *Node) {
	n.Inputs = append(n.Inputs, in)
}
