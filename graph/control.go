// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import "github.com/go-interpreter/fbgraph/types"

// Branch splits control on cond, yielding a pair of control tokens for the
// true and false arms (§4.3). The current control cursor becomes the
// Branch node's sole input; IfTrue/IfFalse each take the Branch as their
// only input. Callers are responsible for setting b.control to whichever
// arm they descend into next.
func (b *Builder) Branch(cond *Node) (ifTrue, ifFalse *Node) {
	br := b.g.newNode(OpBranch, b.control, cond)
	ifTrue = b.g.newNode(OpIfTrue, br)
	ifFalse = b.g.newNode(OpIfFalse, br)
	return ifTrue, ifFalse
}

// Switch splits control on key into n numbered arms plus a default arm
// (§4.2's switch/switch-no-fallthrough productions). IfValue(k) selects
// the k'th projection; IfDefault selects the default projection. Both are
// thin helpers over the same underlying OpSwitch node so callers can
// request projections in any order.
func (b *Builder) Switch(key *Node) *Node {
	return b.g.newNode(OpSwitch, b.control, key)
}

// IfValue projects the k'th labeled arm out of a Switch node.
func (b *Builder) IfValue(sw *Node, k int) *Node {
	n := b.g.newNode(OpIfValue, sw)
	n.Aux = k
	return n
}

// IfDefault projects the default arm out of a Switch node.
func (b *Builder) IfDefault(sw *Node) *Node {
	return b.g.newNode(OpIfDefault, sw)
}

// Merge joins control edges into one (§3, §4.4). Most call sites pass two
// or more inputs outright; the trap helper and the decoder's block-context
// exits instead materialize a Merge with a single input up front and widen
// it in place with AppendToMerge as later sites join the same target,
// since the final in-edge count isn't known until decoding finishes.
func (b *Builder) Merge(inputs ...*Node) *Node {
	return b.g.newNode(OpMerge, inputs...)
}

// Phi selects one of vals per the corresponding incoming edge of merge
// (§3, §4.4). len(vals) must equal len(merge.Inputs); this mirrors the
// wire-level requirement that every arm joining a Merge supplies exactly
// one value to each Phi hanging off it.
func (b *Builder) Phi(t types.ValueType, merge *Node, vals ...*Node) *Node {
	inputs := append([]*Node{merge}, vals...)
	n := b.g.newNode(OpPhi, inputs...)
	n.Type = t
	return n
}

// EffectPhi selects one of effects per the corresponding incoming edge of
// merge, the effect-chain analogue of Phi (§3, §4.4): every control join
// must also join the effect chains flowing through each arm.
func (b *Builder) EffectPhi(merge *Node, effects ...*Node) *Node {
	inputs := append([]*Node{merge}, effects...)
	return b.g.newNode(OpEffectPhi, inputs...)
}

// Loop creates the loop-header control node taking entry as its initial
// (forward) control input (§4.2's while/infinite-loop productions). A
// subsequent back edge from the loop's body is added with AppendToMerge,
// since Loop is itself a restricted Merge that starts with one input and
// is widened by exactly one back edge per backward branch reaching it.
func (b *Builder) Loop(entry *Node) *Node {
	return b.g.newNode(OpLoop, entry)
}

// AppendToMerge widens an existing Merge (or Loop, which is a Merge
// restricted to exactly one back-edge widening) by one control input
// in place (§4.4, §9: node identity is preserved across the widening so
// existing Phis/EffectPhis hanging off it remain valid — only their own
// arity grows in lockstep via AppendToPhi).
func (b *Builder) AppendToMerge(merge, newInput *Node) {
	merge.appendInput(newInput)
}

// AppendToPhi widens an existing Phi or EffectPhi by one value input, kept
// in lockstep with a prior AppendToMerge call on the Phi's Merge (§4.4).
// Callers must call AppendToMerge on the corresponding Merge exactly once
// for each AppendToPhi call on each Phi/EffectPhi hanging off it, so the
// value-input count stays one less than the input-edge count (position 0
// of Inputs is the Merge itself).
func (b *Builder) AppendToPhi(phi, newVal *Node) {
	phi.appendInput(newVal)
}
