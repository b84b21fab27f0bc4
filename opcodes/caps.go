// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opcodes

// TargetCaps describes the machine-operator capabilities of the downstream
// target. The opcode table's "implemented on this target" predicate (§4.1)
// is evaluated against a TargetCaps value; opcodes whose predicate returns
// false must be lowered by the graph builder into a supported sequence
// instead of being emitted as a single primitive operator.
type TargetCaps struct {
	// PointerWidth32 is true on targets where native words are 32 bits
	// (affects whether 64-bit bit-ops, e.g. copysign via bit-masking, are
	// available directly or must go through high/low word primitives).
	PointerWidth32 bool
	// HasCLZ is true if the target exposes a count-leading-zeros primitive.
	HasCLZ bool
	// HasCTZ is true if the target exposes a count-trailing-zeros primitive.
	HasCTZ bool
	// HasPopcnt is true if the target exposes a population-count primitive.
	HasPopcnt bool
	// HasFloatMinMax is true if the target exposes IEEE-754 min/max
	// primitives (as opposed to needing a compare-and-branch lowering).
	HasFloatMinMax bool
	// HasRoundingModes is true if the target exposes hardware rounding
	// primitives for ceil/floor/trunc/nearest.
	HasRoundingModes bool
}

// Generic64BitTarget is the capability set assumed by the reference
// backend. §4.3 only prescribes concrete lowering sequences for ctz,
// popcnt and copysign, so those three are the only capabilities this
// target reports as absent — the builder has somewhere to go when they're
// unsupported. clz, float min/max and hardware rounding modes are left
// native (true) since spec.md gives no lowering recipe for them; a target
// that genuinely lacked them would need one added to graph/lowering.go
// before it could set these false.
var Generic64BitTarget = TargetCaps{
	HasCLZ:           true,
	HasCTZ:           false,
	HasPopcnt:        false,
	HasFloatMinMax:   true,
	HasRoundingModes: true,
}
