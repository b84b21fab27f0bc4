// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import "math"

// fetchByte reads one byte and advances the cursor, or reports false if
// the window is exhausted (§6.1, §4.2's Truncated failure).
func (d *Decoder) fetchByte() (byte, bool) {
	if d.pos >= d.end {
		return 0, false
	}
	b := d.buf[d.pos]
	d.pos++
	return b, true
}

// fetchI8 reads one sign-extended byte, used by the i8 constant
// production (§6.1).
func (d *Decoder) fetchI8() (int32, bool) {
	b, ok := d.fetchByte()
	if !ok {
		return 0, false
	}
	return int32(int8(b)), true
}

// fetchU32 reads a 4-byte little-endian unsigned integer, used for
// static memory offsets (§4.3's "o = static offset encoded in the op").
func (d *Decoder) fetchU32() (uint32, bool) {
	if d.pos+4 > d.end {
		return 0, false
	}
	v := uint32(d.buf[d.pos]) | uint32(d.buf[d.pos+1])<<8 | uint32(d.buf[d.pos+2])<<16 | uint32(d.buf[d.pos+3])<<24
	d.pos += 4
	return v, true
}

// fetchI32 reads a 4-byte little-endian signed integer (§6.1).
func (d *Decoder) fetchI32() (int32, bool) {
	v, ok := d.fetchU32()
	return int32(v), ok
}

// fetchU64 reads an 8-byte little-endian unsigned integer.
func (d *Decoder) fetchU64() (uint64, bool) {
	if d.pos+8 > d.end {
		return 0, false
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(d.buf[d.pos+i]) << (8 * uint(i))
	}
	d.pos += 8
	return v, true
}

// fetchI64 reads an 8-byte little-endian signed integer (§6.1).
func (d *Decoder) fetchI64() (int64, bool) {
	v, ok := d.fetchU64()
	return int64(v), ok
}

// fetchF32 reads a 4-byte little-endian IEEE-754 single (§6.1).
func (d *Decoder) fetchF32() (float32, bool) {
	v, ok := d.fetchU32()
	if !ok {
		return 0, false
	}
	return math.Float32frombits(v), true
}

// fetchF64 reads an 8-byte little-endian IEEE-754 double (§6.1).
func (d *Decoder) fetchF64() (float64, bool) {
	v, ok := d.fetchU64()
	if !ok {
		return 0, false
	}
	return math.Float64frombits(v), true
}
