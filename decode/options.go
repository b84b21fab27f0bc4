// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

// Options configures a single Decode call. The zero value is the
// reference behavior described by the decoder's protocol.
type Options struct {
	// TruncateWideResults names the 64-bit-to-32-bit result truncation at
	// JS-boundary wrappers as an explicit option (see SPEC_FULL.md). Decode
	// does not read it: this package builds no wrappers and never
	// truncates a result, whatever its value.
	TruncateWideResults bool
}
