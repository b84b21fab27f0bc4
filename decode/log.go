// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package decode

import (
	"io/ioutil"
	"log"
	"os"
)

// PrintDebugInfo gates the package logger the same way wagon's
// validate/log.go and wasm/log.go do: off by default; Decode switches the
// logger to stderr when it finds the flag set at the start of a call.
var PrintDebugInfo = false

var logger *log.Logger

func init() {
	w := ioutil.Discard
	if PrintDebugInfo {
		w = os.Stderr
	}
	logger = log.New(w, "decode: ", log.Lshortfile)
}
