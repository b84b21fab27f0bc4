// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

// Graph is the arena-allocated collection of nodes produced by decoding
// one function body, with a distinguished Start (roots the parameter
// nodes) and End (collects all terminators: returns, throws, and the
// unreachable-terminate node, §3). Its lifetime ends when the caller is
// done with it (machine-code emission is out of scope for this core, §1).
type Graph struct {
	Start *Node
	End   *Node

	nodes  []*Node
	nextID int
}

// New creates an empty Graph. Start and End are populated by the
// Builder's Start call and by each terminator reaching End respectively.
func New() *Graph {
	return &Graph{}
}

// newNode allocates a fresh Node in this graph's arena and assigns it the
// next sequential ID. It is the only way a Node comes into existence
// (§3: "arena-allocated with the graph").
func (g *Graph) newNode(op Operator, inputs ...*Node) *Node {
	n := &Node{ID: g.nextID, Op: op, Inputs: inputs}
	g.nextID++
	g.nodes = append(g.nodes, n)
	return n
}

// NumNodes returns the number of nodes allocated in this graph so far.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// Nodes returns the graph's node arena in allocation order. Callers must
// not mutate the returned slice's backing array.
func (g *Graph) Nodes() []*Node { return g.nodes }
