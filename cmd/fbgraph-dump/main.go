// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command fbgraph-dump decodes a single function body from a raw binary
// file and prints the resulting graph, or the decode diagnostic if it
// failed. It plays the same inspect-one-artifact role wagon's cmd/wasm-dump
// plays for a whole module, scaled down to this core's one-function unit
// of work.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/go-interpreter/fbgraph/decode"
	"github.com/go-interpreter/fbgraph/funcenv"
	"github.com/go-interpreter/fbgraph/graph"
	"github.com/go-interpreter/fbgraph/opcodes"
	"github.com/go-interpreter/fbgraph/sig"
	"github.com/go-interpreter/fbgraph/trap"
	"github.com/go-interpreter/fbgraph/types"
)

var (
	verbose  = flag.Bool("v", false, "enable package decode's debug logging")
	params   = flag.String("params", "", "comma-separated param types (i32,i64,f32,f64)")
	ret      = flag.String("return", "", "return type (i32,i64,f32,f64), empty for void")
	truncate = flag.Bool("truncate-wide-results", false, "set decode.Options.TruncateWideResults (Decode does not read it)")
)

func parseTypeList(s string) ([]types.ValueType, error) {
	if s == "" {
		return nil, nil
	}
	var out []types.ValueType
	for _, tok := range splitComma(s) {
		t, err := parseType(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func splitComma(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func parseType(tok string) (types.ValueType, error) {
	switch tok {
	case "i32":
		return types.I32, nil
	case "i64":
		return types.I64, nil
	case "f32":
		return types.F32, nil
	case "f64":
		return types.F64, nil
	default:
		return 0, fmt.Errorf("unknown value type %q", tok)
	}
}

func run() error {
	flag.Parse()
	if flag.NArg() != 1 {
		return fmt.Errorf("usage: fbgraph-dump [flags] <body.bin>")
	}
	decode.PrintDebugInfo = *verbose

	paramTypes, err := parseTypeList(*params)
	if err != nil {
		return err
	}
	returnType := types.Stmt
	if *ret != "" {
		returnType, err = parseType(*ret)
		if err != nil {
			return err
		}
	}

	body, err := ioutil.ReadFile(flag.Arg(0))
	if err != nil {
		return err
	}

	s := sig.Signature{Params: paramTypes, Return: returnType}
	env := funcenv.New(s, nil)
	b := graph.NewBuilder(opcodes.Generic64BitTarget, nil)
	b.Traps = trap.New(nil)

	result := decode.Decode(body, env, b, decode.Options{TruncateWideResults: *truncate})
	if !result.OK() {
		fmt.Fprintf(os.Stderr, "decode failed: %s\n", result.Err)
		os.Exit(1)
	}

	b.Graph().Dump(os.Stdout)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
