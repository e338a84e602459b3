// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package compiler wires the eight passes (spec.md §4) into one pipeline
// driven from a shared CompilerState, mirroring the teacher's Lang.Init
// single-pass-at-a-time assembly (purpleidea/mgmt/lang/lang.go).
package compiler

import (
	"github.com/google/uuid"
	"github.com/sanity-io/litter"

	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/diag"
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/network"
	"github.com/ProvableHQ/leo-sub003/symtab"
)

// State bundles everything every pass needs a handle to: the identity
// primitives (NodeBuilder, Assigner), the symbol and type tables built up
// pass over pass, the diagnostic sink, and the network a compilation run
// targets. It is the single object threaded through Compile, in place of
// the teacher's Lang struct fields (Fs, World, Prefix, Debug, Logf).
type State struct {
	Program *ast.Program

	Nodes    *ident.NodeBuilder
	Names    *ident.Assigner
	Symbols  *symtab.SymbolTable
	Types    *ast.TypeTable
	Diags    *diag.Handler
	Network  network.Config

	Debug bool
	Logf  func(format string, v ...interface{})

	// BuildID uniquely tags one compilation run, useful for correlating
	// debug dumps across passes when Debug is set.
	BuildID string
}

// New returns a State ready to run Compile over prog. nb is supplied
// rather than constructed internally so a caller that already minted
// NodeIDs while parsing can keep using the same builder; the unique-name
// Assigner is always created fresh.
func New(prog *ast.Program, nb *ident.NodeBuilder, cfg network.Config, logf func(string, ...interface{})) *State {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &State{
		Program: prog,
		Nodes:   nb,
		Names:   ident.NewAssigner(),
		Symbols: symtab.New(),
		Types:   ast.NewTypeTable(),
		Diags:   diag.NewHandler(),
		Network: cfg,
		Logf:    logf,
		BuildID: uuid.NewString(),
	}
}

// dump pretty-prints the final program tree and emitted bytecode when
// Debug is set, mirroring the teacher's ad hoc "%+v" debug traces
// (SPEC_FULL.md §A) but rendered structurally via litter.
func (s *State) dump(bytecode string) {
	s.Logf("build %s: flattened program:\n%s", s.BuildID, litter.Sdump(s.Program))
	s.Logf("build %s: emitted bytecode:\n%s", s.BuildID, bytecode)
}
