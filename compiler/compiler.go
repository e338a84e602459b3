// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package compiler

import (
	"github.com/pkg/errors"

	"github.com/ProvableHQ/leo-sub003/passes/codegen"
	"github.com/ProvableHQ/leo-sub003/passes/constprop"
	"github.com/ProvableHQ/leo-sub003/passes/destructure"
	"github.com/ProvableHQ/leo-sub003/passes/flatten"
	"github.com/ProvableHQ/leo-sub003/passes/ssa"
	"github.com/ProvableHQ/leo-sub003/passes/symbols"
	"github.com/ProvableHQ/leo-sub003/passes/typecheck"
	"github.com/ProvableHQ/leo-sub003/passes/unroll"
)

// Result is the outcome of a successful Compile call: the emitted bytecode
// text. Diagnostics are recorded on the State's Diags handler, which a
// caller inspects when Compile returns an error.
type Result struct {
	Bytecode string
}

// Compile runs every pass over s.Program in the fixed pipeline order
// (spec.md §2): symbols, typecheck, constprop, unroll, SSA, destructure,
// flatten, codegen. Type checking runs once; const propagation then
// iterates to its own fixed point, and type checking is not re-run on the
// folded tree. Each pass mutates s in
// place; the propagation policy of spec.md §7 applies ("if any fatal
// error occurred before unrolling, unrolling does not run").
func Compile(s *State) (*Result, error) {
	s.Logf("symbol table construction: %s", s.BuildID)
	symbols.Run(s.Program, s.Symbols, s.Diags)
	if s.Diags.HasErrors() {
		return nil, errors.Wrap(s.Diags.Err(), "symbol table construction failed")
	}

	s.Logf("type checking")
	typecheck.Run(s.Program, s.Symbols, s.Types, s.Diags)

	s.Logf("const propagation")
	constprop.Run(s.Program, s.Symbols, s.Types, s.Nodes, s.Diags)

	if s.Diags.HasErrors() {
		// Unrolling on a tree with unresolved const/type errors only
		// produces secondary, cascading diagnostics (spec.md §7).
		return nil, errors.Wrap(s.Diags.Err(), "type checking or const propagation failed")
	}

	s.Logf("loop unrolling")
	unroll.Run(s.Program, s.Nodes, s.Diags)
	if s.Diags.HasErrors() {
		return nil, errors.Wrap(s.Diags.Err(), "loop unrolling failed")
	}

	s.Logf("SSA renaming")
	ssa.Run(s.Program, s.Nodes, s.Names, s.Types)

	s.Logf("destructuring")
	destructure.Run(s.Program, s.Nodes, s.Names, s.Types)

	s.Logf("flattening")
	flatten.Run(s.Program, s.Nodes, s.Names, s.Types, s.Symbols)

	s.Logf("code generation")
	bytecode := codegen.Run(s.Program, s.Symbols, s.Types, s.Nodes, s.Network, s.Diags)
	if s.Diags.HasErrors() {
		return nil, errors.Wrap(s.Diags.Err(), "code generation failed")
	}

	if s.Debug {
		s.dump(bytecode)
	}

	return &Result{Bytecode: bytecode}, nil
}
