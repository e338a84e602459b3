// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package unroll

import (
	"testing"

	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/diag"
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/types"
)

func buildLoopFunction(nb *ident.NodeBuilder, inclusive bool) *ast.Function {
	counter := ident.Intern("i")
	use := &ast.ExprStmt{Base: ast.Base{NodeID: nb.NextID()}, Value: &ast.Ident{Base: ast.Base{NodeID: nb.NextID()}, Path: ident.Path{counter}}}
	loopBody := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{use}}
	loop := &ast.Iteration{
		Base: ast.Base{NodeID: nb.NextID()}, Counter: counter, Type: types.U32,
		Start:     &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "0", Width: 32},
		Stop:      &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "3", Width: 32},
		Inclusive: inclusive,
		Body:      loopBody,
	}
	body := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{loop}}
	return &ast.Function{Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("run"), Variant: ast.VariantFunction, Body: body}
}

func TestRunUnrollsExclusiveRange(t *testing.T) {
	nb := ident.NewNodeBuilder()
	fn := buildLoopFunction(nb, false)
	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: ident.Intern("foo.aleo"), Functions: []*ast.Function{fn}}}}
	diags := diag.NewHandler()

	Run(prog, nb, diags)

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	if got, want := len(fn.Body.Stmts), 3; got != want {
		t.Fatalf("0..3 exclusive must unroll to %d copies, got %d", want, got)
	}
	for i, s := range fn.Body.Stmts {
		iterBlock, ok := s.(*ast.Block)
		if !ok || len(iterBlock.Stmts) == 0 {
			t.Fatalf("unrolled iteration %d is not a non-empty block: %#v", i, s)
		}
		counterDecl, ok := iterBlock.Stmts[0].(*ast.ConstDecl)
		if !ok {
			t.Fatalf("unrolled iteration %d must bind its counter via a leading ConstDecl, got %#v", i, iterBlock.Stmts[0])
		}
		lit := counterDecl.Value.(*ast.Literal)
		if want := itoa(i); lit.Text != want {
			t.Errorf("iteration %d counter literal = %s, want %s", i, lit.Text, want)
		}
	}
}

func TestRunUnrollsInclusiveRange(t *testing.T) {
	nb := ident.NewNodeBuilder()
	fn := buildLoopFunction(nb, true)
	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: ident.Intern("foo.aleo"), Functions: []*ast.Function{fn}}}}
	diags := diag.NewHandler()

	Run(prog, nb, diags)

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	if got, want := len(fn.Body.Stmts), 4; got != want {
		t.Fatalf("0..=3 inclusive must unroll to %d copies, got %d", want, got)
	}
}

func TestRunRejectsNonLiteralBounds(t *testing.T) {
	nb := ident.NewNodeBuilder()
	counter := ident.Intern("i")
	loop := &ast.Iteration{
		Base: ast.Base{NodeID: nb.NextID()}, Counter: counter, Type: types.U32,
		Start: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "0", Width: 32},
		Stop:  &ast.Ident{Base: ast.Base{NodeID: nb.NextID()}, Path: ident.Path{ident.Intern("x")}},
		Body:  &ast.Block{Base: ast.Base{NodeID: nb.NextID()}},
	}
	body := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{loop}}
	fn := &ast.Function{Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("run"), Variant: ast.VariantFunction, Body: body}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: ident.Intern("foo.aleo"), Functions: []*ast.Function{fn}}}}
	diags := diag.NewHandler()

	Run(prog, nb, diags)

	if !diags.HasErrors() {
		t.Error("a loop whose bound never folded to a literal must be reported, not silently dropped")
	}
	if len(fn.Body.Stmts) != 0 {
		t.Errorf("a rejected loop must unroll to zero statements, got %d", len(fn.Body.Stmts))
	}
}

func TestRunRecursesIntoConditionalBranches(t *testing.T) {
	nb := ident.NewNodeBuilder()
	innerFn := buildLoopFunction(nb, false)
	cond := &ast.Conditional{
		Base: ast.Base{NodeID: nb.NextID()},
		Cond: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitBool, Bool: true},
		Then: innerFn.Body,
	}
	outerBody := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{cond}}
	fn := &ast.Function{Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("outer"), Variant: ast.VariantFunction, Body: outerBody}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: ident.Intern("foo.aleo"), Functions: []*ast.Function{fn}}}}
	diags := diag.NewHandler()

	Run(prog, nb, diags)

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	if got, want := len(cond.Then.Stmts), 3; got != want {
		t.Errorf("loop nested inside an if-branch must also be unrolled, got %d statements, want %d", got, want)
	}
}

func itoa(i int) string {
	digits := "0123456789"
	if i < 10 {
		return string(digits[i])
	}
	return ""
}
