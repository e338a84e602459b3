// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package flatten

import (
	"testing"

	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/symtab"
	"github.com/ProvableHQ/leo-sub003/types"
)

func boolLit(nb *ident.NodeBuilder, b bool) *ast.Literal {
	return &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitBool, Bool: b}
}

func intLit(nb *ident.NodeBuilder, text string, width int) *ast.Literal {
	return &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: text, Width: width}
}

// TestRunFlattensConditionalIntoGuardedAsserts exercises spec.md §8's
// conditional-flattening scenario: an if/else with an assert in each arm
// must lower to a single straight-line body with no Conditional node
// surviving, each assert rewritten to be guarded by the branch condition.
func TestRunFlattensConditionalIntoGuardedAsserts(t *testing.T) {
	nb := ident.NewNodeBuilder()
	asn := ident.NewAssigner()
	tt := ast.NewTypeTable()
	st := symtab.New()

	cond := boolLit(nb, true)
	thenAssert := &ast.Assert{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.AssertEq, Left: intLit(nb, "1", 8), Right: intLit(nb, "1", 8)}
	elseAssert := &ast.Assert{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.AssertEq, Left: intLit(nb, "2", 8), Right: intLit(nb, "2", 8)}
	ifStmt := &ast.Conditional{
		Base: ast.Base{NodeID: nb.NextID()}, Cond: cond,
		Then: &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{thenAssert}},
		Else: &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{elseAssert}},
	}
	body := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{ifStmt}}
	fn := &ast.Function{Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("run"), Variant: ast.VariantFunction, Body: body}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: ident.Intern("foo.aleo"), Functions: []*ast.Function{fn}}}}

	Run(prog, nb, asn, tt, st)

	for _, s := range fn.Body.Stmts {
		if _, ok := s.(*ast.Conditional); ok {
			t.Fatal("no Conditional node may survive flattening")
		}
	}

	var asserts []*ast.Assert
	for _, s := range fn.Body.Stmts {
		if a, ok := s.(*ast.Assert); ok {
			asserts = append(asserts, a)
		}
	}
	if len(asserts) != 2 {
		t.Fatalf("both the then- and else-arm asserts must survive flattening, got %d assert statements", len(asserts))
	}
	for _, a := range asserts {
		if a.Kind != ast.AssertBool {
			t.Errorf("a flattened assert must be rewritten to AssertBool (guarded), got kind %v", a.Kind)
		}
	}

	last := fn.Body.Stmts[len(fn.Body.Stmts)-1]
	if _, ok := last.(*ast.Return); !ok {
		t.Error("flattening must append exactly one fallthrough Return as the final statement")
	}
}

func TestRunMergesReturnsIntoSingleFallthrough(t *testing.T) {
	nb := ident.NewNodeBuilder()
	asn := ident.NewAssigner()
	tt := ast.NewTypeTable()
	st := symtab.New()

	cond := boolLit(nb, true)
	thenReturn := &ast.Return{Base: ast.Base{NodeID: nb.NextID()}, Value: intLit(nb, "1", 32)}
	ifStmt := &ast.Conditional{
		Base: ast.Base{NodeID: nb.NextID()}, Cond: cond,
		Then: &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{thenReturn}},
	}
	tailReturn := &ast.Return{Base: ast.Base{NodeID: nb.NextID()}, Value: intLit(nb, "2", 32)}
	body := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{ifStmt, tailReturn}}
	fn := &ast.Function{
		Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("run"), Variant: ast.VariantFunction, Body: body,
		Output: []*types.Type{types.U32},
	}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: ident.Intern("foo.aleo"), Functions: []*ast.Function{fn}}}}

	Run(prog, nb, asn, tt, st)

	returns := 0
	for _, s := range fn.Body.Stmts {
		if _, ok := s.(*ast.Return); ok {
			returns++
		}
	}
	if returns != 1 {
		t.Fatalf("an early return inside a conditional plus a tail return must merge to exactly 1 Return, got %d", returns)
	}
	finalRet, ok := fn.Body.Stmts[len(fn.Body.Stmts)-1].(*ast.Return)
	if !ok {
		t.Fatal("the surviving Return must be the final statement")
	}
	if _, ok := finalRet.Value.(*ast.Ternary); !ok {
		t.Errorf("merging a conditional early return with a tail return must select via a Ternary, got %#v", finalRet.Value)
	}
}

func TestIsCompositeClassifiesKinds(t *testing.T) {
	cases := []struct {
		name string
		ty   *types.Type
		want bool
	}{
		{"nil", nil, false},
		{"scalar", types.U8, false},
		{"array", types.NewArray(types.U8, types.KnownLength(3)), true},
		{"empty tuple", types.NewTuple(nil), false},
		{"nonempty tuple", types.NewTuple([]*types.Type{types.U8, types.Bool}), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := isComposite(c.ty); got != c.want {
				t.Errorf("isComposite(%v) = %v, want %v", c.ty, got, c.want)
			}
		})
	}
}
