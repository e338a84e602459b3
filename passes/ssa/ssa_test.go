// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package ssa

import (
	"strings"
	"testing"

	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/types"
)

func identExpr(nb *ident.NodeBuilder, name ident.Symbol) *ast.Ident {
	return &ast.Ident{Base: ast.Base{NodeID: nb.NextID()}, Path: ident.Path{name}}
}

func TestRunMintsFreshNamesForSequentialDefinitions(t *testing.T) {
	nb := ident.NewNodeBuilder()
	asn := ident.NewAssigner()
	tt := ast.NewTypeTable()

	xName := ident.Intern("x")
	letX1 := &ast.ConstDecl{Base: ast.Base{NodeID: nb.NextID()}, Name: xName, Type: types.U32,
		Value: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "1", Width: 32}}
	letX2 := &ast.ConstDecl{Base: ast.Base{NodeID: nb.NextID()}, Name: xName, Type: types.U32, Value: identExpr(nb, xName)}
	ret := &ast.Return{Base: ast.Base{NodeID: nb.NextID()}, Value: identExpr(nb, xName)}
	body := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{letX1, letX2, ret}}
	fn := &ast.Function{Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("run"), Variant: ast.VariantFunction, Body: body, Output: []*types.Type{types.U32}}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: ident.Intern("foo.aleo"), Functions: []*ast.Function{fn}}}}

	Run(prog, nb, asn, tt)

	decl1 := fn.Body.Stmts[0].(*ast.ConstDecl)
	decl2 := fn.Body.Stmts[1].(*ast.ConstDecl)
	retStmt := fn.Body.Stmts[2].(*ast.Return)

	if decl1.Name == decl2.Name {
		t.Error("two definitions of the same source name must get distinct SSA names")
	}
	if !strings.HasPrefix(decl1.Name.String(), "x$") || !strings.HasPrefix(decl2.Name.String(), "x$") {
		t.Errorf("SSA names must be derived from the base name, got %s and %s", decl1.Name, decl2.Name)
	}
	readSecond := decl2.Value.(*ast.Ident)
	if readSecond.Path[0] != decl1.Name {
		t.Error("the second definition's read of x must reference the first definition's fresh name")
	}
	retRead := retStmt.Value.(*ast.Ident)
	if retRead.Path[0] != decl2.Name {
		t.Error("the return statement must reference the nearest preceding definition")
	}
}

func TestRunAssignmentMintsFreshNameAndRewritesReads(t *testing.T) {
	nb := ident.NewNodeBuilder()
	asn := ident.NewAssigner()
	tt := ast.NewTypeTable()

	xName := ident.Intern("x")
	letX := &ast.ConstDecl{Base: ast.Base{NodeID: nb.NextID()}, Name: xName, Type: types.U32,
		Value: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "1", Width: 32}}
	assign := &ast.Assignment{Base: ast.Base{NodeID: nb.NextID()}, Place: identExpr(nb, xName), Value: identExpr(nb, xName)}
	ret := &ast.Return{Base: ast.Base{NodeID: nb.NextID()}, Value: identExpr(nb, xName)}
	body := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{letX, assign, ret}}
	fn := &ast.Function{Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("run"), Variant: ast.VariantFunction, Body: body, Output: []*types.Type{types.U32}}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: ident.Intern("foo.aleo"), Functions: []*ast.Function{fn}}}}

	Run(prog, nb, asn, tt)

	if len(fn.Body.Stmts) != 3 {
		t.Fatalf("assigning to a bare ident must rewrite to a ConstDecl, got %d stmts", len(fn.Body.Stmts))
	}
	assignDecl, ok := fn.Body.Stmts[1].(*ast.ConstDecl)
	if !ok {
		t.Fatalf("a bare-ident assignment must be rewritten into a ConstDecl, got %#v", fn.Body.Stmts[1])
	}
	retStmt := fn.Body.Stmts[2].(*ast.Return)
	retRead := retStmt.Value.(*ast.Ident)
	if retRead.Path[0] != assignDecl.Name {
		t.Error("the return must see the assignment's freshly-minted name, not the original declaration")
	}
}

func TestRunConditionalMergesWithTernary(t *testing.T) {
	nb := ident.NewNodeBuilder()
	asn := ident.NewAssigner()
	tt := ast.NewTypeTable()

	xName := ident.Intern("x")
	letX := &ast.ConstDecl{Base: ast.Base{NodeID: nb.NextID()}, Name: xName, Type: types.U32,
		Value: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "0", Width: 32}}

	thenAssign := &ast.Assignment{Base: ast.Base{NodeID: nb.NextID()}, Place: identExpr(nb, xName),
		Value: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "1", Width: 32}}
	elseAssign := &ast.Assignment{Base: ast.Base{NodeID: nb.NextID()}, Place: identExpr(nb, xName),
		Value: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "2", Width: 32}}
	cond := &ast.Conditional{
		Base: ast.Base{NodeID: nb.NextID()},
		Cond: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitBool, Bool: true},
		Then: &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{thenAssign}},
		Else: &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{elseAssign}},
	}
	ret := &ast.Return{Base: ast.Base{NodeID: nb.NextID()}, Value: identExpr(nb, xName)}
	body := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{letX, cond, ret}}
	fn := &ast.Function{Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("run"), Variant: ast.VariantFunction, Body: body, Output: []*types.Type{types.U32}}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: ident.Intern("foo.aleo"), Functions: []*ast.Function{fn}}}}

	Run(prog, nb, asn, tt)

	if len(fn.Body.Stmts) != 4 {
		t.Fatalf("diverging assignments on both arms must synthesize one merge ConstDecl after the conditional, got %d stmts", len(fn.Body.Stmts))
	}
	mergeDecl, ok := fn.Body.Stmts[2].(*ast.ConstDecl)
	if !ok {
		t.Fatalf("expected a merge ConstDecl after the conditional, got %#v", fn.Body.Stmts[2])
	}
	ternary, ok := mergeDecl.Value.(*ast.Ternary)
	if !ok {
		t.Fatalf("the merge must select via a Ternary, got %#v", mergeDecl.Value)
	}
	retStmt := fn.Body.Stmts[3].(*ast.Return)
	retRead := retStmt.Value.(*ast.Ident)
	if retRead.Path[0] != mergeDecl.Name {
		t.Error("the statement after the conditional must see the merged name")
	}
	if tt.MustLookup(ternary) != types.U32 {
		t.Error("the synthesized ternary must be recorded in the type table with the variable's type")
	}
}

func TestRunConditionalNoMergeWhenNeitherArmAssigns(t *testing.T) {
	nb := ident.NewNodeBuilder()
	asn := ident.NewAssigner()
	tt := ast.NewTypeTable()

	xName := ident.Intern("x")
	letX := &ast.ConstDecl{Base: ast.Base{NodeID: nb.NextID()}, Name: xName, Type: types.U32,
		Value: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "0", Width: 32}}
	cond := &ast.Conditional{
		Base: ast.Base{NodeID: nb.NextID()},
		Cond: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitBool, Bool: true},
		Then: &ast.Block{Base: ast.Base{NodeID: nb.NextID()}},
	}
	ret := &ast.Return{Base: ast.Base{NodeID: nb.NextID()}, Value: identExpr(nb, xName)}
	body := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{letX, cond, ret}}
	fn := &ast.Function{Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("run"), Variant: ast.VariantFunction, Body: body, Output: []*types.Type{types.U32}}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: ident.Intern("foo.aleo"), Functions: []*ast.Function{fn}}}}

	Run(prog, nb, asn, tt)

	if len(fn.Body.Stmts) != 3 {
		t.Fatalf("a conditional with no divergent reassignment must synthesize no merge decl, got %d stmts", len(fn.Body.Stmts))
	}
	retStmt := fn.Body.Stmts[2].(*ast.Return)
	retRead := retStmt.Value.(*ast.Ident)
	if retRead.Path[0] != letX.Name {
		t.Error("with nothing reassigned on either arm, the original definition's name must still be live")
	}
}

func TestRunCompoundAssignmentFoldsToOrdinaryAssignment(t *testing.T) {
	nb := ident.NewNodeBuilder()
	asn := ident.NewAssigner()
	tt := ast.NewTypeTable()

	xName := ident.Intern("x")
	letX := &ast.ConstDecl{Base: ast.Base{NodeID: nb.NextID()}, Name: xName, Type: types.U32,
		Value: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "1", Width: 32}}
	compound := &ast.Assignment{Base: ast.Base{NodeID: nb.NextID()}, Place: identExpr(nb, xName), Op: types.OpAdd,
		Value: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "2", Width: 32}}
	body := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{letX, compound}}
	fn := &ast.Function{Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("run"), Variant: ast.VariantFunction, Body: body}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: ident.Intern("foo.aleo"), Functions: []*ast.Function{fn}}}}

	Run(prog, nb, asn, tt)

	decl, ok := fn.Body.Stmts[1].(*ast.ConstDecl)
	if !ok {
		t.Fatalf("compound assignment must still rewrite to a ConstDecl, got %#v", fn.Body.Stmts[1])
	}
	bin, ok := decl.Value.(*ast.Binary)
	if !ok || bin.Op != types.OpAdd {
		t.Fatalf("x += 2 must fold into a Binary add of the old value and 2, got %#v", decl.Value)
	}
	oldRead, ok := bin.Left.(*ast.Ident)
	if !ok || oldRead.Path[0] != letX.Name {
		t.Error("the left operand of the folded binary must reference x's pre-mutation SSA name")
	}
}
