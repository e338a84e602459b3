// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package typecheck

import (
	"testing"

	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/diag"
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/passes/symbols"
	"github.com/ProvableHQ/leo-sub003/symtab"
	"github.com/ProvableHQ/leo-sub003/types"
)

func TestDeclCompatibleArraySymbolicLength(t *testing.T) {
	declared := types.NewArray(types.U8, types.UnresolvedLength(nil, ident.DummySpan))
	actual := types.NewArray(types.U8, types.KnownLength(5))
	if !declCompatible(declared, actual) {
		t.Error("a declared array with an unresolved length must accept an initializer on element type alone")
	}
}

func TestDeclCompatibleArrayLengthMismatchOnceKnown(t *testing.T) {
	declared := types.NewArray(types.U8, types.KnownLength(3))
	actual := types.NewArray(types.U8, types.KnownLength(5))
	if declCompatible(declared, actual) {
		t.Error("two fully-known but differing array lengths must not be declCompatible")
	}
}

func TestDeclCompatibleTupleRecurses(t *testing.T) {
	declared := types.NewTuple([]*types.Type{types.NewArray(types.U8, types.UnresolvedLength(nil, ident.DummySpan)), types.Bool})
	actual := types.NewTuple([]*types.Type{types.NewArray(types.U8, types.KnownLength(2)), types.Bool})
	if !declCompatible(declared, actual) {
		t.Error("declCompatible must recurse into tuple elements")
	}
}

func TestDeclCompatibleElementMismatchRejected(t *testing.T) {
	declared := types.NewArray(types.U16, types.UnresolvedLength(nil, ident.DummySpan))
	actual := types.NewArray(types.U8, types.KnownLength(5))
	if declCompatible(declared, actual) {
		t.Error("an unresolved length must not paper over a genuine element-type mismatch")
	}
}

// buildProgram wraps fn in a single-function program scope and runs the
// symbol table pass so typecheck's EnterExistingScope calls have a scope
// tree to walk.
func buildProgram(program ident.Symbol, fn *ast.Function) (*ast.Program, *symtab.SymbolTable) {
	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: program, Functions: []*ast.Function{fn}}}}
	st := symtab.New()
	symbols.Run(prog, st, diag.NewHandler())
	return prog, st
}

func TestRunAcceptsArrayDeclaredWithSymbolicLength(t *testing.T) {
	program := ident.Intern("foo.aleo")
	nb := ident.NewNodeBuilder()
	nName := ident.Intern("N")
	arrTy := types.NewArray(types.U8, types.UnresolvedLength(
		&ast.Ident{Base: ast.Base{NodeID: nb.NextID()}, Path: ident.Path{nName}}, ident.DummySpan))

	letA := &ast.Definition{
		Base: ast.Base{NodeID: nb.NextID()}, Place: ast.SingleDecl(ident.Intern("a")), Type: arrTy,
		Value: &ast.RepeatLit{
			Base: ast.Base{NodeID: nb.NextID()},
			Elem: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "0", Width: 8},
			Count: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "5", Width: 32},
		},
	}
	body := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{letA}}
	fn := &ast.Function{Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("run"), Variant: ast.VariantFunction, Body: body}

	prog, st := buildProgram(program, fn)
	tt := ast.NewTypeTable()
	diags := diag.NewHandler()

	Run(prog, st, tt, diags)

	if diags.HasErrors() {
		t.Errorf("unexpected diagnostics for a symbolic-length array declaration: %v", diags.Diagnostics())
	}
}

func TestRunRejectsMismatchedElementType(t *testing.T) {
	program := ident.Intern("foo.aleo")
	nb := ident.NewNodeBuilder()
	letA := &ast.Definition{
		Base: ast.Base{NodeID: nb.NextID()}, Place: ast.SingleDecl(ident.Intern("a")), Type: types.NewArray(types.U16, types.KnownLength(1)),
		Value: &ast.ArrayLit{Base: ast.Base{NodeID: nb.NextID()}, Elems: []ast.Expr{
			&ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "0", Width: 8},
		}},
	}
	body := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{letA}}
	fn := &ast.Function{Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("run"), Variant: ast.VariantFunction, Body: body}

	prog, st := buildProgram(program, fn)
	diags := diag.NewHandler()

	Run(prog, st, ast.NewTypeTable(), diags)

	if !diags.HasErrors() {
		t.Error("declaring [u16; 1] but initializing with a [u8; 1] literal must be rejected")
	}
}

func TestCheckMappingRejectsRecordValue(t *testing.T) {
	program := ident.Intern("foo.aleo")
	nb := ident.NewNodeBuilder()
	recordName := ident.Intern("Token")
	record := &ast.Composite{Base: ast.Base{NodeID: nb.NextID()}, Name: recordName, Kind: ast.CompositeRecord, Members: []ast.Member{
		{Name: ident.Intern("owner"), Type: types.Address},
	}}
	mapping := &ast.Mapping{Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("balances"), Key: types.Address, Value: types.NewComposite(ident.Symbol{}, recordName)}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: program, Composites: []*ast.Composite{record}, Mappings: []*ast.Mapping{mapping}}}}
	st := symtab.New()
	symbols.Run(prog, st, diag.NewHandler())
	diags := diag.NewHandler()

	Run(prog, st, ast.NewTypeTable(), diags)

	if !diags.HasErrors() {
		t.Error("a mapping whose value type is a record must be rejected")
	}
}

func TestCheckMappingAcceptsPlaintextValue(t *testing.T) {
	program := ident.Intern("foo.aleo")
	mapping := &ast.Mapping{Name: ident.Intern("balances"), Key: types.Address, Value: types.U64}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: program, Mappings: []*ast.Mapping{mapping}}}}
	st := symtab.New()
	symbols.Run(prog, st, diag.NewHandler())
	diags := diag.NewHandler()

	Run(prog, st, ast.NewTypeTable(), diags)

	if diags.HasErrors() {
		t.Errorf("a plaintext-valued mapping must be accepted, got: %v", diags.Diagnostics())
	}
}

func TestAsyncTransitionMustAwaitProducedFuture(t *testing.T) {
	program := ident.Intern("foo.aleo")
	nb := ident.NewNodeBuilder()

	finalizeName := ident.Intern("run_finalize")
	finalizeFn := &ast.Function{
		Base: ast.Base{NodeID: nb.NextID()}, Name: finalizeName, Variant: ast.VariantAsyncFunction,
		Output: []*types.Type{types.NewFuture(nil)},
		Body:   &ast.Block{Base: ast.Base{NodeID: nb.NextID()}},
	}

	callFinalize := &ast.Call{Base: ast.Base{NodeID: nb.NextID()}, Callee: ident.Path{finalizeName}}
	letFut := &ast.Definition{Base: ast.Base{NodeID: nb.NextID()}, Place: ast.SingleDecl(ident.Intern("f")), Value: callFinalize}
	body := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{letFut}}
	transition := &ast.Function{
		Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("run"), Variant: ast.VariantAsyncTransition,
		Body: body, Finalize: finalizeName,
	}

	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: program, Functions: []*ast.Function{finalizeFn, transition}}}}
	st := symtab.New()
	symbols.Run(prog, st, diag.NewHandler())
	diags := diag.NewHandler()

	Run(prog, st, ast.NewTypeTable(), diags)

	if !diags.HasErrors() {
		t.Error("an async transition that never awaits its produced future must be rejected")
	}
}

func TestAsyncTransitionAwaitSatisfiesReachability(t *testing.T) {
	program := ident.Intern("foo.aleo")
	nb := ident.NewNodeBuilder()

	finalizeName := ident.Intern("run_finalize")
	finalizeFn := &ast.Function{
		Base: ast.Base{NodeID: nb.NextID()}, Name: finalizeName, Variant: ast.VariantAsyncFunction,
		Output: []*types.Type{types.NewFuture(nil)},
		Body:   &ast.Block{Base: ast.Base{NodeID: nb.NextID()}},
	}

	callFinalize := &ast.Call{Base: ast.Base{NodeID: nb.NextID()}, Callee: ident.Path{finalizeName}}
	awaitStmt := &ast.ExprStmt{Base: ast.Base{NodeID: nb.NextID()}, Value: &ast.Await{Base: ast.Base{NodeID: nb.NextID()}, Value: callFinalize}}
	body := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{awaitStmt}}
	transition := &ast.Function{
		Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("run"), Variant: ast.VariantAsyncTransition,
		Body: body, Finalize: finalizeName,
	}

	prog := &ast.Program{Scopes: []*ast.ProgramScope{{ProgramID: program, Functions: []*ast.Function{finalizeFn, transition}}}}
	st := symtab.New()
	symbols.Run(prog, st, diag.NewHandler())
	diags := diag.NewHandler()

	Run(prog, st, ast.NewTypeTable(), diags)

	if diags.HasErrors() {
		t.Errorf("awaiting the produced future must satisfy the reachability rule, got: %v", diags.Diagnostics())
	}
}
