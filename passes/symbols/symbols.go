// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package symbols implements pass 1 (spec.md §4.1): it walks every program
// scope and populates the symbol table with composites, mappings,
// functions, module-scope globals, the import graph, and the lexical
// scope tree for every function body.
package symbols

import (
	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/diag"
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/symtab"
	"github.com/ProvableHQ/leo-sub003/types"
)

// Run populates st from prog, reporting duplicate-declaration and
// composite-cycle diagnostics to diags. It never aborts early: every scope
// is still built even if an earlier declaration collided, so later passes
// have as complete a table as possible to keep reporting against.
func Run(prog *ast.Program, st *symtab.SymbolTable, diags *diag.Handler) {
	for _, scope := range prog.Scopes {
		program := scope.ProgramID

		for _, imp := range prog.Imports[program] {
			st.AddImport(program, imp.Program)
		}

		for _, c := range scope.Composites {
			loc := ident.NewLocation(program, c.Name)
			var err error
			if c.Kind == ast.CompositeRecord {
				err = st.InsertRecord(loc, c)
			} else {
				err = st.InsertStruct(loc, c)
			}
			if err != nil {
				diags.Emit(diag.New(diag.Parse, 1, c.Span(), "%s", err))
				continue
			}
			for _, m := range c.Members {
				recordCompositeDeps(st, loc, m.Type)
			}
		}

		for _, m := range scope.Mappings {
			loc := ident.NewLocation(program, m.Name)
			if err := st.InsertGlobal(loc, symtab.VariableSymbol{Type: types.NewMapping(m.Key, m.Value), Span: m.Span()}); err != nil {
				diags.Emit(diag.New(diag.Parse, 3, m.Span(), "%s", err))
			}
		}

		for _, fn := range scope.Functions {
			loc := ident.NewLocation(program, fn.Name)
			if err := st.InsertFunction(loc, fn); err != nil {
				diags.Emit(diag.New(diag.Parse, 2, fn.Span(), "%s", err))
				continue
			}
			buildFunctionScope(st, program, fn)
		}

		for _, c := range scope.Consts {
			loc := ident.NewLocation(program, c.Name)
			st.InsertGlobalConst(loc, c.Value)
		}
	}

	if _, err := st.CompositeOrder(); err != nil {
		diags.Emit(diag.New(diag.Codegen, 1, ident.DummySpan, "%s", err))
	}
}

// recordCompositeDeps walks t looking for nominal composite references
// nested inside arrays/tuples, registering an edge from owner to each one
// found so the composite dependency graph (spec.md §4.1) can detect cycles
// such as `struct A { b: B }` / `struct B { a: A }`.
func recordCompositeDeps(st *symtab.SymbolTable, owner ident.Location, t *types.Type) {
	if t == nil {
		return
	}
	switch t.Kind {
	case types.KindComposite:
		program := t.CompositeProgram
		if program.IsZero() {
			program = owner.Program
		}
		st.AddCompositeDependency(owner, ident.NewLocation(program, t.CompositeName))
	case types.KindArray:
		recordCompositeDeps(st, owner, t.Elem)
	case types.KindTuple:
		for _, e := range t.Elems {
			recordCompositeDeps(st, owner, e)
		}
	}
}

func buildFunctionScope(st *symtab.SymbolTable, program ident.Symbol, fn *ast.Function) {
	if fn.Body == nil {
		return
	}
	st.EnterScope(fn.Body.ID())
	for _, p := range fn.Params {
		_ = st.InsertLocal(program, p.Name, symtab.VariableSymbol{Type: p.Type, Span: fn.Span(), Mutable: false})
	}
	walkBlockScopes(st, program, fn.Body)
	st.ExitScope()
}

// walkBlockScopes enters a fresh scope for every nested block and loop
// body, inserting locals as Definition/Iteration statements are seen, and
// always exits back to the parent scope before returning (spec.md §3.4).
func walkBlockScopes(st *symtab.SymbolTable, program ident.Symbol, block *ast.Block) {
	for _, s := range block.Stmts {
		walkStmtScopes(st, program, s)
	}
}

func walkStmtScopes(st *symtab.SymbolTable, program ident.Symbol, s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Definition:
		insertPlace(st, program, n.Place, n.Type, n.Mutable)
	case *ast.ConstDecl:
		_ = st.InsertConstLocal(program, n.Name, n.Value)
	case *ast.Conditional:
		st.EnterScope(n.Then.ID())
		walkBlockScopes(st, program, n.Then)
		st.ExitScope()
		if n.Else != nil {
			walkStmtScopes(st, program, n.Else)
		}
	case *ast.Iteration:
		st.EnterScope(n.Body.ID())
		_ = st.InsertLocal(program, n.Counter, symtab.VariableSymbol{Type: n.Type, Span: n.Span(), Mutable: false})
		walkBlockScopes(st, program, n.Body)
		st.ExitScope()
	case *ast.Block:
		st.EnterScope(n.ID())
		walkBlockScopes(st, program, n)
		st.ExitScope()
	}
}

func insertPlace(st *symtab.SymbolTable, program ident.Symbol, place ast.Place, ty *types.Type, mutable bool) {
	if place.IsMultiple() {
		for _, name := range place.Multiple {
			_ = st.InsertLocal(program, name, symtab.VariableSymbol{Type: ty, Span: ident.DummySpan, Mutable: mutable})
		}
		return
	}
	_ = st.InsertLocal(program, *place.Single, symtab.VariableSymbol{Type: ty, Span: ident.DummySpan, Mutable: mutable})
}
