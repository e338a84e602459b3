// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package symtab

import (
	"fmt"

	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/ident"
)

// SymbolTable stores, keyed by Location, every program-scope declaration
// and the cross-program import graph, plus the scope tree for every
// function/block/loop body (spec.md §3.4).
type SymbolTable struct {
	structs      map[ident.Location]*ast.Composite
	records      map[ident.Location]*ast.Composite
	functions    map[ident.Location]FunctionSymbol
	globals      map[ident.Location]VariableSymbol
	globalConsts map[ident.Location]ast.Expr

	imports map[ident.Symbol]map[ident.Symbol]bool // program -> directly imported programs

	allLocals map[ident.NodeID]*LocalTable
	cursor    *ident.NodeID

	compositeGraph *depGraph
}

// New returns an empty symbol table.
func New() *SymbolTable {
	return &SymbolTable{
		structs:        make(map[ident.Location]*ast.Composite),
		records:        make(map[ident.Location]*ast.Composite),
		functions:      make(map[ident.Location]FunctionSymbol),
		globals:        make(map[ident.Location]VariableSymbol),
		globalConsts:   make(map[ident.Location]ast.Expr),
		imports:        make(map[ident.Symbol]map[ident.Symbol]bool),
		allLocals:      make(map[ident.NodeID]*LocalTable),
		compositeGraph: newDepGraph(),
	}
}

// InsertStruct registers a struct declaration, failing if a struct, record,
// or function already occupies loc (the shadowing rule applies across
// declaration kinds at module scope too, spec.md §4.1).
func (st *SymbolTable) InsertStruct(loc ident.Location, decl *ast.Composite) error {
	if err := st.checkTopLevelFree(loc); err != nil {
		return err
	}
	st.structs[loc] = decl
	st.compositeGraph.addNode(loc)
	return nil
}

// InsertRecord registers a record declaration.
func (st *SymbolTable) InsertRecord(loc ident.Location, decl *ast.Composite) error {
	if err := st.checkTopLevelFree(loc); err != nil {
		return err
	}
	st.records[loc] = decl
	st.compositeGraph.addNode(loc)
	return nil
}

// InsertFunction registers a function declaration.
func (st *SymbolTable) InsertFunction(loc ident.Location, decl *ast.Function) error {
	if err := st.checkTopLevelFree(loc); err != nil {
		return err
	}
	st.functions[loc] = FunctionSymbol{Decl: decl}
	return nil
}

// InsertGlobal registers a module-level global such as a mapping (symbols.Run
// inserts every mapping here); module-scope constants go through
// InsertGlobalConst instead.
func (st *SymbolTable) InsertGlobal(loc ident.Location, sym VariableSymbol) error {
	if err := st.checkTopLevelFree(loc); err != nil {
		return err
	}
	st.globals[loc] = sym
	return nil
}

// InsertGlobalConst records the value expression of a module-scope const
// under loc, replacing any earlier entry. symbols.Run stores each const's
// initializer as written; it is not evaluated on insertion, and const
// propagation later stores the folded value over it.
func (st *SymbolTable) InsertGlobalConst(loc ident.Location, value ast.Expr) {
	st.globalConsts[loc] = value
}

// LookupGlobalConst returns the value expression recorded for a
// module-scope constant.
func (st *SymbolTable) LookupGlobalConst(loc ident.Location) (ast.Expr, bool) {
	v, ok := st.globalConsts[loc]
	return v, ok
}

func (st *SymbolTable) checkTopLevelFree(loc ident.Location) error {
	if _, ok := st.structs[loc]; ok {
		return fmt.Errorf("%s is already declared", loc)
	}
	if _, ok := st.records[loc]; ok {
		return fmt.Errorf("%s is already declared", loc)
	}
	if _, ok := st.functions[loc]; ok {
		return fmt.Errorf("%s is already declared", loc)
	}
	if _, ok := st.globals[loc]; ok {
		return fmt.Errorf("%s is already declared", loc)
	}
	return nil
}

// AddImport records that program imports imported (spec.md §4.1).
func (st *SymbolTable) AddImport(program, imported ident.Symbol) {
	if st.imports[program] == nil {
		st.imports[program] = make(map[ident.Symbol]bool)
	}
	st.imports[program][imported] = true
}

// IsVisible reports whether target is visible from current: either they
// are the same program, or target is in current's transitive import set
// (spec.md §4.1).
func (st *SymbolTable) IsVisible(current, target ident.Symbol) bool {
	if current == target {
		return true
	}
	return st.transitiveImports(current)[target]
}

func (st *SymbolTable) transitiveImports(program ident.Symbol) map[ident.Symbol]bool {
	visited := make(map[ident.Symbol]bool)
	var visit func(ident.Symbol)
	visit = func(p ident.Symbol) {
		for imp := range st.imports[p] {
			if visited[imp] {
				continue
			}
			visited[imp] = true
			visit(imp)
		}
	}
	visit(program)
	return visited
}

// LookupStruct looks up loc, gated by IsVisible(current, loc.Program) per
// spec.md §4.1 ("Every lookup of a foreign location goes through this
// gate; a hit with failed visibility returns None.").
func (st *SymbolTable) LookupStruct(current ident.Symbol, loc ident.Location) (*ast.Composite, bool) {
	if !st.IsVisible(current, loc.Program) {
		return nil, false
	}
	v, ok := st.structs[loc]
	return v, ok
}

// LookupRecord is LookupStruct for records.
func (st *SymbolTable) LookupRecord(current ident.Symbol, loc ident.Location) (*ast.Composite, bool) {
	if !st.IsVisible(current, loc.Program) {
		return nil, false
	}
	v, ok := st.records[loc]
	return v, ok
}

// LookupComposite looks up loc as either a struct or a record.
func (st *SymbolTable) LookupComposite(current ident.Symbol, loc ident.Location) (*ast.Composite, bool) {
	if s, ok := st.LookupStruct(current, loc); ok {
		return s, ok
	}
	return st.LookupRecord(current, loc)
}

// LookupFunction is LookupStruct for functions.
func (st *SymbolTable) LookupFunction(current ident.Symbol, loc ident.Location) (FunctionSymbol, bool) {
	if !st.IsVisible(current, loc.Program) {
		return FunctionSymbol{}, false
	}
	v, ok := st.functions[loc]
	return v, ok
}

// LookupGlobal is LookupStruct for module-level globals.
func (st *SymbolTable) LookupGlobal(current ident.Symbol, loc ident.Location) (VariableSymbol, bool) {
	if !st.IsVisible(current, loc.Program) {
		return VariableSymbol{}, false
	}
	v, ok := st.globals[loc]
	return v, ok
}

// AddCompositeDependency records that the composite at loc contains a
// field/member of the composite type at dependsOn, used to build the
// acyclic composite dependency graph (spec.md §4.1).
func (st *SymbolTable) AddCompositeDependency(loc, dependsOn ident.Location) {
	st.compositeGraph.addEdge(loc, dependsOn)
}

// CompositeOrder returns the composite dependency graph's post-order
// (dependencies before dependents), or an error if the graph is cyclic
// (spec.md §4.1, "must be acyclic").
func (st *SymbolTable) CompositeOrder() ([]ident.Location, error) {
	return st.compositeGraph.postOrder()
}

// ImportOrder returns program's transitive import set in post-order
// (dependencies before dependents), used by code generation to order the
// emitted import list deterministically (SPEC_FULL.md §C.2a).
func (st *SymbolTable) ImportOrder(program ident.Symbol) ([]ident.Symbol, error) {
	g := newDepGraph()
	var visit func(ident.Symbol)
	visited := make(map[ident.Symbol]bool)
	visit = func(p ident.Symbol) {
		if visited[p] {
			return
		}
		visited[p] = true
		g.addNode(ident.Location{Program: p})
		for imp := range st.imports[p] {
			g.addEdge(ident.Location{Program: p}, ident.Location{Program: imp})
			visit(imp)
		}
	}
	visit(program)
	locs, err := g.postOrder()
	if err != nil {
		return nil, err
	}
	out := make([]ident.Symbol, 0, len(locs))
	for _, l := range locs {
		if l.Program == program {
			continue // the program itself is not one of its own imports
		}
		out = append(out, l.Program)
	}
	return out, nil
}
