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

// LocalTable is one node of the scope tree: the lexical scope introduced
// by a function, block, or loop body (spec.md §3.4). The scope tree is
// represented as an arena (SymbolTable.allLocals) addressed by NodeID
// rather than the teacher source's Rc<RefCell<...>> sharing, per the
// DESIGN NOTES in spec.md §9 ("represent as an arena keyed by node id").
type LocalTable struct {
	id       ident.NodeID
	parent   *ident.NodeID
	children []ident.NodeID

	variables map[ident.Symbol]VariableSymbol
	consts    map[ident.Symbol]ast.Expr
}

func newLocalTable(id ident.NodeID, parent *ident.NodeID) *LocalTable {
	return &LocalTable{
		id:        id,
		parent:    parent,
		variables: make(map[ident.Symbol]VariableSymbol),
		consts:    make(map[ident.Symbol]ast.Expr),
	}
}

// EnterScope registers a new scope with the given id as a child of the
// current cursor, then moves the cursor into it. It performs no parent
// check; re-entering an already-built scope goes through
// EnterExistingScope, which does.
func (st *SymbolTable) EnterScope(id ident.NodeID) {
	parent := st.cursor
	var parentPtr *ident.NodeID
	if parent != nil {
		parentPtr = parent
		st.allLocals[*parent].children = append(st.allLocals[*parent].children, id)
	}
	table := newLocalTable(id, parentPtr)
	st.allLocals[id] = table
	idCopy := id
	st.cursor = &idCopy
}

// EnterExistingScope moves the cursor into a scope built by an earlier
// pass (e.g. pass 1's scope tree), asserting the teacher's parent-matches
// invariant rather than minting a new LocalTable the way EnterScope does.
// The type checker re-walks function bodies with this instead of
// EnterScope, so the locals pass 1 inserted are not clobbered.
func (st *SymbolTable) EnterExistingScope(id ident.NodeID) {
	st.AssertParent(id)
	idCopy := id
	st.cursor = &idCopy
}

// ExitScope moves the cursor back up to the current scope's parent. It
// panics if called with no current scope, which would be a compiler bug.
func (st *SymbolTable) ExitScope() {
	if st.cursor == nil {
		panic("symtab: ExitScope called with no current scope")
	}
	cur := st.allLocals[*st.cursor]
	st.cursor = cur.parent
}

// CurrentScope returns the NodeID of the scope the cursor currently points
// at, or false if no scope has been entered yet.
func (st *SymbolTable) CurrentScope() (ident.NodeID, bool) {
	if st.cursor == nil {
		return 0, false
	}
	return *st.cursor, true
}

// AssertParent panics unless id's recorded parent equals the current
// cursor, the invariant spec.md §8 requires of every EnterScope call site
// that re-enters a previously-constructed scope (as opposed to minting a
// brand new one via EnterScope above).
func (st *SymbolTable) AssertParent(id ident.NodeID) {
	table, ok := st.allLocals[id]
	if !ok {
		panic(fmt.Sprintf("symtab: no such scope %d", id))
	}
	if st.cursor == nil {
		if table.parent != nil {
			panic(fmt.Sprintf("symtab: scope %d expects parent %d but there is no current scope", id, *table.parent))
		}
		return
	}
	if table.parent == nil || *table.parent != *st.cursor {
		panic(fmt.Sprintf("symtab: scope %d's recorded parent does not match the current cursor", id))
	}
}

// InsertLocal inserts a local variable in the current scope, enforcing the
// shadowing rule (spec.md §3.4): fails if the current scope or any
// ancestor already defines name, or if a global in the current program
// does.
func (st *SymbolTable) InsertLocal(program ident.Symbol, name ident.Symbol, sym VariableSymbol) error {
	if st.cursor == nil {
		panic("symtab: InsertLocal called with no current scope")
	}
	if st.isShadowed(program, name) {
		return fmt.Errorf("%q is already defined in this scope or an ancestor scope", name)
	}
	st.allLocals[*st.cursor].variables[name] = sym
	return nil
}

// isShadowed walks from the current scope to the root, and also checks the
// current program's globals, implementing the shadowing rule verbatim.
func (st *SymbolTable) isShadowed(program ident.Symbol, name ident.Symbol) bool {
	id := st.cursor
	for id != nil {
		table := st.allLocals[*id]
		if _, ok := table.variables[name]; ok {
			return true
		}
		if _, ok := table.consts[name]; ok {
			return true
		}
		id = table.parent
	}
	if _, ok := st.globals[ident.NewLocation(program, name)]; ok {
		return true
	}
	if _, ok := st.globalConsts[ident.NewLocation(program, name)]; ok {
		return true
	}
	return false
}

// InsertConstLocal records the value expression of a `const` statement
// nested inside a function body in the current scope; symbols.Run passes
// the initializer as written, unevaluated (module-scope consts go to
// global_consts via InsertGlobalConst instead).
func (st *SymbolTable) InsertConstLocal(program, name ident.Symbol, value ast.Expr) error {
	if st.cursor == nil {
		panic("symtab: InsertConstLocal called with no current scope")
	}
	if st.isShadowed(program, name) {
		return fmt.Errorf("%q is already defined in this scope or an ancestor scope", name)
	}
	st.allLocals[*st.cursor].consts[name] = value
	return nil
}

// Lookup climbs from the current scope to the root looking for name,
// returning the nearest enclosing binding.
func (st *SymbolTable) Lookup(name ident.Symbol) (VariableSymbol, bool) {
	id := st.cursor
	for id != nil {
		table := st.allLocals[*id]
		if sym, ok := table.variables[name]; ok {
			return sym, true
		}
		id = table.parent
	}
	return VariableSymbol{}, false
}

// LookupConst climbs the scope tree looking for a lexically-scoped const
// binding (as opposed to a module-scope global_const, see LookupGlobalConst).
func (st *SymbolTable) LookupConst(name ident.Symbol) (ast.Expr, bool) {
	id := st.cursor
	for id != nil {
		table := st.allLocals[*id]
		if v, ok := table.consts[name]; ok {
			return v, true
		}
		id = table.parent
	}
	return nil, false
}

// IsLocal reports whether name is bound in the current scope's own
// variables map, with no ancestor traversal (spec.md §3.4, §8: "A symbol
// is local to a scope iff that scope's own variables map contains it").
func (st *SymbolTable) IsLocal(name ident.Symbol) bool {
	if st.cursor == nil {
		return false
	}
	_, ok := st.allLocals[*st.cursor].variables[name]
	return ok
}

// DuplicateSubtree deep-copies the subtree rooted at oldID, minting a fresh
// NodeID for every node while preserving structure (spec.md §3.4,
// "Duplication for unrolling"). The variable and const maps are copied
// entry by entry; the const value expressions themselves are shared with
// the original scopes, not cloned. The copy becomes a child of the current
// scope. It returns the new root's id.
func (st *SymbolTable) DuplicateSubtree(nb *ident.NodeBuilder, oldID ident.NodeID) ident.NodeID {
	newID := nb.NextID()
	old, ok := st.allLocals[oldID]
	if !ok {
		panic(fmt.Sprintf("symtab: DuplicateSubtree: no such scope %d", oldID))
	}

	var parentPtr *ident.NodeID
	if st.cursor != nil {
		parentPtr = st.cursor
		st.allLocals[*st.cursor].children = append(st.allLocals[*st.cursor].children, newID)
	}

	newTable := newLocalTable(newID, parentPtr)
	for k, v := range old.variables {
		newTable.variables[k] = v
	}
	for k, v := range old.consts {
		newTable.consts[k] = v
	}
	st.allLocals[newID] = newTable

	for _, child := range old.children {
		st.dupChild(nb, child, newID)
	}
	return newID
}

// dupChild duplicates one child subtree of DuplicateSubtree with newParent
// as its parent, recursing into grandchildren.
func (st *SymbolTable) dupChild(nb *ident.NodeBuilder, oldID ident.NodeID, newParent ident.NodeID) {
	old := st.allLocals[oldID]
	newID := nb.NextID()
	parentCopy := newParent
	newTable := newLocalTable(newID, &parentCopy)
	for k, v := range old.variables {
		newTable.variables[k] = v
	}
	for k, v := range old.consts {
		newTable.consts[k] = v
	}
	st.allLocals[newID] = newTable
	st.allLocals[newParent].children = append(st.allLocals[newParent].children, newID)

	for _, child := range old.children {
		st.dupChild(nb, child, newID)
	}
}
