// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package ast

import (
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/types"
)

// TypeTable is the process-wide NodeID -> Type map populated by the type
// checker and kept current by every rewriter that rebuilds nodes (spec.md
// §3.5). A missing entry for an expression node after type checking has
// run is a compiler bug (spec.md §8, enforced via MustLookup).
type TypeTable struct {
	types map[ident.NodeID]*types.Type
}

// NewTypeTable returns an empty type table.
func NewTypeTable() *TypeTable {
	return &TypeTable{types: make(map[ident.NodeID]*types.Type)}
}

// Set records the type of node id.
func (t *TypeTable) Set(id ident.NodeID, ty *types.Type) {
	t.types[id] = ty
}

// Lookup returns the type of node id, and whether it was present.
func (t *TypeTable) Lookup(id ident.NodeID) (*types.Type, bool) {
	ty, ok := t.types[id]
	return ty, ok
}

// MustLookup returns the type of node id, panicking if absent. Every pass
// after type checking may assume this succeeds for any Expr it has a
// handle to (spec.md §8, universal invariant).
func (t *TypeTable) MustLookup(n Node) *types.Type {
	ty, ok := t.types[n.ID()]
	if !ok {
		panic("type table: missing type for node " + n.Span().String())
	}
	return ty
}

// Len reports how many nodes have a recorded type, mostly useful for tests.
func (t *TypeTable) Len() int {
	return len(t.types)
}
