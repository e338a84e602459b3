// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package symtab implements the symbol table (spec.md §3.4): a
// Location-keyed store of every top-level declaration plus, for each
// function/block/loop, a lexically-scoped LocalTable forming a scope tree.
package symtab

import (
	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/types"
)

// VariableSymbol records what the type checker and symbol-table pass know
// about one local variable: its type, the span it was declared at, and
// whether it may be reassigned.
type VariableSymbol struct {
	Type       *types.Type
	Span       ident.Span
	Mutable    bool
}

// FunctionSymbol records a function's signature as seen from the symbol
// table, independent of its body (used for call-site arity/type checks
// without re-walking the callee).
type FunctionSymbol struct {
	Decl *ast.Function
}
