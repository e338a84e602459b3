// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package ast defines the Leo abstract syntax tree shared by every
// compiler pass (spec.md §3.3): expressions, statements, and the
// program/function/composite declarations they live inside.
//
// Every node embeds Base, which carries the NodeID the type table keys
// off of and the source Span used for diagnostics. Passes that synthesize
// new nodes (const folding, unrolling, SSA, destructuring, flattening) mint
// a fresh NodeID via ident.NodeBuilder and leave Span as ident.DummySpan.
package ast

import "github.com/ProvableHQ/leo-sub003/ident"

// Node is the capability every AST node shares: identity and source
// position. Expr and Stmt both embed it.
type Node interface {
	ID() ident.NodeID
	Span() ident.Span
}

// Base is embedded by every concrete node type to provide Node's methods.
type Base struct {
	NodeID ident.NodeID
	SpanV  ident.Span
}

// ID implements Node.
func (b Base) ID() ident.NodeID { return b.NodeID }

// Span implements Node.
func (b Base) Span() ident.Span { return b.SpanV }
