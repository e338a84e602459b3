// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package unroll implements pass 4 (spec.md §4.4): it replaces every
// `for` loop, whose bounds const propagation has already folded to
// literals, with one cloned copy of its body per iteration, each carrying
// its own counter binding as a const declaration.
package unroll

import (
	"math/big"

	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/diag"
	"github.com/ProvableHQ/leo-sub003/ident"
)

// Run rewrites every function body in prog in place.
func Run(prog *ast.Program, nb *ident.NodeBuilder, diags *diag.Handler) {
	for _, scope := range prog.Scopes {
		for _, fn := range scope.Functions {
			if fn.Body != nil {
				fn.Body = unrollBlock(nb, diags, fn.Body)
			}
		}
		if scope.Upgrade != nil && scope.Upgrade.Custom != nil {
			scope.Upgrade.Custom = unrollBlock(nb, diags, scope.Upgrade.Custom)
		}
	}
}

func unrollBlock(nb *ident.NodeBuilder, diags *diag.Handler, b *ast.Block) *ast.Block {
	var out []ast.Stmt
	for _, s := range b.Stmts {
		out = append(out, unrollStmt(nb, diags, s)...)
	}
	b.Stmts = out
	return b
}

// unrollStmt returns the statement(s) s rewrites to: a single-element slice
// for anything but an Iteration, which expands to zero or more cloned
// bodies.
func unrollStmt(nb *ident.NodeBuilder, diags *diag.Handler, s ast.Stmt) []ast.Stmt {
	switch n := s.(type) {
	case *ast.Conditional:
		n.Then = unrollBlock(nb, diags, n.Then)
		if n.Else != nil {
			elseStmts := unrollStmt(nb, diags, n.Else)
			if len(elseStmts) == 1 {
				n.Else = elseStmts[0]
			} else {
				n.Else = &ast.Block{Base: ast.Base{NodeID: nb.NextID(), SpanV: ident.DummySpan}, Stmts: elseStmts}
			}
		}
		return []ast.Stmt{n}
	case *ast.Block:
		return []ast.Stmt{unrollBlock(nb, diags, n)}
	case *ast.Iteration:
		return unrollIteration(nb, diags, n)
	default:
		return []ast.Stmt{s}
	}
}

func unrollIteration(nb *ident.NodeBuilder, diags *diag.Handler, n *ast.Iteration) []ast.Stmt {
	start, sok := literalInt(n.Start)
	stop, eok := literalInt(n.Stop)
	if !sok || !eok {
		diags.Emit(diag.New(diag.Const, 10, n.Span(), "loop bounds did not fold to compile-time constants; cannot unroll").WithHelp("const propagation must resolve both loop bounds to integer literals before unrolling"))
		return nil
	}
	if n.Inclusive {
		stop = new(big.Int).Add(stop, big.NewInt(1))
	}

	var out []ast.Stmt
	width, signed := n.Type.Width, n.Type.Signed
	for i := new(big.Int).Set(start); i.Cmp(stop) < 0; i.Add(i, big.NewInt(1)) {
		body := ast.CloneStmt(nb, n.Body).(*ast.Block)
		counterDecl := &ast.ConstDecl{
			Base:  ast.Base{NodeID: nb.NextID(), SpanV: ident.DummySpan},
			Name:  n.Counter,
			Type:  n.Type,
			Value: &ast.Literal{Base: ast.Base{NodeID: nb.NextID(), SpanV: ident.DummySpan}, Kind: ast.LitInteger, Text: new(big.Int).Set(i).String(), Width: width, Signed: signed},
		}
		iterBlock := &ast.Block{
			Base:  ast.Base{NodeID: nb.NextID(), SpanV: ident.DummySpan},
			Stmts: append([]ast.Stmt{counterDecl}, unrollBlock(nb, diags, body).Stmts...),
		}
		out = append(out, iterBlock)
	}
	return out
}

func literalInt(e ast.Expr) (*big.Int, bool) {
	lit, ok := e.(*ast.Literal)
	if !ok || lit.Kind != ast.LitInteger {
		return nil, false
	}
	v, ok := new(big.Int).SetString(lit.Text, 10)
	return v, ok
}
