// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package ast

import "github.com/ProvableHQ/leo-sub003/ident"

// CloneExpr deep-copies e, minting a fresh NodeID for every node via nb
// while preserving structure. Used by loop unrolling to replicate a body
// once per iteration (spec.md §4.4) and by any rewriter that needs to
// duplicate a subtree rather than share it.
func CloneExpr(nb *ident.NodeBuilder, e Expr) Expr {
	if e == nil {
		return nil
	}
	fresh := Base{NodeID: nb.NextID(), SpanV: e.Span()}
	switch n := e.(type) {
	case *Ident:
		return &Ident{Base: fresh, Path: append(ident.Path{}, n.Path...)}
	case *Literal:
		cp := *n
		cp.Base = fresh
		return &cp
	case *ArrayLit:
		elems := make([]Expr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = CloneExpr(nb, el)
		}
		return &ArrayLit{Base: fresh, Elems: elems}
	case *RepeatLit:
		return &RepeatLit{Base: fresh, Elem: CloneExpr(nb, n.Elem), Count: CloneExpr(nb, n.Count)}
	case *ArrayAccess:
		return &ArrayAccess{Base: fresh, Array: CloneExpr(nb, n.Array), Index: CloneExpr(nb, n.Index)}
	case *TupleLit:
		elems := make([]Expr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = CloneExpr(nb, el)
		}
		return &TupleLit{Base: fresh, Elems: elems}
	case *TupleAccess:
		return &TupleAccess{Base: fresh, Tuple: CloneExpr(nb, n.Tuple), Index: n.Index}
	case *StructLit:
		fields := make([]StructLitField, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = StructLitField{Name: f.Name, Value: CloneExpr(nb, f.Value)}
		}
		return &StructLit{Base: fresh, Name: n.Name, Program: n.Program, Fields: fields}
	case *MemberAccess:
		return &MemberAccess{Base: fresh, Value: CloneExpr(nb, n.Value), Member: n.Member}
	case *Call:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = CloneExpr(nb, a)
		}
		return &Call{Base: fresh, Callee: append(ident.Path{}, n.Callee...), Args: args}
	case *AssociatedCall:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = CloneExpr(nb, a)
		}
		return &AssociatedCall{Base: fresh, Type: n.Type, Method: n.Method, Args: args}
	case *Cast:
		return &Cast{Base: fresh, Value: CloneExpr(nb, n.Value), Target: n.Target}
	case *Unary:
		return &Unary{Base: fresh, Op: n.Op, Operand: CloneExpr(nb, n.Operand)}
	case *Binary:
		return &Binary{Base: fresh, Op: n.Op, Left: CloneExpr(nb, n.Left), Right: CloneExpr(nb, n.Right)}
	case *Ternary:
		return &Ternary{Base: fresh, Cond: CloneExpr(nb, n.Cond), Then: CloneExpr(nb, n.Then), Else: CloneExpr(nb, n.Else)}
	case *Locator:
		cp := *n
		cp.Base = fresh
		return &cp
	case *UnitExpr:
		return &UnitExpr{Base: fresh}
	case *Await:
		return &Await{Base: fresh, Value: CloneExpr(nb, n.Value)}
	default:
		panic("CloneExpr: unhandled expression type")
	}
}

// CloneStmt deep-copies s the same way CloneExpr does for expressions.
func CloneStmt(nb *ident.NodeBuilder, s Stmt) Stmt {
	if s == nil {
		return nil
	}
	fresh := Base{NodeID: nb.NextID(), SpanV: s.Span()}
	switch n := s.(type) {
	case *ConstDecl:
		return &ConstDecl{Base: fresh, Name: n.Name, Type: n.Type, Value: CloneExpr(nb, n.Value)}
	case *Definition:
		return &Definition{Base: fresh, Place: clonePlace(n.Place), Type: n.Type, Mutable: n.Mutable, Value: CloneExpr(nb, n.Value)}
	case *Assignment:
		return &Assignment{Base: fresh, Place: CloneExpr(nb, n.Place), Op: n.Op, Value: CloneExpr(nb, n.Value)}
	case *Return:
		return &Return{Base: fresh, Value: CloneExpr(nb, n.Value)}
	case *Conditional:
		var elseClone Stmt
		if n.Else != nil {
			elseClone = CloneStmt(nb, n.Else)
		}
		return &Conditional{Base: fresh, Cond: CloneExpr(nb, n.Cond), Then: CloneStmt(nb, n.Then).(*Block), Else: elseClone}
	case *Iteration:
		return &Iteration{
			Base: fresh, Counter: n.Counter, Type: n.Type,
			Start: CloneExpr(nb, n.Start), Stop: CloneExpr(nb, n.Stop), Inclusive: n.Inclusive,
			Body: CloneStmt(nb, n.Body).(*Block),
		}
	case *Block:
		stmts := make([]Stmt, len(n.Stmts))
		for i, st := range n.Stmts {
			stmts[i] = CloneStmt(nb, st)
		}
		return &Block{Base: fresh, Stmts: stmts}
	case *ExprStmt:
		return &ExprStmt{Base: fresh, Value: CloneExpr(nb, n.Value)}
	case *Assert:
		return &Assert{Base: fresh, Kind: n.Kind, Left: CloneExpr(nb, n.Left), Right: CloneExpr(nb, n.Right)}
	default:
		panic("CloneStmt: unhandled statement type")
	}
}

func clonePlace(p Place) Place {
	if p.IsMultiple() {
		return Place{Multiple: append([]ident.Symbol{}, p.Multiple...)}
	}
	name := *p.Single
	return Place{Single: &name}
}
