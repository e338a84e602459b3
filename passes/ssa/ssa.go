// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package ssa implements pass 5 (spec.md §4.5): every variable definition
// and assignment is given a fresh, globally-unique name (`x$N`, minted by
// ident.Assigner), and every read is rewritten to reference the nearest
// preceding definition. Where a variable is (re)assigned differently on
// the two arms of a conditional, a merge constant is synthesized after the
// conditional using a ternary select on its condition — there is no SSA
// phi node in Leo's target representation, so a ternary plays that role.
package ssa

import (
	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/types"
)

type env map[ident.Symbol]ident.Symbol

func cloneEnv(e env) env {
	out := make(env, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

type renamer struct {
	nb       *ident.NodeBuilder
	asn      *ident.Assigner
	tt       *ast.TypeTable
	varTypes map[ident.Symbol]*types.Type
}

// Run renames every function body in prog in place.
func Run(prog *ast.Program, nb *ident.NodeBuilder, asn *ident.Assigner, tt *ast.TypeTable) {
	for _, scope := range prog.Scopes {
		for _, fn := range scope.Functions {
			if fn.Body == nil {
				continue
			}
			r := &renamer{nb: nb, asn: asn, tt: tt, varTypes: make(map[ident.Symbol]*types.Type)}
			e := make(env)
			for _, p := range fn.Params {
				fresh := asn.Fresh(p.Name.String())
				e[p.Name] = fresh
				r.varTypes[p.Name] = p.Type
			}
			fn.Body.Stmts, _ = r.renameStmts(e, fn.Body.Stmts)
		}
	}
}

func (r *renamer) renameStmts(e env, stmts []ast.Stmt) ([]ast.Stmt, env) {
	var out []ast.Stmt
	for _, s := range stmts {
		var rewritten []ast.Stmt
		rewritten, e = r.renameStmt(e, s)
		out = append(out, rewritten...)
	}
	return out, e
}

func (r *renamer) renameStmt(e env, s ast.Stmt) ([]ast.Stmt, env) {
	switch n := s.(type) {
	case *ast.ConstDecl:
		n.Value = r.renameExpr(e, n.Value)
		fresh := r.asn.Fresh(n.Name.String())
		r.varTypes[n.Name] = n.Type
		e = cloneEnv(e)
		e[n.Name] = fresh
		n.Name = fresh
		return []ast.Stmt{n}, e
	case *ast.Definition:
		n.Value = r.renameExpr(e, n.Value)
		e = cloneEnv(e)
		if n.Place.IsMultiple() {
			for i, name := range n.Place.Multiple {
				fresh := r.asn.Fresh(name.String())
				e[name] = fresh
				n.Place.Multiple[i] = fresh
			}
		} else {
			fresh := r.asn.Fresh(n.Place.Single.String())
			r.varTypes[*n.Place.Single] = n.Type
			e[*n.Place.Single] = fresh
			name := fresh
			n.Place.Single = &name
		}
		return []ast.Stmt{n}, e
	case *ast.Assignment:
		return r.renameAssignment(e, n)
	case *ast.Return:
		n.Value = r.renameExpr(e, n.Value)
		return []ast.Stmt{n}, e
	case *ast.Conditional:
		return r.renameConditional(e, n)
	case *ast.Iteration:
		// Unrolling has already eliminated every Iteration by this pass
		// (spec.md §4.4 runs before §4.5); if one survives it is a
		// compiler bug upstream, not something SSA renaming can recover
		// from meaningfully, so its body is renamed in isolation.
		n.Body.Stmts, _ = r.renameStmts(cloneEnv(e), n.Body.Stmts)
		return []ast.Stmt{n}, e
	case *ast.Block:
		stmts, inner := r.renameStmts(cloneEnv(e), n.Stmts)
		n.Stmts = stmts
		return []ast.Stmt{n}, mergeUnchanged(e, inner)
	case *ast.ExprStmt:
		n.Value = r.renameExpr(e, n.Value)
		return []ast.Stmt{n}, e
	case *ast.Assert:
		n.Left = r.renameExpr(e, n.Left)
		if n.Right != nil {
			n.Right = r.renameExpr(e, n.Right)
		}
		return []ast.Stmt{n}, e
	default:
		return []ast.Stmt{s}, e
	}
}

// mergeUnchanged keeps only the bindings of inner that also existed in
// outer, i.e. it discards a nested block's purely-local declarations once
// control flow returns to the enclosing scope, while keeping reassignments
// of outer-scope variables visible.
func mergeUnchanged(outer, inner env) env {
	out := cloneEnv(outer)
	for k := range outer {
		if v, ok := inner[k]; ok {
			out[k] = v
		}
	}
	return out
}

// renameAssignment handles `place = value`. A bare Ident place mints a
// fresh SSA name the way Definition does, per spec.md §4.5 ("every write
// produces exactly one new name"). A compound place (array/tuple/member
// write) mutates through the root variable's current binding in place
// instead: only its reads are renamed, and the root variable keeps its
// current SSA name rather than minting a new one. Reconstructing a whole
// new root value per compound write (turning `arr[i] = v` into a
// conditional per-element rebuild) is the "reconstructing director"
// complexity the original compiler handles with a dedicated visitor; it is
// out of scope here; the destructuring and flattening passes operate
// directly on the Assignment node for these cases instead.
func (r *renamer) renameAssignment(e env, n *ast.Assignment) ([]ast.Stmt, env) {
	if n.Op != "" {
		// Compound assignment (`x += e`) reads the pre-mutation value of
		// Place, so fold it into an ordinary assignment before the place
		// and value are renamed independently: `x = x + e`.
		old := r.renameExpr(e, ast.CloneExpr(r.nb, n.Place))
		n.Value = &ast.Binary{Base: ast.Base{NodeID: r.nb.NextID(), SpanV: ident.DummySpan}, Op: n.Op, Left: old, Right: r.renameExpr(e, n.Value)}
		n.Op = ""
	} else {
		n.Value = r.renameExpr(e, n.Value)
	}
	if id, ok := n.Place.(*ast.Ident); ok && len(id.Path) == 1 {
		name := id.Path[0]
		fresh := r.asn.Fresh(name.String())
		e = cloneEnv(e)
		e[name] = fresh
		r.varTypes[fresh] = r.varTypes[name]
		decl := &ast.ConstDecl{Base: ast.Base{NodeID: r.nb.NextID(), SpanV: ident.DummySpan}, Name: fresh, Type: r.varTypes[name], Value: n.Value}
		return []ast.Stmt{decl}, e
	}
	n.Place = r.renameExpr(e, n.Place)
	return []ast.Stmt{n}, e
}

func (r *renamer) renameConditional(e env, n *ast.Conditional) ([]ast.Stmt, env) {
	n.Cond = r.renameExpr(e, n.Cond)

	thenStmts, thenEnv := r.renameStmts(cloneEnv(e), n.Then.Stmts)
	n.Then.Stmts = thenStmts

	elseEnv := e
	if n.Else != nil {
		var elseStmts []ast.Stmt
		elseStmts, elseEnv = r.renameStmt(cloneEnv(e), n.Else)
		if len(elseStmts) == 1 {
			n.Else = elseStmts[0]
		} else {
			n.Else = &ast.Block{Base: ast.Base{NodeID: r.nb.NextID(), SpanV: ident.DummySpan}, Stmts: elseStmts}
		}
	}

	merged := cloneEnv(e)
	var mergeDecls []ast.Stmt
	seen := make(map[ident.Symbol]bool)
	mergeOne := func(name ident.Symbol) {
		if seen[name] {
			return
		}
		seen[name] = true
		thenName, tok := thenEnv[name]
		elseName, eok := elseEnv[name]
		baseName, bok := e[name]
		if !tok {
			thenName, tok = baseName, bok
		}
		if !eok {
			elseName, eok = baseName, bok
		}
		if !tok || !eok || thenName == elseName {
			if tok {
				merged[name] = thenName
			}
			return
		}
		fresh := r.asn.Fresh(name.String())
		merged[name] = fresh
		ty := r.varTypes[name]
		thenRef := &ast.Ident{Base: ast.Base{NodeID: r.nb.NextID(), SpanV: ident.DummySpan}, Path: ident.Path{thenName}}
		elseRef := &ast.Ident{Base: ast.Base{NodeID: r.nb.NextID(), SpanV: ident.DummySpan}, Path: ident.Path{elseName}}
		r.tt.Set(thenRef.ID(), ty)
		r.tt.Set(elseRef.ID(), ty)
		ternary := &ast.Ternary{Base: ast.Base{NodeID: r.nb.NextID(), SpanV: ident.DummySpan}, Cond: cloneCondRef(r.nb, n.Cond), Then: thenRef, Else: elseRef}
		r.tt.Set(ternary.ID(), ty)
		mergeDecls = append(mergeDecls, &ast.ConstDecl{Base: ast.Base{NodeID: r.nb.NextID(), SpanV: ident.DummySpan}, Name: fresh, Type: ty, Value: ternary})
		r.varTypes[fresh] = ty
	}
	for name := range thenEnv {
		mergeOne(name)
	}
	for name := range elseEnv {
		mergeOne(name)
	}

	out := append([]ast.Stmt{n}, mergeDecls...)
	return out, merged
}

// cloneCondRef re-references the conditional's already-renamed condition
// expression; conditions are simple boolean expressions over already-SSA
// names, so referencing the same node is sound (it is never itself
// mutated by the merge).
func cloneCondRef(nb *ident.NodeBuilder, cond ast.Expr) ast.Expr {
	return cond
}

func (r *renamer) renameExpr(e env, expr ast.Expr) ast.Expr {
	switch n := expr.(type) {
	case *ast.Ident:
		if len(n.Path) == 1 {
			if renamed, ok := e[n.Path[0]]; ok {
				return &ast.Ident{Base: ast.Base{NodeID: r.nb.NextID(), SpanV: n.Span()}, Path: ident.Path{renamed}}
			}
		}
		return n
	case *ast.ArrayLit:
		for i, el := range n.Elems {
			n.Elems[i] = r.renameExpr(e, el)
		}
		return n
	case *ast.RepeatLit:
		n.Elem = r.renameExpr(e, n.Elem)
		n.Count = r.renameExpr(e, n.Count)
		return n
	case *ast.ArrayAccess:
		n.Array = r.renameExpr(e, n.Array)
		n.Index = r.renameExpr(e, n.Index)
		return n
	case *ast.TupleLit:
		for i, el := range n.Elems {
			n.Elems[i] = r.renameExpr(e, el)
		}
		return n
	case *ast.TupleAccess:
		n.Tuple = r.renameExpr(e, n.Tuple)
		return n
	case *ast.StructLit:
		for i, f := range n.Fields {
			n.Fields[i].Value = r.renameExpr(e, f.Value)
		}
		return n
	case *ast.MemberAccess:
		n.Value = r.renameExpr(e, n.Value)
		return n
	case *ast.Call:
		for i, a := range n.Args {
			n.Args[i] = r.renameExpr(e, a)
		}
		return n
	case *ast.AssociatedCall:
		for i, a := range n.Args {
			n.Args[i] = r.renameExpr(e, a)
		}
		return n
	case *ast.Cast:
		n.Value = r.renameExpr(e, n.Value)
		return n
	case *ast.Unary:
		n.Operand = r.renameExpr(e, n.Operand)
		return n
	case *ast.Binary:
		n.Left = r.renameExpr(e, n.Left)
		n.Right = r.renameExpr(e, n.Right)
		return n
	case *ast.Ternary:
		n.Cond = r.renameExpr(e, n.Cond)
		n.Then = r.renameExpr(e, n.Then)
		n.Else = r.renameExpr(e, n.Else)
		return n
	case *ast.Await:
		n.Value = r.renameExpr(e, n.Value)
		return n
	default:
		return expr
	}
}
