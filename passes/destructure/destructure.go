// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package destructure implements pass 6 (spec.md §4.6): it eliminates
// tuple-valued expressions from the program, replacing every tuple
// variable with one fresh scalar variable per component, tracked in a side
// table. After this pass, the only tuple-typed expressions left are an
// entire return expression, an entire call result being bound, and
// futures (which stay tuple-shaped but opaque).
package destructure

import (
	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/types"
)

// components maps a destructured variable to the fresh names standing in
// for each of its tuple elements.
type components map[ident.Symbol][]ident.Symbol

type destructurer struct {
	nb   *ident.NodeBuilder
	asn  *ident.Assigner
	tt   *ast.TypeTable
	vars components
}

// Run rewrites every function body in prog in place.
func Run(prog *ast.Program, nb *ident.NodeBuilder, asn *ident.Assigner, tt *ast.TypeTable) {
	for _, scope := range prog.Scopes {
		for _, fn := range scope.Functions {
			if fn.Body == nil {
				continue
			}
			d := &destructurer{nb: nb, asn: asn, tt: tt, vars: make(components)}
			fn.Body.Stmts = d.block(fn.Body.Stmts)
		}
	}
}

func (d *destructurer) block(stmts []ast.Stmt) []ast.Stmt {
	var out []ast.Stmt
	for _, s := range stmts {
		out = append(out, d.stmt(s)...)
	}
	return out
}

func (d *destructurer) isTupleType(ty *types.Type) bool {
	return ty != nil && ty.Kind == types.KindTuple && len(ty.Elems) > 0
}

func (d *destructurer) stmt(s ast.Stmt) []ast.Stmt {
	switch n := s.(type) {
	case *ast.ConstDecl:
		ty := n.Type
		if ty == nil {
			ty, _ = d.tt.Lookup(n.Value.ID())
		}
		if d.isTupleType(ty) {
			return d.definition(&ast.Definition{Base: n.Base, Place: ast.SingleDecl(n.Name), Type: ty, Value: n.Value})
		}
		n.Value = d.expr(n.Value)
		return []ast.Stmt{n}
	case *ast.Definition:
		return d.definition(n)
	case *ast.Assignment:
		return d.assignment(n)
	case *ast.Return:
		n.Value = d.expr(n.Value)
		return []ast.Stmt{n}
	case *ast.Conditional:
		n.Cond = d.expr(n.Cond)
		n.Then.Stmts = d.block(n.Then.Stmts)
		if n.Else != nil {
			elseStmts := d.stmt(n.Else)
			if len(elseStmts) == 1 {
				n.Else = elseStmts[0]
			} else {
				n.Else = &ast.Block{Base: ast.Base{NodeID: d.nb.NextID(), SpanV: ident.DummySpan}, Stmts: elseStmts}
			}
		}
		return []ast.Stmt{n}
	case *ast.Iteration:
		n.Body.Stmts = d.block(n.Body.Stmts)
		return []ast.Stmt{n}
	case *ast.Block:
		n.Stmts = d.block(n.Stmts)
		return []ast.Stmt{n}
	case *ast.ExprStmt:
		n.Value = d.expr(n.Value)
		return []ast.Stmt{n}
	case *ast.Assert:
		return d.assert(n)
	default:
		return []ast.Stmt{s}
	}
}

// definition handles both `x = tuple_expr` (x has tuple type) and
// `(a,b,c) = …` by emitting one fresh definition per component and
// discarding the original statement, per spec.md §4.6.
func (d *destructurer) definition(n *ast.Definition) []ast.Stmt {
	n.Value = d.expr(n.Value)

	if n.Place.IsMultiple() {
		var out []ast.Stmt
		for i, name := range n.Place.Multiple {
			out = append(out, d.componentDef(name, d.elemExpr(n.Value, i), nil))
		}
		return out
	}

	name := *n.Place.Single
	ty := n.Type
	if ty == nil {
		ty, _ = d.tt.Lookup(n.Value.ID())
	}
	if !d.isTupleType(ty) {
		return []ast.Stmt{n}
	}
	fresh := d.valueComponents(n.Value, len(ty.Elems))
	d.vars[name] = fresh
	var out []ast.Stmt
	for i, f := range fresh {
		out = append(out, d.componentDef(f, d.elemExpr(n.Value, i), ty.Elems[i]))
	}
	return out
}

// valueComponents mints one fresh name per element of a tuple-typed value.
// For chained destructuring (`let t2 = t1;`) t2 still gets its own names;
// elemExpr makes each of them read the matching component of t1.
func (d *destructurer) valueComponents(value ast.Expr, arity int) []ident.Symbol {
	names := make([]ident.Symbol, arity)
	for i := range names {
		names[i] = d.asn.Fresh("tuple")
	}
	return names
}

// elemExpr returns the expression initializing component i of a
// tuple-typed value: a TupleLit yields its i-th element directly, an
// already-destructured ident yields its i-th component variable, and
// anything else (a call result) is read through a TupleAccess.
func (d *destructurer) elemExpr(value ast.Expr, i int) ast.Expr {
	if lit, ok := value.(*ast.TupleLit); ok && i < len(lit.Elems) {
		return lit.Elems[i]
	}
	if id, ok := value.(*ast.Ident); ok && len(id.Path) == 1 {
		if names, ok := d.vars[id.Path[0]]; ok && i < len(names) {
			return &ast.Ident{Base: ast.Base{NodeID: d.nb.NextID(), SpanV: id.Span()}, Path: ident.Path{names[i]}}
		}
	}
	acc := &ast.TupleAccess{Base: ast.Base{NodeID: d.nb.NextID(), SpanV: ident.DummySpan}, Tuple: value, Index: i}
	return acc
}

func (d *destructurer) componentDef(name ident.Symbol, value ast.Expr, ty *types.Type) *ast.Definition {
	n := name
	def := &ast.Definition{
		Base:  ast.Base{NodeID: d.nb.NextID(), SpanV: ident.DummySpan},
		Place: ast.SingleDecl(n),
		Type:  ty,
		Value: value,
	}
	if ty != nil {
		if v, ok := d.tt.Lookup(value.ID()); !ok || v == nil {
			d.tt.Set(value.ID(), ty)
		}
	}
	return def
}

// assignment handles `x = y` where both sides are tuple-typed (expands to
// component-wise assignments via the side table) and assignment into a
// tuple member (rewrites the TupleAccess segment of the lvalue to the
// corresponding fresh variable).
func (d *destructurer) assignment(n *ast.Assignment) []ast.Stmt {
	if id, ok := n.Place.(*ast.Ident); ok && len(id.Path) == 1 {
		if names, ok := d.vars[id.Path[0]]; ok {
			n.Value = d.expr(n.Value)
			var out []ast.Stmt
			for i, name := range names {
				out = append(out, &ast.Assignment{
					Base:  ast.Base{NodeID: d.nb.NextID(), SpanV: ident.DummySpan},
					Place: &ast.Ident{Base: ast.Base{NodeID: d.nb.NextID(), SpanV: ident.DummySpan}, Path: ident.Path{name}},
					Value: d.elemExpr(n.Value, i),
				})
			}
			return out
		}
	}
	n.Place = d.rewritePlace(n.Place)
	n.Value = d.expr(n.Value)
	return []ast.Stmt{n}
}

// rewritePlace resolves a TupleAccess segment of an lvalue (`x.2[...] = …`)
// to the fresh component variable standing in for it, if the tuple base is
// a destructured Ident.
func (d *destructurer) rewritePlace(place ast.Expr) ast.Expr {
	switch n := place.(type) {
	case *ast.TupleAccess:
		if id, ok := n.Tuple.(*ast.Ident); ok && len(id.Path) == 1 {
			if names, ok := d.vars[id.Path[0]]; ok && n.Index < len(names) {
				return &ast.Ident{Base: ast.Base{NodeID: d.nb.NextID(), SpanV: ident.DummySpan}, Path: ident.Path{names[n.Index]}}
			}
		}
		n.Tuple = d.rewritePlace(n.Tuple)
		return n
	case *ast.ArrayAccess:
		n.Array = d.rewritePlace(n.Array)
		n.Index = d.expr(n.Index)
		return n
	case *ast.MemberAccess:
		n.Value = d.rewritePlace(n.Value)
		return n
	default:
		return place
	}
}

// assert expands an elementwise tuple comparison into one assert per
// component; a scalar assert passes through unchanged.
func (d *destructurer) assert(n *ast.Assert) []ast.Stmt {
	n.Left = d.expr(n.Left)
	if n.Right != nil {
		n.Right = d.expr(n.Right)
	}
	if n.Kind == ast.AssertBool || n.Right == nil {
		return []ast.Stmt{n}
	}
	lty, lok := d.tt.Lookup(n.Left.ID())
	if !lok || !d.isTupleType(lty) {
		return []ast.Stmt{n}
	}
	var out []ast.Stmt
	for i := range lty.Elems {
		out = append(out, &ast.Assert{
			Base:  ast.Base{NodeID: d.nb.NextID(), SpanV: ident.DummySpan},
			Kind:  n.Kind,
			Left:  d.elemExpr(n.Left, i),
			Right: d.elemExpr(n.Right, i),
		})
	}
	if len(out) == 0 {
		// Arity-0 tuple equality is vacuously true (spec.md §8).
		return []ast.Stmt{&ast.Assert{Base: ast.Base{NodeID: d.nb.NextID(), SpanV: ident.DummySpan}, Kind: ast.AssertBool, Left: &ast.Literal{Base: ast.Base{NodeID: d.nb.NextID(), SpanV: ident.DummySpan}, Kind: ast.LitBool, Bool: true}}}
	}
	return out
}

// expr rewrites every child of e, then applies the tuple-specific
// transforms: tuple (in)equality expands to an n-way AND/OR of per-element
// comparisons, a TupleAccess on a destructured variable resolves to the
// stored component, and a tuple-typed ternary expands into a TupleLit of
// per-member ternaries (see tupleTernary).
func (d *destructurer) expr(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.Ident:
		return n
	case *ast.ArrayLit:
		for i, el := range n.Elems {
			n.Elems[i] = d.expr(el)
		}
		return n
	case *ast.RepeatLit:
		n.Elem = d.expr(n.Elem)
		n.Count = d.expr(n.Count)
		return n
	case *ast.ArrayAccess:
		n.Array = d.expr(n.Array)
		n.Index = d.expr(n.Index)
		return n
	case *ast.TupleLit:
		for i, el := range n.Elems {
			n.Elems[i] = d.expr(el)
		}
		return n
	case *ast.TupleAccess:
		n.Tuple = d.expr(n.Tuple)
		if id, ok := n.Tuple.(*ast.Ident); ok && len(id.Path) == 1 {
			if names, ok := d.vars[id.Path[0]]; ok && n.Index < len(names) {
				ref := &ast.Ident{Base: ast.Base{NodeID: d.nb.NextID(), SpanV: n.Span()}, Path: ident.Path{names[n.Index]}}
				if ty, ok := d.tt.Lookup(n.ID()); ok {
					d.tt.Set(ref.ID(), ty)
				}
				return ref
			}
		}
		return n
	case *ast.StructLit:
		for i, f := range n.Fields {
			n.Fields[i].Value = d.expr(f.Value)
		}
		return n
	case *ast.MemberAccess:
		n.Value = d.expr(n.Value)
		return n
	case *ast.Call:
		for i, a := range n.Args {
			n.Args[i] = d.expr(a)
		}
		return n
	case *ast.AssociatedCall:
		for i, a := range n.Args {
			n.Args[i] = d.expr(a)
		}
		return n
	case *ast.Cast:
		n.Value = d.expr(n.Value)
		return n
	case *ast.Unary:
		n.Operand = d.expr(n.Operand)
		return n
	case *ast.Binary:
		n.Left = d.expr(n.Left)
		n.Right = d.expr(n.Right)
		if types.IsEquality(n.Op) {
			if lty, ok := d.tt.Lookup(n.Left.ID()); ok && d.isTupleType(lty) {
				return d.tupleEquality(n, lty)
			}
		}
		return n
	case *ast.Ternary:
		n.Cond = d.expr(n.Cond)
		n.Then = d.expr(n.Then)
		n.Else = d.expr(n.Else)
		if ty, ok := d.tt.Lookup(n.ID()); ok && d.isTupleType(ty) {
			return d.tupleTernary(n, ty)
		}
		return n
	case *ast.Await:
		n.Value = d.expr(n.Value)
		return n
	default:
		return e
	}
}

// tupleEquality expands `a == b` (or `!=`) over an arity-n tuple into the
// n-way AND (or OR) of elementwise comparisons.
func (d *destructurer) tupleEquality(n *ast.Binary, ty *types.Type) ast.Expr {
	arity := len(ty.Elems)
	if arity == 0 {
		// Vacuous AND is true; vacuous OR (for !=) is false.
		return &ast.Literal{Base: ast.Base{NodeID: d.nb.NextID(), SpanV: n.Span()}, Kind: ast.LitBool, Bool: n.Op == types.OpEq}
	}
	combine := types.OpAnd
	if n.Op == types.OpNeq {
		combine = types.OpOr
	}
	var acc ast.Expr
	for i := 0; i < arity; i++ {
		cmp := &ast.Binary{Base: ast.Base{NodeID: d.nb.NextID(), SpanV: n.Span()}, Op: n.Op, Left: d.elemExpr(n.Left, i), Right: d.elemExpr(n.Right, i)}
		d.tt.Set(cmp.ID(), types.Bool)
		if acc == nil {
			acc = cmp
			continue
		}
		acc = &ast.Binary{Base: ast.Base{NodeID: d.nb.NextID(), SpanV: n.Span()}, Op: combine, Left: acc, Right: cmp}
		d.tt.Set(acc.ID(), types.Bool)
	}
	return acc
}

// tupleTernary expands a tuple-typed ternary into a TupleLit of per-member
// ternaries that all share n.Cond. The condition is not copied into a
// variable of its own, and the member ternaries are not bound to variables
// here; when the result initializes a definition, definition gives each
// member its own fresh variable through elemExpr.
func (d *destructurer) tupleTernary(n *ast.Ternary, ty *types.Type) ast.Expr {
	elems := make([]ast.Expr, len(ty.Elems))
	for i, elemTy := range ty.Elems {
		mem := &ast.Ternary{
			Base: ast.Base{NodeID: d.nb.NextID(), SpanV: n.Span()},
			Cond: n.Cond,
			Then: d.elemExpr(n.Then, i),
			Else: d.elemExpr(n.Else, i),
		}
		d.tt.Set(mem.ID(), elemTy)
		elems[i] = mem
	}
	lit := &ast.TupleLit{Base: ast.Base{NodeID: d.nb.NextID(), SpanV: n.Span()}, Elems: elems}
	d.tt.Set(lit.ID(), ty)
	return lit
}
