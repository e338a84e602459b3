// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package flatten implements pass 7 (spec.md §4.7): it eliminates
// conditional control flow and early returns, maintaining a condition
// stack of guard variables as it walks each function body. After this
// pass, every function has exactly one fallthrough Return and only
// straight-line code, ternaries over primitive types, and call/assert
// statements remain.
package flatten

import (
	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/symtab"
	"github.com/ProvableHQ/leo-sub003/types"
)

// returnEntry records one Return statement removed from the straight-line
// body: the guard that was active when it was encountered (nil meaning
// unconditionally reachable), and its (already-lowered) value expression.
type returnEntry struct {
	guard *ident.Symbol
	value ast.Expr
}

type flattener struct {
	nb         *ident.NodeBuilder
	asn        *ident.Assigner
	tt         *ast.TypeTable
	st         *symtab.SymbolTable
	program    ident.Symbol
	returnType *types.Type
	returns    []returnEntry
}

// Run flattens every function body in prog in place.
func Run(prog *ast.Program, nb *ident.NodeBuilder, asn *ident.Assigner, tt *ast.TypeTable, st *symtab.SymbolTable) {
	for _, scope := range prog.Scopes {
		for _, fn := range scope.Functions {
			if fn.Body == nil {
				continue
			}
			f := &flattener{nb: nb, asn: asn, tt: tt, st: st, program: scope.ProgramID, returnType: outputType(fn.Output)}
			var out []ast.Stmt
			f.flattenBlock(&out, fn.Body.Stmts, nil)
			merged := f.mergeReturns(&out)
			out = append(out, &ast.Return{Base: ast.Base{NodeID: nb.NextID(), SpanV: ident.DummySpan}, Value: merged})
			fn.Body.Stmts = out
		}
	}
}

func outputType(outs []*types.Type) *types.Type {
	if len(outs) == 1 {
		return outs[0]
	}
	return types.NewTuple(outs)
}

func (f *flattener) fresh() ast.Base {
	return ast.Base{NodeID: f.nb.NextID(), SpanV: ident.DummySpan}
}

func (f *flattener) refExpr(sym ident.Symbol) ast.Expr {
	e := &ast.Ident{Base: f.fresh(), Path: ident.Path{sym}}
	f.tt.Set(e.ID(), types.Bool)
	return e
}

func (f *flattener) flattenBlock(out *[]ast.Stmt, stmts []ast.Stmt, guard *ident.Symbol) {
	for _, s := range stmts {
		f.flattenStmt(out, s, guard)
	}
}

func (f *flattener) flattenStmt(out *[]ast.Stmt, s ast.Stmt, guard *ident.Symbol) {
	switch n := s.(type) {
	case *ast.ConstDecl:
		n.Value = f.lowerExpr(out, n.Value)
		*out = append(*out, n)
	case *ast.Definition:
		n.Value = f.lowerExpr(out, n.Value)
		*out = append(*out, n)
	case *ast.Assignment:
		n.Value = f.lowerExpr(out, n.Value)
		*out = append(*out, n)
	case *ast.ExprStmt:
		n.Value = f.lowerExpr(out, n.Value)
		*out = append(*out, n)
	case *ast.Assert:
		n.Left = f.lowerExpr(out, n.Left)
		if n.Right != nil {
			n.Right = f.lowerExpr(out, n.Right)
		}
		f.guardAssert(out, n, guard)
	case *ast.Return:
		n.Value = f.lowerExpr(out, n.Value)
		f.returns = append(f.returns, returnEntry{guard: guard, value: n.Value})
	case *ast.Conditional:
		f.flattenConditional(out, n, guard)
	case *ast.Block:
		f.flattenBlock(out, n.Stmts, guard)
	case *ast.Iteration:
		// Unrolling eliminates every Iteration before this pass runs; one
		// surviving here is an upstream compiler bug, not something this
		// pass can recover from meaningfully.
		f.flattenBlock(out, n.Body.Stmts, guard)
	default:
		*out = append(*out, s)
	}
}

// flattenConditional pushes a guard for the Then arm (the condition ANDed
// with the enclosing guard) and, if present, a guard for the Else arm (the
// negated condition ANDed with the enclosing guard), flattening each arm's
// body directly into out; the Conditional node itself is dropped.
func (f *flattener) flattenConditional(out *[]ast.Stmt, n *ast.Conditional, guard *ident.Symbol) {
	n.Cond = f.lowerExpr(out, n.Cond)

	thenGuard := f.pushGuard(out, guard, n.Cond, false)
	f.flattenBlock(out, n.Then.Stmts, thenGuard)

	if n.Else != nil {
		elseCond := ast.CloneExpr(f.nb, n.Cond)
		elseGuard := f.pushGuard(out, guard, elseCond, true)
		f.flattenElse(out, n.Else, elseGuard)
	}
}

func (f *flattener) flattenElse(out *[]ast.Stmt, s ast.Stmt, guard *ident.Symbol) {
	switch n := s.(type) {
	case *ast.Block:
		f.flattenBlock(out, n.Stmts, guard)
	case *ast.Conditional:
		f.flattenConditional(out, n, guard)
	default:
		f.flattenStmt(out, s, guard)
	}
}

// pushGuard materializes parent && cond (or !cond, when negate) into a
// fresh boolean variable and appends its definition to out, returning the
// symbol every guarded statement beneath this branch reads through — the
// "constructed" guard of spec.md §4.7, cached for the whole branch instead
// of being rebuilt per assertion.
func (f *flattener) pushGuard(out *[]ast.Stmt, parent *ident.Symbol, cond ast.Expr, negate bool) *ident.Symbol {
	value := cond
	if negate {
		u := &ast.Unary{Base: f.fresh(), Op: types.OpNot, Operand: cond}
		f.tt.Set(u.ID(), types.Bool)
		value = u
	}
	if parent != nil {
		b := &ast.Binary{Base: f.fresh(), Op: types.OpAnd, Left: f.refExpr(*parent), Right: value}
		f.tt.Set(b.ID(), types.Bool)
		value = b
	}
	fresh := f.asn.Fresh("guard")
	*out = append(*out, &ast.ConstDecl{Base: f.fresh(), Name: fresh, Type: types.Bool, Value: value})
	return &fresh
}

// earlyReturnGuardExpr builds the "has an earlier return already fired"
// condition as the OR of every return guard recorded so far; an
// unconditional (guard == nil) entry makes the aggregate unconditionally
// true from that point on.
func (f *flattener) earlyReturnGuardExpr() ast.Expr {
	var combined ast.Expr
	for _, r := range f.returns {
		var disjunct ast.Expr
		if r.guard == nil {
			return &ast.Literal{Base: f.fresh(), Kind: ast.LitBool, Bool: true}
		}
		disjunct = f.refExpr(*r.guard)
		if combined == nil {
			combined = disjunct
			continue
		}
		or := &ast.Binary{Base: f.fresh(), Op: types.OpOr, Left: combined, Right: disjunct}
		f.tt.Set(or.ID(), types.Bool)
		combined = or
	}
	if combined == nil {
		return &ast.Literal{Base: f.fresh(), Kind: ast.LitBool, Bool: false}
	}
	return combined
}

// guardAssert rewrites n into `assert(!g || !early_return_taken || check)`
// per spec.md §4.7, where check is the original assertion's pass
// condition and g is the statement's active guard (omitted at top level,
// where every statement is unconditionally reachable absent an earlier
// return).
func (f *flattener) guardAssert(out *[]ast.Stmt, n *ast.Assert, guard *ident.Symbol) {
	check := f.assertCheckExpr(n)
	var disjuncts []ast.Expr
	if guard != nil {
		u := &ast.Unary{Base: f.fresh(), Op: types.OpNot, Operand: f.refExpr(*guard)}
		f.tt.Set(u.ID(), types.Bool)
		disjuncts = append(disjuncts, u)
	}
	if len(f.returns) > 0 {
		u := &ast.Unary{Base: f.fresh(), Op: types.OpNot, Operand: f.earlyReturnGuardExpr()}
		f.tt.Set(u.ID(), types.Bool)
		disjuncts = append(disjuncts, u)
	}
	disjuncts = append(disjuncts, check)

	combined := disjuncts[0]
	for _, d := range disjuncts[1:] {
		or := &ast.Binary{Base: f.fresh(), Op: types.OpOr, Left: combined, Right: d}
		f.tt.Set(or.ID(), types.Bool)
		combined = or
	}
	*out = append(*out, &ast.Assert{Base: f.fresh(), Kind: ast.AssertBool, Left: combined})
}

func (f *flattener) assertCheckExpr(n *ast.Assert) ast.Expr {
	switch n.Kind {
	case ast.AssertBool:
		return n.Left
	case ast.AssertEq:
		e := &ast.Binary{Base: f.fresh(), Op: types.OpEq, Left: n.Left, Right: n.Right}
		f.tt.Set(e.ID(), types.Bool)
		return e
	case ast.AssertNeq:
		e := &ast.Binary{Base: f.fresh(), Op: types.OpNeq, Left: n.Left, Right: n.Right}
		f.tt.Set(e.ID(), types.Bool)
		return e
	default:
		panic("flatten: unknown assert kind")
	}
}

// mergeReturns folds the accumulated return guards into a chain of
// ternaries selecting the value whose guard held, the last entry serving
// as the default, then expands any composite ternary the chain introduced.
func (f *flattener) mergeReturns(out *[]ast.Stmt) ast.Expr {
	if len(f.returns) == 0 {
		return &ast.UnitExpr{Base: f.fresh()}
	}
	result := f.returns[len(f.returns)-1].value
	for i := len(f.returns) - 2; i >= 0; i-- {
		r := f.returns[i]
		if r.guard == nil {
			result = r.value
			continue
		}
		tern := &ast.Ternary{Base: f.fresh(), Cond: f.refExpr(*r.guard), Then: r.value, Else: result}
		f.tt.Set(tern.ID(), f.returnType)
		result = tern
	}
	return f.lowerExpr(out, result)
}

// lowerExpr rewrites every child of e, expanding any ternary over a
// composite type (struct, array, or tuple) into a per-member ternary with
// each arm's result bound to a fresh variable, since Aleo has no composite
// ternary opcode.
func (f *flattener) lowerExpr(out *[]ast.Stmt, e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.Ternary:
		n.Cond = f.lowerExpr(out, n.Cond)
		n.Then = f.lowerExpr(out, n.Then)
		n.Else = f.lowerExpr(out, n.Else)
		if ty, ok := f.tt.Lookup(n.ID()); ok && isComposite(ty) {
			return f.expandCompositeTernary(out, n, ty)
		}
		return n
	case *ast.ArrayLit:
		for i, el := range n.Elems {
			n.Elems[i] = f.lowerExpr(out, el)
		}
		return n
	case *ast.RepeatLit:
		n.Elem = f.lowerExpr(out, n.Elem)
		n.Count = f.lowerExpr(out, n.Count)
		return n
	case *ast.ArrayAccess:
		n.Array = f.lowerExpr(out, n.Array)
		n.Index = f.lowerExpr(out, n.Index)
		return n
	case *ast.TupleLit:
		for i, el := range n.Elems {
			n.Elems[i] = f.lowerExpr(out, el)
		}
		return n
	case *ast.TupleAccess:
		n.Tuple = f.lowerExpr(out, n.Tuple)
		return n
	case *ast.StructLit:
		for i, fl := range n.Fields {
			n.Fields[i].Value = f.lowerExpr(out, fl.Value)
		}
		return n
	case *ast.MemberAccess:
		n.Value = f.lowerExpr(out, n.Value)
		return n
	case *ast.Call:
		for i, a := range n.Args {
			n.Args[i] = f.lowerExpr(out, a)
		}
		return n
	case *ast.AssociatedCall:
		for i, a := range n.Args {
			n.Args[i] = f.lowerExpr(out, a)
		}
		return n
	case *ast.Cast:
		n.Value = f.lowerExpr(out, n.Value)
		return n
	case *ast.Unary:
		n.Operand = f.lowerExpr(out, n.Operand)
		return n
	case *ast.Binary:
		n.Left = f.lowerExpr(out, n.Left)
		n.Right = f.lowerExpr(out, n.Right)
		return n
	case *ast.Await:
		n.Value = f.lowerExpr(out, n.Value)
		return n
	default:
		return e
	}
}

func isComposite(ty *types.Type) bool {
	if ty == nil {
		return false
	}
	switch ty.Kind {
	case types.KindComposite:
		return true
	case types.KindArray:
		return true
	case types.KindTuple:
		return len(ty.Elems) > 0
	default:
		return false
	}
}

// materialize binds e to a fresh variable of type ty and returns its
// symbol, unless e is already a bare identifier reference (in which case
// its existing symbol is reused rather than minting a redundant copy).
func (f *flattener) materialize(out *[]ast.Stmt, e ast.Expr, ty *types.Type) ident.Symbol {
	if id, ok := e.(*ast.Ident); ok && len(id.Path) == 1 {
		return id.Path[0]
	}
	fresh := f.asn.Fresh("cmp")
	*out = append(*out, &ast.ConstDecl{Base: f.fresh(), Name: fresh, Type: ty, Value: e})
	return fresh
}

// expandCompositeTernary replaces a ternary over a struct, array, or tuple
// value with a freshly reassembled literal of the same shape, each member
// computed by its own (possibly further nested) ternary.
func (f *flattener) expandCompositeTernary(out *[]ast.Stmt, n *ast.Ternary, ty *types.Type) ast.Expr {
	thenSym := f.materialize(out, n.Then, ty)
	elseSym := f.materialize(out, n.Else, ty)

	memberValue := func(memberTy *types.Type, accessor func(base ast.Expr) ast.Expr) ast.Expr {
		thenM := accessor(f.refExpr(thenSym))
		elseM := accessor(f.refExpr(elseSym))
		f.tt.Set(thenM.ID(), memberTy)
		f.tt.Set(elseM.ID(), memberTy)
		mem := &ast.Ternary{Base: f.fresh(), Cond: ast.CloneExpr(f.nb, n.Cond), Then: thenM, Else: elseM}
		f.tt.Set(mem.ID(), memberTy)
		val := f.lowerExpr(out, mem)
		fresh := f.asn.Fresh("m")
		*out = append(*out, &ast.ConstDecl{Base: f.fresh(), Name: fresh, Type: memberTy, Value: val})
		ref := &ast.Ident{Base: f.fresh(), Path: ident.Path{fresh}}
		f.tt.Set(ref.ID(), memberTy)
		return ref
	}

	switch ty.Kind {
	case types.KindComposite:
		decl, ok := f.st.LookupComposite(f.program, ident.NewLocation(compositeProgram(ty, f.program), ty.CompositeName))
		if !ok {
			panic("flatten: unknown composite " + ty.CompositeName.String())
		}
		fields := make([]ast.StructLitField, len(decl.Members))
		for i, m := range decl.Members {
			member := m
			ref := memberValue(member.Type, func(base ast.Expr) ast.Expr {
				return &ast.MemberAccess{Base: f.fresh(), Value: base, Member: member.Name.String()}
			})
			fields[i] = ast.StructLitField{Name: member.Name.String(), Value: ref}
		}
		lit := &ast.StructLit{Base: f.fresh(), Name: ty.CompositeName, Program: ty.CompositeProgram, Fields: fields}
		f.tt.Set(lit.ID(), ty)
		return lit
	case types.KindTuple:
		elems := make([]ast.Expr, len(ty.Elems))
		for i, elemTy := range ty.Elems {
			idx := i
			elems[i] = memberValue(elemTy, func(base ast.Expr) ast.Expr {
				return &ast.TupleAccess{Base: f.fresh(), Tuple: base, Index: idx}
			})
		}
		lit := &ast.TupleLit{Base: f.fresh(), Elems: elems}
		f.tt.Set(lit.ID(), ty)
		return lit
	case types.KindArray:
		length := int(ty.Length.Value)
		elems := make([]ast.Expr, length)
		for i := range elems {
			idx := i
			idxLit := func() ast.Expr {
				l := &ast.Literal{Base: f.fresh(), Kind: ast.LitInteger, Text: itoa(idx), Width: 32, Signed: false}
				f.tt.Set(l.ID(), types.U32)
				return l
			}
			elems[i] = memberValue(ty.Elem, func(base ast.Expr) ast.Expr {
				return &ast.ArrayAccess{Base: f.fresh(), Array: base, Index: idxLit()}
			})
		}
		lit := &ast.ArrayLit{Base: f.fresh(), Elems: elems}
		f.tt.Set(lit.ID(), ty)
		return lit
	default:
		panic("flatten: expandCompositeTernary called on non-composite type")
	}
}

func compositeProgram(ty *types.Type, current ident.Symbol) ident.Symbol {
	if ty.CompositeProgram.IsZero() {
		return current
	}
	return ty.CompositeProgram
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}
