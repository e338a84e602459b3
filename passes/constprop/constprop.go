// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package constprop implements pass 3 (spec.md §4.3): it folds every
// compile-time-constant subexpression to a literal, feeding the same
// value machinery the debugger interpreter uses (spec.md §3.6), and runs
// to a fixed point since folding one const can unlock folding another that
// reads it.
package constprop

import (
	"strconv"

	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/diag"
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/interpreter"
	"github.com/ProvableHQ/leo-sub003/symtab"
	"github.com/ProvableHQ/leo-sub003/types"
)

// folder rewrites one program scope's functions, folding every
// subexpression it can. changed reports whether anything was rewritten
// this pass, driving the caller's fixed-point loop.
type folder struct {
	st      *symtab.SymbolTable
	tt      *ast.TypeTable
	nb      *ident.NodeBuilder
	diags   *diag.Handler
	interp  *interpreter.Interp
	changed bool
}

// Run folds prog to a fixed point: it repeats one rewrite pass over every
// function body and every module-scope const until a pass makes no further
// changes, per spec.md §4.3 ("iterate the rewrite to a fixed point").
func Run(prog *ast.Program, st *symtab.SymbolTable, tt *ast.TypeTable, nb *ident.NodeBuilder, diags *diag.Handler) {
	const maxIterations = 64
	var f *folder
	for i := 0; i < maxIterations; i++ {
		f = &folder{st: st, tt: tt, nb: nb, diags: diags}
		for _, scope := range prog.Scopes {
			f.interp = interpreter.New(st, scope.ProgramID)
			for _, c := range scope.Consts {
				c.Type = f.foldType(c.Type)
				folded := f.foldExpr(c.Value)
				c.Value = folded
				st.InsertGlobalConst(ident.NewLocation(scope.ProgramID, c.Name), folded)
			}
			for _, comp := range scope.Composites {
				for j := range comp.Members {
					comp.Members[j].Type = f.foldType(comp.Members[j].Type)
				}
			}
			for _, m := range scope.Mappings {
				m.Key = f.foldType(m.Key)
				m.Value = f.foldType(m.Value)
			}
			for _, fn := range scope.Functions {
				for j := range fn.Params {
					fn.Params[j].Type = f.foldType(fn.Params[j].Type)
				}
				for j := range fn.Output {
					fn.Output[j] = f.foldType(fn.Output[j])
				}
				if fn.Body != nil {
					f.foldBlock(fn.Body)
				}
			}
		}
		if !f.changed {
			f.checkLengthsResolved(prog)
			return
		}
	}
	diags.Emit(diag.New(diag.Const, 1, ident.DummySpan, "constant propagation did not converge after %d iterations", maxIterations))
}

// foldType resolves any symbolic array length reachable from t (spec.md
// §3.2, "length ... must evaluate to a u32 constant by the end of const
// propagation"), recursing into every container kind that can carry one.
func (f *folder) foldType(t *types.Type) *types.Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case types.KindArray:
		t.Elem = f.foldType(t.Elem)
		if t.Length != nil && !t.Length.Known && t.Length.Expr != nil {
			if e, ok := t.Length.Expr.(ast.Expr); ok {
				folded := f.foldExpr(e)
				t.Length.Expr = folded
				if lit, ok := folded.(*ast.Literal); ok && lit.Kind == ast.LitInteger {
					if v, err := strconv.ParseUint(lit.Text, 10, 32); err == nil {
						t.Length.Known = true
						t.Length.Value = uint32(v)
						t.Length.Expr = nil
						f.changed = true
					}
				}
			}
		}
	case types.KindTuple:
		for i, e := range t.Elems {
			t.Elems[i] = f.foldType(e)
		}
	case types.KindMapping:
		t.Key = f.foldType(t.Key)
		t.Value = f.foldType(t.Value)
	case types.KindOptional:
		t.Inner = f.foldType(t.Inner)
	}
	return t
}

// checkLengthsResolved walks every declared type in prog once the
// fixed-point loop has converged and emits a diagnostic for any array
// length that never resolved to a literal (spec.md §3.2 invariant).
func (f *folder) checkLengthsResolved(prog *ast.Program) {
	for _, scope := range prog.Scopes {
		for _, c := range scope.Consts {
			f.checkLengthResolved(c.Type)
		}
		for _, comp := range scope.Composites {
			for _, m := range comp.Members {
				f.checkLengthResolved(m.Type)
			}
		}
		for _, m := range scope.Mappings {
			f.checkLengthResolved(m.Key)
			f.checkLengthResolved(m.Value)
		}
		for _, fn := range scope.Functions {
			for _, p := range fn.Params {
				f.checkLengthResolved(p.Type)
			}
			for _, o := range fn.Output {
				f.checkLengthResolved(o)
			}
			f.checkBlockLengths(fn.Body)
		}
	}
}

func (f *folder) checkLengthResolved(t *types.Type) {
	if t == nil {
		return
	}
	switch t.Kind {
	case types.KindArray:
		if t.Length != nil && !t.Length.Known {
			f.diags.Emit(diag.New(diag.Const, 4, t.Length.Span, "array length must evaluate to a compile-time u32 constant"))
		}
		f.checkLengthResolved(t.Elem)
	case types.KindTuple:
		for _, e := range t.Elems {
			f.checkLengthResolved(e)
		}
	case types.KindMapping:
		f.checkLengthResolved(t.Key)
		f.checkLengthResolved(t.Value)
	case types.KindOptional:
		f.checkLengthResolved(t.Inner)
	}
}

func (f *folder) checkBlockLengths(b *ast.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		f.checkStmtLengths(s)
	}
}

func (f *folder) checkStmtLengths(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ConstDecl:
		f.checkLengthResolved(n.Type)
	case *ast.Definition:
		f.checkLengthResolved(n.Type)
	case *ast.Conditional:
		f.checkBlockLengths(n.Then)
		if n.Else != nil {
			f.checkStmtLengths(n.Else)
		}
	case *ast.Iteration:
		f.checkBlockLengths(n.Body)
	case *ast.Block:
		f.checkBlockLengths(n)
	}
}

func (f *folder) foldBlock(b *ast.Block) {
	for i, s := range b.Stmts {
		b.Stmts[i] = f.foldStmt(s)
	}
}

func (f *folder) foldStmt(s ast.Stmt) ast.Stmt {
	switch n := s.(type) {
	case *ast.ConstDecl:
		n.Type = f.foldType(n.Type)
		n.Value = f.foldExpr(n.Value)
		return n
	case *ast.Definition:
		n.Type = f.foldType(n.Type)
		n.Value = f.foldExpr(n.Value)
		return n
	case *ast.Assignment:
		n.Place = f.foldExpr(n.Place)
		n.Value = f.foldExpr(n.Value)
		return n
	case *ast.Return:
		n.Value = f.foldExpr(n.Value)
		return n
	case *ast.Conditional:
		n.Cond = f.foldExpr(n.Cond)
		f.foldBlock(n.Then)
		if n.Else != nil {
			n.Else = f.foldStmt(n.Else)
		}
		return n
	case *ast.Iteration:
		n.Start = f.foldExpr(n.Start)
		n.Stop = f.foldExpr(n.Stop)
		if !f.isLiteral(n.Start) || !f.isLiteral(n.Stop) {
			f.diags.Emit(diag.New(diag.Const, 2, n.Span(), "loop bounds must be compile-time constants").WithHelp("array-length, index, and loop-bound expressions must fold to a literal before unrolling"))
		}
		f.foldBlock(n.Body)
		return n
	case *ast.Block:
		f.foldBlock(n)
		return n
	case *ast.ExprStmt:
		n.Value = f.foldExpr(n.Value)
		return n
	case *ast.Assert:
		n.Left = f.foldExpr(n.Left)
		if n.Right != nil {
			n.Right = f.foldExpr(n.Right)
		}
		return n
	default:
		return s
	}
}

func (f *folder) isLiteral(e ast.Expr) bool {
	_, ok := e.(*ast.Literal)
	return ok
}

// foldExpr rewrites every child of e, then attempts to evaluate the
// (already rewritten) node to a value; on success the node is replaced
// with a literal carrying that value, otherwise the rewritten-children
// node is kept (spec.md §4.3, "fold bottom-up, replacing only what
// succeeds").
func (f *folder) foldExpr(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	rewritten := f.foldChildren(e)
	if f.isLiteral(rewritten) {
		return rewritten
	}
	v, err := f.interp.Eval(rewritten, nil)
	if err != nil {
		return rewritten
	}
	literal := interpreter.ValueToExpr(f.nb, v)
	if ty, ok := f.tt.Lookup(rewritten.ID()); ok {
		f.tt.Set(literal.ID(), ty)
	}
	f.changed = true
	return literal
}

// checkArrayBounds emits a static array-bounds diagnostic when n.Index has
// folded to a literal and n.Array's length is already known (spec.md §8
// scenario 2). It is suppressed once any diagnostic has already fired, so a
// single out-of-bounds access inside an unrolled loop doesn't cascade into
// one error per iteration.
func (f *folder) checkArrayBounds(n *ast.ArrayAccess) {
	if f.diags.HasErrors() {
		return
	}
	idxLit, ok := n.Index.(*ast.Literal)
	if !ok || idxLit.Kind != ast.LitInteger {
		return
	}
	idx, err := strconv.ParseUint(idxLit.Text, 10, 32)
	if err != nil {
		return
	}
	ty, ok := f.tt.Lookup(n.Array.ID())
	if !ok || ty == nil || ty.Kind != types.KindArray || ty.Length == nil || !ty.Length.Known {
		return
	}
	if idx >= uint64(ty.Length.Value) {
		f.diags.Emit(diag.New(diag.Const, 5, n.Span(),
			"array index %d out of bounds for array of length %d", idx, ty.Length.Value))
	}
}

func (f *folder) foldChildren(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.ArrayLit:
		for i, el := range n.Elems {
			n.Elems[i] = f.foldExpr(el)
		}
		return n
	case *ast.RepeatLit:
		n.Elem = f.foldExpr(n.Elem)
		n.Count = f.foldExpr(n.Count)
		if !f.isLiteral(n.Count) {
			f.diags.Emit(diag.New(diag.Const, 3, n.Span(), "array repeat count must be a compile-time constant"))
		}
		return n
	case *ast.ArrayAccess:
		n.Array = f.foldExpr(n.Array)
		n.Index = f.foldExpr(n.Index)
		f.checkArrayBounds(n)
		return n
	case *ast.TupleLit:
		for i, el := range n.Elems {
			n.Elems[i] = f.foldExpr(el)
		}
		return n
	case *ast.TupleAccess:
		n.Tuple = f.foldExpr(n.Tuple)
		return n
	case *ast.StructLit:
		for i, fl := range n.Fields {
			n.Fields[i].Value = f.foldExpr(fl.Value)
		}
		return n
	case *ast.MemberAccess:
		n.Value = f.foldExpr(n.Value)
		return n
	case *ast.Call:
		for i, a := range n.Args {
			n.Args[i] = f.foldExpr(a)
		}
		return n
	case *ast.AssociatedCall:
		for i, a := range n.Args {
			n.Args[i] = f.foldExpr(a)
		}
		return n
	case *ast.Cast:
		n.Value = f.foldExpr(n.Value)
		return n
	case *ast.Unary:
		n.Operand = f.foldExpr(n.Operand)
		return n
	case *ast.Binary:
		n.Left = f.foldExpr(n.Left)
		n.Right = f.foldExpr(n.Right)
		return n
	case *ast.Ternary:
		n.Cond = f.foldExpr(n.Cond)
		n.Then = f.foldExpr(n.Then)
		n.Else = f.foldExpr(n.Else)
		return n
	default:
		return e
	}
}
