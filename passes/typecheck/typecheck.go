// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package typecheck implements pass 2 (spec.md §4.2): it assigns every
// expression a type, checking operator/cast/call/member-access rules
// along the way, and records the result in the shared type table.
package typecheck

import (
	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/diag"
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/symtab"
	"github.com/ProvableHQ/leo-sub003/types"
)

// checker carries the state shared across one program scope's worth of
// checking: which program it belongs to (for visibility gating) and the
// current function's declared return types (for Return statements).
type checker struct {
	st             *symtab.SymbolTable
	tt             *ast.TypeTable
	diags          *diag.Handler
	program        ident.Symbol
	output         []*types.Type
	currentVariant ast.FunctionVariant

	// futureProduced and sawAwait drive the "future-typed value returned
	// must be explicitly await-ed somewhere reachable" rule (spec.md §4.2)
	// for the current function: futureProduced is set whenever a
	// Future-typed expression is computed outside of an Await's operand,
	// sawAwait when an Await statement is seen anywhere in the body.
	futureProduced bool
	sawAwait       bool
	inAwait        bool
}

// Run type checks every function body in prog, recording each expression's
// type in tt.
func Run(prog *ast.Program, st *symtab.SymbolTable, tt *ast.TypeTable, diags *diag.Handler) {
	for _, scope := range prog.Scopes {
		c := &checker{st: st, tt: tt, diags: diags, program: scope.ProgramID}
		for _, m := range scope.Mappings {
			c.checkMapping(m)
		}
		for _, fn := range scope.Functions {
			c.checkFunction(fn)
		}
		if scope.Upgrade != nil && scope.Upgrade.Custom != nil {
			c.output = nil
			c.enterAndCheckBlock(scope.Upgrade.Custom)
		}
	}
}

// declCompatible reports whether a const/let binding's declared type accepts
// an initializer of type actual. It is Cmp with one relaxation: an array
// whose length is not yet known on either side is accepted on element type
// alone, since a declared length is only guaranteed to resolve to a literal
// by the end of const propagation (spec.md §3.2), which runs after this
// check.
func declCompatible(declared, actual *types.Type) bool {
	if declared == nil || actual == nil {
		return declared == actual
	}
	if declared.Kind != actual.Kind {
		return false
	}
	switch declared.Kind {
	case types.KindArray:
		if !declCompatible(declared.Elem, actual.Elem) {
			return false
		}
		if declared.Length == nil || actual.Length == nil {
			return declared.Length == actual.Length
		}
		if !declared.Length.Known || !actual.Length.Known {
			return true
		}
		return declared.Length.Value == actual.Length.Value
	case types.KindTuple:
		if len(declared.Elems) != len(actual.Elems) {
			return false
		}
		for i := range declared.Elems {
			if !declCompatible(declared.Elems[i], actual.Elems[i]) {
				return false
			}
		}
		return true
	default:
		return declared.Cmp(actual)
	}
}

func (c *checker) checkFunction(fn *ast.Function) {
	c.output = fn.Output
	c.currentVariant = fn.Variant
	c.futureProduced = false
	c.sawAwait = false
	if fn.Body == nil {
		return
	}
	c.st.EnterExistingScope(fn.Body.ID())
	for _, s := range fn.Body.Stmts {
		c.checkStmt(s)
	}
	c.st.ExitScope()
	if fn.Variant == ast.VariantAsyncTransition && c.futureProduced && !c.sawAwait {
		c.err(fn.Span(), 60, "async transition %s produces a future that is never await-ed", fn.Name)
	}
}

// checkMapping validates spec.md §4.2's "Mappings may not contain records;
// mapping keys/values are plaintext types only" rule.
func (c *checker) checkMapping(m *ast.Mapping) {
	c.checkPlaintextType(m.Key, m.Span(), "key")
	c.checkPlaintextType(m.Value, m.Span(), "value")
}

func (c *checker) checkPlaintextType(t *types.Type, span ident.Span, which string) {
	if t == nil {
		return
	}
	switch t.Kind {
	case types.KindMapping, types.KindFuture, types.KindOptional:
		c.err(span, 61, "mapping %s type %s is not a plaintext type", which, t)
	case types.KindComposite:
		program := t.CompositeProgram
		if program.IsZero() {
			program = c.program
		}
		if decl, ok := c.st.LookupComposite(c.program, ident.NewLocation(program, t.CompositeName)); ok && decl.Kind == ast.CompositeRecord {
			c.err(span, 62, "mapping %s may not be a record type (%s)", which, t)
		}
	case types.KindArray:
		c.checkPlaintextType(t.Elem, span, which)
	case types.KindTuple:
		for _, e := range t.Elems {
			c.checkPlaintextType(e, span, which)
		}
	}
}

func (c *checker) enterAndCheckBlock(b *ast.Block) {
	c.st.EnterExistingScope(b.ID())
	for _, s := range b.Stmts {
		c.checkStmt(s)
	}
	c.st.ExitScope()
}

func (c *checker) err(span ident.Span, kind int, format string, args ...interface{}) {
	c.diags.Emit(diag.New(diag.Type, kind, span, format, args...))
}

func (c *checker) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ConstDecl:
		valTy := c.checkExpr(n.Value)
		if n.Type != nil && !declCompatible(n.Type, valTy) {
			c.err(n.Span(), 1, "const %s declared as %s but initializer has type %s", n.Name, n.Type, valTy)
		}
	case *ast.Definition:
		valTy := c.checkExpr(n.Value)
		if n.Type != nil && !declCompatible(n.Type, valTy) {
			c.err(n.Span(), 2, "let binding declared as %s but initializer has type %s", n.Type, valTy)
		}
	case *ast.Assignment:
		placeTy := c.checkExpr(n.Place)
		valTy := c.checkExpr(n.Value)
		if !placeTy.Cmp(valTy) {
			c.err(n.Span(), 3, "cannot assign value of type %s to place of type %s", valTy, placeTy)
		}
	case *ast.Return:
		valTy := c.checkExpr(n.Value)
		if len(c.output) == 1 && !declCompatible(c.output[0], valTy) {
			c.err(n.Span(), 4, "function returns %s but this statement returns %s", c.output[0], valTy)
		} else if len(c.output) != 1 {
			want := types.NewTuple(c.output)
			if !declCompatible(want, valTy) {
				c.err(n.Span(), 4, "function returns %s but this statement returns %s", want, valTy)
			}
		}
	case *ast.Conditional:
		condTy := c.checkExpr(n.Cond)
		if !condTy.Cmp(types.Bool) {
			c.err(n.Cond.Span(), 5, "if condition must be bool, got %s", condTy)
		}
		c.enterAndCheckBlock(n.Then)
		if n.Else != nil {
			c.checkStmt(n.Else)
		}
	case *ast.Iteration:
		startTy := c.checkExpr(n.Start)
		stopTy := c.checkExpr(n.Stop)
		if !startTy.Cmp(n.Type) || !stopTy.Cmp(n.Type) {
			c.err(n.Span(), 6, "loop bounds must both have the counter's declared type %s", n.Type)
		}
		c.enterAndCheckBlock(n.Body)
	case *ast.Block:
		c.enterAndCheckBlock(n)
	case *ast.ExprStmt:
		c.checkExpr(n.Value)
	case *ast.Assert:
		leftTy := c.checkExpr(n.Left)
		if n.Kind == ast.AssertBool {
			if !leftTy.Cmp(types.Bool) {
				c.err(n.Span(), 7, "assert() argument must be bool, got %s", leftTy)
			}
			return
		}
		rightTy := c.checkExpr(n.Right)
		if !leftTy.IsComparable() || !leftTy.Cmp(rightTy) {
			c.err(n.Span(), 8, "assert_eq/assert_neq operands must share a comparable type, got %s and %s", leftTy, rightTy)
		}
	}
}

func (c *checker) checkExpr(e ast.Expr) *types.Type {
	var t *types.Type
	switch n := e.(type) {
	case *ast.Literal:
		t = literalType(n)
	case *ast.UnitExpr:
		t = types.Unit
	case *ast.Ident:
		t = c.checkIdent(n)
	case *ast.ArrayLit:
		t = c.checkArrayLit(n)
	case *ast.RepeatLit:
		elemTy := c.checkExpr(n.Elem)
		countTy := c.checkExpr(n.Count)
		if !countTy.Cmp(types.U32) {
			c.err(n.Count.Span(), 10, "repeat count must be u32, got %s", countTy)
		}
		t = types.NewArray(elemTy, types.UnknownLength(n.Span()))
	case *ast.ArrayAccess:
		arrTy := c.checkExpr(n.Array)
		idxTy := c.checkExpr(n.Index)
		if !idxTy.IsInteger() {
			c.err(n.Index.Span(), 11, "array index must be an integer, got %s", idxTy)
		}
		if arrTy != nil && arrTy.Kind == types.KindArray {
			t = arrTy.Elem
		} else {
			c.err(n.Array.Span(), 12, "cannot index non-array type %s", arrTy)
			t = types.Unit
		}
	case *ast.TupleLit:
		elems := make([]*types.Type, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = c.checkExpr(el)
		}
		t = types.NewTuple(elems)
	case *ast.TupleAccess:
		tupTy := c.checkExpr(n.Tuple)
		if tupTy == nil || tupTy.Kind != types.KindTuple || n.Index < 0 || n.Index >= len(tupTy.Elems) {
			c.err(n.Span(), 13, "tuple index %d out of range for %s", n.Index, tupTy)
			t = types.Unit
		} else {
			t = tupTy.Elems[n.Index]
		}
	case *ast.StructLit:
		t = c.checkStructLit(n)
	case *ast.MemberAccess:
		t = c.checkMemberAccess(n)
	case *ast.Call:
		t = c.checkCall(n)
	case *ast.AssociatedCall:
		t = c.checkAssociatedCall(n)
	case *ast.Cast:
		srcTy := c.checkExpr(n.Value)
		if !types.CanCast(srcTy, n.Target) {
			c.err(n.Span(), 14, "cannot cast %s to %s", srcTy, n.Target)
		}
		t = n.Target
	case *ast.Unary:
		t = c.checkUnary(n)
	case *ast.Binary:
		t = c.checkBinary(n)
	case *ast.Ternary:
		t = c.checkTernary(n)
	case *ast.Locator:
		t = c.checkLocator(n)
	case *ast.Await:
		t = c.checkAwait(n)
	default:
		t = types.Unit
	}
	if t == nil {
		t = types.Unit
	}
	if t.Kind == types.KindFuture && !c.inAwait {
		c.futureProduced = true
	}
	c.tt.Set(e.ID(), t)
	return t
}

// checkAwait validates `value.await()`: the operand must be a future, and
// checking it marks sawAwait so checkFunction's reachability gate is
// satisfied. The suppressed inAwait flag stops the operand's own
// Future-typed result from re-triggering futureProduced, since this is
// exactly the consumption the rule requires.
func (c *checker) checkAwait(n *ast.Await) *types.Type {
	c.inAwait = true
	valTy := c.checkExpr(n.Value)
	c.inAwait = false
	if valTy == nil || valTy.Kind != types.KindFuture {
		c.err(n.Span(), 63, "await requires a future, got %s", valTy)
	}
	c.sawAwait = true
	return types.Unit
}

func literalType(n *ast.Literal) *types.Type {
	switch n.Kind {
	case ast.LitBool:
		return types.Bool
	case ast.LitField:
		return types.Field
	case ast.LitGroup:
		return types.Group
	case ast.LitScalar:
		return types.Scalar
	case ast.LitAddress:
		return types.Address
	case ast.LitSignature:
		return types.Signature
	case ast.LitString:
		return types.String
	case ast.LitInteger:
		return &types.Type{Kind: types.KindInteger, Width: n.Width, Signed: n.Signed}
	default:
		// LitUnsuffixed: defaults to field, Leo's untyped-constant default
		// (spec.md §4.2, "An unsuffixed literal unifies with context; absent
		// context it defaults to field").
		return types.Field
	}
}

func (c *checker) checkIdent(n *ast.Ident) *types.Type {
	if len(n.Path) == 1 {
		name := n.Path[0]
		if sym, ok := c.st.Lookup(name); ok {
			return sym.Type
		}
		if v, ok := c.st.LookupConst(name); ok {
			return c.lazyConstType(v)
		}
		loc := ident.NewLocation(c.program, name)
		if sym, ok := c.st.LookupGlobal(c.program, loc); ok {
			return sym.Type
		}
		if v, ok := c.st.LookupGlobalConst(loc); ok {
			return c.lazyConstType(v)
		}
		c.err(n.Span(), 20, "undefined name %q", name)
		return types.Unit
	}
	loc := ident.NewLocation(n.Path[0], n.Path[1])
	if sym, ok := c.st.LookupGlobal(c.program, loc); ok {
		return sym.Type
	}
	if v, ok := c.st.LookupGlobalConst(loc); ok {
		return c.lazyConstType(v)
	}
	c.err(n.Span(), 21, "undefined or not visible: %s", loc)
	return types.Unit
}

// lazyConstType returns a previously-evaluated const's type if the type
// table already recorded it (it was checked once, at its own declaration
// site); otherwise re-derives it by checking the stored expression, which
// is always a Literal or other const-evaluable expression by the time this
// runs (const propagation's fixed point requires a prior type-check pass).
func (c *checker) lazyConstType(v ast.Expr) *types.Type {
	if ty, ok := c.tt.Lookup(v.ID()); ok {
		return ty
	}
	return c.checkExpr(v)
}

func (c *checker) checkArrayLit(n *ast.ArrayLit) *types.Type {
	if len(n.Elems) == 0 {
		return types.NewArray(types.Unit, types.KnownLength(0))
	}
	first := c.checkExpr(n.Elems[0])
	for _, el := range n.Elems[1:] {
		ty := c.checkExpr(el)
		if !ty.Cmp(first) {
			c.err(el.Span(), 22, "array elements must share a type: expected %s, got %s", first, ty)
		}
	}
	return types.NewArray(first, types.KnownLength(uint32(len(n.Elems))))
}

func (c *checker) checkStructLit(n *ast.StructLit) *types.Type {
	program := n.Program
	if program.IsZero() {
		program = c.program
	}
	loc := ident.NewLocation(program, n.Name)
	decl, ok := c.st.LookupComposite(c.program, loc)
	if !ok {
		c.err(n.Span(), 23, "undefined struct or record %s", loc)
		return types.Unit
	}
	if decl.Kind == ast.CompositeRecord {
		if len(decl.Members) == 0 || decl.Members[0].Name.String() != "owner" {
			c.err(n.Span(), 24, "record %s must declare `owner` as its first field", n.Name)
		}
	}
	provided := make(map[string]ast.Expr, len(n.Fields))
	for _, f := range n.Fields {
		provided[f.Name] = f.Value
	}
	for _, m := range decl.Members {
		val, ok := provided[m.Name.String()]
		if !ok {
			c.err(n.Span(), 25, "missing field %q in literal for %s", m.Name, n.Name)
			continue
		}
		ty := c.checkExpr(val)
		if !ty.Cmp(m.Type) {
			c.err(val.Span(), 26, "field %q expects %s, got %s", m.Name, m.Type, ty)
		}
	}
	return types.NewComposite(program, n.Name)
}

func (c *checker) checkMemberAccess(n *ast.MemberAccess) *types.Type {
	valTy := c.checkExpr(n.Value)
	if valTy == nil || valTy.Kind != types.KindComposite {
		c.err(n.Span(), 27, "cannot access member %q of non-composite type %s", n.Member, valTy)
		return types.Unit
	}
	program := valTy.CompositeProgram
	if program.IsZero() {
		program = c.program
	}
	decl, ok := c.st.LookupComposite(c.program, ident.NewLocation(program, valTy.CompositeName))
	if !ok {
		c.err(n.Span(), 28, "undefined composite %s", valTy)
		return types.Unit
	}
	for _, m := range decl.Members {
		if m.Name.String() == n.Member {
			return m.Type
		}
	}
	c.err(n.Span(), 29, "no member %q on %s", n.Member, valTy)
	return types.Unit
}

func (c *checker) checkCall(n *ast.Call) *types.Type {
	var loc ident.Location
	switch len(n.Callee) {
	case 1:
		loc = ident.NewLocation(c.program, n.Callee[0])
	case 2:
		loc = ident.NewLocation(n.Callee[0], n.Callee[1])
	default:
		c.err(n.Span(), 30, "malformed call target %s", n.Callee)
		return types.Unit
	}
	fn, ok := c.st.LookupFunction(c.program, loc)
	if !ok {
		c.err(n.Span(), 31, "undefined or not visible function %s", loc)
		for _, a := range n.Args {
			c.checkExpr(a)
		}
		return types.Unit
	}
	decl := fn.Decl
	if (decl.Variant == ast.VariantTransition || decl.Variant == ast.VariantAsyncTransition) &&
		(c.currentVariantIsTransition()) {
		c.err(n.Span(), 32, "a transition may not call another transition directly")
	}
	if len(n.Args) != len(decl.Params) {
		c.err(n.Span(), 33, "%s expects %d arguments, got %d", loc, len(decl.Params), len(n.Args))
	}
	for i, a := range n.Args {
		argTy := c.checkExpr(a)
		if i < len(decl.Params) && !declCompatible(decl.Params[i].Type, argTy) {
			c.err(a.Span(), 34, "argument %d to %s: expected %s, got %s", i, loc, decl.Params[i].Type, argTy)
		}
	}
	switch len(decl.Output) {
	case 0:
		return types.Unit
	case 1:
		return decl.Output[0]
	default:
		return types.NewTuple(decl.Output)
	}
}

// currentVariantIsTransition reports whether the function being checked,
// whose variant checkFunction records in currentVariant, is a transition or
// an async transition.
func (c *checker) currentVariantIsTransition() bool {
	return c.currentVariant == ast.VariantTransition || c.currentVariant == ast.VariantAsyncTransition
}

func (c *checker) checkAssociatedCall(n *ast.AssociatedCall) *types.Type {
	for _, a := range n.Args {
		c.checkExpr(a)
	}
	// Every core-function call is typed as field: there is no per-function
	// return-type table, and the number and types of the arguments are not
	// checked. Only the argument expressions themselves are type-checked.
	return types.Field
}

func (c *checker) checkUnary(n *ast.Unary) *types.Type {
	ty := c.checkExpr(n.Operand)
	switch n.Op {
	case types.OpNot:
		if !ty.Cmp(types.Bool) {
			c.err(n.Span(), 40, "! requires bool, got %s", ty)
		}
		return types.Bool
	case types.OpNeg:
		if !ty.IsNumeric() {
			c.err(n.Span(), 41, "unary - requires a numeric type, got %s", ty)
		}
		return ty
	case types.OpBitNot:
		if !ty.IsInteger() && !ty.Cmp(types.Bool) {
			c.err(n.Span(), 42, "~ requires an integer or bool, got %s", ty)
		}
		return ty
	default:
		if !ty.Cmp(types.Field) {
			c.err(n.Span(), 43, "%s requires field, got %s", n.Op, ty)
		}
		return types.Field
	}
}

func (c *checker) checkBinary(n *ast.Binary) *types.Type {
	lhs := c.checkExpr(n.Left)
	rhs := c.checkExpr(n.Right)
	result, ok := types.BinaryResult(n.Op, lhs, rhs)
	if !ok {
		c.err(n.Span(), 50, "operator %s not defined for %s and %s", n.Op, lhs, rhs)
		return types.Unit
	}
	return result
}

func (c *checker) checkTernary(n *ast.Ternary) *types.Type {
	condTy := c.checkExpr(n.Cond)
	if !condTy.Cmp(types.Bool) {
		c.err(n.Cond.Span(), 51, "ternary condition must be bool, got %s", condTy)
	}
	thenTy := c.checkExpr(n.Then)
	elseTy := c.checkExpr(n.Else)
	if !thenTy.Cmp(elseTy) {
		c.err(n.Span(), 52, "ternary branches must share a type: %s vs %s", thenTy, elseTy)
	}
	return thenTy
}

func (c *checker) checkLocator(n *ast.Locator) *types.Type {
	loc := ident.NewLocation(n.Program, n.Name)
	if sym, ok := c.st.LookupGlobal(c.program, loc); ok {
		return sym.Type
	}
	c.err(n.Span(), 53, "undefined or not visible: %s", loc)
	return types.Unit
}
