// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package interpreter is a thin tree-walking evaluator over values.Value,
// shared between constant propagation's folding and any debugger built on
// top of the same pipeline (spec.md §3.6, "Values implement ... shared
// between passes"). Eval returns an error for any expression it cannot
// reduce to a value (a name with no constant binding, a call, any other
// unsupported node); const propagation hands it every non-literal node and
// treats such an error as "not constant", keeping the node unfolded.
package interpreter

import (
	"fmt"
	"math/big"

	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/symtab"
	"github.com/ProvableHQ/leo-sub003/values"
)

// Env binds names to already-folded values within the expression currently
// being evaluated (loop counters, nested const declarations).
type Env map[ident.Symbol]values.Value

// Interp evaluates expressions against a symbol table for global constant
// and composite-layout lookups.
type Interp struct {
	st      *symtab.SymbolTable
	program ident.Symbol
}

// New returns an Interp resolving unqualified names against program.
func New(st *symtab.SymbolTable, program ident.Symbol) *Interp {
	return &Interp{st: st, program: program}
}

// WithProgram returns a shallow copy of in scoped to a different program,
// used when evaluating a locator or cross-program call's arguments.
func (in *Interp) WithProgram(program ident.Symbol) *Interp {
	return &Interp{st: in.st, program: program}
}

// Eval folds e to a value under env, the only extension point every other
// pass needs: const propagation calls this bottom-up as it rewrites the
// tree, and a future debugger could call it directly against the unrolled,
// flattened AST.
func (in *Interp) Eval(e ast.Expr, env Env) (values.Value, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return literalValue(n)
	case *ast.UnitExpr:
		return values.Unit{}, nil
	case *ast.Ident:
		return in.evalIdent(n, env)
	case *ast.ArrayLit:
		elems := make([]values.Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := in.Eval(el, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return values.TryMakeArray(elems)
	case *ast.RepeatLit:
		elem, err := in.Eval(n.Elem, env)
		if err != nil {
			return nil, err
		}
		countV, err := in.Eval(n.Count, env)
		if err != nil {
			return nil, err
		}
		count, ok := countV.(values.Integer).TryAsU32()
		if !ok {
			return nil, fmt.Errorf("repeat count is not a u32 constant")
		}
		elems := make([]values.Value, count)
		for i := range elems {
			elems[i] = elem
		}
		return values.TryMakeArray(elems)
	case *ast.ArrayAccess:
		arr, err := in.Eval(n.Array, env)
		if err != nil {
			return nil, err
		}
		idxV, err := in.Eval(n.Index, env)
		if err != nil {
			return nil, err
		}
		idx, ok := idxV.(values.Integer).TryAsU32()
		if !ok {
			return nil, fmt.Errorf("array index is not a u32 constant")
		}
		return values.ArrayIndex(arr, idx)
	case *ast.TupleLit:
		elems := make([]values.Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := in.Eval(el, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return values.TryMakeTuple(elems)
	case *ast.TupleAccess:
		tup, err := in.Eval(n.Tuple, env)
		if err != nil {
			return nil, err
		}
		return values.TupleIndex(tup, n.Index)
	case *ast.StructLit:
		return in.evalStructLit(n, env)
	case *ast.MemberAccess:
		v, err := in.Eval(n.Value, env)
		if err != nil {
			return nil, err
		}
		return values.MemberAccess(v, n.Member)
	case *ast.Cast:
		v, err := in.Eval(n.Value, env)
		if err != nil {
			return nil, err
		}
		return values.Cast(v, n.Target)
	case *ast.Unary:
		v, err := in.Eval(n.Operand, env)
		if err != nil {
			return nil, err
		}
		return values.Unary(n.Op, v)
	case *ast.Binary:
		l, err := in.Eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		r, err := in.Eval(n.Right, env)
		if err != nil {
			return nil, err
		}
		return values.Binary(n.Op, l, r)
	case *ast.Ternary:
		condV, err := in.Eval(n.Cond, env)
		if err != nil {
			return nil, err
		}
		if bool(condV.(values.Bool)) {
			return in.Eval(n.Then, env)
		}
		return in.Eval(n.Else, env)
	case *ast.Locator:
		loc := ident.NewLocation(n.Program, n.Name)
		return in.evalGlobal(loc)
	default:
		return nil, fmt.Errorf("interpreter: %T is not a compile-time constant expression", e)
	}
}

func literalValue(n *ast.Literal) (values.Value, error) {
	switch n.Kind {
	case ast.LitBool:
		return values.Bool(n.Bool), nil
	case ast.LitInteger:
		v, ok := new(big.Int).SetString(n.Text, 10)
		if !ok {
			return nil, fmt.Errorf("malformed integer literal %q", n.Text)
		}
		return values.NewInteger(v, n.Width, n.Signed), nil
	case ast.LitField, ast.LitUnsuffixed:
		v, ok := new(big.Int).SetString(n.Text, 10)
		if !ok {
			return nil, fmt.Errorf("malformed field literal %q", n.Text)
		}
		return values.Field{V: v}, nil
	case ast.LitGroup:
		v, ok := new(big.Int).SetString(n.Text, 10)
		if !ok {
			return nil, fmt.Errorf("malformed group literal %q", n.Text)
		}
		return values.Group{X: v}, nil
	case ast.LitScalar:
		v, ok := new(big.Int).SetString(n.Text, 10)
		if !ok {
			return nil, fmt.Errorf("malformed scalar literal %q", n.Text)
		}
		return values.Scalar{V: v}, nil
	case ast.LitAddress:
		return values.Address{Bech32: n.Text}, nil
	case ast.LitSignature:
		return values.Signature{Raw: n.Text}, nil
	case ast.LitString:
		return values.String(n.Text), nil
	default:
		return nil, fmt.Errorf("literalValue: unhandled literal kind %d", n.Kind)
	}
}

func (in *Interp) evalIdent(n *ast.Ident, env Env) (values.Value, error) {
	if len(n.Path) == 1 {
		if v, ok := env[n.Path[0]]; ok {
			return v, nil
		}
		if e, ok := in.st.LookupConst(n.Path[0]); ok {
			return in.Eval(e, env)
		}
		return in.evalGlobal(ident.NewLocation(in.program, n.Path[0]))
	}
	return in.evalGlobal(ident.NewLocation(n.Path[0], n.Path[1]))
}

func (in *Interp) evalGlobal(loc ident.Location) (values.Value, error) {
	e, ok := in.st.LookupGlobalConst(loc)
	if !ok {
		return nil, fmt.Errorf("interpreter: %s is not a known constant", loc)
	}
	return in.WithProgram(loc.Program).Eval(e, nil)
}

func (in *Interp) evalStructLit(n *ast.StructLit, env Env) (values.Value, error) {
	program := n.Program
	if program.IsZero() {
		program = in.program
	}
	decl, ok := in.st.LookupComposite(in.program, ident.NewLocation(program, n.Name))
	if !ok {
		return nil, fmt.Errorf("interpreter: undefined composite %s/%s", program, n.Name)
	}
	order := make([]string, len(decl.Members))
	for i, m := range decl.Members {
		order[i] = m.Name.String()
	}
	provided := make(map[string]values.Value, len(n.Fields))
	for _, f := range n.Fields {
		v, err := in.Eval(f.Value, env)
		if err != nil {
			return nil, err
		}
		provided[f.Name] = v
	}
	if decl.Kind == ast.CompositeRecord {
		owner, ok := provided["owner"].(values.Address)
		if !ok {
			return nil, fmt.Errorf("interpreter: record %s literal is missing an address owner", n.Name)
		}
		delete(provided, "owner")
		memberOrder := order[1:]
		vis := make(map[string]values.Visibility, len(memberOrder))
		return values.MakeRecord(memberOrder, provided, owner, vis, nil)
	}
	return values.MakeStruct(program, n.Name, order, provided)
}

// ValueToExpr re-materializes a folded value as an AST node carrying nb's
// next id and ident.DummySpan, used by const propagation to splice a
// folded constant back into the tree it is rewriting (spec.md §4.3).
func ValueToExpr(nb *ident.NodeBuilder, v values.Value) ast.Expr {
	fresh := ast.Base{NodeID: nb.NextID(), SpanV: ident.DummySpan}
	switch val := v.(type) {
	case values.Unit:
		return &ast.UnitExpr{Base: fresh}
	case values.Bool:
		return &ast.Literal{Base: fresh, Kind: ast.LitBool, Bool: bool(val)}
	case values.Integer:
		return &ast.Literal{Base: fresh, Kind: ast.LitInteger, Text: val.V.String(), Width: val.Width, Signed: val.Signed}
	case values.Field:
		return &ast.Literal{Base: fresh, Kind: ast.LitField, Text: val.V.String()}
	case values.Group:
		return &ast.Literal{Base: fresh, Kind: ast.LitGroup, Text: val.X.String()}
	case values.Scalar:
		return &ast.Literal{Base: fresh, Kind: ast.LitScalar, Text: val.V.String()}
	case values.Address:
		return &ast.Literal{Base: fresh, Kind: ast.LitAddress, Text: val.Bech32}
	case values.Signature:
		return &ast.Literal{Base: fresh, Kind: ast.LitSignature, Text: val.Raw}
	case values.String:
		return &ast.Literal{Base: fresh, Kind: ast.LitString, Text: string(val)}
	case values.Array:
		elems := make([]ast.Expr, len(val.Elems))
		for i, e := range val.Elems {
			elems[i] = ValueToExpr(nb, e)
		}
		return &ast.ArrayLit{Base: fresh, Elems: elems}
	case values.Tuple:
		elems := make([]ast.Expr, len(val.Elems))
		for i, e := range val.Elems {
			elems[i] = ValueToExpr(nb, e)
		}
		return &ast.TupleLit{Base: fresh, Elems: elems}
	case values.Struct:
		fields := make([]ast.StructLitField, len(val.Members))
		for i, m := range val.Members {
			fields[i] = ast.StructLitField{Name: m, Value: ValueToExpr(nb, val.Values[m])}
		}
		return &ast.StructLit{Base: fresh, Name: val.Name, Program: val.Program, Fields: fields}
	default:
		panic(fmt.Sprintf("ValueToExpr: unhandled value type %T", v))
	}
}
