// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package codegen implements pass 8 (spec.md §4.8): it walks the
// flattened AST per program scope, in composite- and import-post-order,
// allocating a fresh register per intermediate value and translating every
// operator into its Aleo opcode, then emits the program's constructor
// according to its declared upgrade variant.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/diag"
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/network"
	"github.com/ProvableHQ/leo-sub003/symtab"
	"github.com/ProvableHQ/leo-sub003/types"
)

// binaryOpcodes is the closed table mapping every language binary operator
// to its Aleo mnemonic (spec.md §4.8).
var binaryOpcodes = map[types.BinaryOp]string{
	types.OpAdd: "add", types.OpAddW: "add.w",
	types.OpSub: "sub", types.OpSubW: "sub.w",
	types.OpMul: "mul", types.OpMulW: "mul.w",
	types.OpDiv: "div", types.OpDivW: "div.w",
	types.OpRem:    "rem",
	types.OpPow:    "pow",
	types.OpShl:    "shl",
	types.OpShr:    "shr",
	types.OpBitAnd: "and",
	types.OpBitOr:  "or",
	types.OpBitXor: "xor",
	types.OpAnd:    "and",
	types.OpOr:     "or",
	types.OpEq:     "is.eq",
	types.OpNeq:    "is.neq",
	types.OpLt:     "lt",
	types.OpLte:    "lte",
	types.OpGt:     "gt",
	types.OpGte:    "gte",
}

var unaryOpcodes = map[types.UnaryOp]string{
	types.OpNeg:    "neg",
	types.OpNot:    "not",
	types.OpBitNot: "not",
	types.OpSquare: "square",
	types.OpSqrt:   "sqrt",
}

// Run emits the Aleo bytecode text for every program scope in prog, in
// source order. Diagnostics (cyclic composite graph, malformed
// constructor) are recorded on diags; the returned text is only meaningful
// if diags.HasErrors() is false afterward (spec.md §7, "no partial output
// is written").
func Run(prog *ast.Program, st *symtab.SymbolTable, tt *ast.TypeTable, nb *ident.NodeBuilder, net network.Config, diags *diag.Handler) string {
	var sb strings.Builder
	for _, scope := range prog.Scopes {
		g := &generator{st: st, tt: tt, nb: nb, net: net, diags: diags, program: scope.ProgramID, sb: &sb}
		g.emitProgram(scope)
	}
	return sb.String()
}

type generator struct {
	st      *symtab.SymbolTable
	tt      *ast.TypeTable
	nb      *ident.NodeBuilder
	net     network.Config
	diags   *diag.Handler
	program ident.Symbol
	sb      *strings.Builder

	regs    map[ident.Symbol]string
	counter int
}

func (g *generator) emitProgram(scope *ast.ProgramScope) {
	imports, err := g.st.ImportOrder(scope.ProgramID)
	if err != nil {
		g.diags.Emit(diag.New(diag.Codegen, 1, scope.Span(), "cyclic program import graph: %s", err))
		return
	}
	for _, imp := range imports {
		fmt.Fprintf(g.sb, "import %s;\n", imp)
	}
	fmt.Fprintf(g.sb, "program %s;\n", scope.ProgramID)

	order, err := g.st.CompositeOrder()
	if err != nil {
		g.diags.Emit(diag.New(diag.Codegen, 2, scope.Span(), "cyclic composite dependency graph: %s", err))
		return
	}
	for _, loc := range order {
		if loc.Program != scope.ProgramID {
			continue
		}
		if decl, ok := g.st.LookupComposite(scope.ProgramID, loc); ok {
			g.emitComposite(decl)
		}
	}

	for _, m := range scope.Mappings {
		fmt.Fprintf(g.sb, "mapping %s:\n    key as %s.public;\n    value as %s.public;\n", m.Name, m.Key, m.Value)
	}

	for _, fn := range scope.Functions {
		switch fn.Variant {
		case ast.VariantInline, ast.VariantScript, ast.VariantAsyncFunction:
			// Inline/Script are consumed by earlier passes; AsyncFunction
			// is never emitted standalone, only attached to the
			// AsyncTransition that calls it (SPEC_FULL.md §C.3).
			continue
		default:
			g.emitFunction(scope, fn)
		}
	}

	g.emitConstructor(scope)
}

// emitComposite emits a struct or record declaration. A record's `owner`
// member is always its first (the type checker enforces this) and gains no
// explicit mode tag other than the default private; other record fields
// carry their declared visibility, structs are always public.
func (g *generator) emitComposite(decl *ast.Composite) {
	keyword := "struct"
	if decl.Kind == ast.CompositeRecord {
		keyword = "record"
	}
	fmt.Fprintf(g.sb, "%s %s:\n", keyword, decl.Name)
	for _, m := range decl.Members {
		mode := "private"
		if decl.Kind == ast.CompositeStruct {
			mode = "public"
		} else if m.Mode != ast.ModeNone {
			mode = modeString(m.Mode)
		}
		fmt.Fprintf(g.sb, "    %s as %s.%s;\n", m.Name, m.Type, mode)
	}
}

func modeString(m ast.Mode) string {
	switch m {
	case ast.ModePublic:
		return "public"
	case ast.ModeConstant:
		return "constant"
	default:
		return "private"
	}
}

// emitFunction lowers one callable, resetting register allocation for its
// own body (and, for an AsyncTransition, again for its attached finalize
// body — the two share no registers, SPEC_FULL.md §C.3).
func (g *generator) emitFunction(scope *ast.ProgramScope, fn *ast.Function) {
	keyword := "closure"
	if fn.Variant == ast.VariantTransition || fn.Variant == ast.VariantAsyncTransition {
		keyword = "function"
	}
	fmt.Fprintf(g.sb, "%s %s:\n", keyword, fn.Name)

	g.regs = make(map[ident.Symbol]string)
	g.counter = 0
	for _, p := range fn.Params {
		r := g.fresh()
		g.regs[p.Name] = r
		fmt.Fprintf(g.sb, "    input %s as %s.%s;\n", r, p.Type, modeString(p.Mode))
	}

	var body strings.Builder
	g.emitBody(&body, fn.Body)

	var outputs strings.Builder
	for i, out := range fn.Output {
		r := g.emitReturnComponent(&body, fn.Body, i, len(fn.Output))
		fmt.Fprintf(&outputs, "    output %s as %s.%s;\n", r, out, modeString(firstOr(fn.Modes, i)))
	}

	if body.Len() == 0 {
		// Aleo forbids an empty instruction list (SPEC_FULL.md §C.4).
		g.sb.WriteString("    assert.eq true true;\n")
	}
	g.sb.WriteString(body.String())
	g.sb.WriteString(outputs.String())

	if fn.Variant == ast.VariantAsyncTransition && !fn.Finalize.IsZero() {
		g.emitFinalize(scope, fn)
	}
}

func firstOr(modes []ast.Mode, i int) ast.Mode {
	if i < len(modes) {
		return modes[i]
	}
	return ast.ModeNone
}

// emitFinalize emits the attached finalize stanza for an AsyncTransition,
// looked up by its synthesized Location (SPEC_FULL.md §C.3).
func (g *generator) emitFinalize(scope *ast.ProgramScope, caller *ast.Function) {
	loc := ident.NewLocation(scope.ProgramID, caller.Finalize)
	sym, ok := g.st.LookupFunction(scope.ProgramID, loc)
	if !ok {
		g.diags.Emit(diag.New(diag.Codegen, 3, caller.Span(), "async transition %s references unknown finalize %s", caller.Name, caller.Finalize))
		return
	}
	fmt.Fprintf(g.sb, "finalize %s:\n", sym.Decl.Name)

	g.regs = make(map[ident.Symbol]string)
	g.counter = 0
	for _, p := range sym.Decl.Params {
		r := g.fresh()
		g.regs[p.Name] = r
		fmt.Fprintf(g.sb, "    input %s as %s.public;\n", r, p.Type)
	}
	var body strings.Builder
	g.emitBody(&body, sym.Decl.Body)
	if body.Len() == 0 {
		g.sb.WriteString("    assert.eq true true;\n")
	}
	g.sb.WriteString(body.String())
}

// emitBody lowers every statement of a flattened function body (only
// straight-line Definition/Assignment/Assert/ExprStmt/ConstDecl remain,
// plus the single fallthrough Return handled separately by the caller).
func (g *generator) emitBody(out *strings.Builder, body *ast.Block) {
	for _, s := range body.Stmts {
		switch n := s.(type) {
		case *ast.ConstDecl:
			g.regs[n.Name] = g.emitExpr(out, n.Value)
		case *ast.Definition:
			if n.Place.IsMultiple() {
				// A multi-valued call result bound via tuple destructuring
				// of a Call/AssociatedCall's registers (destructuring has
				// already split every other tuple by this point).
				r := g.emitExpr(out, n.Value)
				for _, name := range n.Place.Multiple {
					g.regs[name] = r
				}
				continue
			}
			g.regs[*n.Place.Single] = g.emitExpr(out, n.Value)
		case *ast.Assignment:
			if id, ok := n.Place.(*ast.Ident); ok && len(id.Path) == 1 {
				g.regs[id.Path[0]] = g.emitExpr(out, n.Value)
			}
		case *ast.ExprStmt:
			g.emitExpr(out, n.Value)
		case *ast.Assert:
			g.emitAssert(out, n)
		case *ast.Return:
			// Handled by the caller once, after the loop.
		default:
			g.diags.Emit(diag.New(diag.Codegen, 9, s.Span(), "unsupported statement in flattened body: %T", s))
		}
	}
}

func (g *generator) emitAssert(out *strings.Builder, n *ast.Assert) {
	switch n.Kind {
	case ast.AssertBool:
		r := g.emitExpr(out, n.Left)
		fmt.Fprintf(out, "    assert.eq %s true;\n", r)
	case ast.AssertEq:
		l := g.emitExpr(out, n.Left)
		r := g.emitExpr(out, n.Right)
		fmt.Fprintf(out, "    assert.eq %s %s;\n", l, r)
	case ast.AssertNeq:
		l := g.emitExpr(out, n.Left)
		r := g.emitExpr(out, n.Right)
		fmt.Fprintf(out, "    assert.neq %s %s;\n", l, r)
	}
}

// emitReturnComponent resolves output i of the function's single merged
// Return expression to a register, splitting a tuple-valued return across
// its components via TupleAccess when arity > 1.
func (g *generator) emitReturnComponent(out *strings.Builder, body *ast.Block, i, arity int) string {
	ret := lastReturn(body)
	if ret == nil {
		return "r0"
	}
	if arity <= 1 {
		return g.emitExpr(out, ret.Value)
	}
	acc := &ast.TupleAccess{Base: ast.Base{NodeID: g.nb.NextID(), SpanV: ident.DummySpan}, Tuple: ret.Value, Index: i}
	if ty, ok := g.tt.Lookup(ret.Value.ID()); ok && ty.Kind == types.KindTuple && i < len(ty.Elems) {
		g.tt.Set(acc.ID(), ty.Elems[i])
	}
	return g.emitExpr(out, acc)
}

func lastReturn(body *ast.Block) *ast.Return {
	for i := len(body.Stmts) - 1; i >= 0; i-- {
		if r, ok := body.Stmts[i].(*ast.Return); ok {
			return r
		}
	}
	return nil
}

func (g *generator) fresh() string {
	r := fmt.Sprintf("r%d", g.counter)
	g.counter++
	return r
}

// emitExpr lowers e to a register holding its value, emitting one Aleo
// instruction per operator node into out.
func (g *generator) emitExpr(out *strings.Builder, e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Ident:
		if len(n.Path) == 1 {
			if r, ok := g.regs[n.Path[0]]; ok {
				return r
			}
		}
		return n.Path.String()
	case *ast.Literal:
		return literalText(n)
	case *ast.UnitExpr:
		return "()"
	case *ast.Locator:
		return n.Program.String() + "/" + n.Name.String()
	case *ast.Binary:
		l := g.emitExpr(out, n.Left)
		r := g.emitExpr(out, n.Right)
		op, ok := binaryOpcodes[n.Op]
		if !ok {
			g.diags.Emit(diag.New(diag.Codegen, 10, n.Span(), "no opcode mapping for operator %s", n.Op))
			op = "nop"
		}
		dst := g.fresh()
		fmt.Fprintf(out, "    %s %s %s into %s;\n", op, l, r, dst)
		return dst
	case *ast.Unary:
		v := g.emitExpr(out, n.Operand)
		op, ok := unaryOpcodes[n.Op]
		if !ok {
			g.diags.Emit(diag.New(diag.Codegen, 11, n.Span(), "no opcode mapping for operator %s", n.Op))
			op = "nop"
		}
		dst := g.fresh()
		fmt.Fprintf(out, "    %s %s into %s;\n", op, v, dst)
		return dst
	case *ast.Ternary:
		c := g.emitExpr(out, n.Cond)
		t := g.emitExpr(out, n.Then)
		e2 := g.emitExpr(out, n.Else)
		dst := g.fresh()
		fmt.Fprintf(out, "    ternary %s %s %s into %s;\n", c, t, e2, dst)
		return dst
	case *ast.Cast:
		v := g.emitExpr(out, n.Value)
		dst := g.fresh()
		fmt.Fprintf(out, "    cast %s into %s as %s;\n", v, dst, n.Target)
		return dst
	case *ast.StructLit:
		args := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			args[i] = g.emitExpr(out, f.Value)
		}
		dst := g.fresh()
		name := n.Name.String()
		if !n.Program.IsZero() {
			name = n.Program.String() + "/" + name
		}
		fmt.Fprintf(out, "    cast %s into %s as %s;\n", strings.Join(args, " "), dst, name)
		return dst
	case *ast.ArrayLit:
		args := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			args[i] = g.emitExpr(out, el)
		}
		dst := g.fresh()
		ty, _ := g.tt.Lookup(n.ID())
		fmt.Fprintf(out, "    cast %s into %s as %s;\n", strings.Join(args, " "), dst, ty)
		return dst
	case *ast.RepeatLit:
		count := arrayLitCount(g.tt, n)
		elemReg := g.emitExpr(out, n.Elem)
		args := make([]string, count)
		for i := range args {
			args[i] = elemReg
		}
		dst := g.fresh()
		ty, _ := g.tt.Lookup(n.ID())
		fmt.Fprintf(out, "    cast %s into %s as %s;\n", strings.Join(args, " "), dst, ty)
		return dst
	case *ast.MemberAccess:
		v := g.emitExpr(out, n.Value)
		dst := g.fresh()
		fmt.Fprintf(out, "    %s.%s into %s;\n", v, n.Member, dst)
		return dst
	case *ast.ArrayAccess:
		arr := g.emitExpr(out, n.Array)
		idx := g.emitExpr(out, n.Index)
		dst := g.fresh()
		fmt.Fprintf(out, "    %s[%s] into %s;\n", arr, idx, dst)
		return dst
	case *ast.TupleAccess:
		t := g.emitExpr(out, n.Tuple)
		dst := g.fresh()
		fmt.Fprintf(out, "    %s.%d into %s;\n", t, n.Index, dst)
		return dst
	case *ast.Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = g.emitExpr(out, a)
		}
		dst := g.fresh()
		fmt.Fprintf(out, "    call %s %s into %s;\n", n.Callee, strings.Join(args, " "), dst)
		return dst
	case *ast.AssociatedCall:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = g.emitExpr(out, a)
		}
		dst := g.fresh()
		fmt.Fprintf(out, "    %s::%s %s into %s;\n", n.Type, n.Method, strings.Join(args, " "), dst)
		return dst
	case *ast.Await:
		v := g.emitExpr(out, n.Value)
		fmt.Fprintf(out, "    await %s;\n", v)
		return v
	default:
		g.diags.Emit(diag.New(diag.Codegen, 12, e.Span(), "unsupported expression in codegen: %T", e))
		return "r0"
	}
}

func arrayLitCount(tt *ast.TypeTable, n *ast.RepeatLit) int {
	if ty, ok := tt.Lookup(n.ID()); ok && ty.Length != nil && ty.Length.Known {
		return int(ty.Length.Value)
	}
	if lit, ok := n.Count.(*ast.Literal); ok {
		if v, err := strconv.Atoi(lit.Text); err == nil {
			return v
		}
	}
	return 0
}

func literalText(n *ast.Literal) string {
	switch n.Kind {
	case ast.LitBool:
		if n.Bool {
			return "true"
		}
		return "false"
	case ast.LitInteger:
		sign := "u"
		if n.Signed {
			sign = "i"
		}
		return fmt.Sprintf("%s%s%d", n.Text, sign, n.Width)
	case ast.LitField:
		return n.Text + "field"
	case ast.LitGroup:
		return n.Text + "group"
	case ast.LitScalar:
		return n.Text + "scalar"
	case ast.LitAddress, ast.LitSignature, ast.LitUnsuffixed:
		return n.Text
	case ast.LitString:
		return strconv.Quote(n.Text)
	default:
		return n.Text
	}
}

// emitConstructor emits the program's upgrade-authorization block, run
// through validateConstructor first (spec.md §4.8).
func (g *generator) emitConstructor(scope *ast.ProgramScope) {
	c := scope.Upgrade
	variant := ast.UpgradeNone
	if c != nil {
		variant = c.Variant
	}
	if err := validateConstructor(c, g.net); err != nil {
		g.diags.Emit(diag.New(diag.Codegen, 20, scope.Span(), "malformed constructor: %s", err))
		return
	}

	g.sb.WriteString("constructor:\n")
	switch variant {
	case ast.UpgradeNone:
		g.sb.WriteString("    assert.eq edition 0u16;\n")
	case ast.UpgradeAdmin:
		fmt.Fprintf(g.sb, "    assert.eq program_owner %s;\n", c.AdminAddress)
	case ast.UpgradeChecksum:
		g.regs = make(map[ident.Symbol]string)
		g.counter = 0
		var body strings.Builder
		key := g.emitExpr(&body, c.ChecksumKey)
		g.sb.WriteString(body.String())
		fmt.Fprintf(g.sb, "    branch.eq edition 0u16 to end;\n    get %s[%s] into r%d;\n    assert.eq checksum r%d;\n    position end;\n", c.ChecksumMapping, key, g.counter, g.counter)
	case ast.UpgradeCustom:
		g.regs = make(map[ident.Symbol]string)
		g.counter = 0
		var body strings.Builder
		g.emitBody(&body, c.Custom)
		g.sb.WriteString(body.String())
	}
}

// validateConstructor rejects malformed constructor shapes, parameterized
// by the target network (spec.md §4.8, "fed through a validator").
func validateConstructor(c *ast.Constructor, net network.Config) error {
	if c == nil {
		return nil // UpgradeNone
	}
	switch c.Variant {
	case ast.UpgradeAdmin:
		if strings.TrimSpace(c.AdminAddress) == "" {
			return fmt.Errorf("admin upgrade constructor requires a non-empty address")
		}
	case ast.UpgradeChecksum:
		if c.ChecksumMapping.IsZero() {
			return fmt.Errorf("checksum upgrade constructor requires a mapping")
		}
		if c.ChecksumKey == nil {
			return fmt.Errorf("checksum upgrade constructor requires a key expression")
		}
		if net.Network == network.CanaryV0 {
			return fmt.Errorf("checksum upgrade constructors are not yet authorized on %s", net.Network)
		}
	case ast.UpgradeCustom:
		if c.Custom == nil {
			return fmt.Errorf("custom upgrade constructor requires a body")
		}
	}
	return nil
}
