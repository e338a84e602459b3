// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package ast

import (
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/types"
)

// Expr is any expression node (spec.md §3.3). The authoritative type of an
// Expr lives in the process-wide type table (spec.md §3.5), keyed by ID();
// Expr itself never caches a type, so every pass that rebuilds a node must
// re-register it in the type table rather than accidentally trusting a
// stale cached value.
type Expr interface {
	Node
	exprNode()
}

// LiteralKind tags which primitive suffix a Literal expression carries.
type LiteralKind int

// Every primitive literal suffix Leo source supports.
const (
	LitBool LiteralKind = iota
	LitField
	LitGroup
	LitScalar
	LitAddress
	LitSignature
	LitInteger // Width/Signed on Literal carry the suffix, e.g. `5u8`
	LitString
	LitUnsuffixed // no suffix yet; Unknown until unified with context
)

// Ident is a (possibly module-qualified) path reference to a variable,
// constant, or function, e.g. `x` or `foo.aleo/bar`.
type Ident struct {
	Base
	Path ident.Path
}

func (*Ident) exprNode() {}

// Literal is any primitive-suffixed constant, e.g. `5u8`, `true`, `1field`.
type Literal struct {
	Base
	Kind   LiteralKind
	Bool   bool
	Text   string // raw digits/bech32/string payload
	Width  int    // integer-only
	Signed bool   // integer-only
}

func (*Literal) exprNode() {}

// ArrayLit is an array literal, e.g. `[1u8, 2u8, 3u8]`.
type ArrayLit struct {
	Base
	Elems []Expr
}

func (*ArrayLit) exprNode() {}

// RepeatLit is a repeat-array literal, e.g. `[0u8; 5u32]`.
type RepeatLit struct {
	Base
	Elem  Expr
	Count Expr // must const-evaluate to u32 by the end of const propagation
}

func (*RepeatLit) exprNode() {}

// ArrayAccess is `array[index]`.
type ArrayAccess struct {
	Base
	Array Expr
	Index Expr
}

func (*ArrayAccess) exprNode() {}

// TupleLit is a tuple literal, e.g. `(1u8, true)`.
type TupleLit struct {
	Base
	Elems []Expr
}

func (*TupleLit) exprNode() {}

// TupleAccess is `tuple.N` for a literal constant index N.
type TupleAccess struct {
	Base
	Tuple Expr
	Index int
}

func (*TupleAccess) exprNode() {}

// StructLit is a struct or record literal, e.g. `Token { owner: a, amount: 5u64 }`.
type StructLit struct {
	Base
	Name    ident.Symbol
	Program ident.Symbol // zero Symbol means "current program"
	Fields  []StructLitField
}

func (*StructLit) exprNode() {}

// StructLitField is one `name: value` entry of a StructLit.
type StructLitField struct {
	Name  string
	Value Expr
}

// MemberAccess is `value.field` for a struct or record.
type MemberAccess struct {
	Base
	Value  Expr
	Member string
}

func (*MemberAccess) exprNode() {}

// Call is a direct function call, e.g. `f(a, b)`, possibly module-qualified.
type Call struct {
	Base
	Callee ident.Path
	Args   []Expr
}

func (*Call) exprNode() {}

// AssociatedCall is a call into the Aleo core library, e.g.
// `BHP256::hash_to_field(x)`.
type AssociatedCall struct {
	Base
	Type   ident.Symbol // the core-library associated type, e.g. "BHP256"
	Method string
	Args   []Expr
}

func (*AssociatedCall) exprNode() {}

// Cast is `value as T`.
type Cast struct {
	Base
	Value  Expr
	Target *types.Type
}

func (*Cast) exprNode() {}

// Unary is a unary operator applied to an operand.
type Unary struct {
	Base
	Op      types.UnaryOp
	Operand Expr
}

func (*Unary) exprNode() {}

// Binary is a binary operator applied to two operands.
type Binary struct {
	Base
	Op          types.BinaryOp
	Left, Right Expr
}

func (*Binary) exprNode() {}

// Ternary is `cond ? then : otherwise`.
type Ternary struct {
	Base
	Cond, Then, Else Expr
}

func (*Ternary) exprNode() {}

// Locator is a fully program-qualified reference, e.g. `foo.aleo/bar`, used
// where Leo requires an explicit program id (imports, associated calls
// across programs).
type Locator struct {
	Base
	Program ident.Symbol
	Name    ident.Symbol
}

func (*Locator) exprNode() {}

// UnitExpr is the single value `()` of the unit type.
type UnitExpr struct {
	Base
}

func (*UnitExpr) exprNode() {}

// Await is `value.await()`, the explicit consumption of a Future returned
// by an async transition's paired finalize call (spec.md §4.2, "the
// future-typed value returned must be explicitly await-ed somewhere
// reachable").
type Await struct {
	Base
	Value Expr
}

func (*Await) exprNode() {}
