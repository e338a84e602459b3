// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package types implements the Leo type lattice (spec.md §3.2): primitives,
// arrays, tuples, composite (struct/record) references, mappings, futures
// and optionals, plus the structural/nominal equality rules the rest of the
// compiler relies on.
package types

import (
	"fmt"
	"strings"

	"github.com/ProvableHQ/leo-sub003/ident"
)

// Kind discriminates the members of the type lattice.
type Kind int

// Each Kind corresponds to one variant in spec.md §3.2.
const (
	KindBool Kind = iota
	KindField
	KindGroup
	KindScalar
	KindSignature
	KindAddress
	KindInteger // width+signedness carried in Type.Width/Signed
	KindString
	KindComposite // struct or record, nominal, name+optional program qualifier
	KindArray
	KindTuple
	KindMapping
	KindFuture
	KindOptional
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindField:
		return "field"
	case KindGroup:
		return "group"
	case KindScalar:
		return "scalar"
	case KindSignature:
		return "signature"
	case KindAddress:
		return "address"
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindComposite:
		return "composite"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindMapping:
		return "mapping"
	case KindFuture:
		return "future"
	case KindOptional:
		return "optional"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Type is the datastructure representing any Leo type. It is recursive for
// container types (array, tuple, mapping, future, optional).
type Type struct {
	Kind Kind

	// Integer-only.
	Width  int // 8, 16, 32, 64, 128
	Signed bool

	// Composite-only: the composite's name, and the program it's
	// declared in if referenced across a program boundary (nominal
	// equality keys off both, spec.md §3.2).
	CompositeName    ident.Symbol
	CompositeProgram ident.Symbol // zero Symbol means "current program"

	// Array-only.
	Elem   *Type
	Length *ArrayLength

	// Tuple-only.
	Elems []*Type

	// Mapping-only.
	Key   *Type
	Value *Type

	// Future-only: the signature (parameter types) of the finalize call
	// this future is a handle to.
	FutureParams []*Type

	// Optional-only.
	Inner *Type
}

// ArrayLength is the length operand of an Array type. Before const
// propagation finishes it may be an unevaluated expression; by spec.md
// §3.2 it MUST be a literal u32 constant by the time const propagation
// completes.
type ArrayLength struct {
	Known bool
	Value uint32
	Span  ident.Span

	// Expr holds the unevaluated length expression for a declared type
	// written with a symbolic length (e.g. `[u8; N]` where N is a named
	// constant), so passes/constprop has something to fold once the
	// constants it refers to are resolved. It is declared as interface{}
	// rather than ast.Expr because types is imported by ast and an ast.Expr
	// field here would be an import cycle; passes/constprop is the sole
	// consumer and type-asserts it back to ast.Expr.
	Expr interface{}
}

// KnownLength returns an ArrayLength already resolved to value.
func KnownLength(value uint32) *ArrayLength {
	return &ArrayLength{Known: true, Value: value}
}

// UnknownLength returns an ArrayLength not yet evaluated to a constant,
// remembering span for the "unevaluated array length" diagnostic. Used for
// lengths that arise internally (e.g. a RepeatLit's count before it is
// folded) rather than from a symbolic source-level expression.
func UnknownLength(span ident.Span) *ArrayLength {
	return &ArrayLength{Known: false, Span: span}
}

// UnresolvedLength returns an ArrayLength carrying a symbolic length
// expression (expr must be an ast.Expr) not yet folded to a literal.
func UnresolvedLength(expr interface{}, span ident.Span) *ArrayLength {
	return &ArrayLength{Known: false, Span: span, Expr: expr}
}

// Convenience primitive constructors.
var (
	Bool      = &Type{Kind: KindBool}
	Field     = &Type{Kind: KindField}
	Group     = &Type{Kind: KindGroup}
	Scalar    = &Type{Kind: KindScalar}
	Signature = &Type{Kind: KindSignature}
	Address   = &Type{Kind: KindAddress}
	String    = &Type{Kind: KindString}
	Unit      = &Type{Kind: KindTuple, Elems: nil} // 0-tuple
)

// U8, U16, ... I128 are the integer primitives.
var (
	U8   = &Type{Kind: KindInteger, Width: 8, Signed: false}
	U16  = &Type{Kind: KindInteger, Width: 16, Signed: false}
	U32  = &Type{Kind: KindInteger, Width: 32, Signed: false}
	U64  = &Type{Kind: KindInteger, Width: 64, Signed: false}
	U128 = &Type{Kind: KindInteger, Width: 128, Signed: false}
	I8   = &Type{Kind: KindInteger, Width: 8, Signed: true}
	I16  = &Type{Kind: KindInteger, Width: 16, Signed: true}
	I32  = &Type{Kind: KindInteger, Width: 32, Signed: true}
	I64  = &Type{Kind: KindInteger, Width: 64, Signed: true}
	I128 = &Type{Kind: KindInteger, Width: 128, Signed: true}
)

// NewComposite builds a nominal reference to a struct or record.
func NewComposite(program, name ident.Symbol) *Type {
	return &Type{Kind: KindComposite, CompositeProgram: program, CompositeName: name}
}

// NewArray builds an Array(element, length) type.
func NewArray(elem *Type, length *ArrayLength) *Type {
	return &Type{Kind: KindArray, Elem: elem, Length: length}
}

// NewTuple builds a Tuple([T]) type of arbitrary arity (0 is the unit type).
func NewTuple(elems []*Type) *Type {
	return &Type{Kind: KindTuple, Elems: elems}
}

// NewMapping builds a Mapping(key, value) type.
func NewMapping(key, value *Type) *Type {
	return &Type{Kind: KindMapping, Key: key, Value: value}
}

// NewFuture builds a Future(signature) type, the opaque handle to a
// pending finalize call.
func NewFuture(params []*Type) *Type {
	return &Type{Kind: KindFuture, FutureParams: params}
}

// NewOptional wraps inner in an Optional<T>.
func NewOptional(inner *Type) *Type {
	return &Type{Kind: KindOptional, Inner: inner}
}

// IsInteger reports whether t is any signed or unsigned integer width.
func (t *Type) IsInteger() bool {
	return t != nil && t.Kind == KindInteger
}

// IsNumeric reports whether t supports the arithmetic operators (integer,
// field, group, scalar).
func (t *Type) IsNumeric() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindInteger, KindField, KindGroup, KindScalar:
		return true
	default:
		return false
	}
}

// IsUnit reports whether t is the 0-arity tuple.
func (t *Type) IsUnit() bool {
	return t != nil && t.Kind == KindTuple && len(t.Elems) == 0
}

// String renders t the way Leo source would spell it.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindInteger:
		sign := "u"
		if t.Signed {
			sign = "i"
		}
		return fmt.Sprintf("%s%d", sign, t.Width)
	case KindComposite:
		if !t.CompositeProgram.IsZero() {
			return t.CompositeProgram.String() + "/" + t.CompositeName.String()
		}
		return t.CompositeName.String()
	case KindArray:
		length := "?"
		if t.Length != nil && t.Length.Known {
			length = fmt.Sprintf("%d", t.Length.Value)
		}
		return fmt.Sprintf("[%s; %s]", t.Elem, length)
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindMapping:
		return fmt.Sprintf("mapping %s => %s", t.Key, t.Value)
	case KindFuture:
		parts := make([]string, len(t.FutureParams))
		for i, p := range t.FutureParams {
			parts[i] = p.String()
		}
		return "Future<" + strings.Join(parts, ", ") + ">"
	case KindOptional:
		return "Optional<" + t.Inner.String() + ">"
	default:
		return t.Kind.String()
	}
}

// Cmp reports whether t and other denote the same type. Primitive and
// structural kinds (array, tuple, mapping, future, optional) compare by
// shape; composite kinds compare nominally by (program, name) per spec.md
// §3.2 ("Type equality is structural except composites, which are
// nominal.").
func (t *Type) Cmp(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindInteger:
		return t.Width == other.Width && t.Signed == other.Signed
	case KindComposite:
		return t.CompositeName == other.CompositeName && t.CompositeProgram == other.CompositeProgram
	case KindArray:
		if !t.Elem.Cmp(other.Elem) {
			return false
		}
		if t.Length == nil || other.Length == nil {
			return t.Length == other.Length
		}
		if !t.Length.Known || !other.Length.Known {
			// An unevaluated length never compares equal, not even to
			// the same expression, so callers must wait for const
			// propagation to resolve both lengths.
			return false
		}
		return t.Length.Value == other.Length.Value
	case KindTuple:
		if len(t.Elems) != len(other.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].Cmp(other.Elems[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		return t.Key.Cmp(other.Key) && t.Value.Cmp(other.Value)
	case KindFuture:
		if len(t.FutureParams) != len(other.FutureParams) {
			return false
		}
		for i := range t.FutureParams {
			if !t.FutureParams[i].Cmp(other.FutureParams[i]) {
				return false
			}
		}
		return true
	case KindOptional:
		return t.Inner.Cmp(other.Inner)
	default:
		return true // remaining kinds carry no extra fields
	}
}

// IsComparable reports whether == / != are permitted between two values of
// this type, per spec.md §4.2 ("permitted on all comparable types including
// tuples and structs"). Mappings and futures are never comparable.
func (t *Type) IsComparable() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindMapping, KindFuture:
		return false
	case KindTuple:
		for _, e := range t.Elems {
			if !e.IsComparable() {
				return false
			}
		}
		return true
	case KindArray:
		return t.Elem.IsComparable()
	default:
		return true
	}
}
