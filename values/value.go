// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package values implements the compile-time value model shared between
// constant propagation and the debugger interpreter (spec.md §3.6): every
// Leo value a compile-time-constant expression can fold to, plus the
// accessors and casts the rest of the compiler needs to reason about them
// without re-deriving Aleo's numeric rules in three different places.
package values

import (
	"fmt"
	"math/big"

	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/types"
)

// Value is one compile-time or interpreted Leo value (spec.md §3.6).
type Value interface {
	// Type returns the value's Leo type.
	Type() *types.Type
	// String renders the value the way Leo source would spell a literal
	// of this value, where possible.
	String() string
	fmt.Stringer
}

// Unit is the single value of the 0-tuple type.
type Unit struct{}

// Type implements Value.
func (Unit) Type() *types.Type { return types.Unit }

// String implements Value.
func (Unit) String() string { return "()" }

// Bool is a boolean value.
type Bool bool

// Type implements Value.
func (Bool) Type() *types.Type { return types.Bool }

// String implements Value.
func (b Bool) String() string { return fmt.Sprintf("%t", bool(b)) }

// Integer is a signed or unsigned integer of a fixed bit width, backed by
// math/big so width-128 values never overflow a machine word.
type Integer struct {
	V      *big.Int
	Width  int
	Signed bool
}

// NewInteger builds an Integer value, wrapping v into range per
// width/signedness using two's-complement reduction (the same reduction a
// `.w` wrapping opcode performs).
func NewInteger(v *big.Int, width int, signed bool) Integer {
	return Integer{V: wrapInt(v, width, signed), Width: width, Signed: signed}
}

// Type implements Value.
func (i Integer) Type() *types.Type {
	return &types.Type{Kind: types.KindInteger, Width: i.Width, Signed: i.Signed}
}

// String implements Value.
func (i Integer) String() string {
	sign := "u"
	if i.Signed {
		sign = "i"
	}
	return fmt.Sprintf("%s%s%d", i.V.String(), sign, i.Width)
}

func modulusFor(width int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(width))
}

// wrapInt reduces v into the representable range for width/signed using
// two's complement, the behavior of every `.w` (wrapping) opcode.
func wrapInt(v *big.Int, width int, signed bool) *big.Int {
	m := modulusFor(width)
	r := new(big.Int).Mod(v, m)
	if r.Sign() < 0 {
		r.Add(r, m)
	}
	if signed {
		half := new(big.Int).Rsh(m, 1)
		if r.Cmp(half) >= 0 {
			r.Sub(r, m)
		}
	}
	return r
}

// InRange reports whether v fits in width/signed without wrapping, i.e.
// whether a non-wrapping (checked) opcode would accept it.
func InRange(v *big.Int, width int, signed bool) bool {
	return wrapInt(v, width, signed).Cmp(v) == 0
}

// TryAsU32 attempts to view i as a u32, used for array indices and lengths
// (spec.md §3.6, "TryAsU32, AsU32 for indices and array lengths"). It
// succeeds only for non-negative values that fit in 32 bits, regardless of
// the integer's own declared width/signedness, since indices are
// conceptually untyped small naturals by the time they reach this check.
func (i Integer) TryAsU32() (uint32, bool) {
	if i.V.Sign() < 0 {
		return 0, false
	}
	if !i.V.IsUint64() {
		return 0, false
	}
	u := i.V.Uint64()
	if u > 0xFFFFFFFF {
		return 0, false
	}
	return uint32(u), true
}

// AsU32 is TryAsU32 but panics on failure; used only where an earlier pass
// has already guaranteed success (spec.md §9, "retain as assertions").
func (i Integer) AsU32() uint32 {
	u, ok := i.TryAsU32()
	if !ok {
		panic(fmt.Sprintf("AsU32: %s does not fit in a u32", i))
	}
	return u
}

// Field is an element of Aleo's base field.
type Field struct{ V *big.Int }

// Type implements Value.
func (Field) Type() *types.Type { return types.Field }

// String implements Value.
func (f Field) String() string { return f.V.String() + "field" }

// Group is an element of Aleo's group (represented here only by its x
// coordinate, sufficient for constant folding of group literals; full
// curve arithmetic belongs to the downstream VM per spec.md §1).
type Group struct{ X *big.Int }

// Type implements Value.
func (Group) Type() *types.Type { return types.Group }

// String implements Value.
func (g Group) String() string { return g.X.String() + "group" }

// Scalar is an element of Aleo's scalar field.
type Scalar struct{ V *big.Int }

// Type implements Value.
func (Scalar) Type() *types.Type { return types.Scalar }

// String implements Value.
func (s Scalar) String() string { return s.V.String() + "scalar" }

// Address is an Aleo bech32 address literal.
type Address struct{ Bech32 string }

// Type implements Value.
func (Address) Type() *types.Type { return types.Address }

// String implements Value.
func (a Address) String() string { return a.Bech32 }

// Signature is an Aleo signature literal.
type Signature struct{ Raw string }

// Type implements Value.
func (Signature) Type() *types.Type { return types.Signature }

// String implements Value.
func (s Signature) String() string { return s.Raw }

// String is a Leo string literal value.
type String string

// Type implements Value.
func (String) Type() *types.Type { return types.String }

// String implements Value.
func (s String) String() string { return string(s) }

// Array is a fixed-length array of values.
type Array struct {
	Elems []Value
	Elem  *types.Type
}

// Type implements Value.
func (a Array) Type() *types.Type {
	return types.NewArray(a.Elem, types.KnownLength(uint32(len(a.Elems))))
}

// String implements Value.
func (a Array) String() string {
	s := "["
	for i, e := range a.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + "]"
}

// Tuple is an ordered, arbitrary-arity tuple of values.
type Tuple struct{ Elems []Value }

// Type implements Value.
func (t Tuple) Type() *types.Type {
	ts := make([]*types.Type, len(t.Elems))
	for i, e := range t.Elems {
		ts[i] = e.Type()
	}
	return types.NewTuple(ts)
}

// String implements Value.
func (t Tuple) String() string {
	s := "("
	for i, e := range t.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + ")"
}

// Struct is an ordered-member composite with no owner/visibility (plain
// struct, public-by-default per spec.md GLOSSARY).
type Struct struct {
	Program ident.Symbol
	Name    ident.Symbol
	Members []string
	Values  map[string]Value
}

// Type implements Value.
func (s Struct) Type() *types.Type { return types.NewComposite(s.Program, s.Name) }

// String implements Value.
func (s Struct) String() string {
	out := s.Name.String() + " { "
	for i, m := range s.Members {
		if i > 0 {
			out += ", "
		}
		out += m + ": " + s.Values[m].String()
	}
	return out + " }"
}

// Visibility tags a record field's on-chain exposure.
type Visibility int

// Known visibilities.
const (
	VisPrivate Visibility = iota
	VisPublic
	VisConstant
)

// Record is a token-like composite: an owner, ordered per-field values, a
// randomizer (nonce), and a per-field visibility tag (spec.md GLOSSARY).
type Record struct {
	Program     ident.Symbol
	Name        ident.Symbol
	Owner       Address
	Members     []string
	Values      map[string]Value
	Visibility  map[string]Visibility
	Randomizer  *big.Int
}

// Type implements Value.
func (r Record) Type() *types.Type { return types.NewComposite(r.Program, r.Name) }

// String implements Value.
func (r Record) String() string {
	out := r.Name.String() + " { owner: " + r.Owner.String()
	for _, m := range r.Members {
		out += ", " + m + ": " + r.Values[m].String()
	}
	return out + " }"
}

// Future is the opaque handle to a pending finalize call; it carries the
// (program-qualified) function it will invoke and the tuple of arguments
// captured at the `async` call site, which is all a constant-folding pass
// or the debugger can observe about it (spec.md §3.6, §4.6 "futures remain
// tuple-shaped opaquely").
type Future struct {
	Location ident.Location
	Args     []Value
}

// Type implements Value.
func (f Future) Type() *types.Type {
	params := make([]*types.Type, len(f.Args))
	for i, a := range f.Args {
		params[i] = a.Type()
	}
	return types.NewFuture(params)
}

// String implements Value.
func (f Future) String() string {
	s := f.Location.String() + "("
	for i, a := range f.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}
