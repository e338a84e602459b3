// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package types

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/ProvableHQ/leo-sub003/ident"
)

func TestTypeCmpPrimitive(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *Type
		expected bool
	}{
		{"u8 == u8", U8, U8, true},
		{"u8 != u16", U8, U16, false},
		{"u8 != i8", U8, I8, false},
		{"bool == bool", Bool, Bool, true},
		{"field != group", Field, Group, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Cmp(tc.b); got != tc.expected {
				t.Errorf("Cmp(%s) = %v, want %v\na: %s\nb: %s", tc.name, got, tc.expected, spew.Sdump(tc.a), spew.Sdump(tc.b))
			}
		})
	}
}

func TestTypeCmpComposite(t *testing.T) {
	prog := ident.Intern("foo.aleo")
	other := ident.Intern("bar.aleo")
	name := ident.Intern("Token")

	a := NewComposite(prog, name)
	b := NewComposite(prog, name)
	c := NewComposite(other, name)

	if !a.Cmp(b) {
		t.Error("same (program, name) should be equal (nominal)")
	}
	if a.Cmp(c) {
		t.Error("different program should not be equal even with the same name")
	}
}

func TestTypeCmpArrayLengthUnknown(t *testing.T) {
	elem := U8
	known := NewArray(elem, KnownLength(5))
	unknown := NewArray(elem, UnknownLength(ident.DummySpan))

	if known.Cmp(unknown) {
		t.Error("an array with an unevaluated length must not compare equal to one with a known length")
	}
}

func TestTypeCmpArrayLengthZero(t *testing.T) {
	// Array literal with zero elements and declared length 0 is valid
	// (spec.md §8 boundary behavior).
	zero := NewArray(U8, KnownLength(0))
	if !zero.Cmp(NewArray(U8, KnownLength(0))) {
		t.Error("zero-length arrays of the same element type should compare equal")
	}
}

func TestTypeCmpTuple(t *testing.T) {
	empty := NewTuple(nil)
	if !empty.IsUnit() {
		t.Error("0-arity tuple should be the unit type")
	}
	a := NewTuple([]*Type{U8, Bool})
	b := NewTuple([]*Type{U8, Bool})
	c := NewTuple([]*Type{U8, U8})
	if !a.Cmp(b) {
		t.Error("structurally identical tuples should compare equal")
	}
	if a.Cmp(c) {
		t.Error("tuples with different element types should not compare equal")
	}
}

func TestIsComparable(t *testing.T) {
	if NewMapping(U8, U8).IsComparable() {
		t.Error("mappings must never be comparable")
	}
	if NewFuture(nil).IsComparable() {
		t.Error("futures must never be comparable")
	}
	if !NewTuple([]*Type{U8, Bool}).IsComparable() {
		t.Error("tuples of comparable types must be comparable")
	}
}

func TestBinaryResultIntegerWidthMismatch(t *testing.T) {
	if _, ok := BinaryResult(OpAdd, U8, U16); ok {
		t.Error("adding mismatched integer widths must be rejected")
	}
	res, ok := BinaryResult(OpAdd, U8, U8)
	if !ok || !res.Cmp(U8) {
		t.Error("u8 + u8 should yield u8")
	}
}

func TestBinaryResultEqualityOnTuples(t *testing.T) {
	tup := NewTuple([]*Type{U8, Bool})
	res, ok := BinaryResult(OpEq, tup, tup)
	if !ok || !res.Cmp(Bool) {
		t.Error("tuple equality should be permitted and yield bool")
	}
}

func TestIsWrapping(t *testing.T) {
	if !IsWrapping(OpAddW) {
		t.Error("+w must be wrapping")
	}
	if IsWrapping(OpAdd) {
		t.Error("+ must be checked, not wrapping")
	}
}

func TestCanCast(t *testing.T) {
	if !CanCast(U8, Field) {
		t.Error("integer -> field should be an allowed cast")
	}
	if CanCast(Bool, Group) {
		t.Error("bool -> group should not be an allowed cast")
	}
}
