// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package values

import (
	"fmt"
	"math/big"

	"github.com/ProvableHQ/leo-sub003/ident"
)

// ArrayIndex implements array_index: value[index] (spec.md §3.6).
func ArrayIndex(v Value, index uint32) (Value, error) {
	arr, ok := v.(Array)
	if !ok {
		return nil, fmt.Errorf("array_index: value is not an array, got %s", v.Type())
	}
	if int(index) >= len(arr.Elems) {
		return nil, fmt.Errorf("array_index: index %d out of bounds for array of length %d", index, len(arr.Elems))
	}
	return arr.Elems[index], nil
}

// TupleIndex implements tuple_index: value.N (spec.md §3.6).
func TupleIndex(v Value, index int) (Value, error) {
	tup, ok := v.(Tuple)
	if !ok {
		return nil, fmt.Errorf("tuple_index: value is not a tuple, got %s", v.Type())
	}
	if index < 0 || index >= len(tup.Elems) {
		return nil, fmt.Errorf("tuple_index: index %d out of bounds for tuple of arity %d", index, len(tup.Elems))
	}
	return tup.Elems[index], nil
}

// MemberAccess implements member_access: value.field for structs and
// records (spec.md §3.6).
func MemberAccess(v Value, member string) (Value, error) {
	switch t := v.(type) {
	case Struct:
		val, ok := t.Values[member]
		if !ok {
			return nil, fmt.Errorf("member_access: struct %s has no member %q", t.Name, member)
		}
		return val, nil
	case Record:
		if member == "owner" {
			return t.Owner, nil
		}
		val, ok := t.Values[member]
		if !ok {
			return nil, fmt.Errorf("member_access: record %s has no member %q", t.Name, member)
		}
		return val, nil
	default:
		return nil, fmt.Errorf("member_access: value of type %s has no members", v.Type())
	}
}

// TryMakeArray implements try_make_array: assembles a homogeneously-typed
// array from elems, failing if any element's type differs from the first.
func TryMakeArray(elems []Value) (Value, error) {
	if len(elems) == 0 {
		return nil, fmt.Errorf("try_make_array: cannot infer element type of an empty array literal without a declared type")
	}
	elemType := elems[0].Type()
	for i, e := range elems[1:] {
		if !e.Type().Cmp(elemType) {
			return nil, fmt.Errorf("try_make_array: element %d has type %s, expected %s", i+1, e.Type(), elemType)
		}
	}
	return Array{Elems: elems, Elem: elemType}, nil
}

// TryMakeTuple implements try_make_tuple: assembles a tuple, always
// succeeding since tuples place no constraint across elements.
func TryMakeTuple(elems []Value) (Value, error) {
	return Tuple{Elems: elems}, nil
}

// MakeStruct implements make_struct: assembles a Struct value, validating
// that provided supplies exactly the members in order. program/name
// identify the composite, order gives declaration order.
func MakeStruct(program, name ident.Symbol, order []string, provided map[string]Value) (Struct, error) {
	for _, m := range order {
		if _, ok := provided[m]; !ok {
			return Struct{}, fmt.Errorf("make_struct: missing member %q", m)
		}
	}
	if len(provided) != len(order) {
		return Struct{}, fmt.Errorf("make_struct: %d members provided, %s declares %d", len(provided), name, len(order))
	}
	return Struct{Program: program, Name: name, Members: order, Values: provided}, nil
}

// MakeRecord implements make_record: assembles a Record value. The first
// member must be named `owner` of type address (spec.md §4.2, "Record
// construction"); that invariant is enforced by the type checker before
// this ever runs, so here we only require owner to be present.
func MakeRecord(order []string, provided map[string]Value, owner Address, visibility map[string]Visibility, randomizer *big.Int) (Record, error) {
	for _, m := range order {
		if _, ok := provided[m]; !ok {
			return Record{}, fmt.Errorf("make_record: missing member %q", m)
		}
	}
	return Record{Owner: owner, Members: order, Values: provided, Visibility: visibility, Randomizer: randomizer}, nil
}

// Equal implements Leo's == for any IsComparable() type (spec.md §4.2),
// including tuples and structs element/member-wise. Arity-0 tuple equality
// is vacuously true (spec.md §8).
func Equal(a, b Value) (bool, error) {
	if !a.Type().IsComparable() || !a.Type().Cmp(b.Type()) {
		return false, fmt.Errorf("Equal: incomparable or mismatched types %s vs %s", a.Type(), b.Type())
	}
	switch av := a.(type) {
	case Unit:
		return true, nil
	case Bool:
		return av == b.(Bool), nil
	case Integer:
		return av.V.Cmp(b.(Integer).V) == 0, nil
	case Field:
		return av.V.Cmp(b.(Field).V) == 0, nil
	case Group:
		return av.X.Cmp(b.(Group).X) == 0, nil
	case Scalar:
		return av.V.Cmp(b.(Scalar).V) == 0, nil
	case Address:
		return av.Bech32 == b.(Address).Bech32, nil
	case Signature:
		return av.Raw == b.(Signature).Raw, nil
	case String:
		return av == b.(String), nil
	case Array:
		bv := b.(Array)
		if len(av.Elems) != len(bv.Elems) {
			return false, nil
		}
		for i := range av.Elems {
			eq, err := Equal(av.Elems[i], bv.Elems[i])
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case Tuple:
		bv := b.(Tuple)
		result := true // vacuously true for arity 0
		for i := range av.Elems {
			eq, err := Equal(av.Elems[i], bv.Elems[i])
			if err != nil {
				return false, err
			}
			result = result && eq
		}
		return result, nil
	case Struct:
		bv := b.(Struct)
		for _, m := range av.Members {
			eq, err := Equal(av.Values[m], bv.Values[m])
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	default:
		return false, fmt.Errorf("Equal: unsupported value type %T", a)
	}
}
