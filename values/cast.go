// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package values

import (
	"fmt"
	"math/big"

	"github.com/ProvableHQ/leo-sub003/types"
)

// ScalarFieldModulus is Aleo's scalar-field modulus, used when casting
// between field and scalar elements (SPEC_FULL.md §C.5). This is the order
// of the scalar field of Aleo's Edwards curve; Field values live in the
// larger BLS12-377 scalar field, whose modulus this package does not
// define: field arithmetic and casts to field are never reduced, since our
// folding never needs to emulate the curve.
var ScalarFieldModulus = func() *big.Int {
	m, _ := new(big.Int).SetString("2111115437357092606062206234695386632838870926408408195193685246394721360383", 10)
	return m
}()

// Cast implements value.cast(target): Aleo's casting rules (spec.md §3.6,
// SPEC_FULL.md §C.5). Non-wrapping integer casts fail (rather than
// truncate) when the source doesn't fit in the destination width; callers
// needing wrapping behavior should reduce via NewInteger first.
func Cast(v Value, target *types.Type) (Value, error) {
	if !types.CanCast(v.Type(), target) {
		return nil, fmt.Errorf("cast: %s -> %s is not an allowed cast", v.Type(), target)
	}
	switch target.Kind {
	case types.KindInteger:
		bi, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		if !InRange(bi, target.Width, target.Signed) {
			return nil, fmt.Errorf("cast: value %s does not fit in %s", bi, target)
		}
		return NewInteger(bi, target.Width, target.Signed), nil
	case types.KindField:
		bi, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return Field{V: bi}, nil
	case types.KindScalar:
		bi, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return Scalar{V: new(big.Int).Mod(bi, ScalarFieldModulus)}, nil
	case types.KindGroup:
		f, ok := v.(Field)
		if !ok {
			return nil, fmt.Errorf("cast: only field values may be cast to group")
		}
		return Group{X: f.V}, nil
	case types.KindBool:
		bi, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return Bool(bi.Sign() != 0), nil
	default:
		return nil, fmt.Errorf("cast: unsupported cast target %s", target)
	}
}

// toBigInt extracts the underlying integer magnitude of any numeric-ish
// value, for use by Cast.
func toBigInt(v Value) (*big.Int, error) {
	switch t := v.(type) {
	case Integer:
		return new(big.Int).Set(t.V), nil
	case Field:
		return new(big.Int).Set(t.V), nil
	case Scalar:
		return new(big.Int).Set(t.V), nil
	case Bool:
		if t {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	default:
		return nil, fmt.Errorf("cast: %T has no integer representation", v)
	}
}
