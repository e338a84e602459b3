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

// Binary evaluates a binary operator over two already-folded constant
// values. It is used by both constant propagation (spec.md §4.3) and the
// debugger interpreter (spec.md §3.6) so the two never disagree about
// Aleo's arithmetic.
func Binary(op types.BinaryOp, lhs, rhs Value) (Value, error) {
	if types.IsEquality(op) {
		eq, err := Equal(lhs, rhs)
		if err != nil {
			return nil, err
		}
		if op == types.OpNeq {
			eq = !eq
		}
		return Bool(eq), nil
	}

	switch l := lhs.(type) {
	case Bool:
		r, ok := rhs.(Bool)
		if !ok {
			return nil, fmt.Errorf("binary %s: type mismatch", op)
		}
		return boolBinary(op, bool(l), bool(r))
	case Integer:
		r, ok := rhs.(Integer)
		if !ok || r.Width != l.Width || r.Signed != l.Signed {
			return nil, fmt.Errorf("binary %s: integer width/sign mismatch", op)
		}
		return integerBinary(op, l, r)
	case Field:
		r, ok := rhs.(Field)
		if !ok {
			return nil, fmt.Errorf("binary %s: type mismatch", op)
		}
		return fieldBinary(op, l, r)
	case Group:
		switch op {
		case types.OpAdd:
			r := rhs.(Group)
			return Group{X: new(big.Int).Add(l.X, r.X)}, nil
		case types.OpSub:
			r := rhs.(Group)
			return Group{X: new(big.Int).Sub(l.X, r.X)}, nil
		case types.OpMul:
			r := rhs.(Scalar)
			return Group{X: new(big.Int).Mul(l.X, r.V)}, nil
		}
		return nil, fmt.Errorf("binary %s: unsupported for group", op)
	default:
		return nil, fmt.Errorf("binary %s: unsupported operand type %T", op, lhs)
	}
}

func boolBinary(op types.BinaryOp, l, r bool) (Value, error) {
	switch op {
	case types.OpAnd, types.OpBitAnd:
		return Bool(l && r), nil
	case types.OpOr, types.OpBitOr:
		return Bool(l || r), nil
	case types.OpBitXor:
		return Bool(l != r), nil
	default:
		return nil, fmt.Errorf("binary %s: unsupported for bool", op)
	}
}

func integerBinary(op types.BinaryOp, l, r Integer) (Value, error) {
	width, signed := l.Width, l.Signed
	wrap := func(v *big.Int) Value { return NewInteger(v, width, signed) }
	checked := func(v *big.Int, opName string) (Value, error) {
		if !InRange(v, width, signed) {
			return nil, fmt.Errorf("binary %s: result %s overflows %s", opName, v, l.Type())
		}
		return NewInteger(v, width, signed), nil
	}
	switch op {
	case types.OpAdd:
		return checked(new(big.Int).Add(l.V, r.V), string(op))
	case types.OpAddW:
		return wrap(new(big.Int).Add(l.V, r.V)), nil
	case types.OpSub:
		return checked(new(big.Int).Sub(l.V, r.V), string(op))
	case types.OpSubW:
		return wrap(new(big.Int).Sub(l.V, r.V)), nil
	case types.OpMul:
		return checked(new(big.Int).Mul(l.V, r.V), string(op))
	case types.OpMulW:
		return wrap(new(big.Int).Mul(l.V, r.V)), nil
	case types.OpDiv:
		if r.V.Sign() == 0 {
			return nil, fmt.Errorf("binary /: division by zero")
		}
		return checked(new(big.Int).Quo(l.V, r.V), string(op))
	case types.OpDivW:
		if r.V.Sign() == 0 {
			return nil, fmt.Errorf("binary /w: division by zero")
		}
		return wrap(new(big.Int).Quo(l.V, r.V)), nil
	case types.OpRem:
		if r.V.Sign() == 0 {
			return nil, fmt.Errorf("binary %%: division by zero")
		}
		return checked(new(big.Int).Rem(l.V, r.V), string(op))
	case types.OpBitAnd:
		return wrap(new(big.Int).And(l.V, r.V)), nil
	case types.OpBitOr:
		return wrap(new(big.Int).Or(l.V, r.V)), nil
	case types.OpBitXor:
		return wrap(new(big.Int).Xor(l.V, r.V)), nil
	case types.OpShl:
		return checked(new(big.Int).Lsh(l.V, uint(r.V.Uint64())), string(op))
	case types.OpShr:
		return wrap(new(big.Int).Rsh(l.V, uint(r.V.Uint64()))), nil
	case types.OpLt:
		return Bool(l.V.Cmp(r.V) < 0), nil
	case types.OpLte:
		return Bool(l.V.Cmp(r.V) <= 0), nil
	case types.OpGt:
		return Bool(l.V.Cmp(r.V) > 0), nil
	case types.OpGte:
		return Bool(l.V.Cmp(r.V) >= 0), nil
	default:
		return nil, fmt.Errorf("binary %s: unsupported for integers", op)
	}
}

func fieldBinary(op types.BinaryOp, l, r Field) (Value, error) {
	switch op {
	case types.OpAdd:
		return Field{V: new(big.Int).Add(l.V, r.V)}, nil
	case types.OpSub:
		return Field{V: new(big.Int).Sub(l.V, r.V)}, nil
	case types.OpMul:
		return Field{V: new(big.Int).Mul(l.V, r.V)}, nil
	case types.OpDiv:
		if r.V.Sign() == 0 {
			return nil, fmt.Errorf("binary /: division by zero")
		}
		// Field division is multiplication by the modular inverse; without
		// a fixed field modulus for constant folding we require the
		// divisor to be +/-1, matching the only cases constant propagation
		// can verify without the downstream curve library.
		if r.V.CmpAbs(big.NewInt(1)) != 0 {
			return nil, fmt.Errorf("binary /: non-unit field division cannot be constant-folded at compile time")
		}
		return Field{V: new(big.Int).Mul(l.V, r.V)}, nil
	case types.OpLt:
		return Bool(l.V.Cmp(r.V) < 0), nil
	case types.OpLte:
		return Bool(l.V.Cmp(r.V) <= 0), nil
	case types.OpGt:
		return Bool(l.V.Cmp(r.V) > 0), nil
	case types.OpGte:
		return Bool(l.V.Cmp(r.V) >= 0), nil
	default:
		return nil, fmt.Errorf("binary %s: unsupported for field", op)
	}
}

// Unary evaluates a unary operator over an already-folded constant value.
func Unary(op types.UnaryOp, v Value) (Value, error) {
	switch val := v.(type) {
	case Bool:
		if op == types.OpNot {
			return Bool(!val), nil
		}
	case Integer:
		switch op {
		case types.OpNeg:
			neg := new(big.Int).Neg(val.V)
			if !InRange(neg, val.Width, val.Signed) {
				return nil, fmt.Errorf("unary -: result overflows %s", val.Type())
			}
			return NewInteger(neg, val.Width, val.Signed), nil
		case types.OpBitNot:
			return NewInteger(new(big.Int).Not(val.V), val.Width, val.Signed), nil
		case types.OpSquare:
			return NewInteger(new(big.Int).Mul(val.V, val.V), val.Width, val.Signed), nil
		}
	case Field:
		switch op {
		case types.OpNeg:
			return Field{V: new(big.Int).Neg(val.V)}, nil
		case types.OpSquare:
			return Field{V: new(big.Int).Mul(val.V, val.V)}, nil
		}
	}
	return nil, fmt.Errorf("unary %s: unsupported for %T", op, v)
}
