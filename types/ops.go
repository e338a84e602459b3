// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package types

// BinaryOp names a binary operator as spelled in Leo source.
type BinaryOp string

// Supported binary operators.
const (
	OpAdd    BinaryOp = "+"
	OpAddW   BinaryOp = "+w" // wrapping add, lowers to `add.w`
	OpSub    BinaryOp = "-"
	OpSubW   BinaryOp = "-w"
	OpMul    BinaryOp = "*"
	OpMulW   BinaryOp = "*w"
	OpDiv    BinaryOp = "/"
	OpDivW   BinaryOp = "/w"
	OpRem    BinaryOp = "%"
	OpPow    BinaryOp = "**"
	OpShl    BinaryOp = "<<"
	OpShr    BinaryOp = ">>"
	OpBitAnd BinaryOp = "&"
	OpBitOr  BinaryOp = "|"
	OpBitXor BinaryOp = "^"
	OpAnd    BinaryOp = "&&"
	OpOr     BinaryOp = "||"
	OpEq     BinaryOp = "=="
	OpNeq    BinaryOp = "!="
	OpLt     BinaryOp = "<"
	OpLte    BinaryOp = "<="
	OpGt     BinaryOp = ">"
	OpGte    BinaryOp = ">="
)

// UnaryOp names a unary operator.
type UnaryOp string

// Supported unary operators.
const (
	OpNeg    UnaryOp = "-"
	OpNot    UnaryOp = "!"
	OpBitNot UnaryOp = "~"
	OpSquare UnaryOp = "square"
	OpSqrt   UnaryOp = "sqrt"
)

type binKey struct {
	op       BinaryOp
	lhs, rhs Kind
}

// binaryResult is a closed table of (op, lhs-kind, rhs-kind) -> result-kind,
// per spec.md §4.2 ("Result type is looked up in a fixed table of
// (op, lhs, rhs) -> result triples."). Integer ops additionally require
// matching width/signedness, checked in BinaryResult below; this table only
// decides which *kinds* may combine under which operator.
var binaryResult = map[binKey]Kind{
	{OpAdd, KindInteger, KindInteger}: KindInteger,
	{OpAddW, KindInteger, KindInteger}: KindInteger,
	{OpSub, KindInteger, KindInteger}: KindInteger,
	{OpSubW, KindInteger, KindInteger}: KindInteger,
	{OpMul, KindInteger, KindInteger}: KindInteger,
	{OpMulW, KindInteger, KindInteger}: KindInteger,
	{OpDiv, KindInteger, KindInteger}: KindInteger,
	{OpDivW, KindInteger, KindInteger}: KindInteger,
	{OpRem, KindInteger, KindInteger}: KindInteger,
	{OpShl, KindInteger, KindInteger}: KindInteger,
	{OpShr, KindInteger, KindInteger}: KindInteger,
	{OpBitAnd, KindInteger, KindInteger}: KindInteger,
	{OpBitOr, KindInteger, KindInteger}:  KindInteger,
	{OpBitXor, KindInteger, KindInteger}: KindInteger,
	{OpBitAnd, KindBool, KindBool}: KindBool,
	{OpBitOr, KindBool, KindBool}:  KindBool,
	{OpBitXor, KindBool, KindBool}: KindBool,

	{OpAdd, KindField, KindField}: KindField,
	{OpSub, KindField, KindField}: KindField,
	{OpMul, KindField, KindField}: KindField,
	{OpDiv, KindField, KindField}: KindField,
	{OpPow, KindField, KindField}: KindField,

	{OpAdd, KindGroup, KindGroup}: KindGroup,
	{OpSub, KindGroup, KindGroup}: KindGroup,
	{OpMul, KindGroup, KindScalar}: KindGroup,
	{OpMul, KindScalar, KindGroup}: KindGroup,

	{OpAnd, KindBool, KindBool}: KindBool,
	{OpOr, KindBool, KindBool}:  KindBool,

	{OpLt, KindInteger, KindInteger}:  KindBool,
	{OpLte, KindInteger, KindInteger}: KindBool,
	{OpGt, KindInteger, KindInteger}:  KindBool,
	{OpGte, KindInteger, KindInteger}: KindBool,
	{OpLt, KindField, KindField}:  KindBool,
	{OpLte, KindField, KindField}: KindBool,
	{OpGt, KindField, KindField}:  KindBool,
	{OpGte, KindField, KindField}: KindBool,
}

var wrappingOps = map[BinaryOp]bool{
	OpAddW: true, OpSubW: true, OpMulW: true, OpDivW: true,
}

// IsWrapping reports whether op is a wrapping (`.w`-suffixed) arithmetic
// operator, per spec.md §8 ("Integer arithmetic wraps where the opcode ends
// in `.w`, checks otherwise.").
func IsWrapping(op BinaryOp) bool {
	return wrappingOps[op]
}

// IsEquality reports whether op is `==` or `!=`, which are permitted on any
// IsComparable() type, not just numeric ones (spec.md §4.2).
func IsEquality(op BinaryOp) bool {
	return op == OpEq || op == OpNeq
}

// BinaryResult looks up the result type for applying op to values of type
// lhs and rhs. Arithmetic and bitwise/shift ops additionally require the
// two integer operands to share width and signedness (shifts permit a
// narrower unsigned rhs, matched here by ignoring rhs width for Shl/Shr).
func BinaryResult(op BinaryOp, lhs, rhs *Type) (*Type, bool) {
	if IsEquality(op) {
		if lhs.IsComparable() && rhs.Cmp(lhs) {
			return Bool, true
		}
		return nil, false
	}
	if lhs == nil || rhs == nil {
		return nil, false
	}
	key := binKey{op, lhs.Kind, rhs.Kind}
	resultKind, ok := binaryResult[key]
	if !ok {
		return nil, false
	}
	if lhs.Kind == KindInteger && rhs.Kind == KindInteger {
		switch op {
		case OpShl, OpShr:
			if rhs.Signed {
				return nil, false // shift amount must be unsigned
			}
		default:
			if lhs.Width != rhs.Width || lhs.Signed != rhs.Signed {
				return nil, false
			}
		}
		if resultKind == KindInteger {
			return lhs, true
		}
	}
	switch resultKind {
	case KindBool:
		return Bool, true
	case KindField:
		return Field, true
	case KindGroup:
		return Group, true
	}
	return nil, false
}

// castKey is an (from-kind, to-kind) pair in the allowed-cast table.
type castKey struct {
	from, to Kind
}

// allowedCasts is the closed table of permitted cast kind-pairs (spec.md
// §4.2, "Casts must be in the allowed-cast table"). Integer<->integer casts
// are always allowed regardless of width (narrowing is range-checked by
// values.Cast at evaluation time); field<->scalar, field<->group and
// integer<->field are allowed per Aleo's `cast` instruction semantics.
var allowedCasts = map[castKey]bool{
	{KindInteger, KindInteger}: true,
	{KindInteger, KindField}:   true,
	{KindField, KindInteger}:   true,
	{KindInteger, KindScalar}:  true,
	{KindScalar, KindInteger}:  true,
	{KindField, KindScalar}:    true,
	{KindScalar, KindField}:    true,
	{KindField, KindGroup}:     true,
	{KindGroup, KindField}:     true,
	{KindBool, KindInteger}:    true,
	{KindInteger, KindBool}:    true,
}

// CanCast reports whether a value of type from may be cast to type to.
func CanCast(from, to *Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from.Kind == KindComposite && to.Kind == KindComposite {
		// Any composite-to-composite cast is accepted; neither field
		// layouts nor names are compared, here or by the type checker's
		// Cast case.
		return true
	}
	return allowedCasts[castKey{from.Kind, to.Kind}]
}
