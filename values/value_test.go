// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package values

import (
	"math/big"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/ProvableHQ/leo-sub003/types"
)

func u8(n int64) Integer { return NewInteger(big.NewInt(n), 8, false) }

func TestIntegerWrapping(t *testing.T) {
	v := NewInteger(big.NewInt(260), 8, false) // 260 = 256 + 4
	if v.V.Int64() != 4 {
		t.Errorf("expected wrapping 260 into u8 to give 4, got %s\n%s", v.V, spew.Sdump(v))
	}
}

func TestInRange(t *testing.T) {
	if InRange(big.NewInt(256), 8, false) {
		t.Error("256 should not be in range for u8")
	}
	if !InRange(big.NewInt(255), 8, false) {
		t.Error("255 should be in range for u8")
	}
}

func TestTryAsU32(t *testing.T) {
	v := u8(5)
	u, ok := v.TryAsU32()
	if !ok || u != 5 {
		t.Errorf("expected TryAsU32 to succeed with 5, got %d, %v", u, ok)
	}
}

func TestBinaryAddChecked(t *testing.T) {
	_, err := Binary(types.OpAdd, u8(200), u8(100))
	if err == nil {
		t.Error("checked u8 add overflowing 255 should error")
	}
	v, err := Binary(types.OpAddW, u8(200), u8(100))
	if err != nil {
		t.Fatalf("wrapping add should not error: %v", err)
	}
	if v.(Integer).V.Int64() != 44 { // 300 mod 256 = 44
		t.Errorf("expected wrapping 300 into u8 to give 44, got %s", v)
	}
}

func TestBinaryDivisionByZero(t *testing.T) {
	if _, err := Binary(types.OpDiv, u8(1), u8(0)); err == nil {
		t.Error("division by zero should error")
	}
}

func TestEqualTupleVacuous(t *testing.T) {
	eq, err := Equal(Tuple{}, Tuple{})
	if err != nil || !eq {
		t.Errorf("arity-0 tuple equality should be vacuously true, got %v, %v", eq, err)
	}
}

func TestCastIntegerOutOfRange(t *testing.T) {
	big300 := NewInteger(big.NewInt(300), 16, false)
	if _, err := Cast(big300, types.U8); err == nil {
		t.Error("casting 300u16 to u8 should fail since it would require truncation")
	}
}

func TestCastIntegerToField(t *testing.T) {
	v, err := Cast(u8(5), types.Field)
	if err != nil {
		t.Fatalf("u8 -> field should be allowed: %v", err)
	}
	if v.(Field).V.Int64() != 5 {
		t.Errorf("expected field value 5, got %s", v)
	}
}

func TestTryMakeArrayMixedTypes(t *testing.T) {
	if _, err := TryMakeArray([]Value{u8(1), Bool(true)}); err == nil {
		t.Error("array literal with mixed element types should fail")
	}
}
