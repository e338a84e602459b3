// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package codegen

import (
	"strings"
	"testing"

	"github.com/ProvableHQ/leo-sub003/ast"
	"github.com/ProvableHQ/leo-sub003/diag"
	"github.com/ProvableHQ/leo-sub003/ident"
	"github.com/ProvableHQ/leo-sub003/network"
	"github.com/ProvableHQ/leo-sub003/passes/symbols"
	"github.com/ProvableHQ/leo-sub003/symtab"
	"github.com/ProvableHQ/leo-sub003/types"
)

func TestLiteralTextFormatsByKind(t *testing.T) {
	cases := []struct {
		name string
		lit  *ast.Literal
		want string
	}{
		{"unsigned int", &ast.Literal{Kind: ast.LitInteger, Text: "5", Width: 32}, "5u32"},
		{"signed int", &ast.Literal{Kind: ast.LitInteger, Text: "5", Width: 8, Signed: true}, "5i8"},
		{"bool true", &ast.Literal{Kind: ast.LitBool, Bool: true}, "true"},
		{"bool false", &ast.Literal{Kind: ast.LitBool, Bool: false}, "false"},
		{"field", &ast.Literal{Kind: ast.LitField, Text: "1"}, "1field"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := literalText(c.lit); got != c.want {
				t.Errorf("literalText = %s, want %s", got, c.want)
			}
		})
	}
}

// TestRunEmitsSimpleTransition exercises spec.md §4.8's end-to-end emission
// shape: a transition with one parameter and a binary-op return must emit
// an `input`, one opcode instruction, and an `output` line.
func TestRunEmitsSimpleTransition(t *testing.T) {
	nb := ident.NewNodeBuilder()
	xName := ident.Intern("x")
	add := &ast.Binary{Base: ast.Base{NodeID: nb.NextID()}, Op: types.OpAdd,
		Left:  &ast.Ident{Base: ast.Base{NodeID: nb.NextID()}, Path: ident.Path{xName}},
		Right: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "1", Width: 32},
	}
	ret := &ast.Return{Base: ast.Base{NodeID: nb.NextID()}, Value: add}
	body := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{ret}}
	fn := &ast.Function{
		Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("run"), Variant: ast.VariantTransition,
		Params: []ast.Param{{Name: xName, Type: types.U32}}, Output: []*types.Type{types.U32}, Body: body,
	}
	scope := &ast.ProgramScope{ProgramID: ident.Intern("foo.aleo"), Functions: []*ast.Function{fn}}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{scope}}
	st := symtab.New()
	diags := diag.NewHandler()

	out := Run(prog, st, ast.NewTypeTable(), nb, network.Config{Network: network.TestnetV0}, diags)

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	if !strings.Contains(out, "program foo.aleo;") {
		t.Error("emitted text must declare the program")
	}
	if !strings.Contains(out, "function run:") {
		t.Error("a transition must emit as a `function` stanza")
	}
	if !strings.Contains(out, "add r0 1u32 into r1;") {
		t.Errorf("expected an add instruction, got:\n%s", out)
	}
	if !strings.Contains(out, "output r1 as u32.private;") {
		t.Errorf("expected an output line for the return value, got:\n%s", out)
	}
}

func TestRunEmitsClosureKeywordForPlainFunction(t *testing.T) {
	nb := ident.NewNodeBuilder()
	body := &ast.Block{Base: ast.Base{NodeID: nb.NextID()}, Stmts: []ast.Stmt{
		&ast.Return{Base: ast.Base{NodeID: nb.NextID()}, Value: &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitBool, Bool: true}},
	}}
	fn := &ast.Function{Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("helper"), Variant: ast.VariantFunction, Output: []*types.Type{types.Bool}, Body: body}
	scope := &ast.ProgramScope{ProgramID: ident.Intern("foo.aleo"), Functions: []*ast.Function{fn}}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{scope}}
	st := symtab.New()
	diags := diag.NewHandler()

	out := Run(prog, st, ast.NewTypeTable(), nb, network.Config{Network: network.TestnetV0}, diags)

	if !strings.Contains(out, "closure helper:") {
		t.Errorf("a plain function must emit as a `closure` stanza, got:\n%s", out)
	}
}

func TestRunEmitsDefaultConstructorWhenNoUpgrade(t *testing.T) {
	nb := ident.NewNodeBuilder()
	scope := &ast.ProgramScope{ProgramID: ident.Intern("foo.aleo")}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{scope}}
	st := symtab.New()
	diags := diag.NewHandler()

	out := Run(prog, st, ast.NewTypeTable(), nb, network.Config{Network: network.TestnetV0}, diags)

	if !strings.Contains(out, "constructor:\n    assert.eq edition 0u16;") {
		t.Errorf("a program with no declared upgrade variant must emit the edition-0 constructor, got:\n%s", out)
	}
}

func TestRunEmitsAdminConstructor(t *testing.T) {
	nb := ident.NewNodeBuilder()
	scope := &ast.ProgramScope{
		ProgramID: ident.Intern("foo.aleo"),
		Upgrade:   &ast.Constructor{Variant: ast.UpgradeAdmin, AdminAddress: "aleo1abc"},
	}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{scope}}
	st := symtab.New()
	diags := diag.NewHandler()

	out := Run(prog, st, ast.NewTypeTable(), nb, network.Config{Network: network.TestnetV0}, diags)

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Diagnostics())
	}
	if !strings.Contains(out, "assert.eq program_owner aleo1abc;") {
		t.Errorf("an admin upgrade constructor must assert against the declared address, got:\n%s", out)
	}
}

func TestRunRejectsChecksumConstructorOnCanary(t *testing.T) {
	nb := ident.NewNodeBuilder()
	scope := &ast.ProgramScope{
		ProgramID: ident.Intern("foo.aleo"),
		Upgrade: &ast.Constructor{
			Variant:         ast.UpgradeChecksum,
			ChecksumMapping: ident.Intern("checksums"),
			ChecksumKey:     &ast.Literal{Base: ast.Base{NodeID: nb.NextID()}, Kind: ast.LitInteger, Text: "0", Width: 16},
		},
	}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{scope}}
	st := symtab.New()
	diags := diag.NewHandler()

	Run(prog, st, ast.NewTypeTable(), nb, network.Config{Network: network.CanaryV0}, diags)

	if !diags.HasErrors() {
		t.Error("a checksum upgrade constructor must be rejected on the canary network")
	}
}

func TestRunEmitsCompositeAndMapping(t *testing.T) {
	nb := ident.NewNodeBuilder()
	structName := ident.Intern("Point")
	composite := &ast.Composite{Base: ast.Base{NodeID: nb.NextID()}, Name: structName, Kind: ast.CompositeStruct, Members: []ast.Member{
		{Name: ident.Intern("x"), Type: types.U32},
	}}
	mapping := &ast.Mapping{Base: ast.Base{NodeID: nb.NextID()}, Name: ident.Intern("balances"), Key: types.Address, Value: types.U64}
	scope := &ast.ProgramScope{ProgramID: ident.Intern("foo.aleo"), Composites: []*ast.Composite{composite}, Mappings: []*ast.Mapping{mapping}}
	prog := &ast.Program{Scopes: []*ast.ProgramScope{scope}}
	st := symtab.New()
	symbols.Run(prog, st, diag.NewHandler())
	diags := diag.NewHandler()

	out := Run(prog, st, ast.NewTypeTable(), nb, network.Config{Network: network.TestnetV0}, diags)

	if !strings.Contains(out, "struct Point:") {
		t.Errorf("expected a struct declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "mapping balances:") {
		t.Errorf("expected a mapping declaration, got:\n%s", out)
	}
}
