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

// FunctionVariant tags which of Leo's callable forms a Function declares
// (spec.md §3.3).
type FunctionVariant int

// Every function variant.
const (
	VariantInline FunctionVariant = iota
	VariantFunction
	VariantAsyncFunction
	VariantTransition
	VariantAsyncTransition
	VariantScript
)

func (v FunctionVariant) String() string {
	switch v {
	case VariantInline:
		return "inline"
	case VariantFunction:
		return "function"
	case VariantAsyncFunction:
		return "async function"
	case VariantTransition:
		return "transition"
	case VariantAsyncTransition:
		return "async transition"
	case VariantScript:
		return "script"
	default:
		return "unknown variant"
	}
}

// Mode tags the visibility of a function parameter, return value, or
// record field: public, private, or constant.
type Mode int

// Known modes.
const (
	ModeNone Mode = iota // inherits the function's default
	ModePublic
	ModePrivate
	ModeConstant
)

// Param is one function parameter.
type Param struct {
	Name ident.Symbol
	Type *types.Type
	Mode Mode
}

// Function is any callable declaration: Inline, Function, AsyncFunction,
// Transition, AsyncTransition, or Script (spec.md §3.3).
type Function struct {
	Base
	Name    ident.Symbol
	Variant FunctionVariant
	Params  []Param
	Output  []*types.Type // tuple arity; single return is arity 1
	Modes   []Mode        // per-output mode, parallel to Output
	Body    *Block

	// Finalize names the AsyncFunction this AsyncTransition's finalize
	// block delegates to (VariantAsyncTransition only). AsyncFunction
	// values leave this at the zero Symbol.
	Finalize ident.Symbol
}

// Member is one field of a Composite, in declaration order.
type Member struct {
	Name ident.Symbol
	Type *types.Type
	Mode Mode // meaningful for Record fields only; Struct fields are always public
}

// CompositeKind distinguishes a plain struct from a record.
type CompositeKind int

// Known composite kinds.
const (
	CompositeStruct CompositeKind = iota
	CompositeRecord
)

// Composite is a struct or record declaration (spec.md §3.3, GLOSSARY). A
// Record's first Member must be named `owner` of type address; the type
// checker enforces this (spec.md §4.2).
type Composite struct {
	Base
	Name    ident.Symbol
	Kind    CompositeKind
	Members []Member
}

// Mapping is a persistent on-chain key/value store declared at program
// scope. Keys and values must be plaintext types; mappings may not contain
// records (spec.md §4.2).
type Mapping struct {
	Base
	Name  ident.Symbol
	Key   *types.Type
	Value *types.Type
}

// UpgradeVariant tags which shape of upgrade constructor a program
// declares (spec.md §4.8).
type UpgradeVariant int

// Known upgrade variants.
const (
	UpgradeNone UpgradeVariant = iota
	UpgradeAdmin
	UpgradeChecksum
	UpgradeCustom
)

// Constructor is the program's upgrade-authorization block, emitted by
// code generation according to its Variant (spec.md §4.8).
type Constructor struct {
	Base
	Variant UpgradeVariant

	// UpgradeAdmin only.
	AdminAddress string

	// UpgradeChecksum only.
	ChecksumMapping ident.Symbol
	ChecksumKey     Expr

	// UpgradeCustom only: the user-written block, lowered like any other
	// function body by the same pipeline.
	Custom *Block
}

// ProgramScope is one `program foo.aleo { ... }` block. spec.md §3.3 notes
// a Program is a *set* of ProgramScopes; every pass iterates over all of
// them, and nothing checks that a compiled Program has exactly one.
type ProgramScope struct {
	Base
	ProgramID  ident.Symbol
	Consts     []*ConstDecl
	Composites []*Composite
	Mappings   []*Mapping
	Functions  []*Function
	Upgrade    *Constructor // nil if the program declares no constructor
}

// Import is one program-to-program dependency edge, e.g. `import foo.aleo;`.
type Import struct {
	Program ident.Symbol
}

// Program is the root AST node: every program scope plus the imports each
// one declares, in source order.
type Program struct {
	Base
	Scopes  []*ProgramScope
	Imports map[ident.Symbol][]Import // keyed by importing program
}
