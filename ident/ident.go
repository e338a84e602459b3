// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package ident holds the identity primitives shared by every compiler
// pass: interned symbols, monotonic node ids, source spans, and the
// program-qualified paths used to name top-level entities.
package ident

import (
	"fmt"
	"sync"
)

// Symbol is an interned, program-wide unique name. It is cheap to copy and
// compares by id, not by string content.
type Symbol struct {
	id int
}

// String returns the original text this symbol was interned from.
func (s Symbol) String() string {
	return internerInstance.lookup(s)
}

// IsZero reports whether this is the zero-value Symbol (never interned).
func (s Symbol) IsZero() bool {
	return s.id == 0
}

type interner struct {
	mu     sync.Mutex
	byText map[string]Symbol
	byID   []string
}

var internerInstance = newInterner()

func newInterner() *interner {
	// id 0 is reserved so the zero Symbol{} is recognizably invalid.
	return &interner{byText: make(map[string]Symbol), byID: []string{""}}
}

func (in *interner) intern(text string) Symbol {
	in.mu.Lock()
	defer in.mu.Unlock()
	if sym, ok := in.byText[text]; ok {
		return sym
	}
	sym := Symbol{id: len(in.byID)}
	in.byID = append(in.byID, text)
	in.byText[text] = sym
	return sym
}

func (in *interner) lookup(s Symbol) string {
	in.mu.Lock()
	defer in.mu.Unlock()
	if s.id <= 0 || s.id >= len(in.byID) {
		return ""
	}
	return in.byID[s.id]
}

// Intern returns the Symbol for text, minting one on first use.
func Intern(text string) Symbol {
	return internerInstance.intern(text)
}

// NodeID is a process-wide monotonically increasing id assigned to every AST
// node by a NodeBuilder. The symbol table and type table key off it.
type NodeID uint64

// NodeBuilder mints fresh, strictly increasing NodeIDs. It is owned by
// CompilerState, never a package-level global, so that multiple independent
// compilations in the same process do not collide.
type NodeBuilder struct {
	mu   sync.Mutex
	next NodeID
}

// NewNodeBuilder returns a builder whose first id is 1 (0 is reserved to mean
// "no node").
func NewNodeBuilder() *NodeBuilder {
	return &NodeBuilder{next: 1}
}

// NextID returns a fresh, never-before-returned NodeID.
func (b *NodeBuilder) NextID() NodeID {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	return id
}

// Span is a source-text range used for diagnostics. Synthesized nodes (those
// produced by a rewriting pass rather than parsed from source) carry the
// zero-value DummySpan.
type Span struct {
	Path        string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// DummySpan is used by every node minted by a rewriting pass; it carries no
// source position.
var DummySpan = Span{}

// IsDummy reports whether this span was synthesized rather than parsed.
func (s Span) IsDummy() bool {
	return s == DummySpan
}

func (s Span) String() string {
	if s.IsDummy() {
		return "<generated>"
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", s.Path, s.StartLine, s.StartColumn, s.EndLine, s.EndColumn)
}

// Path is an ordered sequence of symbols denoting a module-qualified name,
// e.g. `foo.leo/bar/Baz`.
type Path []Symbol

func (p Path) String() string {
	s := ""
	for i, sym := range p {
		if i > 0 {
			s += "/"
		}
		s += sym.String()
	}
	return s
}

// Location uniquely names a top-level entity: the program it belongs to, and
// its name within that program. Both fields are plain Symbols (not a Path)
// so Location stays comparable and can key the symbol table's maps directly.
type Location struct {
	Program Symbol
	Name    Symbol
}

// NewLocation builds a Location from a program symbol and an entity name,
// the standard way to name a struct, record, function or global declared
// directly in a program scope.
func NewLocation(program Symbol, name Symbol) Location {
	return Location{Program: program, Name: name}
}

func (l Location) String() string {
	return l.Program.String() + "/" + l.Name.String()
}

// Assigner mints unique per-compilation names for SSA renaming, e.g.
// turning `x` into `x$0`, `x$1`, ... It is owned by CompilerState.
type Assigner struct {
	mu      sync.Mutex
	counts  map[string]int
}

// NewAssigner returns an empty unique-name assigner.
func NewAssigner() *Assigner {
	return &Assigner{counts: make(map[string]int)}
}

// Fresh returns the next unique name derived from base, in the form
// `base$N`. The same base always continues its own counting sequence.
func (a *Assigner) Fresh(base string) Symbol {
	a.mu.Lock()
	n := a.counts[base]
	a.counts[base] = n + 1
	a.mu.Unlock()
	return Intern(fmt.Sprintf("%s$%d", base, n))
}
