// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

// Package diag implements the compiler's diagnostic model: structured,
// span-carrying errors that accumulate across a pass instead of aborting on
// the first failure.
package diag

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ProvableHQ/leo-sub003/ident"
)

// Category is the diagnostic code prefix, per spec.md §6.3/§7.
type Category string

// Known diagnostic categories.
const (
	Parse  Category = "PAR"
	Type   Category = "TYC"
	Const  Category = "CNS"
	Assign Category = "ASG"
	Flow   Category = "FLW"
	Codegen Category = "CMP"
	IO     Category = "IOE"
)

// Diagnostic is a single structured error: a code prefix, numeric kind, a
// primary span, and optional labels/help text.
type Diagnostic struct {
	Category Category
	Kind     int
	Message  string
	Span     ident.Span
	Labels   []string
	Help     string
}

// Code renders the diagnostic's stable error code, e.g. "TYC0003".
func (d *Diagnostic) Code() string {
	return fmt.Sprintf("%s%04d", d.Category, d.Kind)
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	msg := fmt.Sprintf("%s: %s at %s", d.Code(), d.Message, d.Span)
	for _, l := range d.Labels {
		msg += "\n  = " + l
	}
	if d.Help != "" {
		msg += "\n  help: " + d.Help
	}
	return msg
}

// New builds a Diagnostic.
func New(cat Category, kind int, span ident.Span, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Category: cat, Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}

// WithHelp attaches a help string and returns the same diagnostic, for
// fluent construction at call sites.
func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

// WithLabel appends a secondary label and returns the same diagnostic.
func (d *Diagnostic) WithLabel(label string) *Diagnostic {
	d.Labels = append(d.Labels, label)
	return d
}

// Handler accumulates diagnostics across a pass. It never aborts on its own;
// callers decide when accumulated errors should stop the pipeline (see
// Handler.HasErrors / spec.md §7 propagation policy).
type Handler struct {
	errs      error // *multierror.Error, built incrementally
	suppressed bool  // true once any diagnostic fired, used to cascade-suppress bounds errors
}

// NewHandler returns an empty diagnostic handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Emit records a diagnostic. It is always appended; suppression of
// secondary, noise-generating diagnostics (e.g. repeated array-bounds errors
// inside an unrolled loop body) is the emitting pass's responsibility via
// HasErrors, not the handler's.
func (h *Handler) Emit(d *Diagnostic) {
	h.errs = multierror.Append(h.errs, d)
	h.suppressed = true
}

// HasErrors reports whether any diagnostic has been recorded yet. Passes use
// this to decide whether to suppress further, likely-cascading diagnostics
// of the same kind (spec.md §7).
func (h *Handler) HasErrors() bool {
	return h.suppressed
}

// Diagnostics returns every diagnostic recorded so far, in emission order.
func (h *Handler) Diagnostics() []*Diagnostic {
	if h.errs == nil {
		return nil
	}
	me, ok := h.errs.(*multierror.Error)
	if !ok {
		return nil
	}
	out := make([]*Diagnostic, 0, len(me.Errors))
	for _, e := range me.Errors {
		if d, ok := e.(*Diagnostic); ok {
			out = append(out, d)
		}
	}
	return out
}

// Err returns a single error representing every accumulated diagnostic, or
// nil if none were recorded. Used at pipeline boundaries (spec.md §7,
// "the compiler emits one or more diagnostics and exits nonzero").
func (h *Handler) Err() error {
	if h.errs == nil {
		return nil
	}
	return h.errs
}

// Wrapf wraps err with additional context, mirroring the teacher's
// errwrap.Wrapf built on github.com/pkg/errors. If err is nil, nil is
// returned unchanged.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Append safely appends err onto reterr, mirroring the teacher's
// errwrap.Append built on github.com/hashicorp/go-multierror. Either side
// may be nil.
func Append(reterr, err error) error {
	if reterr == nil {
		return err
	}
	if err == nil {
		return reterr
	}
	return multierror.Append(reterr, err)
}
