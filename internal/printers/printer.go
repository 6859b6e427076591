// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package printers defines the Printer contract and the process-wide
// catalogue of rendering passes over a core.CoreUnit, mirroring the
// detectors package's catalogue pattern.
package printers

import (
	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/ir"
)

// Filter selects which functions a printer renders.
type Filter int

const (
	// All renders every function, including core-library wrappers.
	All Filter = iota
	// UserFunctions renders only user-defined functions.
	UserFunctions
)

func (f Filter) String() string {
	if f == UserFunctions {
		return "user-functions"
	}
	return "all"
}

// ParseFilter parses a --filter flag value.
func ParseFilter(s string) (Filter, bool) {
	switch s {
	case "all", "":
		return All, true
	case "user-functions":
		return UserFunctions, true
	default:
		return 0, false
	}
}

// Options configures a Printer.Run call.
type Options struct {
	Filter Filter
}

// Result is one piece of rendered output.
type Result struct {
	Name    string
	Message string
}

func (r Result) String() string { return r.Message }

// Printer is one rendering pass: a name, a description, and the walk that
// produces rendered output from an already-analyzed CoreUnit.
type Printer interface {
	Name() string
	Description() string
	Run(cu *core.CoreUnit, opts Options) []Result
}

var catalogue []Printer

func register(p Printer) { catalogue = append(catalogue, p) }

// AllPrinters returns every registered printer, in registration order.
func AllPrinters() []Printer {
	return append([]Printer(nil), catalogue...)
}

// ByName returns the printer with the given name, if any.
func ByName(name string) (Printer, bool) {
	for _, p := range catalogue {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// functionsFor returns unit's functions filtered per opts.Filter.
func functionsFor(unit *core.CompilationUnit, opts Options) []*ir.Function {
	if opts.Filter == UserFunctions {
		return unit.FunctionsUserDefined()
	}
	return unit.Functions()
}
