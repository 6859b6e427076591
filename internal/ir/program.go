// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// Builtins is the fixed set of reserved platform-supplied parameter/return
// type names threaded implicitly through every function (range-check, gas,
// the system pointer, etc). Parameter/return accessors filter these out of
// their user-visible views.
var Builtins = map[string]bool{
	"RangeCheck":   true,
	"Pedersen":     true,
	"Bitwise":      true,
	"EcOp":         true,
	"SegmentArena": true,
	"GasBuiltin":   true,
	"System":       true,
}

// Param is a declared function parameter: a name and a type name. Builtins
// are threaded through as ordinary params with a reserved type name.
type Param struct {
	Name string
	Type string
}

// FunctionEntry is one function record from a Program: its name, the
// statement index where it begins, and its declared signature.
type FunctionEntry struct {
	Name        string
	EntryPoint  int
	Params      []Param
	ReturnTypes []string
}

// Program is the parsed compiled artifact: a flat statement list shared by
// every function, sliced by each FunctionEntry's EntryPoint.
type Program struct {
	Statements []Statement
	Functions  []FunctionEntry
}

// Mutability is an ABI function's state mutability.
type Mutability int

const (
	MutabilityView Mutability = iota
	MutabilityExternal
)

// ABIFunction is one ABI-declared external-facing function.
type ABIFunction struct {
	Name       string
	Mutability Mutability
}

// ABI lists the contract's externally visible surface: view/external
// functions, constructors, L1 handlers, and events.
type ABI struct {
	Functions    []ABIFunction
	Constructors []string
	L1Handlers   []string
	Events       []string
}

// CompiledContract bundles one compiled contract's Program, ABI and libfunc
// registry — the unit core.NewCompilationUnit consumes.
type CompiledContract struct {
	Program  *Program
	ABI      *ABI
	Registry Registry
}
