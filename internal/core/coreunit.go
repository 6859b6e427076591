// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aclements/lirscan/internal/ir"
)

// NamedContract pairs one compiled contract with the name CoreUnit will
// expose it under (e.g. the contract's declared name or source path).
type NamedContract struct {
	Name     string
	Contract *ir.CompiledContract
}

// CoreUnit runs analyze() for many compiled contracts data-parallel
// (one goroutine per contract; each CompilationUnit's own analyze() is
// single-threaded) and exposes the resulting units to detectors and
// printers. It also carries the user-supplied "safe" external-call name
// fragments some detectors use to suppress findings — opaque to the core
// itself.
type CoreUnit struct {
	Units             []*CompilationUnit
	SafeExternalCalls []string
}

// NewCoreUnit builds and analyzes one CompilationUnit per contract,
// fanning the analyze() calls out across a goroutine pool via errgroup.
// The first error any build hook returns is unused today (analyze()
// cannot itself fail) but the errgroup plumbing is kept so a future
// ingestion-time failure has somewhere to surface.
func NewCoreUnit(contracts []NamedContract, safeExternalCalls []string) (*CoreUnit, error) {
	units := make([]*CompilationUnit, len(contracts))
	g, _ := errgroup.WithContext(context.Background())
	for i, nc := range contracts {
		i, nc := i, nc
		g.Go(func() error {
			units[i] = NewCompilationUnit(nc.Name, nc.Contract)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &CoreUnit{Units: units, SafeExternalCalls: safeExternalCalls}, nil
}

// IsSafeExternalCall reports whether name contains any of the configured
// safe-external-call substrings.
func (c *CoreUnit) IsSafeExternalCall(name string) bool {
	for _, frag := range c.SafeExternalCalls {
		if frag != "" && strings.Contains(name, frag) {
			return true
		}
	}
	return false
}
