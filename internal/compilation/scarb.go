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
	"strings"

	"github.com/kballard/go-shellquote"
)

// ScarbDriver compiles a Scarb workspace by shelling out to the scarb
// binary. Grounded on original_source/src/compilation/scarb.rs: "scarb
// clean" then "scarb build --workspace", then a scan of target/dev for
// compiled artifacts. ExtraArgs, if set, is a single shell-quoted string
// (e.g. "--features foo") that is split with shellquote and appended to
// the build invocation, the same way the teacher's go.mod already depends
// on it for subprocess argument quoting. cmd/lirscan does not set it.
type ScarbDriver struct {
	ExtraArgs string
}

func (d ScarbDriver) Compile(target, corelib string) ([]Artifact, error) {
	if out, err := exec.Command("scarb", "clean").CombinedOutput(); err != nil {
		log.Printf("scarb clean: %v: %s", err, out)
	}

	args := []string{"build", "--workspace"}
	if d.ExtraArgs != "" {
		extra, err := shellquote.Split(d.ExtraArgs)
		if err != nil {
			return nil, fmt.Errorf("parsing --scarb-args: %w", err)
		}
		args = append(args, extra...)
	}

	cmd := exec.Command("scarb", args...)
	cmd.Dir = target
	if corelib != "" {
		cmd.Env = append(os.Environ(), "CORELIB_PATH="+corelib)
	}
	log.Printf("running: scarb %s", shellquote.Join(args...))
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("scarb failed to compile: %w\n%s", err, out)
	}

	devDir := filepath.Join(target, "target", "dev")
	entries, err := os.ReadDir(devDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", devDir, err)
	}

	var artifacts []Artifact
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".sierra.json") || strings.HasSuffix(name, ".contract_class.json") {
			artifacts = append(artifacts, Artifact{
				Name:       strings.TrimSuffix(strings.TrimSuffix(name, ".json"), ".contract_class"),
				SierraPath: filepath.Join(devDir, name),
			})
		}
	}
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("no compiled sierra files found in %s; ensure Scarb.toml has [[target.starknet-contract]]\\nsierra = true", devDir)
	}
	return artifacts, nil
}
