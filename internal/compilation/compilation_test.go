// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compilation

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSelectStandardDriverForFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "contract.cairo")
	if err := os.WriteFile(file, []byte("// empty"), 0644); err != nil {
		t.Fatal(err)
	}
	driver, err := Select(file)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if _, ok := driver.(StandardDriver); !ok {
		t.Errorf("Select(%s) returned %T, want StandardDriver", file, driver)
	}
}

func TestSelectScarbDriverForWorkspace(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Scarb.toml"), []byte("[package]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	driver, err := Select(dir)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if _, ok := driver.(ScarbDriver); !ok {
		t.Errorf("Select(%s) returned %T, want ScarbDriver", dir, driver)
	}
}

func TestSelectErrorsOnPlainDirectory(t *testing.T) {
	dir := t.TempDir()
	if _, err := Select(dir); err == nil {
		t.Error("expected an error for a directory with no Scarb.toml")
	}
}

func TestSelectErrorsOnMissingTarget(t *testing.T) {
	if _, err := Select(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Error("expected an error for a nonexistent target")
	}
}
