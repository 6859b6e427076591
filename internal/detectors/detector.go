// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package detectors defines the Detector contract and the process-wide
// catalogue of concrete checks, each a short walk over a core.CoreUnit's
// query surface.
package detectors

import "github.com/aclements/lirscan/internal/core"

// Impact is a finding's severity.
type Impact int

const (
	Informational Impact = iota
	Low
	Medium
	High
)

func (i Impact) String() string {
	switch i {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	default:
		return "Informational"
	}
}

// rank orders Impact from least to most severe for sorting; Informational
// sorts first, High last. The CLI prints findings in this ascending
// (impact, name, confidence, message) order.
func (i Impact) rank() int { return int(i) }

// Confidence is a detector's self-reported certainty in a finding.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceMedium:
		return "Medium"
	case ConfidenceHigh:
		return "High"
	default:
		return "Low"
	}
}

// Finding is one detector result.
type Finding struct {
	Name       string
	Impact     Impact
	Confidence Confidence
	Message    string
}

// Less orders findings deterministically by (impact, name, confidence,
// message), per spec.md §7.
func Less(a, b Finding) bool {
	if a.Impact.rank() != b.Impact.rank() {
		return a.Impact.rank() < b.Impact.rank()
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	if a.Confidence != b.Confidence {
		return a.Confidence < b.Confidence
	}
	return a.Message < b.Message
}

// Detector is one checker: a name, its default impact/confidence, and the
// walk that produces findings from an already-analyzed CoreUnit.
type Detector interface {
	Name() string
	Description() string
	Impact() Impact
	Confidence() Confidence
	Run(cu *core.CoreUnit) []Finding
}

var catalogue []Detector

func register(d Detector) { catalogue = append(catalogue, d) }

// All returns every registered detector, in registration order.
func All() []Detector {
	return append([]Detector(nil), catalogue...)
}

// ByName returns the detector with the given name, if any.
func ByName(name string) (Detector, bool) {
	for _, d := range catalogue {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}
