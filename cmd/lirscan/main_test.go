// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"reflect"
	"testing"

	"github.com/aclements/lirscan/internal/detectors"
)

func TestStringListSet(t *testing.T) {
	var s stringList
	s.Set("a")
	s.Set("b")
	if got, want := []string(s), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("stringList = %v, want %v", got, want)
	}
	if got, want := s.String(), "a,b"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestContains(t *testing.T) {
	list := stringList{"foo", "bar"}
	if !contains(list, "foo") {
		t.Error("expected contains(list, \"foo\") to be true")
	}
	if contains(list, "baz") {
		t.Error("expected contains(list, \"baz\") to be false")
	}
}

func TestSortFindingsOrdersByImpactThenName(t *testing.T) {
	findings := []detectors.Finding{
		{Name: "z-detector", Impact: detectors.High, Message: "m1"},
		{Name: "a-detector", Impact: detectors.Low, Message: "m2"},
		{Name: "a-detector", Impact: detectors.High, Message: "m3"},
	}
	sortFindings(findings)
	if findings[0].Impact != detectors.Low {
		t.Errorf("first finding impact = %v, want Low", findings[0].Impact)
	}
	if findings[1].Name != "a-detector" || findings[1].Impact != detectors.High {
		t.Errorf("second finding = %+v, want a-detector/High", findings[1])
	}
	if findings[2].Name != "z-detector" {
		t.Errorf("third finding = %+v, want z-detector", findings[2])
	}
}
