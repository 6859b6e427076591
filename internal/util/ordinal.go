// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package util holds small helpers shared across detectors and printers
// that don't belong to any one analysis package.
package util

import "fmt"

// NumberToOrdinal renders a 1-based position as an English ordinal, e.g.
// 1 -> "1st", 2 -> "2nd", 11 -> "11th", 21 -> "21st".
func NumberToOrdinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
		// teens always take "th" regardless of the last digit.
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
