// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"fmt"
	"strings"

	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/ir"
)

// unusedEvents flags ABI-declared events that no function ever emits.
// Grounded on unused_events.rs; the original recovers the emitted event's
// type name from the emit wrapper's second (non-builtin) formal parameter.
// This model doesn't carry per-call formal signatures, but the classifier
// already requires an event callee's own name to identify it as an event
// (it either matches an ABI event name or contains "::Event::"), so the
// callee name itself is used directly as the emitted event's identity.
type unusedEvents struct{}

func init() { register(unusedEvents{}) }

func (unusedEvents) Name() string        { return "unused-events" }
func (unusedEvents) Description() string { return "Detect events defined but not emitted" }
func (unusedEvents) Confidence() Confidence { return ConfidenceMedium }
func (unusedEvents) Impact() Impact       { return Medium }

func (d unusedEvents) Run(cu *core.CoreUnit) []Finding {
	var findings []Finding
	for _, unit := range cu.Units {
		events := map[string]bool{}
		for _, name := range unit.AllEventNames() {
			events[name] = true
		}

		for _, f := range unit.FunctionsUserDefined() {
			for _, inst := range f.EventsEmitted() {
				inv, ok := inst.AsInvocation()
				if !ok {
					continue
				}
				cl, ok := unit.Registry.Libfunc(inv.LibfuncID)
				if !ok || cl.Kind != ir.LibfuncFunctionCall {
					continue
				}
				delete(events, cl.CalleeName)
			}
		}

		for name := range events {
			idx := strings.LastIndex(name, "::")
			declaration, eventName := name, name
			if idx >= 0 {
				declaration, eventName = name[:idx], name[idx+2:]
			}
			findings = append(findings, Finding{
				Name:       d.Name(),
				Impact:     d.Impact(),
				Confidence: d.Confidence(),
				Message:    fmt.Sprintf("Event %s defined in %s is never emitted", eventName, declaration),
			})
		}
	}
	return findings
}
