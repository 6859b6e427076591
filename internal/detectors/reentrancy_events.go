// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"fmt"

	"github.com/aclements/lirscan/internal/core"
)

// reentrancyEvents flags an event emitted after an external call, which can
// put on-chain event ordering out of sync with the actual state changes if
// the call reenters. Grounded on reentrancy_events.rs.
type reentrancyEvents struct{}

func init() { register(reentrancyEvents{}) }

func (reentrancyEvents) Name() string { return "reentrancy-events" }
func (reentrancyEvents) Description() string {
	return "Detect when an event is emitted after an external call leading to out-of-order events"
}
func (reentrancyEvents) Confidence() Confidence { return ConfidenceMedium }
func (reentrancyEvents) Impact() Impact         { return Low }

func (d reentrancyEvents) Run(cu *core.CoreUnit) []Finding {
	var findings []Finding
	for _, unit := range cu.Units {
		for _, f := range unit.FunctionsUserDefined() {
			cfg := f.GetCFG()
			if cfg == nil {
				continue
			}
			for _, b := range cfg.Blocks {
				info := unit.ReentrancyAt(b.Ref()).Info()
				if info == nil {
					continue
				}
				for event := range info.Events {
					for call := range info.ExternalCalls {
						callBlock, ok := blockAt(unit, call)
						if !ok {
							continue
						}
						callInst, ok := callBlock.ExternalCall()
						if !ok {
							continue
						}
						if cu.IsSafeExternalCall(fmt.Sprint(callInst)) {
							continue
						}
						eventBlock, ok := blockAt(unit, event)
						if !ok {
							continue
						}
						eventInst, ok := eventBlock.EventEmit()
						if !ok {
							continue
						}
						findings = append(findings, Finding{
							Name:       d.Name(),
							Impact:     d.Impact(),
							Confidence: d.Confidence(),
							Message: fmt.Sprintf(
								"Reentrancy in %s\n\tExternal call %s done in %s\n\tEvent emitted after %s in %s.",
								f.Name, callInst, call.Function, eventInst, event.Function,
							),
						})
					}
				}
			}
		}
	}
	return findings
}
