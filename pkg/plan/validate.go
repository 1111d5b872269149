// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package plan

import (
	"fmt"
	"regexp"

	"github.com/fujidao/fujideploy/pkg/clierrors"
)

var logicalNameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func StepLabel(index int, step Step) string {
	return fmt.Sprintf("step %d (%s)", index+1, step.ID())
}

// Validate checks the plan is well-ordered: every reference used by step i
// names a logical name produced by a deploy step j < i. When [literals] is
// not nil every literal reference must also be present in it.
// Violations are reported as *clierrors.PlanError.
func (p *Plan) Validate(literals Literals) error {
	if p == nil {
		return clierrors.NewPlanError("", "plan is nil")
	}
	if p.Bundle == "" {
		return clierrors.NewPlanError("", "plan %q declares no bundle", p.Name)
	}
	if !logicalNameRegex.MatchString(p.Bundle) {
		return clierrors.NewPlanError("", "invalid bundle name %q", p.Bundle)
	}
	if p.Network == "" {
		return clierrors.NewPlanError("", "plan %q declares no expected network", p.Name)
	}
	if len(p.Steps) == 0 {
		return clierrors.NewPlanError("", "plan %q has no steps", p.Name)
	}
	produced := map[string]int{}
	for i, step := range p.Steps {
		label := StepLabel(i, step)
		if (step.Deploy == nil) == (step.Wire == nil) {
			return clierrors.NewPlanError(label, "a step must be exactly one of deploy or wire")
		}
		for _, ref := range step.HandleRefs() {
			if _, ok := produced[ref]; !ok {
				return clierrors.NewPlanError(label, "references %q which is not produced by any earlier step", ref)
			}
		}
		if literals != nil {
			for _, key := range step.LiteralKeys() {
				if _, ok := literals.Lookup(key); !ok {
					return clierrors.NewPlanError(label, "references unknown literal %q", key)
				}
			}
		}
		switch {
		case step.Deploy != nil:
			name := step.Deploy.LogicalName
			if !logicalNameRegex.MatchString(name) {
				return clierrors.NewPlanError(label, "invalid logical name %q", name)
			}
			if prev, ok := produced[name]; ok {
				return clierrors.NewPlanError(label, "logical name %q already produced by step %d", name, prev+1)
			}
			produced[name] = i
		case step.Wire != nil:
			if step.Wire.Action == "" {
				return clierrors.NewPlanError(label, "wire step has no action")
			}
			if len(step.Wire.Calls) == 0 {
				return clierrors.NewPlanError(label, "wire step has no calls")
			}
			for j, call := range step.Wire.Calls {
				if call.Method == "" {
					return clierrors.NewPlanError(label, "call %d has no method", j)
				}
			}
		}
	}
	return nil
}
