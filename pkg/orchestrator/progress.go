// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import "github.com/fujidao/fujideploy/pkg/plan"

// Progress is notified as steps run, the CLI uses it to drive spinners
type Progress interface {
	StepStarted(index int, step plan.Step)
	StepDone(index int, step plan.Step, report StepReport)
	StepFailed(index int, step plan.Step, err error)
}

type NoProgress struct{}

func (NoProgress) StepStarted(int, plan.Step) {}
func (NoProgress) StepDone(int, plan.Step, StepReport) {}
func (NoProgress) StepFailed(int, plan.Step, error) {}
