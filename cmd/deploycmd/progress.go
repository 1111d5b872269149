// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploycmd

import (
	"fmt"
	"sync"

	"github.com/fujidao/fujideploy/pkg/orchestrator"
	"github.com/fujidao/fujideploy/pkg/plan"
	"github.com/fujidao/fujideploy/pkg/ux"

	"github.com/chelnak/ysmrr"
	progressbar "github.com/schollz/progressbar/v3"
)

const (
	spinnerProgressMode = "spinner"
	barProgressMode     = "bar"
	plainProgressMode   = "plain"
)

var progressModes = []string{spinnerProgressMode, barProgressMode, plainProgressMode}

// stepProgress renders the steps of a run. Finish is called once the run
// returned, successful or not.
type stepProgress interface {
	orchestrator.Progress
	Finish()
}

func newStepProgress(mode string, p *plan.Plan) (stepProgress, error) {
	switch mode {
	case spinnerProgressMode:
		return &spinnerProgress{
			spinner:  ux.NewUserSpinner(nil),
			spinners: map[int]*ysmrr.Spinner{},
		}, nil
	case barProgressMode:
		return &barProgress{bar: ux.StepProgressBar(nil, len(p.Steps), p.String())}, nil
	case plainProgressMode:
		return plainProgress{}, nil
	}
	return nil, fmt.Errorf("invalid progress mode %q, expected one of %v", mode, progressModes)
}

func stepSummary(step plan.Step, report orchestrator.StepReport) string {
	if step.Deploy != nil && report.Address != nil {
		if report.Reused {
			return fmt.Sprintf("%s reused at %s", step.Name(), report.Address.Hex())
		}
		return fmt.Sprintf("%s deployed at %s", step.Name(), report.Address.Hex())
	}
	if step.Wire == nil {
		return step.Name()
	}
	return fmt.Sprintf("%s: %s (%d calls)", step.Name(), step.Wire.Action, len(report.TxHashes))
}

type spinnerProgress struct {
	lock     sync.Mutex
	spinner  *ux.UserSpinner
	spinners map[int]*ysmrr.Spinner
}

func (s *spinnerProgress) StepStarted(index int, step plan.Step) {
	sp := s.spinner.SpinToUser("%s", plan.StepLabel(index, step))
	s.lock.Lock()
	s.spinners[index] = sp
	s.lock.Unlock()
}

func (s *spinnerProgress) get(index int) *ysmrr.Spinner {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.spinners[index]
}

func (s *spinnerProgress) StepDone(index int, step plan.Step, report orchestrator.StepReport) {
	if sp := s.get(index); sp != nil {
		sp.UpdateMessage(plan.StepLabel(index, step) + ": " + stepSummary(step, report))
		ux.SpinComplete(sp)
	}
}

func (s *spinnerProgress) StepFailed(index int, _ plan.Step, err error) {
	if sp := s.get(index); sp != nil {
		ux.SpinFailWithError(sp, "", err)
	}
}

func (s *spinnerProgress) Finish() {
	s.spinner.Stop()
}

type barProgress struct {
	bar *progressbar.ProgressBar
}

func (b *barProgress) StepStarted(index int, step plan.Step) {
	b.bar.Describe(plan.StepLabel(index, step))
}

func (b *barProgress) StepDone(int, plan.Step, orchestrator.StepReport) {
	_ = b.bar.Add(1)
}

func (b *barProgress) StepFailed(index int, step plan.Step, _ error) {
	b.bar.Describe(plan.StepLabel(index, step) + " failed")
}

func (b *barProgress) Finish() {
	_ = b.bar.Exit()
	ux.Logger.PrintToUser("")
}

type plainProgress struct{}

func (plainProgress) StepStarted(index int, step plan.Step) {
	ux.Logger.Info("starting %s", plan.StepLabel(index, step))
}

func (plainProgress) StepDone(index int, step plan.Step, report orchestrator.StepReport) {
	ux.Logger.GreenCheckmarkToUser("%s: %s", plan.StepLabel(index, step), stepSummary(step, report))
}

func (plainProgress) StepFailed(index int, step plan.Step, err error) {
	ux.Logger.RedXToUser("%s: %s", plan.StepLabel(index, step), err)
}

func (plainProgress) Finish() {}
