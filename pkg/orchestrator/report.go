// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"encoding/json"

	"github.com/fujidao/fujideploy/pkg/constants"
	"github.com/fujidao/fujideploy/pkg/plan"
	"github.com/fujidao/fujideploy/pkg/statemachine"

	"github.com/ava-labs/libevm/common"
	"github.com/spf13/afero"
)

type StepReport struct {
	Index    int                    `json:"index"`
	ID       string                 `json:"id"`
	Kind     string                 `json:"kind"`
	Name     string                 `json:"name"`
	State    statemachine.StepState `json:"state"`
	Address  *common.Address        `json:"address,omitempty"`
	Reused   bool                   `json:"reused,omitempty"`
	TxHashes []common.Hash          `json:"txHashes,omitempty"`
	GasUsed  uint64                 `json:"gasUsed,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// Report is the outcome of one run. Steps that never ran stay pending.
type Report struct {
	Plan    string       `json:"plan"`
	Bundle  string       `json:"bundle"`
	Network string       `json:"network"`
	Steps   []StepReport `json:"steps"`

	// DeployTxs counts contract creations, WireTxs configuration calls
	DeployTxs int    `json:"deployTxs"`
	WireTxs   int    `json:"wireTxs"`
	Reused    int    `json:"reused"`
	GasUsed   uint64 `json:"gasUsed"`
	Error     string `json:"error,omitempty"`
}

func newReport(p *plan.Plan, network string) *Report {
	r := &Report{
		Plan:    p.Name,
		Bundle:  p.Bundle,
		Network: network,
		Steps:   make([]StepReport, 0, len(p.Steps)),
	}
	for i, step := range p.Steps {
		r.Steps = append(r.Steps, StepReport{
			Index: i,
			ID:    step.ID(),
			Kind:  step.Kind(),
			Name:  step.Name(),
			State: statemachine.Pending,
		})
	}
	return r
}

// Succeeded indicates every step is done
func (r *Report) Succeeded() bool {
	if r.Error != "" {
		return false
	}
	for _, s := range r.Steps {
		if s.State != statemachine.Done {
			return false
		}
	}
	return true
}

func (r *Report) WriteJSON(fs afero.Fs, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, data, constants.WriteReadReadPerms)
}
