// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"testing"

	"github.com/fujidao/fujideploy/pkg/clierrors"
	"github.com/fujidao/fujideploy/pkg/deployer"
	"github.com/fujidao/fujideploy/pkg/plan"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/libevm/common"
	"github.com/stretchr/testify/require"
)

func TestResolveNamesFailingStep(t *testing.T) {
	require := require.New(t)
	p := &plan.Plan{
		Bundle:  "core",
		Network: "fuji",
		Steps: []plan.Step{
			plan.NewDeploy("A", "A"),
			plan.NewDeploy("B", "B", plan.Ref("C")),
		},
	}
	r := &run{
		Orchestrator: New(logging.NoLog{}, Config{}),
		plan:         p,
		handles: map[string]deployer.ContractHandle{
			"A": {LogicalName: "A", Address: common.HexToAddress("0x01")},
		},
	}

	_, err := r.resolve(1, p.Steps[1].Deploy.Args)
	require.ErrorIs(err, clierrors.ErrPlan)
	var planErr *clierrors.PlanError
	require.ErrorAs(err, &planErr)
	require.Equal(plan.StepLabel(1, p.Steps[1]), planErr.Step)
	require.Contains(err.Error(), "step 2 (deploy B)")
	require.Contains(err.Error(), `no handle produced for "C"`)

	args, err := r.resolve(1, []plan.Value{plan.Ref("A")})
	require.NoError(err)
	require.Equal([]any{common.HexToAddress("0x01")}, args)
}
