// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cobrautils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/fujidao/fujideploy/pkg/clierrors"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "success", err: nil, code: 0},
		{name: "usage", err: NewUsageError(&cobra.Command{}, errors.New("bad flag")), code: ExitUsage},
		{name: "plan", err: clierrors.NewPlanError("step 1", "bad"), code: ExitPlan},
		{
			name: "network",
			err:  &clierrors.NetworkMismatchError{Expected: "fuji", Actual: "mainnet"},
			code: ExitNetwork,
		},
		{
			name: "deployment",
			err: &clierrors.StepError{Index: 0, ID: "deploy A", Err: &clierrors.DeploymentError{
				LogicalName: "A", Contract: "A", Cause: clierrors.ErrTxReverted,
			}},
			code: ExitChain,
		},
		{
			name: "wiring",
			err:  &clierrors.WiringError{Target: "A", Action: "setup", Cause: errors.New("reverted")},
			code: ExitChain,
		},
		{
			name: "storage",
			err:  &clierrors.StorageError{Op: "write", Bundle: "core", Cause: errors.New("read-only")},
			code: ExitStorage,
		},
		{name: "locked", err: fmt.Errorf("%w: core", clierrors.ErrBundleLocked), code: ExitStorage},
		{name: "other", err: context.Canceled, code: ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.code, ExitCode(tt.err))
		})
	}
}

func TestExactArgs(t *testing.T) {
	cmd := &cobra.Command{Use: "get"}
	cmd.SetOut(io.Discard)
	err := ExactArgs(2)(cmd, []string{"core"})
	var usageErr UsageError
	require.ErrorAs(t, err, &usageErr)
	require.NoError(t, ExactArgs(1)(cmd, []string{"core"}))
}
