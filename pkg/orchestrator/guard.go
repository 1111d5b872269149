// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"context"
	"fmt"

	"github.com/fujidao/fujideploy/pkg/clierrors"
	"github.com/fujidao/fujideploy/pkg/evm"
	"github.com/fujidao/fujideploy/pkg/models"
)

// CheckNetwork refuses to run a plan meant for [expected] anywhere else.
// The active network name must match, and when the network has a known
// chain id the connected chain must report it.
func CheckNetwork(ctx context.Context, expected string, network models.Network, submitter evm.Submitter) error {
	if !network.Matches(expected) {
		return &clierrors.NetworkMismatchError{Expected: expected, Actual: network.Name}
	}
	if network.ChainID == 0 {
		return nil
	}
	chainID, err := submitter.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failure checking the chain id of %s: %w", network.Name, err)
	}
	if !chainID.IsUint64() || chainID.Uint64() != network.ChainID {
		return &clierrors.NetworkMismatchError{
			Expected: fmt.Sprintf("%s (chain id %d)", expected, network.ChainID),
			Actual:   fmt.Sprintf("chain id %s", chainID),
		}
	}
	return nil
}
