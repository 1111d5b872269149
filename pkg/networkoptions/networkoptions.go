// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package networkoptions

import (
	"fmt"

	"github.com/fujidao/fujideploy/cmd/flags"
	"github.com/fujidao/fujideploy/pkg/clierrors"
	"github.com/fujidao/fujideploy/pkg/models"
	"github.com/fujidao/fujideploy/pkg/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type NetworkFlags struct {
	UseLocal   bool
	UseFuji    bool
	UseMainnet bool
	ChainID    uint64
}

func GetNetworkFlagsGroup(cmd *cobra.Command, networkFlags *NetworkFlags) flags.GroupedFlags {
	return flags.RegisterFlagGroup(cmd, "Network Flags (Select One)", "show-network-flags", true, func(set *pflag.FlagSet) {
		set.BoolVarP(&networkFlags.UseLocal, "local", "l", false, "operate on a local network")
		set.BoolVarP(&networkFlags.UseFuji, "testnet", "t", false, "operate on testnet (alias to `fuji`)")
		set.BoolVarP(&networkFlags.UseFuji, "fuji", "f", false, "operate on fuji (alias to `testnet`)")
		set.BoolVarP(&networkFlags.UseMainnet, "mainnet", "m", false, "operate on mainnet")
		set.Uint64Var(&networkFlags.ChainID, "chain-id", 0, "chain id expected from the rpc endpoint of a custom network")
	})
}

// GetNetworkFromCmdLineFlags picks the active network. A network flag wins
// over [configuredNetwork]. [configuredEndpoint], when set, replaces the
// default endpoint of the network and is required for custom networks.
func GetNetworkFromCmdLineFlags(
	networkFlags NetworkFlags,
	configuredNetwork string,
	configuredEndpoint string,
) (models.Network, error) {
	if err := flags.EnsureMutuallyExclusive(map[string]bool{
		"local":   networkFlags.UseLocal,
		"fuji":    networkFlags.UseFuji,
		"mainnet": networkFlags.UseMainnet,
	}); err != nil {
		return models.UndefinedNetwork, err
	}
	var network models.Network
	switch {
	case networkFlags.UseLocal:
		network = models.NewLocalNetwork()
	case networkFlags.UseFuji:
		network = models.NewFujiNetwork()
	case networkFlags.UseMainnet:
		network = models.NewMainnetNetwork()
	default:
		network = models.NetworkFromName(configuredNetwork)
	}
	if network.Kind == models.Undefined {
		return models.UndefinedNetwork, fmt.Errorf("%w: no network selected", clierrors.ErrUnsupportedNetwork)
	}
	if networkFlags.ChainID != 0 {
		if network.Kind != models.Custom && network.ChainID != networkFlags.ChainID {
			return models.UndefinedNetwork, fmt.Errorf("%w: chain id %d is not the chain id of %s",
				clierrors.ErrUnsupportedNetwork, networkFlags.ChainID, network)
		}
		network.ChainID = networkFlags.ChainID
	}
	if configuredEndpoint != "" {
		network.Endpoint = configuredEndpoint
	}
	if network.Endpoint == "" {
		return models.UndefinedNetwork, fmt.Errorf("%w: %s", clierrors.ErrMissingRPCEndpoint, network.Name)
	}
	if err := utils.ValidateURLFormat(network.Endpoint); err != nil {
		return models.UndefinedNetwork, fmt.Errorf("invalid rpc endpoint: %w", err)
	}
	return network, nil
}
