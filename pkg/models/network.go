// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import (
	"fmt"
	"strings"
)

type NetworkKind int64

const (
	Undefined NetworkKind = iota
	Mainnet
	Fuji
	Local
	Custom
)

const (
	MainnetChainID uint64 = 43114
	FujiChainID    uint64 = 43113
	LocalChainID   uint64 = 43112

	MainnetCChainEndpoint = "https://api.avax.network/ext/bc/C/rpc"
	FujiCChainEndpoint    = "https://api.avax-test.network/ext/bc/C/rpc"
	LocalCChainEndpoint   = "http://127.0.0.1:9650/ext/bc/C/rpc"
)

func (nk NetworkKind) String() string {
	switch nk {
	case Mainnet:
		return "Mainnet"
	case Fuji:
		return "Fuji"
	case Local:
		return "Local Network"
	case Custom:
		return "Custom Network"
	}
	return "invalid network"
}

// Network is the chain a plan runs against. Name is the identifier plans
// declare in their network guard.
type Network struct {
	Kind     NetworkKind
	Name     string
	ChainID  uint64
	Endpoint string
}

var UndefinedNetwork = Network{}

func NewMainnetNetwork() Network {
	return Network{Kind: Mainnet, Name: "mainnet", ChainID: MainnetChainID, Endpoint: MainnetCChainEndpoint}
}

func NewFujiNetwork() Network {
	return Network{Kind: Fuji, Name: "fuji", ChainID: FujiChainID, Endpoint: FujiCChainEndpoint}
}

func NewLocalNetwork() Network {
	return Network{Kind: Local, Name: "local", ChainID: LocalChainID, Endpoint: LocalCChainEndpoint}
}

// NewCustomNetwork describes a chain the tool has no built-in knowledge of.
// A zero chainID disables the chain ID half of the network guard.
func NewCustomNetwork(name string, chainID uint64, endpoint string) Network {
	return Network{Kind: Custom, Name: strings.ToLower(name), ChainID: chainID, Endpoint: endpoint}
}

// NetworkFromName maps a user supplied network name to a known network.
// Unknown names yield a custom network with no endpoint.
func NetworkFromName(name string) Network {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mainnet":
		return NewMainnetNetwork()
	case "fuji", "testnet":
		return NewFujiNetwork()
	case "local", "localnet":
		return NewLocalNetwork()
	case "":
		return UndefinedNetwork
	}
	return NewCustomNetwork(name, 0, "")
}

// Matches is the network guard: [expected] is the network a plan declares,
// aliases such as testnet included
func (n Network) Matches(expected string) bool {
	if n.Kind == Undefined {
		return false
	}
	return strings.EqualFold(n.Name, NetworkFromName(expected).Name)
}

func (n Network) String() string {
	if n.Kind == Undefined {
		return n.Kind.String()
	}
	if n.ChainID == 0 {
		return fmt.Sprintf("%s (%s)", n.Name, n.Kind)
	}
	return fmt.Sprintf("%s (%s, chain id %d)", n.Name, n.Kind, n.ChainID)
}
