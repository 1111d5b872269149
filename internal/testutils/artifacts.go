// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package testutils

import (
	"fmt"
	"path"

	"github.com/fujidao/fujideploy/pkg/artifacts"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const (
	ArtifactsDir = "/project/artifacts"

	// TestBytecode prefixes every test contract creation
	TestBytecode = "0x6080604052"

	NoArgsABI = `[{"type":"constructor","inputs":[],"stateMutability":"nonpayable"}]`

	// DependentABI takes an address at construction and can be rewired
	DependentABI = `[
		{"type":"constructor","inputs":[{"name":"dep","type":"address"}],"stateMutability":"nonpayable"},
		{"type":"function","name":"setDep","inputs":[{"name":"dep","type":"address"}],"outputs":[],"stateMutability":"nonpayable"}
	]`

	OracleABI = `[{"type":"constructor","inputs":[{"name":"assets","type":"address[]"},{"name":"priceFeeds","type":"address[]"}],"stateMutability":"nonpayable"}]`

	VaultABI = `[{"type":"constructor","inputs":[` +
		`{"name":"fujiadmin","type":"address"},{"name":"oracle","type":"address"},` +
		`{"name":"collateralAsset","type":"address"},{"name":"borrowAsset","type":"address"}` +
		`],"stateMutability":"nonpayable"}]`
)

// ArtifactJSON renders a hardhat artifact
func ArtifactJSON(name string, abiJSON string) []byte {
	return []byte(fmt.Sprintf(`{"contractName":%q,"abi":%s,"bytecode":%q}`, name, abiJSON, TestBytecode))
}

// TestingT is satisfied by *testing.T and ginkgo.GinkgoT()
type TestingT interface {
	require.TestingT
	Helper()
}

// NewArtifactStore writes one artifact per entry of [abis] (contract name
// to abi) in the hardhat layout and returns a store over them
func NewArtifactStore(t TestingT, abis map[string]string) *artifacts.Store {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, abiJSON := range abis {
		p := path.Join(ArtifactsDir, "contracts", name+".sol", name+".json")
		require.NoError(t, afero.WriteFile(fs, p, ArtifactJSON(name, abiJSON), 0o644))
	}
	return artifacts.NewStore(fs, ArtifactsDir)
}
