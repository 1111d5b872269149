// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package registrycmd

import (
	"io"
	"testing"

	"github.com/fujidao/fujideploy/internal/testutils"
	"github.com/fujidao/fujideploy/pkg/constants"
	"github.com/fujidao/fujideploy/pkg/registry"

	"github.com/ava-labs/libevm/common"
	"github.com/spf13/cobra"
)

const vaultAddress = "0x5fbdb2315678afecb367f032d93f642f64180aa3"

func execute(cmd *cobra.Command, args ...string) error {
	contractName = ""
	listNames = ""
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cmd.Execute()
}

func TestRegistrySetGetList(t *testing.T) {
	require := testutils.SetupTest(t)
	app := testutils.SetupTestInTempDir(t)
	cmd := NewCmd(app)

	require.NoError(execute(cmd, "set", "core", "FujiVault", vaultAddress, "--network", "fuji", "--contract", "FujiVaultV2"))
	require.NoError(execute(cmd, "get", "core", "FujiVault", "--network", "fuji"))
	require.NoError(execute(cmd, "list", "core", "--network", "fuji"))

	reg, err := app.OpenRegistry("fuji", constants.FileRegistryBackend)
	require.NoError(err)
	defer reg.Close()
	record, ok, err := reg.GetRecord("core", "FujiVault")
	require.NoError(err)
	require.True(ok)
	require.Equal(common.HexToAddress(vaultAddress), record.Address)
	require.Equal("FujiVaultV2", record.Contract)
	require.False(record.UpdatedAt.IsZero())
}

func TestRegistrySetDefaultsContractToName(t *testing.T) {
	require := testutils.SetupTest(t)
	app := testutils.SetupTestInTempDir(t)
	cmd := NewCmd(app)

	require.NoError(execute(cmd, "set", "core", "Controller", vaultAddress, "--network", "fuji"))
	reg, err := app.OpenRegistry("fuji", constants.FileRegistryBackend)
	require.NoError(err)
	defer reg.Close()
	record, ok, err := reg.GetRecord("core", "Controller")
	require.NoError(err)
	require.True(ok)
	require.Equal("Controller", record.Contract)
}

func TestRegistryErrors(t *testing.T) {
	require := testutils.SetupTest(t)
	app := testutils.SetupTestInTempDir(t)
	cmd := NewCmd(app)

	require.ErrorContains(execute(cmd, "set", "core", "FujiVault", "0x1234", "--network", "fuji"), "invalid address")
	require.ErrorContains(execute(cmd, "get", "core", "FujiVault", "--network", "fuji"), "no deployment of FujiVault")
	require.NoError(execute(cmd, "list", "core", "--network", "fuji"))
	require.Error(execute(cmd, "get", "core", "--network", "fuji"))
}

func TestFilterRecords(t *testing.T) {
	require := testutils.SetupTest(t)
	records := func() []registry.Record {
		return []registry.Record{{Name: "Controller"}, {Name: "FujiAdmin"}, {Name: "FujiVault"}}
	}
	require.Len(filterRecords(records(), ""), 3)
	filtered := filterRecords(records(), "FujiVault, Controller")
	require.Len(filtered, 2)
	require.Equal("Controller", filtered[0].Name)
	require.Equal("FujiVault", filtered[1].Name)
	require.Empty(filterRecords(records(), "Swapper"))
}

func TestRegistryListNames(t *testing.T) {
	require := testutils.SetupTest(t)
	app := testutils.SetupTestInTempDir(t)
	cmd := NewCmd(app)

	require.NoError(execute(cmd, "set", "core", "FujiVault", vaultAddress, "--network", "fuji"))
	require.NoError(execute(cmd, "list", "core", "--network", "fuji", "--names", "FujiVault,Controller"))
}
