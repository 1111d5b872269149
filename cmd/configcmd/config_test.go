// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package configcmd

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/fujidao/fujideploy/internal/testutils"

	"github.com/spf13/cobra"
)

func execute(cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cmd.Execute()
}

func TestConfigSet(t *testing.T) {
	require := testutils.SetupTest(t)
	app := testutils.SetupTestInTempDir(t)
	cmd := NewCmd(app)

	require.NoError(execute(cmd, "set", "confirm-timeout", "45s"))
	require.Equal(45*time.Second, app.Conf.Settings().ConfirmTimeout)
	data, err := os.ReadFile(app.GetConfigPath())
	require.NoError(err)
	require.Contains(string(data), `"confirm-timeout": "45s"`)

	require.NoError(execute(cmd, "set", "Registry-Backend", "leveldb"))
	require.Equal("leveldb", app.Conf.Settings().RegistryBackend)

	require.ErrorContains(execute(cmd, "set", "registry-backend", "postgres"), "invalid registry backend")
	require.ErrorContains(execute(cmd, "set", "confirm-timeout", "-1s"), "must be positive")
	require.ErrorContains(execute(cmd, "set", "rpc-url", "localhost"), "invalid URI")
	require.ErrorContains(execute(cmd, "set", "gas-price", "1"), "unknown config key")
}

func TestConfigGet(t *testing.T) {
	require := testutils.SetupTest(t)
	app := testutils.SetupTestInTempDir(t)
	cmd := NewCmd(app)

	require.NoError(execute(cmd, "set", "private-key", "0x56289e99c94b6912bfc12adc093c9b51124f0dc54ac7a766b2bc5ccf558d8027"))
	require.Equal(redacted, displayValue("private-key"))
	require.NoError(execute(cmd, "get", "private-key"))
	require.NoError(execute(cmd, "list"))
	require.ErrorContains(execute(cmd, "get", "gas-price"), "unknown config key")
}
