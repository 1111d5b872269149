// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package registrycmd

import (
	"github.com/fujidao/fujideploy/cmd/flags"
	"github.com/fujidao/fujideploy/pkg/application"
	"github.com/fujidao/fujideploy/pkg/cobrautils"
	"github.com/fujidao/fujideploy/pkg/constants"
	"github.com/fujidao/fujideploy/pkg/models"
	"github.com/fujidao/fujideploy/pkg/registry"

	"github.com/spf13/cobra"
)

var app *application.FujiDeploy

// fujideploy registry
func NewCmd(injectedApp *application.FujiDeploy) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and edit recorded deployments",
		Long: `The registry command suite reads and edits the addresses recorded for
each bundle on each network. A recorded address whose code is live is
reused by the next deploy instead of being deployed again.`,
		RunE: cobrautils.CommandSuiteUsage,
	}
	app = injectedApp
	cmd.PersistentFlags().String(constants.ConfigNetworkKey, "", "network the deployments were made on")
	cmd.PersistentFlags().String(constants.ConfigRegistryBackendKey, "", "registry backend, file or leveldb")
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newSetCmd())
	return cmd
}

func bindFlags(cmd *cobra.Command, _ []string) error {
	return flags.BindToConfig(cmd, constants.ConfigNetworkKey, constants.ConfigRegistryBackendKey)
}

// openRegistry opens the registry of the configured network and returns
// that network name
func openRegistry() (registry.Registry, string, error) {
	settings := app.Conf.Settings()
	network := models.NetworkFromName(settings.Network).Name
	reg, err := app.OpenRegistry(network, settings.RegistryBackend)
	return reg, network, err
}
