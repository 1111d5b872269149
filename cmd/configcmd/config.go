// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package configcmd

import (
	"github.com/fujidao/fujideploy/pkg/application"
	"github.com/fujidao/fujideploy/pkg/cobrautils"

	"github.com/spf13/cobra"
)

var app *application.FujiDeploy

// fujideploy config
func NewCmd(injectedApp *application.FujiDeploy) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Modify configuration for fujideploy",
		Long: `Customize the defaults fujideploy runs with. Values are stored in
config.json under the base dir. A FUJIDEPLOY_<KEY> environment variable
(dashes as underscores) overrides the stored value, and a command line flag
overrides both.`,
		RunE: cobrautils.CommandSuiteUsage,
	}
	app = injectedApp
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())
	return cmd
}
