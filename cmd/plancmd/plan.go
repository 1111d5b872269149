// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package plancmd

import (
	"github.com/fujidao/fujideploy/pkg/application"
	"github.com/fujidao/fujideploy/pkg/cobrautils"

	"github.com/spf13/cobra"
)

var app *application.FujiDeploy

// fujideploy plan
func NewCmd(injectedApp *application.FujiDeploy) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Inspect deployment plans",
		Long: `The plan command suite lists the built-in plans and describes or
validates a plan, built-in or read from a YAML file, without sending any
transaction.`,
		RunE: cobrautils.CommandSuiteUsage,
	}
	app = injectedApp
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newDescribeCmd())
	cmd.AddCommand(newValidateCmd())
	return cmd
}
