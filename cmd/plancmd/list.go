// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package plancmd

import (
	"github.com/fujidao/fujideploy/pkg/cobrautils"
	"github.com/fujidao/fujideploy/pkg/plan"
	"github.com/fujidao/fujideploy/pkg/ux"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// fujideploy plan list
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in plans",
		RunE:  listPlans,
		Args:  cobrautils.ExactArgs(0),
	}
}

func listPlans(*cobra.Command, []string) error {
	t := ux.DefaultTable("built-in plans", table.Row{"Name", "Bundle", "Network", "Deploys", "Wire Calls", "Description"})
	for _, name := range plan.BuiltinNames() {
		p, err := plan.Builtin(name)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{p.Name, p.Bundle, p.Network, p.DeployCount(), p.WireCallCount(), p.Description})
	}
	ux.Logger.PrintToUser("%s", t.Render())
	return nil
}
