// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package plancmd

import (
	"fmt"
	"strings"

	"github.com/fujidao/fujideploy/pkg/cobrautils"
	"github.com/fujidao/fujideploy/pkg/plan"
	"github.com/fujidao/fujideploy/pkg/ux"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var printYAML bool

// fujideploy plan describe
func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe [plan]",
		Short: "Print the steps of a plan",
		Long: `Prints the steps of [plan], the name of a built-in plan or the path of a
YAML plan file, in execution order.`,
		RunE: describePlan,
		Args: cobrautils.ExactArgs(1),
	}
	cmd.Flags().BoolVar(&printYAML, "yaml", false, "print the plan as YAML instead of a table")
	return cmd
}

func describePlan(_ *cobra.Command, args []string) error {
	p, err := app.LoadPlan(args[0])
	if err != nil {
		return err
	}
	if printYAML {
		data, err := yaml.Marshal(p)
		if err != nil {
			return err
		}
		ux.Logger.PrintToUser("%s", string(data))
		return nil
	}
	ux.Logger.PrintToUser("%s", p)
	if p.Description != "" {
		ux.Logger.PrintToUser("%s", p.Description)
	}
	ux.Logger.PrintToUser("%s", StepsTable(p).Render())
	return nil
}

// StepsTable renders one row per step of [p]
func StepsTable(p *plan.Plan) table.Writer {
	t := ux.DefaultTable(fmt.Sprintf("plan %s", p.Name), table.Row{"#", "Kind", "Name", "Contract / Action", "Arguments"})
	for i, step := range p.Steps {
		switch {
		case step.Deploy != nil:
			t.AppendRow(table.Row{i + 1, step.Kind(), step.Name(), step.Deploy.ContractName(), plan.JoinValues(step.Deploy.Args)})
		case step.Wire != nil:
			calls := make([]string, 0, len(step.Wire.Calls))
			for _, call := range step.Wire.Calls {
				calls = append(calls, fmt.Sprintf("%s %s", call.Method, plan.JoinValues(call.Args)))
			}
			t.AppendRow(table.Row{i + 1, step.Kind(), step.Name(), step.Wire.Action, strings.Join(calls, "\n")})
		}
	}
	return t
}
