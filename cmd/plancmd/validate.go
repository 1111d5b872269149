// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package plancmd

import (
	"github.com/fujidao/fujideploy/pkg/cobrautils"
	"github.com/fujidao/fujideploy/pkg/ux"

	"github.com/spf13/cobra"
)

var (
	literalsFile string
	skipLiterals bool
)

// fujideploy plan validate
func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [plan]",
		Short: "Check a plan is well-ordered",
		Long: `Checks that every reference of [plan] names a contract deployed by an
earlier step and, unless --skip-literals is given, that every literal it
uses is defined by the default literals merged with --literals.`,
		RunE: validatePlan,
		Args: cobrautils.ExactArgs(1),
	}
	cmd.Flags().StringVar(&literalsFile, "literals", "", "YAML file merged over the default literals")
	cmd.Flags().BoolVar(&skipLiterals, "skip-literals", false, "only check the ordering of references")
	return cmd
}

func validatePlan(_ *cobra.Command, args []string) error {
	p, err := app.LoadPlan(args[0])
	if err != nil {
		return err
	}
	if skipLiterals {
		if err := p.Validate(nil); err != nil {
			return err
		}
	} else {
		path := literalsFile
		if path == "" {
			path = app.Conf.Settings().LiteralsFile
		}
		literals, err := app.LoadLiterals(path, p.Bundle)
		if err != nil {
			return err
		}
		if err := p.Validate(literals); err != nil {
			return err
		}
	}
	ux.Logger.GreenCheckmarkToUser("%s is valid: %d deploys, %d wire calls", p, p.DeployCount(), p.WireCallCount())
	return nil
}
