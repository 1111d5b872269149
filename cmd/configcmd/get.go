// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package configcmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fujidao/fujideploy/pkg/cobrautils"
	"github.com/fujidao/fujideploy/pkg/constants"
	"github.com/fujidao/fujideploy/pkg/ux"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const redacted = "<redacted>"

// fujideploy config get
func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print a configuration value",
		RunE: func(_ *cobra.Command, args []string) error {
			key := strings.ToLower(args[0])
			if !slices.Contains(configKeys, key) {
				return fmt.Errorf("unknown config key %q, expected one of %s", key, strings.Join(configKeys, ", "))
			}
			ux.Logger.PrintToUser("%s", displayValue(key))
			return nil
		},
		Args: cobrautils.ExactArgs(1),
	}
}

// fujideploy config list
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every configuration value in effect",
		RunE: func(*cobra.Command, []string) error {
			t := ux.DefaultTable(fmt.Sprintf("config %s", app.GetConfigPath()), table.Row{"Key", "Value", "Set"})
			for _, key := range configKeys {
				t.AppendRow(table.Row{key, displayValue(key), app.Conf.ConfigValueIsSet(key)})
			}
			ux.Logger.PrintToUser("%s", t.Render())
			return nil
		},
		Args: cobrautils.ExactArgs(0),
	}
}

// displayValue never prints a private key
func displayValue(key string) string {
	value := app.Conf.GetConfigStringValue(key)
	if key == constants.ConfigPrivateKeyKey && value != "" {
		return redacted
	}
	return value
}
