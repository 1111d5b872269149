// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnsureMutuallyExclusive fails when more than one of [flags] (flag name to
// whether it is set) is set
func EnsureMutuallyExclusive(flags map[string]bool) error {
	set := []string{}
	for name, isSet := range flags {
		if isSet {
			set = append(set, "--"+name)
		}
	}
	if len(set) > 1 {
		slices.Sort(set)
		return fmt.Errorf("flags %s are mutually exclusive", strings.Join(set, ", "))
	}
	return nil
}

// BindToConfig makes each named flag of [cmd] the top layer of the config
// key of the same name, above environment and config file
func BindToConfig(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			return fmt.Errorf("no flag %q on command %s", name, cmd.Name())
		}
		if err := viper.BindPFlag(name, flag); err != nil {
			return err
		}
	}
	return nil
}
