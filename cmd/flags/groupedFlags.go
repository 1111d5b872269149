// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GroupedFlags is a section of the help output. Flags of a group that is
// not always visible are listed only when ShowFlag is on the command line.
type GroupedFlags struct {
	Name            string
	ShowFlag        string
	FlagSet         *pflag.FlagSet
	IsAlwaysVisible bool
}

// WithGroupedHelp returns a cobra-compatible help function that displays extra flag groups.
func WithGroupedHelp(groups []GroupedFlags) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, _ []string) {
		if err := cmd.Root().UsageFunc()(cmd); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error showing command usage: %v\n", err)
		}
		out := cmd.OutOrStdout()
		for _, group := range groups {
			if !group.IsAlwaysVisible && !slices.Contains(os.Args, group.ShowFlag) {
				fmt.Fprintf(out, "\n%s:\n  (hidden) Use %s to show these options\n", group.Name, group.ShowFlag)
				continue
			}
			fmt.Fprintf(out, "\n%s:\n", group.Name)
			group.FlagSet.VisitAll(func(flag *pflag.Flag) {
				name := "--" + flag.Name
				if flag.Shorthand != "" {
					name = fmt.Sprintf("-%s, --%s", flag.Shorthand, flag.Name)
				}
				fmt.Fprintf(out, "  %s", name)
				if flag.Value.Type() != "bool" {
					fmt.Fprintf(out, " %s", flag.Value.Type())
				}
				fmt.Fprintf(out, "\t%s\n", flag.Usage)
			})
		}
	}
}

// RegisterFlagGroup adds the flags [defineFlags] declares to [cmd], hidden
// from the regular usage so they are only printed in their group section
func RegisterFlagGroup(
	cmd *cobra.Command,
	groupName string,
	showFlag string,
	isAlwaysVisible bool,
	defineFlags func(set *pflag.FlagSet),
) GroupedFlags {
	show := false
	cmd.Flags().BoolVar(&show, showFlag, false, fmt.Sprintf("Show %s", groupName))
	cmd.Flags().Lookup(showFlag).Hidden = true

	flagSet := pflag.NewFlagSet(groupName, pflag.ContinueOnError)
	defineFlags(flagSet)
	cmd.Flags().AddFlagSet(flagSet)
	flagSet.VisitAll(func(f *pflag.Flag) {
		cmd.Flags().Lookup(f.Name).Hidden = true
	})

	return GroupedFlags{
		Name:            groupName,
		ShowFlag:        "--" + showFlag,
		FlagSet:         flagSet,
		IsAlwaysVisible: isAlwaysVisible,
	}
}
