// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cobrautils

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fujidao/fujideploy/pkg/clierrors"
	"github.com/fujidao/fujideploy/pkg/ux"

	"github.com/spf13/cobra"
)

// exit codes, one per failure class
const (
	ExitFailure = 1
	ExitUsage   = 2
	ExitPlan    = 3
	ExitNetwork = 4
	ExitChain   = 5
	ExitStorage = 6
)

type UsageError struct {
	cmd *cobra.Command
	err error
}

func (e UsageError) Error() string {
	return fmt.Sprintf("Usage error: %s", e.err)
}

func NewUsageError(cmd *cobra.Command, err error) UsageError {
	return UsageError{
		cmd: cmd,
		err: err,
	}
}

func ExactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := cobra.ExactArgs(n)(cmd, args)
		if err != nil {
			_ = cmd.Help()
			err = NewUsageError(cmd, err)
		}
		return err
	}
}

func MaximumNArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := cobra.MaximumNArgs(n)(cmd, args)
		if err != nil {
			_ = cmd.Help()
			err = NewUsageError(cmd, err)
		}
		return err
	}
}

func MinimumNArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := cobra.MinimumNArgs(n)(cmd, args)
		if err != nil {
			_ = cmd.Help()
			err = NewUsageError(cmd, err)
		}
		return err
	}
}

func RangeArgs(min int, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := cobra.RangeArgs(min, max)(cmd, args)
		if err != nil {
			_ = cmd.Help()
			err = NewUsageError(cmd, err)
		}
		return err
	}
}

// ExitCode maps an error returned by a command to the process exit code
func ExitCode(err error) int {
	var usageErr UsageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &usageErr):
		return ExitUsage
	case errors.Is(err, clierrors.ErrNetworkMismatch):
		return ExitNetwork
	case errors.Is(err, clierrors.ErrPlan):
		return ExitPlan
	case errors.Is(err, clierrors.ErrStorage), errors.Is(err, clierrors.ErrBundleLocked):
		return ExitStorage
	case errors.Is(err, clierrors.ErrDeployment), errors.Is(err, clierrors.ErrWiring):
		return ExitChain
	}
	return ExitFailure
}

// hint tells the user what state a failed run left behind
func hint(err error) string {
	switch {
	case errors.Is(err, clierrors.ErrPlan):
		return "No transaction was sent."
	case errors.Is(err, clierrors.ErrBundleLocked):
		return "Another run holds the bundle. Wait for it to finish."
	case errors.Is(err, clierrors.ErrDeployment), errors.Is(err, clierrors.ErrWiring),
		errors.Is(err, clierrors.ErrStorage):
		return "Steps before the failing one are recorded. Run the same plan again to resume."
	}
	return ""
}

func HandleErrors(err error) {
	if err != nil {
		usageErr, ok := err.(UsageError)
		if ok {
			usageErr.cmd.Println(usageErr.cmd.UsageString())
			usageErr.cmd.Println()
			usageErr.cmd.Println(usageErr)
		} else {
			ux.Logger.RedXToUser("Error: %s", err)
			if h := hint(err); h != "" {
				ux.Logger.PrintToUser("%s", h)
			}
		}
		os.Exit(ExitCode(err))
	}
}

func CommandSuiteUsage(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return NewUsageError(
			cmd,
			fmt.Errorf("invalid subcommand %q", strings.Join(args, " ")),
		)
	}
	err := cmd.Help()
	if err != nil {
		fmt.Println(err)
	}
	return nil
}

func ConfigureRootCmd(cmd *cobra.Command) {
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return NewUsageError(cmd, err)
	})
}
