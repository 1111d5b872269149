// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package registrycmd

import (
	"fmt"

	"github.com/fujidao/fujideploy/pkg/cobrautils"
	"github.com/fujidao/fujideploy/pkg/ux"

	"github.com/spf13/cobra"
)

// fujideploy registry get
func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get [bundle] [name]",
		Short:   "Print the address recorded for a contract",
		PreRunE: bindFlags,
		RunE:    getRecord,
		Args:    cobrautils.ExactArgs(2),
	}
}

func getRecord(_ *cobra.Command, args []string) error {
	reg, network, err := openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()
	bundle, name := args[0], args[1]
	address, ok, err := reg.Get(bundle, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no deployment of %s recorded for bundle %s on %s", name, bundle, network)
	}
	ux.Logger.PrintToUser("%s", address.Hex())
	return nil
}
