// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package registrycmd

import (
	"errors"
	"fmt"

	"github.com/fujidao/fujideploy/pkg/cobrautils"
	"github.com/fujidao/fujideploy/pkg/registry"
	"github.com/fujidao/fujideploy/pkg/ux"

	"github.com/ava-labs/libevm/common"
	"github.com/spf13/cobra"
)

var contractName string

// fujideploy registry set
func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set [bundle] [name] [address]",
		Short: "Record the address of a contract",
		Long: `Records [address] as the deployment of [name] in [bundle], replacing any
previous record. Use it to adopt a contract deployed by other means, or to
point a bundle at a replacement after a partial run.`,
		PreRunE: bindFlags,
		RunE:    setRecord,
		Args:    cobrautils.ExactArgs(3),
	}
	cmd.Flags().StringVar(&contractName, "contract", "", "artifact name of the contract, defaults to [name]")
	return cmd
}

func setRecord(_ *cobra.Command, args []string) (err error) {
	bundle, name, addressStr := args[0], args[1], args[2]
	if !common.IsHexAddress(addressStr) {
		return fmt.Errorf("invalid address %q", addressStr)
	}
	reg, network, err := openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()
	unlock, err := reg.Lock(bundle)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, unlock())
	}()
	contract := contractName
	if contract == "" {
		contract = name
	}
	if err := reg.PutRecord(bundle, registry.Record{
		Name:     name,
		Contract: contract,
		Address:  common.HexToAddress(addressStr),
	}); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("%s of bundle %s on %s recorded at %s", name, bundle, network, common.HexToAddress(addressStr).Hex())
	return nil
}
