// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package registrycmd

import (
	"fmt"
	"slices"

	"github.com/fujidao/fujideploy/pkg/cobrautils"
	"github.com/fujidao/fujideploy/pkg/registry"
	"github.com/fujidao/fujideploy/pkg/utils"
	"github.com/fujidao/fujideploy/pkg/ux"

	"github.com/ava-labs/libevm/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listNames string

// fujideploy registry list
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list [bundle]",
		Short:   "List the deployments recorded for a bundle",
		PreRunE: bindFlags,
		RunE:    listRecords,
		Args:    cobrautils.ExactArgs(1),
	}
	cmd.Flags().StringVar(&listNames, "names", "", "comma separated logical names to show, all when empty")
	return cmd
}

// filterRecords keeps the records named in the comma separated [names]
func filterRecords(records []registry.Record, names string) []registry.Record {
	if names == "" {
		return records
	}
	wanted := utils.SplitComaSeparatedString(names)
	return slices.DeleteFunc(records, func(record registry.Record) bool {
		return !slices.Contains(wanted, record.Name)
	})
}

func listRecords(_ *cobra.Command, args []string) error {
	reg, network, err := openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()
	bundle := args[0]
	records, err := reg.List(bundle)
	if err != nil {
		return err
	}
	records = filterRecords(records, listNames)
	if len(records) == 0 {
		ux.Logger.PrintToUser("No deployments recorded for bundle %s on %s", bundle, network)
		return nil
	}
	t := ux.DefaultTable(
		fmt.Sprintf("%s deployments on %s", bundle, network),
		table.Row{"Name", "Contract", "Address", "Tx", "Updated"},
	)
	for _, record := range records {
		tx := ""
		if record.TxHash != (common.Hash{}) {
			tx = record.TxHash.Hex()
		}
		t.AppendRow(table.Row{record.Name, record.Contract, record.Address.Hex(), tx, record.UpdatedAt.Format("2006-01-02 15:04:05")})
	}
	ux.Logger.PrintToUser("%s", t.Render())
	return nil
}
