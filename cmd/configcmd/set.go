// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package configcmd

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/fujidao/fujideploy/pkg/cobrautils"
	"github.com/fujidao/fujideploy/pkg/constants"
	"github.com/fujidao/fujideploy/pkg/utils"
	"github.com/fujidao/fujideploy/pkg/ux"

	"github.com/spf13/cobra"
)

var configKeys = []string{
	constants.ConfigNetworkKey,
	constants.ConfigRPCURLKey,
	constants.ConfigPrivateKeyKey,
	constants.ConfigArtifactsDirKey,
	constants.ConfigLiteralsFileKey,
	constants.ConfigRegistryBackendKey,
	constants.ConfigConfirmTimeoutKey,
}

// fujideploy config set
func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Store a configuration value",
		Long: fmt.Sprintf(`Stores [value] for [key] in the config file.
Known keys: %s.`, strings.Join(configKeys, ", ")),
		RunE: setConfig,
		Args: cobrautils.ExactArgs(2),
	}
}

func setConfig(_ *cobra.Command, args []string) error {
	key, value := strings.ToLower(args[0]), strings.TrimSpace(args[1])
	if err := validateConfigValue(key, value); err != nil {
		return err
	}
	if err := app.Conf.SetConfigValue(key, value); err != nil {
		return fmt.Errorf("failure writing config file %s: %w", app.GetConfigPath(), err)
	}
	ux.Logger.GreenCheckmarkToUser("%s set", key)
	return nil
}

func validateConfigValue(key string, value string) error {
	switch key {
	case constants.ConfigRPCURLKey:
		return utils.ValidateURLFormat(value)
	case constants.ConfigRegistryBackendKey:
		if value != constants.FileRegistryBackend && value != constants.LevelDBRegistryBackend {
			return fmt.Errorf("invalid registry backend %q, expected %s or %s", value,
				constants.FileRegistryBackend, constants.LevelDBRegistryBackend)
		}
	case constants.ConfigConfirmTimeoutKey:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid confirmation timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("confirmation timeout must be positive, got %s", d)
		}
	default:
		if !slices.Contains(configKeys, key) {
			return fmt.Errorf("unknown config key %q, expected one of %s", key, strings.Join(configKeys, ", "))
		}
	}
	return nil
}
