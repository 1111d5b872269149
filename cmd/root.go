// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/fujidao/fujideploy/cmd/configcmd"
	"github.com/fujidao/fujideploy/cmd/deploycmd"
	"github.com/fujidao/fujideploy/cmd/plancmd"
	"github.com/fujidao/fujideploy/cmd/registrycmd"
	"github.com/fujidao/fujideploy/pkg/application"
	"github.com/fujidao/fujideploy/pkg/cobrautils"
	"github.com/fujidao/fujideploy/pkg/config"
	"github.com/fujidao/fujideploy/pkg/constants"
	"github.com/fujidao/fujideploy/pkg/utils"
	"github.com/fujidao/fujideploy/pkg/ux"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	app *application.FujiDeploy

	baseDir  string
	logLevel string

	Version = ""
)

// NewRootCmd is the fujideploy command with every subcommand attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "fujideploy",
		Long: `fujideploy deploys the contracts of the Fuji protocol and wires them
together, running a declarative plan step by step against an EVM chain.

Addresses of deployed contracts are recorded per network and bundle, so a
failed run resumes where it stopped. To get started, look at the built-in
plans with fujideploy plan list, then run fujideploy deploy.`,
		PersistentPreRunE: setup,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", defaultBaseDir(), "directory holding logs, config and deployment records")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "ERROR", "log level for the application")

	app = application.New()
	rootCmd.AddCommand(deploycmd.NewCmd(app))
	rootCmd.AddCommand(plancmd.NewCmd(app))
	rootCmd.AddCommand(registrycmd.NewCmd(app))
	rootCmd.AddCommand(configcmd.NewCmd(app))

	cobrautils.ConfigureRootCmd(rootCmd)
	return rootCmd
}

func defaultBaseDir() string {
	usr, err := user.Current()
	if err != nil {
		// no logger here yet
		fmt.Printf("unable to get system user %s\n", err)
		return constants.BaseDirName
	}
	return filepath.Join(usr.HomeDir, constants.BaseDirName)
}

func setup(*cobra.Command, []string) error {
	baseDir = utils.ExpandHome(baseDir)
	// Create base dir if it doesn't exist
	if err := os.MkdirAll(baseDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed creating the basedir %s: %w", baseDir, err)
	}
	log, err := setupLogging()
	if err != nil {
		return err
	}
	conf := config.New()
	conf.SetConfig(log, filepath.Join(baseDir, constants.ConfigFileName))
	// create the user facing logger as a global var
	ux.NewUserLog(log, os.Stdout)
	app.Setup(baseDir, log, conf, afero.NewOsFs())
	return nil
}

func setupLogging() (logging.Logger, error) {
	var err error

	config := logging.Config{}
	config.LogLevel = logging.Info
	config.DisplayLevel, err = logging.ToLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level configured: %s", logLevel)
	}
	config.Directory = filepath.Join(baseDir, constants.LogDir)
	if err := os.MkdirAll(config.Directory, perms.ReadWriteExecute); err != nil {
		return nil, fmt.Errorf("failed creating log directory: %w", err)
	}

	// some logging config params
	config.LogFormat = logging.Colors
	config.MaxSize = constants.MaxLogFileSize
	config.MaxFiles = constants.MaxNumOfLogFiles
	config.MaxAge = constants.RetainOldFiles

	factory := logging.NewFactory(config)
	log, err := factory.Make(constants.LogNameMain)
	if err != nil {
		factory.Close()
		return nil, fmt.Errorf("failed setting up logging, exiting: %w", err)
	}
	return log, nil
}

// Execute runs the root command and exits with the status of its error.
// This is called by main.main().
func Execute() {
	cobrautils.HandleErrors(NewRootCmd().Execute())
}
