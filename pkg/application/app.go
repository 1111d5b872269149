// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"path/filepath"

	"github.com/fujidao/fujideploy/pkg/artifacts"
	"github.com/fujidao/fujideploy/pkg/config"
	"github.com/fujidao/fujideploy/pkg/constants"
	"github.com/fujidao/fujideploy/pkg/plan"
	"github.com/fujidao/fujideploy/pkg/registry"
	"github.com/fujidao/fujideploy/pkg/utils"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/afero"
)

type FujiDeploy struct {
	Log     logging.Logger
	baseDir string
	Conf    *config.Config
	Fs      afero.Fs
}

func New() *FujiDeploy {
	return &FujiDeploy{}
}

func (app *FujiDeploy) Setup(baseDir string, log logging.Logger, conf *config.Config, fs afero.Fs) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
	app.Fs = fs
}

func (app *FujiDeploy) GetBaseDir() string {
	return app.baseDir
}

func (app *FujiDeploy) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

func (app *FujiDeploy) GetConfigPath() string {
	return filepath.Join(app.baseDir, constants.ConfigFileName)
}

func (app *FujiDeploy) GetDeploymentsDir() string {
	return filepath.Join(app.baseDir, constants.DeploymentsDir)
}

// GetRegistryDir is where the deployment records of [network] live
func (app *FujiDeploy) GetRegistryDir(network string) string {
	return registry.NetworkDir(app.baseDir, network)
}

func (app *FujiDeploy) GetReportPath(network string, bundle string) string {
	return filepath.Join(app.GetRegistryDir(network), bundle+constants.ReportSuffix)
}

func (app *FujiDeploy) OpenRegistry(network string, backend string) (registry.Registry, error) {
	return registry.Open(app.Log, app.Fs, app.baseDir, network, backend)
}

func (app *FujiDeploy) LoadPlan(nameOrPath string) (*plan.Plan, error) {
	return plan.Load(app.Fs, nameOrPath)
}

func (app *FujiDeploy) LoadLiterals(literalsPath string, bundle string) (plan.Literals, error) {
	return config.LoadLiterals(app.Log, app.Fs, literalsPath, bundle)
}

// NewArtifactStore reads compiled contracts from [dir], relative paths being
// taken from the working directory
func (app *FujiDeploy) NewArtifactStore(dir string) *artifacts.Store {
	return artifacts.NewStore(app.Fs, utils.ExpandHome(dir))
}
