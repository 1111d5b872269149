// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/fujidao/fujideploy/pkg/constants"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// LastRun summarizes the latest run of a bundle on a network
type LastRun struct {
	Plan       string
	Bundle     string
	Network    string
	Finished   time.Time
	Succeeded  bool
	FailedStep string `json:",omitempty"`
	ReportPath string `json:",omitempty"`
}

func (app *FujiDeploy) lastRunPath(network string, bundle string) string {
	return filepath.Join(app.GetRegistryDir(network), bundle+constants.LastRunSuffix)
}

func (app *FujiDeploy) WriteLastRunFile(run *LastRun) {
	bLastRun, err := json.Marshal(run)
	if err != nil {
		app.Log.Warn("failed to marshal last run! This is non-critical but is logged", zap.Error(err))
		return
	}
	if err := app.Fs.MkdirAll(app.GetRegistryDir(run.Network), constants.DefaultPerms755); err != nil {
		app.Log.Warn("failed to create the registry dir! This is non-critical but is logged", zap.Error(err))
		return
	}
	if err := afero.WriteFile(
		app.Fs,
		app.lastRunPath(run.Network, run.Bundle),
		bLastRun,
		constants.WriteReadReadPerms); err != nil {
		app.Log.Warn("failed to create the last run file! This is non-critical but is logged", zap.Error(err))
	}
}

// ReadLastRunFile returns nil when the bundle never ran on [network]
func (app *FujiDeploy) ReadLastRunFile(network string, bundle string) (*LastRun, error) {
	var lastRun *LastRun
	fileBytes, err := afero.ReadFile(app.Fs, app.lastRunPath(network, bundle))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fileBytes, &lastRun); err != nil {
		app.Log.Warn("failed to unmarshal last run! This is non-critical but is logged", zap.Error(err))
		return nil, nil
	}
	return lastRun, nil
}
